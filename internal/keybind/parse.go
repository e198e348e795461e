// Package keybind turns the bindings file into a lookup table of key combination -> command.
//
// Grammar, line oriented:
//
//	Ctrl+Alt+t
//	    alacritty
//	XF86AudioRaiseVolume
//	    amixer set Master 5%+
//
// A non-indented line is a key combination, the next indented (space or tab) line is its command.
// Rejected lines are reported and skipped, they never abort parsing.
// When a combination is defined again, the last definition wins.
package keybind

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/hotkeyd/internal/key"
	"github.com/temoto/hotkeyd/internal/launch"
	"github.com/temoto/hotkeyd/log2"
)

const maxLineLength = 1 << 20

type Binding struct {
	Combination key.Combination
	Command     launch.Command
	Line        int
}

func (b Binding) String() string {
	return fmt.Sprintf("%s -> %s", b.Combination, b.Command)
}

// LineError is a recoverable diagnostic about one line.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d '%s': %v", e.Line, e.Text, e.Err)
}

// IsRejected is false for a binding that replaced an earlier one, that line is still in effect.
func (e *LineError) IsRejected() bool { return !errors.IsAlreadyExists(e.Err) }

// Rejected filters diagnostics down to lines that were dropped.
func Rejected(diags []error) []error {
	result := make([]error, 0, len(diags))
	for _, d := range diags {
		if le, ok := d.(*LineError); ok && !le.IsRejected() {
			continue
		}
		result = append(result, d)
	}
	return result
}

type parseState uint8

const (
	stateIdle parseState = iota
	statePending
	stateSkip
	stateDone
)

type parser struct {
	state    parseState
	pending  Binding
	text     string
	bindings []Binding
	index    map[key.Combination]int
	diags    []error
}

func (p *parser) diag(line int, text string, err error) {
	p.diags = append(p.diags, &LineError{Line: line, Text: text, Err: err})
}

func (p *parser) add(b Binding) {
	if i, ok := p.index[b.Combination]; ok {
		prev := p.bindings[i]
		p.diag(b.Line, b.Combination.String(),
			errors.NewAlreadyExists(nil, fmt.Sprintf("replaces combination from line %d", prev.Line)))
		p.bindings[i] = b
		return
	}
	p.index[b.Combination] = len(p.bindings)
	p.bindings = append(p.bindings, b)
}

func (p *parser) line(n int, line string) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return
	}

	if line[0] == ' ' || line[0] == '\t' {
		text := strings.TrimSpace(line)
		if text == "" {
			return
		}
		switch p.state {
		case statePending:
			cmd, err := launch.ParseCommand(text)
			if err != nil {
				p.diag(n, text, err)
				p.state = stateSkip
				return
			}
			p.pending.Command = cmd
			p.add(p.pending)
			p.state = stateDone
		case stateSkip:
		case stateDone:
			p.diag(n, text, errors.NotSupportedf("more than one command line"))
		case stateIdle:
			p.diag(n, text, errors.NotValidf("command without key combination"))
		}
		return
	}

	p.flushPending()
	text := strings.TrimSpace(line)
	c, err := ParseCombination(text)
	if err != nil {
		p.diag(n, text, err)
		p.state = stateSkip
		return
	}
	p.pending = Binding{Combination: c, Line: n}
	p.text = text
	p.state = statePending
}

func (p *parser) flushPending() {
	if p.state == statePending {
		p.diag(p.pending.Line, p.text, errors.NotValidf("key combination without command"))
	}
	p.state = stateIdle
}

// Parse returns valid bindings in file order and per line diagnostics.
// Only read error is returned as err.
func Parse(r io.Reader) ([]Binding, []error, error) {
	p := &parser{index: make(map[key.Combination]int)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)
	n := 0
	for scanner.Scan() {
		n++
		p.line(n, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Annotatef(err, "bindings read line=%d", n+1)
	}
	p.flushPending()
	return p.bindings, p.diags, nil
}

// ReadFile parses path, logs every diagnostic and builds the shared table.
func ReadFile(log *log2.Log, path string) (*Table, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Annotatef(err, "bindings file=%s", path)
	}
	defer f.Close()
	bindings, diags, err := Parse(f)
	if err != nil {
		return nil, nil, errors.Annotatef(err, "bindings file=%s", path)
	}
	rejected := 0
	for _, d := range diags {
		if le, ok := d.(*LineError); ok && !le.IsRejected() {
			log.Infof("bindings file=%s %v", path, d)
			continue
		}
		rejected++
		log.Errorf("bindings file=%s %v", path, d)
	}
	log.Infof("bindings file=%s loaded=%d rejected=%d", path, len(bindings), rejected)
	return NewTable(bindings), diags, nil
}
