package input

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/juju/errors"
)

const (
	DefaultRegistry = "/proc/bus/input/devices"
	DefaultDevDir   = "/dev/input"
	DefaultByIdDir  = "/dev/input/by-id"

	// EV capability bitmask of a full keyboard: SYN, KEY, MSC, LED, REP.
	KeyboardEV = "120013"

	StrategyHandlers = "handlers"
	StrategyById     = "by-id"
)

const (
	registryName     = "N: Name="
	registryHandlers = "H: Handlers="
	registryEV       = "B: EV="
	byIdSuffix       = "-event-kbd"
)

// Device is one block of the input device registry, e.g.
//
//	I: Bus=0003 Vendor=046d Product=c33a Version=0111
//	N: Name="Logitech G413 Carbon Mechanical Gaming Keyboard"
//	H: Handlers=sysrq kbd event2 leds
//	B: EV=120013
type Device struct {
	Name     string
	Handlers []string // only event* handlers
	EV       string
}

func (d *Device) IsKeyboard() bool { return d.EV == KeyboardEV }

// Handle is an event device file path to open.
type Handle struct {
	Name string
	Path string
}

func ParseRegistry(r io.Reader) ([]Device, error) {
	var result []Device
	var cur *Device
	flush := func() {
		if cur != nil {
			result = append(result, *cur)
			cur = nil
		}
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if cur == nil {
			cur = &Device{}
		}
		switch {
		case strings.HasPrefix(line, registryName):
			cur.Name = strings.Trim(line[len(registryName):], "\"")
		case strings.HasPrefix(line, registryHandlers):
			for _, h := range strings.Fields(line[len(registryHandlers):]) {
				if strings.HasPrefix(h, "event") {
					cur.Handlers = append(cur.Handlers, h)
				}
			}
		case strings.HasPrefix(line, registryEV):
			cur.EV = strings.TrimSpace(line[len(registryEV):])
		}
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, errors.Annotate(err, "input registry")
	}
	return result, nil
}

type Discovery struct {
	Registry string
	DevDir   string
	ByIdDir  string
	Strategy string
}

// Discover lists event files of every keyboard in the registry.
// Registry read failure is fatal for the caller.
func (d Discovery) Discover() ([]Handle, error) {
	f, err := os.Open(d.Registry)
	if err != nil {
		return nil, errors.Annotatef(err, "input registry=%s", d.Registry)
	}
	defer f.Close()
	devices, err := ParseRegistry(f)
	if err != nil {
		return nil, errors.Annotatef(err, "input registry=%s", d.Registry)
	}

	var byId []string
	if d.Strategy == StrategyById {
		entries, err := os.ReadDir(d.ByIdDir)
		if err != nil {
			return nil, errors.Annotatef(err, "input by-id dir=%s", d.ByIdDir)
		}
		for _, e := range entries {
			byId = append(byId, e.Name())
		}
	}
	return d.resolve(devices, byId)
}

func (d Discovery) resolve(devices []Device, byId []string) ([]Handle, error) {
	seen := make(map[string]struct{})
	result := make([]Handle, 0, len(devices))
	add := func(name, path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		result = append(result, Handle{Name: name, Path: path})
	}
	for i := range devices {
		dev := &devices[i]
		if !dev.IsKeyboard() {
			continue
		}
		switch d.Strategy {
		case StrategyHandlers, "":
			for _, h := range dev.Handlers {
				add(dev.Name, filepath.Join(d.DevDir, h))
			}
		case StrategyById:
			needle := strings.ReplaceAll(dev.Name, " ", "_")
			matches := make([]string, 0, 1)
			for _, link := range byId {
				if strings.HasSuffix(link, byIdSuffix) && strings.Contains(link, needle) {
					matches = append(matches, link)
				}
			}
			sort.Strings(matches)
			for _, link := range matches {
				add(dev.Name, filepath.Join(d.ByIdDir, link))
			}
		default:
			return nil, errors.NotValidf("input strategy=%s", d.Strategy)
		}
	}
	return result, nil
}
