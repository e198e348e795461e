// hotkeyd-check validates a bindings file and probes key combinations against it.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/temoto/hotkeyd/helpers/cli"
	"github.com/temoto/hotkeyd/internal/keybind"
	"github.com/temoto/hotkeyd/log2"
)

const usage = `usage: %s [-probe] bindings-file

Prints canonical bindings and rejected lines. Exit status 1 if any line was rejected.
With -probe, reads key combinations (e.g. Shift+Ctrl+K) and shows the bound command.
`

var log = log2.NewStderr(log2.LError)

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagProbe := cmdline.Bool("probe", false, "look up combinations read from input")
	flagVerbose := cmdline.Bool("v", false, "verbose logging")
	cmdline.Usage = func() { fmt.Fprintf(cmdline.Output(), usage, os.Args[0]); cmdline.PrintDefaults() }
	_ = cmdline.Parse(os.Args[1:])
	if cmdline.NArg() != 1 {
		cmdline.Usage()
		os.Exit(2)
	}
	log.SetFlags(0)
	if *flagVerbose {
		log.SetLevel(log2.LDebug)
	}

	table, diags, err := keybind.ReadFile(log, cmdline.Arg(0))
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	printTable(os.Stdout, table)

	if *flagProbe {
		exec := func(line string) { fmt.Println(probe(table, line)) }
		if err := cli.MainLoop("hotkeyd-check", exec, newCompleter(table)); err != nil {
			log.Fatal(errors.ErrorStack(err))
		}
	}
	os.Exit(exitCode(diags))
}

// exitCode is 1 when a line was dropped. Replaced duplicates are valid.
func exitCode(diags []error) int {
	if len(keybind.Rejected(diags)) != 0 {
		return 1
	}
	return 0
}

func printTable(w io.Writer, table *keybind.Table) {
	for _, b := range table.Bindings() {
		fmt.Fprintf(w, "%d: %s\n", b.Line, b)
	}
}

func probe(table *keybind.Table, line string) string {
	c, err := keybind.ParseCombination(line)
	if err != nil {
		return fmt.Sprintf("%s: %v", line, err)
	}
	if cmd, ok := table.Lookup(c); ok {
		return fmt.Sprintf("%s -> %s", c, cmd)
	}
	return fmt.Sprintf("%s: not bound", c)
}

func newCompleter(table *keybind.Table) func(d prompt.Document) []prompt.Suggest {
	bs := table.Bindings()
	suggests := make([]prompt.Suggest, 0, len(bs))
	for _, b := range bs {
		suggests = append(suggests, prompt.Suggest{Text: b.Combination.String(), Description: b.Command.String()})
	}
	return func(d prompt.Document) []prompt.Suggest {
		word := d.GetWordBeforeCursor()
		if strings.TrimSpace(word) == "" {
			return nil
		}
		return prompt.FilterHasPrefix(suggests, word, true)
	}
}
