package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/hotkeyd/internal/keybind"
	"github.com/temoto/hotkeyd/log2"
)

func testTable(t *testing.T) *keybind.Table {
	bs, _, err := keybind.Parse(strings.NewReader("Ctrl+Shift+k\n  kill-window\nXF86AudioMute\n  amixer set Master toggle\n"))
	require.NoError(t, err)
	return keybind.NewTable(bs)
}

func TestProbe(t *testing.T) {
	t.Parallel()
	table := testTable(t)
	cases := []struct{ input, expect string }{
		{"Shift+Ctrl+k", "Ctrl+Shift+k -> kill-window"},
		{"Ctrl+K", "Ctrl+Shift+k -> kill-window"},
		{"XF86AudioMute", "XF86AudioMute -> amixer set Master toggle"},
		{"Ctrl+j", "Ctrl+j: not bound"},
		{"Super+a+b", "Super+a+b: more than one action key: a, b not valid"},
	}
	for _, c := range cases {
		assert.Equal(t, c.expect, probe(table, c.input))
	}
}

func TestPrintTable(t *testing.T) {
	t.Parallel()
	buf := bytes.NewBuffer(nil)
	printTable(buf, testTable(t))
	assert.Equal(t, "1: Ctrl+Shift+k -> kill-window\n3: XF86AudioMute -> amixer set Master toggle\n", buf.String())
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		bindings string
		expect   int
	}{
		{"clean", "Ctrl+a\n  one\n", 0},
		{"duplicate-replaced", "Ctrl+a\n  one\nCtrl+a\n  two\n", 0},
		{"rejected", "Ctrl+a\n  one\nhyper+a\n  two\n", 1},
		{"missing-command", "Ctrl+a\n", 1},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bindings")
			require.NoError(t, os.WriteFile(path, []byte(c.bindings), 0600))
			_, diags, err := keybind.ReadFile(log2.NewTest(t, log2.LDebug), path)
			require.NoError(t, err)
			assert.Equal(t, c.expect, exitCode(diags))
		})
	}
}
