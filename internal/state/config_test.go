package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/hotkeyd/hardware/input"
	"github.com/temoto/hotkeyd/log2"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()
	type Case struct {
		name      string
		sources   map[string]string
		check     func(testing.TB, *Config)
		expectErr string
	}
	cases := []Case{
		{"empty", map[string]string{"hotkeyd.hcl": ""},
			func(t testing.TB, c *Config) {
				assert.Equal(t, input.DefaultRegistry, c.Input.Registry)
				assert.Equal(t, input.DefaultDevDir, c.Input.DevDir)
				assert.Equal(t, input.StrategyHandlers, c.Input.Strategy)
				assert.Equal(t, input.NativeCodec, c.Codec())
				assert.Equal(t, log2.LInfo, c.LogLevel())
				assert.True(t, *c.Launch.InheritOutput)
			}, ""},
		{"full",
			map[string]string{"hotkeyd.hcl": `
log { level = "debug" }
input {
  registry = "/tmp/devices"
  strategy = "by-id"
  by_id_dir = "/tmp/by-id"
  devices = ["/dev/input/event7"]
  word_size = 4
}
launch { inherit_output = false }
`},
			func(t testing.TB, c *Config) {
				assert.Equal(t, log2.LDebug, c.LogLevel())
				assert.Equal(t, "/tmp/devices", c.Input.Registry)
				assert.Equal(t, input.StrategyById, c.Input.Strategy)
				assert.Equal(t, input.Discovery{Registry: "/tmp/devices", DevDir: input.DefaultDevDir, ByIdDir: "/tmp/by-id", Strategy: input.StrategyById}, c.Discovery())
				assert.Equal(t, input.Codec{WordSize: 4}, c.Codec())
				assert.False(t, *c.Launch.InheritOutput)
				hs, err := c.Devices()
				require.NoError(t, err)
				assert.Equal(t, []input.Handle{{Name: "event7", Path: "/dev/input/event7"}}, hs)
			}, ""},
		{"include",
			map[string]string{
				"hotkeyd.hcl": "include \"local.hcl\" {}\ninclude \"absent.hcl\" { optional = true }\n",
				"local.hcl":   `log { level = "error" }`,
			},
			func(t testing.TB, c *Config) { assert.Equal(t, log2.LError, c.LogLevel()) }, ""},
		{"include-required-missing",
			map[string]string{"hotkeyd.hcl": `include "absent.hcl" {}`},
			nil, "config required name=absent.hcl"},
		{"include-loop",
			map[string]string{"hotkeyd.hcl": `include "a.hcl" {}`, "a.hcl": `include "hotkeyd.hcl" {}`},
			nil, "config include loop"},
		{"bad-strategy", map[string]string{"hotkeyd.hcl": `input { strategy = "udev" }`}, nil, "input.strategy=udev"},
		{"bad-word-size", map[string]string{"hotkeyd.hcl": `input { word_size = 2 }`}, nil, "word_size"},
		{"bad-level", map[string]string{"hotkeyd.hcl": `log { level = "loud" }`}, nil, "log.level"},
		{"syntax", map[string]string{"hotkeyd.hcl": `input {`}, nil, "config unmarshal source=hotkeyd.hcl"},
		{"missing", map[string]string{}, nil, "config required name=hotkeyd.hcl"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			log := log2.NewTest(t, log2.LDebug)
			cfg, err := ReadConfig(log, NewMockFullReader(c.sources), "hotkeyd.hcl")
			if c.expectErr == "" {
				require.NoError(t, err)
				c.check(t, cfg)
			} else {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), c.expectErr), "error expected='%s' actual='%v'", c.expectErr, err)
			}
		})
	}
}

func TestReadConfigOs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(`include "extra.hcl" {}`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.hcl"), []byte(`input { dev_dir = "/srv/input" }`), 0600))

	cfg, err := ReadConfig(log2.NewTest(t, log2.LDebug), NewOsFullReader(), filepath.Join(dir, "main.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "/srv/input", cfg.Input.DevDir)
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	c := Defaults()
	assert.NoError(t, c.Validate())
	assert.Equal(t, input.StrategyHandlers, c.Discovery().Strategy)
}
