// Package state holds daemon settings. Key bindings live in their own file, see package keybind.
package state

import (
	"path/filepath"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/hotkeyd/hardware/input"
	"github.com/temoto/hotkeyd/helpers"
	"github.com/temoto/hotkeyd/log2"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Log struct {
		Level string `hcl:"level"`
	} `hcl:"log"`
	Input struct {
		Registry string   `hcl:"registry"`
		DevDir   string   `hcl:"dev_dir"`
		ByIdDir  string   `hcl:"by_id_dir"`
		Strategy string   `hcl:"strategy"`
		Devices  []string `hcl:"devices"`
		WordSize int      `hcl:"word_size"`
	} `hcl:"input"`
	Launch struct {
		InheritOutput *bool `hcl:"inherit_output"`
	} `hcl:"launch"`
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

// Defaults is the config used without settings file.
func Defaults() *Config {
	c := &Config{includeSeen: make(map[string]struct{})}
	_ = c.Validate()
	return c
}

// Validate fills defaults and checks values.
func (c *Config) Validate() error {
	if c.Input.Registry == "" {
		c.Input.Registry = input.DefaultRegistry
	}
	if c.Input.DevDir == "" {
		c.Input.DevDir = input.DefaultDevDir
	}
	if c.Input.ByIdDir == "" {
		c.Input.ByIdDir = input.DefaultByIdDir
	}
	if c.Input.Strategy == "" {
		c.Input.Strategy = input.StrategyHandlers
	}
	if c.Launch.InheritOutput == nil {
		yes := true
		c.Launch.InheritOutput = &yes
	}

	errs := make([]error, 0, 4)
	if _, err := log2.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, errors.Annotate(err, "config log.level"))
	}
	switch c.Input.Strategy {
	case input.StrategyHandlers, input.StrategyById:
	default:
		errs = append(errs, errors.NotValidf("config input.strategy=%s", c.Input.Strategy))
	}
	if err := c.Codec().Validate(); err != nil {
		errs = append(errs, errors.Annotate(err, "config input.word_size"))
	}
	return helpers.FoldErrors(errs)
}

func (c *Config) LogLevel() log2.Level {
	l, _ := log2.ParseLevel(c.Log.Level)
	return l
}

func (c *Config) Codec() input.Codec {
	if c.Input.WordSize == 0 {
		return input.NativeCodec
	}
	return input.Codec{WordSize: c.Input.WordSize}
}

func (c *Config) Discovery() input.Discovery {
	return input.Discovery{
		Registry: c.Input.Registry,
		DevDir:   c.Input.DevDir,
		ByIdDir:  c.Input.ByIdDir,
		Strategy: c.Input.Strategy,
	}
}

// Devices returns explicit device list or discovers keyboards.
func (c *Config) Devices() ([]input.Handle, error) {
	if len(c.Input.Devices) != 0 {
		hs := make([]input.Handle, len(c.Input.Devices))
		for i, path := range c.Input.Devices {
			hs[i] = input.Handle{Name: filepath.Base(path), Path: path}
		}
		return hs, nil
	}
	return c.Discovery().Discover()
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s", source.Name)
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		return nil, errors.Errorf("code error ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		if err := osfs.SetBase(dir); err != nil {
			return nil, err
		}
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	if len(errs) == 0 {
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
