// Package config loads oxyl project configuration.
//
// A project is described by oxyl.toml, or oxyl.yaml / oxyl.yml. The format is
// chosen by file extension:
//
//	[project]
//	name   = "demo"
//	entry  = "src/main.oxl"
//	output = "build/main.c"
//
//	[lower]
//	int_type = "int64_t"
//	indent   = 4
//
//	[format]
//	indent = 4
//
//	[check]
//	globals = ["printf"]
//
// Relative entry and output paths are resolved against the directory that
// holds the config file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"oxyl/internal/format"
	"oxyl/internal/lowering"
	"oxyl/internal/resolve"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format represents the configuration file format.
type Format int

const (
	// FormatTOML represents TOML format (default)
	FormatTOML Format = iota
	// FormatYAML represents YAML format
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FileNames lists the names Discover looks for, in order of preference.
var FileNames = []string{"oxyl.toml", "oxyl.yaml", "oxyl.yml"}

// ErrNotFound is returned by Discover when no config file exists.
var ErrNotFound = errors.New("no oxyl config file found")

// Config is the root configuration.
type Config struct {
	Project ProjectConfig `toml:"project" yaml:"project"`
	Lower   LowerConfig   `toml:"lower" yaml:"lower"`
	Format  FormatConfig  `toml:"format" yaml:"format"`
	Check   CheckConfig   `toml:"check" yaml:"check"`

	// Path is the file the config was loaded from; empty for Default().
	Path string `toml:"-" yaml:"-"`
}

// ProjectConfig names the project's source and build output.
type ProjectConfig struct {
	Name   string `toml:"name" yaml:"name"`
	Entry  string `toml:"entry" yaml:"entry"`
	Output string `toml:"output" yaml:"output"`
}

// LowerConfig controls C lowering.
type LowerConfig struct {
	IntType string `toml:"int_type" yaml:"int_type"`
	Indent  int    `toml:"indent" yaml:"indent"`
}

// FormatConfig controls the source formatter.
type FormatConfig struct {
	Indent int `toml:"indent" yaml:"indent"`
}

// CheckConfig controls name resolution.
type CheckConfig struct {
	Globals []string `toml:"globals" yaml:"globals"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	lo := lowering.DefaultOptions()
	return &Config{
		Lower: LowerConfig{
			IntType: lo.IntType,
			Indent:  lo.Indent,
		},
		Format: FormatConfig{
			Indent: format.DefaultOptions().Indent,
		},
	}
}

// Load reads a config file, filling unset fields from Default. Unknown keys
// are an error so typos do not pass silently.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(content, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes config content in the given format over Default.
func Parse(content []byte, f Format) (*Config, error) {
	cfg := Default()
	switch f {
	case FormatTOML:
		md, err := toml.Decode(string(content), cfg)
		if err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", f)
	}
	return cfg, nil
}

// DetectFormat determines the configuration format from file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Discover looks for a config file in dir and each of its parents and
// returns the first one found.
func Discover(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// LoadOrDefault loads path when it is non-empty, otherwise the config
// discovered from dir, otherwise Default.
func LoadOrDefault(path, dir string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	found, err := Discover(dir)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(found)
}

// Validate reports every problem with the settings at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Lower.IntType) == "" {
		errs = append(errs, errors.New("lower.int_type must not be empty"))
	}
	if c.Lower.Indent <= 0 {
		errs = append(errs, fmt.Errorf("lower.indent must be positive, got %d", c.Lower.Indent))
	}
	if c.Format.Indent <= 0 {
		errs = append(errs, fmt.Errorf("format.indent must be positive, got %d", c.Format.Indent))
	}
	for _, g := range c.Check.Globals {
		if strings.TrimSpace(g) == "" {
			errs = append(errs, errors.New("check.globals must not contain empty names"))
			break
		}
	}
	return errors.Join(errs...)
}

// ValidateBuild additionally requires the fields the build command needs.
func (c *Config) ValidateBuild() error {
	var errs []error
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Project.Entry == "" {
		errs = append(errs, errors.New("project.entry is required to build"))
	}
	return errors.Join(errs...)
}

// ResolvePath interprets p relative to the config file's directory.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.Path), p)
}

// OutputPath returns where build writes its result: project.output, or the
// entry file with a .c extension.
func (c *Config) OutputPath() string {
	if c.Project.Output != "" {
		return c.ResolvePath(c.Project.Output)
	}
	entry := c.ResolvePath(c.Project.Entry)
	return strings.TrimSuffix(entry, filepath.Ext(entry)) + ".c"
}

// LowerOptions converts the [lower] section for the lowering package.
func (c *Config) LowerOptions() lowering.Options {
	return lowering.Options{IntType: c.Lower.IntType, Indent: c.Lower.Indent}
}

// FormatOptions converts the [format] section for the format package.
func (c *Config) FormatOptions() format.Options {
	return format.Options{Indent: c.Format.Indent}
}

// CheckOptions converts the [check] section for the resolve package.
func (c *Config) CheckOptions() resolve.Options {
	return resolve.Options{Globals: append([]string(nil), c.Check.Globals...)}
}
