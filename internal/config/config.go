package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ColorMode controls ANSI coloring of rendered diagnostics.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config is the run configuration read from clarke.yaml.
type Config struct {
	Color ColorMode `yaml:"color,omitempty"`

	// MaxCallDepth bounds the number of active calls. 0 disables the limit.
	MaxCallDepth int `yaml:"max_call_depth"`

	// LogFile receives process logs. Empty discards them.
	LogFile string `yaml:"log_file,omitempty"`

	Dump  DumpConfig  `yaml:"dump,omitempty"`
	Serve ServeConfig `yaml:"serve,omitempty"`
	Xref  XrefConfig  `yaml:"xref,omitempty"`
}

type DumpConfig struct {
	// SymbolIDs includes symbol identities in tree dumps.
	SymbolIDs bool `yaml:"symbol_ids"`
}

type ServeConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

type XrefConfig struct {
	DB string `yaml:"db,omitempty"`
}

const (
	DefaultMaxCallDepth = 10000
	DefaultServeAddr    = "127.0.0.1:7433"
	DefaultXrefDB       = "clarke-xref.db"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Color:        ColorAuto,
		MaxCallDepth: DefaultMaxCallDepth,
		Serve:        ServeConfig{Addr: DefaultServeAddr},
		Xref:         XrefConfig{DB: DefaultXrefDB},
	}
}

// Parse decodes YAML configuration on top of the defaults. Unknown keys are
// rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the configuration at path. A missing file at the default
// location is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

func (c *Config) Validate() error {
	switch c.Color {
	case "":
		c.Color = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("config: color must be auto, always or never, got %q", c.Color)
	}
	if c.MaxCallDepth < 0 {
		return fmt.Errorf("config: max_call_depth must not be negative, got %d", c.MaxCallDepth)
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultServeAddr
	}
	if c.Xref.DB == "" {
		c.Xref.DB = DefaultXrefDB
	}
	return nil
}
