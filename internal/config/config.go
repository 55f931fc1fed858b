// Package config loads remend settings from TOML.
//
// Lookup order for the file:
//   - the path passed on the command line
//   - $REMEND_CONFIG
//   - $XDG_CONFIG_HOME/remend/config.toml (~/.config/remend/config.toml)
//
// A missing default file is not an error; built-in defaults apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/earentir/remend/internal/remend"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "REMEND_CONFIG"

var (
	ErrInvalidBaudrate = errors.New("baudrate must be >= 0")
	ErrInvalidWrap     = errors.New("wrap must be >= 0")
	ErrInvalidLogLevel = errors.New("log_level must be debug, info, warn or error")
)

// Config is the complete remend configuration.
type Config struct {
	NormalizeMath bool         `toml:"normalize_math"`
	LogLevel      string       `toml:"log_level"`
	Render        RenderConfig `toml:"render"`
	Stream        StreamConfig `toml:"stream"`
}

// RenderConfig controls glamour output.
type RenderConfig struct {
	// Style is a glamour style name or a JSON style file path.
	Style string `toml:"style"`
	// Wrap is the word-wrap width; 0 follows the terminal.
	Wrap int `toml:"wrap"`
}

// StreamConfig controls the viewer's stream emulation.
type StreamConfig struct {
	Baudrate int  `toml:"baudrate"`
	Follow   bool `toml:"follow"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		NormalizeMath: true,
		LogLevel:      "warn",
		Render: RenderConfig{
			Style: "auto",
		},
		Stream: StreamConfig{
			Baudrate: 9600,
		},
	}
}

// DefaultPath returns the per-user config location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "remend", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "remend", "config.toml"), nil
}

// Load resolves the config file and decodes it over the defaults. An
// explicit path (argument or $REMEND_CONFIG) must exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path != "" {
		return LoadFile(path)
	}

	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile decodes the TOML file at path over the defaults and validates it.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Stream.Baudrate < 0 {
		return ErrInvalidBaudrate
	}
	if c.Render.Wrap < 0 {
		return ErrInvalidWrap
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}

// Options converts the config into remend options.
func (c *Config) Options() []remend.Option {
	return []remend.Option{remend.WithNormalizeMath(c.NormalizeMath)}
}
