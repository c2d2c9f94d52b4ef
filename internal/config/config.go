// Package config reads the pert configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/psidex/pert/internal/canvas"
	"github.com/psidex/pert/internal/diagram"
	"github.com/psidex/pert/internal/lib"
)

var ErrInvalid = errors.New("config: invalid value")

// Config holds pert configuration.
type Config struct {
	Server  ServerConfig   `toml:"server"`
	Log     LogConfig      `toml:"log"`
	Session SessionConfig  `toml:"session"`
	Theme   canvas.Theme   `toml:"theme"`
	Layout  diagram.Layout `toml:"layout"`
}

// ServerConfig controls the web editor.
type ServerConfig struct {
	Bind string `toml:"bind"`
	// StaticDir serves the frontend from disk instead of the built in copy.
	StaticDir string `toml:"static_dir"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// SessionConfig controls editing sessions. A zero IdleTimeout never times
// out.
type SessionConfig struct {
	IdleTimeout lib.Duration `toml:"idle_timeout"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Bind: "127.0.0.1:8080"},
		Log:     LogConfig{Level: "info"},
		Session: SessionConfig{IdleTimeout: lib.DurationFrom(30 * time.Minute)},
		Theme:   canvas.DefaultTheme(),
		Layout:  diagram.DefaultLayout(),
	}
}

// Dir returns the pert config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "pert")
}

// Path is where the config file lives when no path is given.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path over the defaults. A missing file yields the defaults; a
// malformed or invalid one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func (c *Config) Validate() error {
	if _, err := lib.ParseSLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	if c.Session.IdleTimeout.Duration < 0 {
		return fmt.Errorf("%w: negative idle_timeout", ErrInvalid)
	}
	if c.Layout.NodeRadius <= 0 {
		return fmt.Errorf("%w: node_radius must be positive", ErrInvalid)
	}
	if c.Layout.NodesPerRow <= 0 {
		return fmt.Errorf("%w: nodes_per_row must be positive", ErrInvalid)
	}
	return nil
}
