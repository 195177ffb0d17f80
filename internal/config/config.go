// Package config loads rocketindex's user-level configuration: the list
// of remembered project roots and watch-mode defaults. Reads go through
// an afero.Fs so tests can substitute an in-memory filesystem instead of
// touching the real config directory.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// DefaultDebounceMs and DefaultAutoWatch apply when mcp.json omits the
// corresponding keys.
const (
	DefaultDebounceMs = 200
	DefaultAutoWatch  = true
)

// Config mirrors mcp.json's recognised keys.
type Config struct {
	Projects   []string `mapstructure:"projects"`
	AutoWatch  bool     `mapstructure:"auto_watch"`
	DebounceMs int      `mapstructure:"debounce_ms"`
}

// Dir returns the platform-standard config directory's rocketindex
// sub-path, e.g. ~/.config/rocketindex on Linux.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "rocketindex"), nil
}

// Load reads mcp.json from fs, applying DefaultDebounceMs/DefaultAutoWatch
// when absent. A missing file yields the defaults, not an error — first
// run has nothing to load yet.
func Load(fs afero.Fs, dir string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigName("mcp")
	v.SetConfigType("json")
	v.AddConfigPath(dir)
	v.SetDefault("auto_watch", DefaultAutoWatch)
	v.SetDefault("debounce_ms", DefaultDebounceMs)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to <dir>/mcp.json, creating dir if necessary.
func Save(fs afero.Fs, dir string, cfg *Config) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	v := viper.New()
	v.SetFs(fs)
	v.Set("projects", cfg.Projects)
	v.Set("auto_watch", cfg.AutoWatch)
	v.Set("debounce_ms", cfg.DebounceMs)
	return v.WriteConfigAs(filepath.Join(dir, "mcp.json"))
}

// AddProject appends root to cfg.Projects if not already present, for
// Register's "persist the project's root... so it is remembered across
// restarts" requirement.
func (c *Config) AddProject(root string) {
	for _, p := range c.Projects {
		if p == root {
			return
		}
	}
	c.Projects = append(c.Projects, root)
}
