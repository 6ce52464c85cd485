package dash

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// HostEntry names one container-runtime endpoint to monitor.
type HostEntry struct {
	Addr string `toml:"addr"` // "local", "unix://...", "tcp://host:port"
	Name string `toml:"name"` // optional display name; derived from addr when empty
}

// ThemeConfig holds optional color overrides for the renderer. Values can
// be ANSI numbers ("1"), 256-palette numbers ("196"), or hex ("#ff0000").
// Empty strings keep the defaults.
type ThemeConfig struct {
	Accent   string `toml:"accent"`
	Muted    string `toml:"muted"`
	Healthy  string `toml:"healthy"`
	Warning  string `toml:"warning"`
	Critical string `toml:"critical"`
	Selected string `toml:"selected"`
}

// Config is everything loadable from the config file.
type Config struct {
	Hosts   []HostEntry `toml:"hosts"`
	Theme   ThemeConfig `toml:"theme"`
	LogFile string      `toml:"log_file"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/fleettop/config.toml,
// falling back to ~/.config/fleettop/config.toml if unset.
func DefaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "fleettop", "config.toml")
}

// LoadConfig reads the config file at path. A missing file is not an
// error and yields an empty config; a malformed file is, so the process
// aborts rather than silently monitoring the wrong hosts.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// MergeCLIHosts resolves the final host list: explicitly supplied CLI
// hosts win over the config file, and when neither names a host the local
// runtime is monitored.
func (c *Config) MergeCLIHosts(cliHosts []string) {
	if len(cliHosts) > 0 {
		c.Hosts = c.Hosts[:0]
		for _, addr := range cliHosts {
			c.Hosts = append(c.Hosts, HostEntry{Addr: addr})
		}
	}
	if len(c.Hosts) == 0 {
		c.Hosts = []HostEntry{{Addr: "local"}}
	}
}
