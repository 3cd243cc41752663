package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// MountOptions controls how a mount presents itself to the kernel and
// how aggressively it lets the kernel cache what the handler reports.
type MountOptions struct {
	FSName       string        `yaml:"fsname"`
	Subtype      string        `yaml:"subtype"`
	AllowOther   bool          `yaml:"allow_other"`
	Debug        bool          `yaml:"debug"`
	MaxWrite     int           `yaml:"max_write"`
	AttrTimeout  time.Duration `yaml:"attr_timeout"`
	EntryTimeout time.Duration `yaml:"entry_timeout"`
}

// MetricsOptions controls whether a mount publishes Prometheus metrics
// and under what namespace.
type MetricsOptions struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// Config is the complete configuration for one mount.
type Config struct {
	MountPoint string         `yaml:"mount_point"`
	Mount      MountOptions   `yaml:"mount"`
	Metrics    MetricsOptions `yaml:"metrics"`
}

// Default returns the configuration a mount gets if the caller supplies
// none: conservative caching, no debug logging, metrics off.
func Default() *Config {
	return &Config{
		Mount: MountOptions{
			FSName:       "vfsbridge",
			Subtype:      "vfsbridge",
			MaxWrite:     128 * 1024,
			AttrTimeout:  time.Second,
			EntryTimeout: time.Second,
		},
	}
}

// LoadFile reads and parses a YAML configuration file, starting from
// Default so a file that only overrides a handful of fields still ends
// up with sane values everywhere else.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations that would fail later anyway, at the
// point where the caller can still do something about it.
func (c *Config) Validate() error {
	if c.MountPoint == "" {
		return fmt.Errorf("config: mount_point is required")
	}
	if c.Mount.AttrTimeout < 0 || c.Mount.EntryTimeout < 0 {
		return fmt.Errorf("config: cache timeouts cannot be negative")
	}
	return nil
}
