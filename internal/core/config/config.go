// Package config handles configuration loading and validation for toastline.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/toastline/internal/core/styles"
)

// defaultChannels is the priority order used when the config declares none.
// The renderer shows the first listed channel that holds an active
// notification.
var defaultChannels = []string{"errors", "confirmations", "status"}

// Config holds the application configuration.
type Config struct {
	Theme            string   `yaml:"theme"`
	Channels         []string `yaml:"channels"`           // render priority order, highest first
	DefaultTimeoutMs int      `yaml:"default_timeout_ms"` // applied when a publisher omits one
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Theme:            styles.DefaultTheme,
		Channels:         append([]string(nil), defaultChannels...),
		DefaultTimeoutMs: 3000,
	}
}

// DefaultTimeout returns DefaultTimeoutMs as a duration.
func (c *Config) DefaultTimeout() time.Duration {
	return time.Duration(c.DefaultTimeoutMs) * time.Millisecond
}

// Load reads the config file at path. A missing file is not an error; the
// defaults are returned instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the runtime cannot repair.
func (c *Config) Validate() error {
	if _, ok := styles.GetPalette(c.Theme); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", c.Theme, styles.ThemeNames())
	}

	if len(c.Channels) == 0 {
		return errors.New("channels must list at least one channel")
	}
	seen := make(map[string]struct{}, len(c.Channels))
	for _, ch := range c.Channels {
		if ch == "" {
			return errors.New("channels must not contain empty names")
		}
		if _, dup := seen[ch]; dup {
			return fmt.Errorf("duplicate channel %q", ch)
		}
		seen[ch] = struct{}{}
	}

	if c.DefaultTimeoutMs < 0 {
		return fmt.Errorf("default_timeout_ms must not be negative, got %d", c.DefaultTimeoutMs)
	}

	return nil
}
