// Package config provides configuration management for mtempl using Viper
// for flexible loading from files, environment variables, and command-line
// flags.
//
// Configuration comes from .mtempl.yml, MTEMPL_-prefixed environment
// variables, and flags, in increasing order of precedence. It covers the
// playground server, catalog scan paths, and rendering defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Catalog  CatalogConfig `yaml:"catalog"`
	Render   RenderConfig  `yaml:"render"`
	LogLevel string        `yaml:"log-level"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type CatalogConfig struct {
	Paths           []string `yaml:"paths"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

type RenderConfig struct {
	// UnboundPolicy is "verbatim" (emit the original hole text) or
	// "sentinel" (emit Sentinel instead).
	UnboundPolicy string `yaml:"unbound_policy"`
	// Sentinel is the replacement text under the sentinel policy.
	Sentinel string `yaml:"sentinel"`
	// Locale is the BCP 47 tag the default formatter uses.
	Locale string `yaml:"locale"`
}

// Load builds a Config from viper's merged sources, applying defaults for
// anything unset.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Server.Port == 0 {
		config.Server.Port = 8620
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if len(config.Catalog.Paths) == 0 {
		if paths := viper.GetStringSlice("catalog.paths"); len(paths) > 0 {
			config.Catalog.Paths = paths
		} else {
			config.Catalog.Paths = []string{"./templates"}
		}
	}
	if config.Render.UnboundPolicy == "" {
		config.Render.UnboundPolicy = "verbatim"
	}
	if config.Render.Locale == "" {
		config.Render.Locale = "en"
	}
	if config.LogLevel == "" {
		config.LogLevel = viper.GetString("log-level")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range (1-65535)", c.Server.Port)
	}
	switch c.Render.UnboundPolicy {
	case "verbatim", "sentinel":
	default:
		return fmt.Errorf("render.unbound_policy %q is not one of verbatim, sentinel", c.Render.UnboundPolicy)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log-level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}
