// Package config loads flowbuilder settings from flowbuilder.yaml and
// FLOWBUILDER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sec-js/attack-flow/internal/attack"
)

// Config represents the flowbuilder configuration
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Attack    AttackConfig    `mapstructure:"attack"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Theme     ThemeConfig     `mapstructure:"theme"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// AttackConfig represents ATT&CK import configuration
type AttackConfig struct {
	URLs    []string      `mapstructure:"urls"`
	Output  string        `mapstructure:"output"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TemplatesConfig represents template source configuration
type TemplatesConfig struct {
	Dir string `mapstructure:"dir"`
}

// ThemeConfig represents theme configuration
type ThemeConfig struct {
	File string `mapstructure:"file"`
}

// Load reads the configuration. An empty path searches the working
// directory for flowbuilder.yaml; a missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("attack.urls", attack.DefaultURLs)
	v.SetDefault("attack.output", "output/attack.json")
	v.SetDefault("attack.timeout", "60s")
	v.SetDefault("templates.dir", "templates")
	v.SetDefault("theme.file", "")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("flowbuilder")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Enable environment variable support
	v.SetEnvPrefix("FLOWBUILDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got: %s", cfg.Log.Level)
	}
	if len(cfg.Attack.URLs) == 0 {
		return fmt.Errorf("attack.urls must list at least one manifest")
	}
	if cfg.Attack.Timeout <= 0 {
		return fmt.Errorf("attack.timeout must be positive, got: %s", cfg.Attack.Timeout)
	}
	return nil
}
