// Package config loads booksplit settings with viper.
// Precedence: flags > BOOKSPLIT_* environment > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/booksplit/core"
)

// EnvPrefix prefixes every environment variable, e.g. BOOKSPLIT_MIN_LINES.
const EnvPrefix = "BOOKSPLIT"

// Converter names accepted by the converter key.
const (
	ConverterPandoc  = "pandoc"
	ConverterBuiltin = "builtin"
)

// Config is the complete run configuration.
type Config struct {
	MinLines   int       `mapstructure:"min_lines"`
	MaxLines   int       `mapstructure:"max_lines"`
	Clean      bool      `mapstructure:"clean"`
	OutputDir  string    `mapstructure:"output_dir"`
	Converter  string    `mapstructure:"converter"`
	PandocPath string    `mapstructure:"pandoc_path"`
	Manifest   bool      `mapstructure:"manifest"`
	PDF        bool      `mapstructure:"pdf"`
	Log        LogConfig `mapstructure:"log"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
	File   string `mapstructure:"file"`   // rotate into this file instead of stderr
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("min_lines", 200)
	v.SetDefault("max_lines", 300)
	v.SetDefault("clean", true)
	v.SetDefault("output_dir", "")
	v.SetDefault("converter", ConverterPandoc)
	v.SetDefault("pandoc_path", "pandoc")
	v.SetDefault("manifest", false)
	v.SetDefault("pdf", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}

// Load reads configFile (if set) into v, applies defaults and environment
// overrides, and returns the validated result. Flags must already be bound
// to v by the caller.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the line limits and converter name.
func (c *Config) Validate() error {
	var errs []error
	if c.MinLines < 1 {
		errs = append(errs, fmt.Errorf("%w: min_lines must be at least 1, got %d", core.ErrInvalidLimits, c.MinLines))
	} else if c.MaxLines < c.MinLines {
		errs = append(errs, fmt.Errorf("%w: max_lines (%d) is below min_lines (%d)", core.ErrInvalidLimits, c.MaxLines, c.MinLines))
	}
	switch c.Converter {
	case ConverterPandoc, ConverterBuiltin:
	default:
		errs = append(errs, fmt.Errorf("unknown converter %q (want %s or %s)", c.Converter, ConverterPandoc, ConverterBuiltin))
	}
	return errors.Join(errs...)
}
