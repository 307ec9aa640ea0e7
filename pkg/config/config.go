// Package config loads engine-wide settings from the
// environment and optional .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"digital.vasic.constraints/pkg/field"
	"digital.vasic.constraints/pkg/logging"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig is wrapped by every error Validate returns.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the engine defaults and the settings of the
// optional edges (monitor, remote rules).
type Config struct {
	PriorityEnabled bool   `env:"CONSTRAINTS_PRIORITY_ENABLED" envDefault:"true"`
	ValidateIfEmpty bool   `env:"CONSTRAINTS_VALIDATE_IF_EMPTY" envDefault:"false"`
	Whitespace      string `env:"CONSTRAINTS_WHITESPACE" envDefault:"none"`
	Unicode         string `env:"CONSTRAINTS_UNICODE"`

	FailFast    bool `env:"CONSTRAINTS_FAIL_FAST" envDefault:"false"`
	Concurrency int  `env:"CONSTRAINTS_CONCURRENCY" envDefault:"1"`

	LogLevel  string `env:"CONSTRAINTS_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"CONSTRAINTS_LOG_FORMAT" envDefault:"console"`
	LogFile   string `env:"CONSTRAINTS_LOG_FILE"`

	MonitorAddr   string        `env:"CONSTRAINTS_MONITOR_ADDR"`
	RemoteTimeout time.Duration `env:"CONSTRAINTS_REMOTE_TIMEOUT" envDefault:"10s"`
	RedisAddr     string        `env:"CONSTRAINTS_REDIS_ADDR"`
}

// Load reads the given .env files, or ./.env when none are
// given, and parses the environment into a Config. Variables
// already set in the environment win over file values. A
// missing default .env file is not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Config{}, fmt.Errorf("load env files: %w", err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	var errs []error
	switch field.Whitespace(c.Whitespace) {
	case field.WhitespaceNone, field.WhitespaceTrim, field.WhitespaceSquish:
	default:
		errs = append(errs, fmt.Errorf(
			"%w: whitespace %q", ErrInvalidConfig, c.Whitespace,
		))
	}
	switch strings.ToLower(c.Unicode) {
	case "", "nfc", "nfd", "nfkc", "nfkd":
	default:
		errs = append(errs, fmt.Errorf(
			"%w: unicode form %q", ErrInvalidConfig, c.Unicode,
		))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf(
			"%w: log format %q", ErrInvalidConfig, c.LogFormat,
		))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf(
			"%w: concurrency must be at least 1", ErrInvalidConfig,
		))
	}
	if c.RemoteTimeout <= 0 {
		errs = append(errs, fmt.Errorf(
			"%w: remote timeout must be positive", ErrInvalidConfig,
		))
	}
	return errors.Join(errs...)
}

// FieldOptions returns the defaults a form passes down to its
// fields.
func (c Config) FieldOptions() field.Options {
	return field.Options{
		PriorityEnabled: field.Bool(c.PriorityEnabled),
		ValidateIfEmpty: field.Bool(c.ValidateIfEmpty),
		Whitespace:      field.Whitespace(c.Whitespace),
		Unicode:         strings.ToLower(c.Unicode),
	}
}
