package config

import (
	"fmt"
	"os"

	"digital.vasic.constraints/pkg/logging"
)

// NewLogger builds the logger selected by the config. Entries go
// to stderr in the configured format and, when LogFile is set,
// are also appended to that file as JSON lines. Secrets from the
// config are redacted from every entry.
func NewLogger(c Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	var sinks []logging.Logger
	switch c.LogFormat {
	case "json":
		jl, err := logging.NewJSONLogger(logging.LoggerConfig{
			Level:  level,
			Output: os.Stderr,
		})
		if err != nil {
			return nil, fmt.Errorf("create json logger: %w", err)
		}
		sinks = append(sinks, jl)
	default:
		sinks = append(sinks, logging.NewConsoleLoggerTo(os.Stderr, level))
	}

	if c.LogFile != "" {
		fl, err := logging.NewJSONLogger(logging.LoggerConfig{
			Level:      level,
			OutputPath: c.LogFile,
		})
		if err != nil {
			return nil, fmt.Errorf("create file logger: %w", err)
		}
		sinks = append(sinks, fl)
	}

	var inner logging.Logger = sinks[0]
	if len(sinks) > 1 {
		inner = logging.NewMultiLogger(sinks...)
	}
	return logging.NewRedactingLogger(inner, c.Secrets()...), nil
}
