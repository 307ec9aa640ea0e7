package config

import (
	"net/url"
	"strings"
)

// RedactSecret masks a secret, showing only the first 4 and
// last 4 characters.
func RedactSecret(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}

// RedactURL masks the password of a URL such as a Redis DSN.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.User != nil {
		if password, ok := u.User.Password(); ok {
			u.User = url.UserPassword(
				u.User.Username(), RedactSecret(password),
			)
		}
	}
	return u.String()
}

// Secrets returns the credentials embedded in the config that
// must never reach a log.
func (c Config) Secrets() []string {
	var out []string
	if c.RedisAddr == "" {
		return out
	}
	u, err := url.Parse(c.RedisAddr)
	if err != nil || u.User == nil {
		return out
	}
	if password, ok := u.User.Password(); ok && password != "" {
		out = append(out, password)
	}
	return out
}

// Redacted returns the config as log-safe key/value pairs.
func (c Config) Redacted() map[string]any {
	return map[string]any{
		"priority_enabled":  c.PriorityEnabled,
		"validate_if_empty": c.ValidateIfEmpty,
		"whitespace":        c.Whitespace,
		"unicode":           c.Unicode,
		"fail_fast":         c.FailFast,
		"concurrency":       c.Concurrency,
		"log_level":         c.LogLevel,
		"log_format":        c.LogFormat,
		"monitor_addr":      c.MonitorAddr,
		"remote_timeout":    c.RemoteTimeout.String(),
		"redis_addr":        RedactURL(c.RedisAddr),
	}
}
