package logging

import "strings"

// defaultSensitiveKeys are field keys whose values are always
// masked, whatever the configured secrets.
var defaultSensitiveKeys = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"authorization",
	"x-api-key",
	"api-key",
}

// RedactingLogger is a decorator that redacts sensitive strings
// from log messages and field values before passing them to the
// inner logger.
type RedactingLogger struct {
	inner     Logger
	secrets   []string
	sensitive map[string]bool
}

// NewRedactingLogger creates a logger that redacts the given
// secrets from all messages and string field values.
func NewRedactingLogger(
	inner Logger,
	secrets ...string,
) *RedactingLogger {
	r := &RedactingLogger{
		inner:     inner,
		secrets:   secrets,
		sensitive: make(map[string]bool),
	}
	for _, k := range defaultSensitiveKeys {
		r.sensitive[k] = true
	}
	return r
}

// WithSensitiveKeys marks additional field keys, such as the
// names of password inputs, whose values are masked entirely.
func (r *RedactingLogger) WithSensitiveKeys(
	keys ...string,
) *RedactingLogger {
	for _, k := range keys {
		r.sensitive[strings.ToLower(k)] = true
	}
	return r
}

func (r *RedactingLogger) redact(msg string) string {
	result := msg
	for _, secret := range r.secrets {
		if len(secret) > 4 {
			result = strings.ReplaceAll(
				result, secret, redactValue(secret),
			)
		}
	}
	return result
}

// redactValue masks all but the first 4 characters.
func redactValue(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}

func (r *RedactingLogger) redactFields(
	fields []Field,
) []Field {
	result := make([]Field, len(fields))
	for i, f := range fields {
		switch {
		case r.sensitive[strings.ToLower(f.Key)]:
			result[i] = Field{Key: f.Key, Value: "****"}
		default:
			if str, ok := f.Value.(string); ok {
				result[i] = Field{
					Key:   f.Key,
					Value: r.redact(str),
				}
			} else {
				result[i] = f
			}
		}
	}
	return result
}

// Info logs a redacted informational message.
func (r *RedactingLogger) Info(
	msg string, fields ...Field,
) {
	r.inner.Info(r.redact(msg), r.redactFields(fields)...)
}

// Warn logs a redacted warning message.
func (r *RedactingLogger) Warn(
	msg string, fields ...Field,
) {
	r.inner.Warn(r.redact(msg), r.redactFields(fields)...)
}

// Error logs a redacted error message.
func (r *RedactingLogger) Error(
	msg string, fields ...Field,
) {
	r.inner.Error(r.redact(msg), r.redactFields(fields)...)
}

// Debug logs a redacted debug message.
func (r *RedactingLogger) Debug(
	msg string, fields ...Field,
) {
	r.inner.Debug(r.redact(msg), r.redactFields(fields)...)
}

// WithFields returns a RedactingLogger wrapping a new inner
// logger with the given fields applied.
func (r *RedactingLogger) WithFields(
	fields ...Field,
) Logger {
	return &RedactingLogger{
		inner: r.inner.WithFields(
			r.redactFields(fields)...,
		),
		secrets:   r.secrets,
		sensitive: r.sensitive,
	}
}

// LogRemoteCall logs a remote call with redacted headers and
// URL.
func (r *RedactingLogger) LogRemoteCall(call RemoteCallLog) {
	call.Headers = r.redactHeaders(call.Headers)
	call.URL = r.redact(call.URL)
	call.Error = r.redact(call.Error)
	r.inner.LogRemoteCall(call)
}

// Close closes the inner logger.
func (r *RedactingLogger) Close() error {
	return r.inner.Close()
}

func (r *RedactingLogger) redactHeaders(
	headers map[string]string,
) map[string]string {
	if headers == nil {
		return nil
	}

	result := make(map[string]string, len(headers))
	for k, v := range headers {
		if r.sensitive[strings.ToLower(k)] {
			result[k] = "****"
		} else {
			result[k] = r.redact(v)
		}
	}
	return result
}
