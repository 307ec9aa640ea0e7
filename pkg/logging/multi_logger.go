package logging

import "errors"

// MultiLogger tees every entry to several sinks, typically a
// console logger and a JSON log file.
type MultiLogger struct {
	sinks []Logger
}

// NewMultiLogger creates a logger writing to every sink in
// order. Nil sinks are dropped.
func NewMultiLogger(sinks ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *MultiLogger) each(fn func(Logger)) {
	for _, s := range m.sinks {
		fn(s)
	}
}

func (m *MultiLogger) Info(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Info(msg, fields...) })
}

func (m *MultiLogger) Warn(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Warn(msg, fields...) })
}

func (m *MultiLogger) Error(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Error(msg, fields...) })
}

func (m *MultiLogger) Debug(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Debug(msg, fields...) })
}

// WithFields scopes every sink.
func (m *MultiLogger) WithFields(fields ...Field) Logger {
	scoped := &MultiLogger{sinks: make([]Logger, len(m.sinks))}
	for i, s := range m.sinks {
		scoped.sinks[i] = s.WithFields(fields...)
	}
	return scoped
}

func (m *MultiLogger) LogRemoteCall(call RemoteCallLog) {
	m.each(func(l Logger) { l.LogRemoteCall(call) })
}

// Close closes every sink, even after a failure, and joins
// their errors.
func (m *MultiLogger) Close() error {
	var errs []error
	m.each(func(l Logger) {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}
