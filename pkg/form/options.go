package form

import (
	"digital.vasic.constraints/pkg/field"
	"digital.vasic.constraints/pkg/logging"
	"digital.vasic.constraints/pkg/metrics"
)

// Option configures a Form at construction.
type Option func(f *Form, initial *[]*field.Field)

// WithFields registers fields in order.
func WithFields(fields ...*field.Field) Option {
	return func(_ *Form, initial *[]*field.Field) {
		*initial = append(*initial, fields...)
	}
}

// WithOptions sets the options inherited by member fields.
func WithOptions(o field.Options) Option {
	return func(f *Form, _ *[]*field.Field) {
		f.opts = o
	}
}

// WithFailFast makes a pass stop at the first failing field.
// Fields are then evaluated sequentially.
func WithFailFast() Option {
	return func(f *Form, _ *[]*field.Field) {
		f.failFast = true
	}
}

// WithConcurrency bounds how many fields are validated at
// once. Values below 2 validate sequentially.
func WithConcurrency(n int) Option {
	return func(f *Form, _ *[]*field.Field) {
		f.concurrency = n
	}
}

// WithRepresentative sets how the member evaluated for an
// exclusive group is chosen.
func WithRepresentative(group string, pick Representative) Option {
	return func(f *Form, _ *[]*field.Field) {
		f.representatives[group] = pick
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(f *Form, _ *[]*field.Field) {
		f.logger = l
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.ValidationMetrics) Option {
	return func(f *Form, _ *[]*field.Field) {
		f.metrics = m
	}
}

type validateOptions struct {
	group string
	force bool
}

func (vo validateOptions) passOptions() []field.PassOption {
	var opts []field.PassOption
	if vo.group != "" {
		opts = append(opts, field.InGroup(vo.group))
	}
	if vo.force {
		opts = append(opts, field.Force())
	}
	return opts
}

// ValidateOption adjusts a single form pass.
type ValidateOption func(*validateOptions)

// InGroup restricts the pass to fields of a validation group.
// Other fields are skipped.
func InGroup(name string) ValidateOption {
	return func(vo *validateOptions) {
		vo.group = name
	}
}

// Force validates every field even when empty.
func Force() ValidateOption {
	return func(vo *validateOptions) {
		vo.force = true
	}
}

func collectValidateOptions(opts []ValidateOption) validateOptions {
	var vo validateOptions
	for _, opt := range opts {
		opt(&vo)
	}
	return vo
}
