package field

import (
	"digital.vasic.constraints/pkg/constraint"
	"digital.vasic.constraints/pkg/logging"
	"digital.vasic.constraints/pkg/metrics"
	"digital.vasic.constraints/pkg/rule"
)

// Whitespace selects how text values are normalized before
// validation.
type Whitespace string

const (
	// WhitespaceNone leaves values unchanged.
	WhitespaceNone Whitespace = "none"
	// WhitespaceTrim strips leading and trailing whitespace.
	WhitespaceTrim Whitespace = "trim"
	// WhitespaceSquish trims and collapses internal runs of
	// whitespace to a single space.
	WhitespaceSquish Whitespace = "squish"
)

// ValueSource overrides where a field reads its value from.
type ValueSource struct {
	literal  *rule.Value
	producer func() rule.Value
}

// Literal returns a source that always yields v.
func Literal(v rule.Value) ValueSource {
	return ValueSource{literal: &v}
}

// Producer returns a source that calls fn on every read.
func Producer(fn func() rule.Value) ValueSource {
	return ValueSource{producer: fn}
}

// IsSet reports whether the source was configured.
func (s ValueSource) IsSet() bool {
	return s.literal != nil || s.producer != nil
}

func (s ValueSource) read() rule.Value {
	if s.producer != nil {
		return s.producer()
	}
	return *s.literal
}

// Options configure a field. Pointer and empty values mean
// "unset" and are inherited from the parent form.
type Options struct {
	PriorityEnabled *bool
	ValidateIfEmpty *bool

	// Required adds a declared required constraint.
	Required *bool

	Whitespace Whitespace

	// Unicode selects a normalization form applied to text
	// values: "nfc", "nfd", "nfkc" or "nfkd".
	Unicode string

	// Excluded fields are ignored by form passes.
	Excluded *bool

	// Value overrides the element as the value source.
	Value ValueSource

	// Group names the validation group the field belongs to.
	Group string

	// Exclusive names the exclusive group, such as a radio
	// set, the field belongs to.
	Exclusive string
}

// Bool returns a pointer to b, for use in Options.
func Bool(b bool) *bool {
	return &b
}

// Inherit returns o with unset engine-wide settings taken from
// parent. Value, Group and Exclusive belong to the field and
// are never inherited.
func (o Options) Inherit(parent Options) Options {
	if o.PriorityEnabled == nil {
		o.PriorityEnabled = parent.PriorityEnabled
	}
	if o.ValidateIfEmpty == nil {
		o.ValidateIfEmpty = parent.ValidateIfEmpty
	}
	if o.Required == nil {
		o.Required = parent.Required
	}
	if o.Excluded == nil {
		o.Excluded = parent.Excluded
	}
	if o.Whitespace == "" {
		o.Whitespace = parent.Whitespace
	}
	if o.Unicode == "" {
		o.Unicode = parent.Unicode
	}
	return o
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// PriorityEnabledOrDefault reports the effective priority
// policy; it defaults to true.
func (o Options) PriorityEnabledOrDefault() bool {
	return boolOr(o.PriorityEnabled, true)
}

// IsExcluded reports whether the field is excluded.
func (o Options) IsExcluded() bool {
	return boolOr(o.Excluded, false)
}

// DescriptorSource supplies the declared constraints of a
// field. It is consulted on every refresh.
type DescriptorSource func() ([]constraint.Descriptor, error)

// Static returns a source combining the constraints inferred
// from native attributes with explicitly declared ones.
func Static(
	attrs constraint.NativeAttributes,
	declared ...constraint.Descriptor,
) DescriptorSource {
	descs := append(attrs.Descriptors(), declared...)
	return func() ([]constraint.Descriptor, error) {
		out := make([]constraint.Descriptor, len(descs))
		copy(out, descs)
		return out, nil
	}
}

// Option configures a Field at construction.
type Option func(*Field)

// WithElement sets the function reading the element's current
// value.
func WithElement(fn func() rule.Value) Option {
	return func(f *Field) {
		f.element = fn
	}
}

// WithSource sets the declaration source.
func WithSource(src DescriptorSource) Option {
	return func(f *Field) {
		f.source = src
	}
}

// WithOptions sets the field's own options.
func WithOptions(o Options) Option {
	return func(f *Field) {
		f.own = o
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(f *Field) {
		f.logger = l
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m metrics.ValidationMetrics) Option {
	return func(f *Field) {
		f.metrics = m
	}
}

type passOptions struct {
	force bool
	value *rule.Value
	group string
}

// PassOption adjusts a single IsValid, Validate or GetValue
// call.
type PassOption func(*passOptions)

// Force validates the field even when its value is empty.
func Force() PassOption {
	return func(p *passOptions) {
		p.force = true
	}
}

// WithValue validates v instead of the field's value. The
// field's own state is left untouched.
func WithValue(v rule.Value) PassOption {
	return func(p *passOptions) {
		p.value = &v
	}
}

// InGroup restricts the pass to fields of a validation group.
func InGroup(name string) PassOption {
	return func(p *passOptions) {
		p.group = name
	}
}

func collectPassOptions(opts []PassOption) passOptions {
	var p passOptions
	for _, opt := range opts {
		opt(&p)
	}
	return p
}
