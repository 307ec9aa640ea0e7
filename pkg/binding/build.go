package binding

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"digital.vasic.constraints/pkg/field"
	"digital.vasic.constraints/pkg/form"
	"digital.vasic.constraints/pkg/logging"
	"digital.vasic.constraints/pkg/metrics"
	"digital.vasic.constraints/pkg/rule"
)

// ErrInvalidDeclaration is returned by Build when Check
// reports problems.
var ErrInvalidDeclaration = errors.New("invalid declaration")

// Submission carries submitted values by field name, in the
// shape of url.Values.
type Submission map[string][]string

// FromValues converts url.Values into a Submission.
func FromValues(v url.Values) Submission {
	return Submission(v)
}

// FromMap converts decoded YAML or JSON values into a
// Submission. Lists become multiple values; scalars are
// formatted.
func FromMap(m map[string]any) Submission {
	sub := make(Submission, len(m))
	for k, v := range m {
		switch vv := v.(type) {
		case nil:
			sub[k] = nil
		case []any:
			items := make([]string, len(vv))
			for i, item := range vv {
				items[i] = scalar(item)
			}
			sub[k] = items
		case []string:
			sub[k] = vv
		default:
			sub[k] = []string{scalar(vv)}
		}
	}
	return sub
}

func scalar(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(vv)
	}
}

type buildOptions struct {
	defaults field.Options
	logger   logging.Logger
	metrics  metrics.ValidationMetrics
	extra    []form.Option
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithDefaults sets the options the form passes down to its
// fields.
func WithDefaults(o field.Options) BuildOption {
	return func(b *buildOptions) { b.defaults = o }
}

// WithLogger sets the logger of the form and its fields.
func WithLogger(l logging.Logger) BuildOption {
	return func(b *buildOptions) { b.logger = l }
}

// WithMetrics sets the metrics recorder of the form and its
// fields.
func WithMetrics(m metrics.ValidationMetrics) BuildOption {
	return func(b *buildOptions) { b.metrics = m }
}

// WithFormOptions appends options applied to the built form.
func WithFormOptions(opts ...form.Option) BuildOption {
	return func(b *buildOptions) { b.extra = append(b.extra, opts...) }
}

// Build creates a form from decl. Field values are read from
// sub on every pass; exclusive members read the submission
// entry named after their group. Declared constraints must
// bind, otherwise Build fails.
func Build(
	decl FormDeclaration,
	reg *rule.Registry,
	sub Submission,
	opts ...BuildOption,
) (*form.Form, error) {
	if problems := Check(decl, reg); len(problems) > 0 {
		errs := make([]error, len(problems))
		for i, p := range problems {
			errs[i] = p
		}
		return nil, fmt.Errorf(
			"%w: %w", ErrInvalidDeclaration, errors.Join(errs...),
		)
	}

	bo := buildOptions{
		logger:  logging.NullLogger{},
		metrics: metrics.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(&bo)
	}

	fields := make([]*field.Field, 0, len(decl.Fields))
	exclusive := make(map[string]bool)
	for _, fd := range decl.Fields {
		f := buildField(fd, reg, sub, bo)
		if err := f.RefreshConstraints(); err != nil {
			return nil, fmt.Errorf(
				"%w: field %s: %w", ErrInvalidDeclaration, fd.Name, err,
			)
		}
		fields = append(fields, f)
		if fd.Exclusive != "" {
			exclusive[fd.Exclusive] = true
		}
	}

	formOpts := []form.Option{
		form.WithFields(fields...),
		form.WithOptions(bo.defaults),
		form.WithLogger(bo.logger),
		form.WithMetrics(bo.metrics),
	}
	if decl.FailFast {
		formOpts = append(formOpts, form.WithFailFast())
	}
	for group := range exclusive {
		formOpts = append(formOpts, form.WithRepresentative(
			group, checkedIn(decl, group, sub),
		))
	}
	formOpts = append(formOpts, bo.extra...)

	return form.New(decl.Name, formOpts...), nil
}

func buildField(
	fd FieldDeclaration,
	reg *rule.Registry,
	sub Submission,
	bo buildOptions,
) *field.Field {
	key := fd.Name
	multi := fd.Multiple
	if fd.Exclusive != "" {
		key = fd.Exclusive
		multi = true
	}

	element := func() rule.Value {
		values := sub[key]
		if multi {
			return rule.Items(values...)
		}
		if len(values) == 0 {
			return rule.Text("")
		}
		return rule.Text(values[0])
	}

	return field.New(fd.Name, reg,
		field.WithElement(element),
		field.WithSource(field.Static(fd.Native, fd.Constraints...)),
		field.WithOptions(field.Options{
			PriorityEnabled: fd.PriorityEnabled,
			ValidateIfEmpty: fd.ValidateIfEmpty,
			Excluded:        fd.Excluded,
			Whitespace:      field.Whitespace(fd.Whitespace),
			Unicode:         fd.Unicode,
			Group:           fd.Group,
			Exclusive:       fd.Exclusive,
		}),
		field.WithLogger(bo.logger),
		field.WithMetrics(bo.metrics),
	)
}

// checkedIn selects the exclusive member whose declared value
// was submitted for the group.
func checkedIn(
	decl FormDeclaration,
	group string,
	sub Submission,
) form.Representative {
	values := make(map[string]string)
	for _, fd := range decl.Fields {
		if fd.Exclusive == group {
			values[fd.Name] = fd.Value
		}
	}
	return form.CheckedMember(func(f *field.Field) bool {
		v, ok := values[f.Name()]
		return ok && v != "" && slices.Contains(sub[group], v)
	})
}
