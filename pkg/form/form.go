// Package form validates a collection of fields and combines
// their results into one verdict. Exclusive groups are
// collapsed to a single representative per pass.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"digital.vasic.constraints/pkg/field"
	"digital.vasic.constraints/pkg/logging"
	"digital.vasic.constraints/pkg/metrics"

	"github.com/google/uuid"
)

// ErrUnknownField is returned when a field name is not
// registered on the form.
var ErrUnknownField = errors.New("unknown field")

// Validatable is the behavior shared by fields and forms.
type Validatable interface {
	Name() string
	ActualizeOptions() error
	RefreshConstraints() error
}

var (
	_ Validatable = (*field.Field)(nil)
	_ Validatable = (*Form)(nil)
)

// Form owns an ordered list of field references.
type Form struct {
	name        string
	logger      logging.Logger
	metrics     metrics.ValidationMetrics
	failFast    bool
	concurrency int
	events      emitter

	mu              sync.RWMutex
	opts            field.Options
	fields          []*field.Field
	representatives map[string]Representative
	result          Result
}

// New creates a form.
func New(name string, opts ...Option) *Form {
	f := &Form{
		name:            name,
		concurrency:     1,
		representatives: make(map[string]Representative),
	}
	var initial []*field.Field
	for _, opt := range opts {
		opt(f, &initial)
	}
	f.logger = logging.OrNull(f.logger).WithFields(
		logging.StringField("form", name),
	)
	f.metrics = metrics.OrNoop(f.metrics)
	f.Add(initial...)
	return f
}

// Name returns the form name.
func (f *Form) Name() string {
	return f.name
}

// Options returns the options inherited by member fields.
func (f *Form) Options() field.Options {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.opts
}

// SetOptions replaces the form options and re-actualizes every
// member.
func (f *Form) SetOptions(o field.Options) error {
	f.mu.Lock()
	f.opts = o
	f.mu.Unlock()
	return f.ActualizeOptions()
}

// Add registers fields in order. A field whose name is already
// registered replaces the previous one in place.
func (f *Form) Add(fields ...*field.Field) {
	for _, fld := range fields {
		fld.SetParent(f.Options)
		if err := fld.ActualizeOptions(); err != nil {
			f.logger.Warn("declared constraints skipped",
				logging.StringField("field", fld.Name()),
				logging.ErrorField(err),
			)
		}

		f.mu.Lock()
		replaced := false
		for i, existing := range f.fields {
			if existing.Name() == fld.Name() {
				f.fields[i] = fld
				replaced = true
				break
			}
		}
		if !replaced {
			f.fields = append(f.fields, fld)
		}
		f.mu.Unlock()
	}
}

// Remove unregisters the named field.
func (f *Form) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, fld := range f.fields {
		if fld.Name() == name {
			f.fields = append(f.fields[:i], f.fields[i+1:]...)
			fld.SetParent(nil)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, name)
}

// Fields returns the registered fields in registration order.
func (f *Form) Fields() []*field.Field {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*field.Field, len(f.fields))
	copy(out, f.fields)
	return out
}

// Field returns the named field.
func (f *Form) Field(name string) (*field.Field, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, fld := range f.fields {
		if fld.Name() == name {
			return fld, true
		}
	}
	return nil, false
}

// ActualizeOptions re-actualizes every member field.
func (f *Form) ActualizeOptions() error {
	var errs []error
	for _, fld := range f.Fields() {
		if err := fld.ActualizeOptions(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RefreshConstraints refreshes every member field.
func (f *Form) RefreshConstraints() error {
	var errs []error
	for _, fld := range f.Fields() {
		if err := fld.RefreshConstraints(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidationResult returns the result of the last Validate
// call.
func (f *Form) ValidationResult() Result {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.result
}

// IsValid evaluates the form without firing events.
func (f *Form) IsValid(
	ctx context.Context,
	opts ...ValidateOption,
) (field.Status, error) {
	res, err := f.run(ctx, false, opts)
	return res.Status, err
}

// Validate evaluates every contributing field, fires the form
// events and returns the combined result. The error is non-nil
// only when ctx is done or a field pass was superseded.
func (f *Form) Validate(
	ctx context.Context,
	opts ...ValidateOption,
) (Result, error) {
	return f.run(ctx, true, opts)
}

func (f *Form) run(
	ctx context.Context,
	events bool,
	opts []ValidateOption,
) (Result, error) {
	vo := collectValidateOptions(opts)
	passID := uuid.NewString()
	logger := f.logger.WithFields(logging.StringField("pass_id", passID))
	start := time.Now()

	if events {
		f.events.emit(&Event{Type: EventValidate, Form: f, PassID: passID})
	}

	contributing := f.contributing()
	logger.Debug("form pass started",
		logging.IntField("fields", len(contributing)),
	)

	outcomes, err := f.dispatch(ctx, contributing, vo, events)
	if err != nil {
		logger.Warn("form pass aborted", logging.ErrorField(err))
		return Result{}, err
	}
	res := combine(outcomes)

	elapsed := time.Since(start)
	f.metrics.RecordForm(f.name, res.Status.String(), elapsed)
	logger.Debug("form validated",
		logging.StringField("status", res.Status.String()),
		logging.IntField("failing_fields", len(res.Fields)),
		logging.DurationField("duration_ms", elapsed),
	)

	if events {
		f.mu.Lock()
		f.result = res
		f.mu.Unlock()

		e := &Event{Form: f, PassID: passID, Result: res}
		switch res.Status {
		case field.StatusValid:
			e.Type = EventSuccess
			f.events.emit(e)
		case field.StatusInvalid:
			e.Type = EventError
			f.events.emit(e)
		}
		validated := *e
		validated.Type = EventValidated
		f.events.emit(&validated)
	}
	return res, nil
}

// contributing returns the fields taking part in a pass:
// excluded fields are dropped and each exclusive group is
// replaced by its representative at the position of its first
// member.
func (f *Form) contributing() []*field.Field {
	f.mu.RLock()
	fields := make([]*field.Field, len(f.fields))
	copy(fields, f.fields)
	reps := make(map[string]Representative, len(f.representatives))
	for k, v := range f.representatives {
		reps[k] = v
	}
	f.mu.RUnlock()

	groups := make(map[string][]*field.Field)
	var order []string
	var out []*field.Field
	slot := make(map[string]int)

	for _, fld := range fields {
		o := fld.Options()
		if o.IsExcluded() {
			continue
		}
		if o.Exclusive == "" {
			out = append(out, fld)
			continue
		}
		if _, seen := groups[o.Exclusive]; !seen {
			order = append(order, o.Exclusive)
			slot[o.Exclusive] = len(out)
			out = append(out, nil)
		}
		groups[o.Exclusive] = append(groups[o.Exclusive], fld)
	}

	for _, id := range order {
		pick := reps[id]
		if pick == nil {
			pick = FirstMember
		}
		rep := pick(groups[id])
		if rep == nil {
			rep = groups[id][0]
		}
		out[slot[id]] = rep
	}
	return out
}

func (f *Form) dispatch(
	ctx context.Context,
	fields []*field.Field,
	vo validateOptions,
	events bool,
) ([]FieldOutcome, error) {
	passOpts := vo.passOptions()
	if f.failFast || f.concurrency <= 1 {
		return runSequential(ctx, fields, passOpts, events, f.failFast)
	}
	return runParallel(ctx, fields, passOpts, events, f.concurrency)
}

// combine folds field outcomes into the form result. A form
// with no contributing fields is valid.
func combine(outcomes []FieldOutcome) Result {
	var failing []FieldOutcome
	valid, skipped := 0, 0
	for _, o := range outcomes {
		switch o.Result.Status {
		case field.StatusInvalid:
			failing = append(failing, o)
		case field.StatusSkipped:
			skipped++
		default:
			valid++
		}
	}

	switch {
	case len(failing) > 0:
		return Result{Status: field.StatusInvalid, Fields: failing}
	case valid == 0 && skipped > 0:
		return Result{Status: field.StatusSkipped}
	default:
		return Result{Status: field.StatusValid}
	}
}
