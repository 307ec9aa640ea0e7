// Package field validates a single field against its
// constraints. Constraints are evaluated in priority tiers,
// synchronously or through pending verdicts, and aggregated
// into one Result per pass.
package field

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"digital.vasic.constraints/pkg/constraint"
	"digital.vasic.constraints/pkg/logging"
	"digital.vasic.constraints/pkg/metrics"
	"digital.vasic.constraints/pkg/rule"

	"github.com/google/uuid"
)

// ErrSuperseded is returned by a pass that was overtaken by a
// newer pass on the same field. Superseded passes commit
// nothing and fire no concluding events.
var ErrSuperseded = errors.New("validation pass superseded")

// Field validates one form field. It is safe for concurrent
// use; starting a pass cancels the pass in flight.
type Field struct {
	name     string
	registry *rule.Registry
	element  func() rule.Value
	source   DescriptorSource
	own      Options
	logger   logging.Logger
	metrics  metrics.ValidationMetrics
	events   emitter

	mu          sync.Mutex
	parent      func() Options
	opts        Options
	constraints constraint.Set
	result      Result
	generation  uint64
	cancel      context.CancelFunc
	skipped     string
}

// New creates a field validating against rules from registry
// and binds its declared constraints.
func New(
	name string,
	registry *rule.Registry,
	opts ...Option,
) *Field {
	f := &Field{
		name:     name,
		registry: registry,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.OrNull(f.logger).WithFields(
		logging.StringField("field", name),
	)
	f.metrics = metrics.OrNoop(f.metrics)

	f.warnSkipped(f.ActualizeOptions())
	return f
}

// warnSkipped logs declarations that could not be bound. A
// failure is reported once until it changes or clears.
func (f *Field) warnSkipped(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	f.mu.Lock()
	changed := msg != f.skipped
	f.skipped = msg
	f.mu.Unlock()

	if err != nil && changed {
		f.logger.Warn("declared constraints skipped",
			logging.ErrorField(err),
		)
	}
}

// Name returns the field name.
func (f *Field) Name() string {
	return f.name
}

// Options returns the effective options, including those
// inherited from the parent.
func (f *Field) Options() Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opts
}

// SetOptions replaces the field's own options and re-actualizes
// them.
func (f *Field) SetOptions(o Options) error {
	f.mu.Lock()
	f.own = o
	f.mu.Unlock()
	return f.ActualizeOptions()
}

// SetParent installs the provider of inherited options,
// normally the owning form.
func (f *Field) SetParent(parent func() Options) {
	f.mu.Lock()
	f.parent = parent
	f.mu.Unlock()
}

// ActualizeOptions re-reads the options, inheriting unset
// values from the parent, and refreshes the constraints.
func (f *Field) ActualizeOptions() error {
	f.mu.Lock()
	parent := f.parent
	own := f.own
	f.mu.Unlock()

	var inherited Options
	if parent != nil {
		inherited = parent()
	}

	f.mu.Lock()
	f.opts = own.Inherit(inherited)
	f.mu.Unlock()

	return f.RefreshConstraints()
}

// ConstraintOption adjusts a programmatic constraint.
type ConstraintOption func(*constraintOptions)

type constraintOptions struct {
	priority    int
	hasPriority bool
}

// Priority overrides the rule's default priority. Any value is
// kept as given, zero included, placing the constraint in the
// last tier.
func Priority(p int) ConstraintOption {
	return func(o *constraintOptions) {
		o.priority = p
		o.hasPriority = true
	}
}

func (f *Field) bind(
	name string,
	requirements any,
	opts []ConstraintOption,
) (constraint.Constraint, error) {
	var co constraintOptions
	for _, opt := range opts {
		opt(&co)
	}

	def, err := f.registry.Get(name)
	if err != nil {
		return constraint.Constraint{}, err
	}
	c, err := constraint.New(def, requirements, co.priority)
	if err != nil {
		return constraint.Constraint{}, err
	}
	if co.hasPriority {
		c.Priority = co.priority
	}
	return c, nil
}

// AddConstraint binds a rule to the field. Adding a name that
// is already present replaces it in place.
func (f *Field) AddConstraint(
	name string,
	requirements any,
	opts ...ConstraintOption,
) error {
	c, err := f.bind(name, requirements, opts)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.constraints.Put(c)
	return nil
}

// UpdateConstraint replaces an existing constraint. It returns
// constraint.ErrUnknownConstraint when name is not present.
func (f *Field) UpdateConstraint(
	name string,
	requirements any,
	opts ...ConstraintOption,
) error {
	c, err := f.bind(name, requirements, opts)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.constraints.Has(name) {
		return fmt.Errorf(
			"%w: %s on field %s",
			constraint.ErrUnknownConstraint, name, f.name,
		)
	}
	f.constraints.Put(c)
	return nil
}

// RemoveConstraint removes a constraint. It returns
// constraint.ErrUnknownConstraint when name is not present.
func (f *Field) RemoveConstraint(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.constraints.Remove(name) {
		return fmt.Errorf(
			"%w: %s on field %s",
			constraint.ErrUnknownConstraint, name, f.name,
		)
	}
	return nil
}

// Constraints returns a copy of the constraints in declaration
// order.
func (f *Field) Constraints() []constraint.Constraint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.constraints.All()
}

// RefreshConstraints re-derives the declared and structural
// constraints from the declaration source. Programmatic
// constraints are kept and take precedence over declared
// constraints of the same name. Surviving constraints keep
// their position; new ones are appended.
//
// Descriptors that cannot be bound are reported in the
// returned error. A descriptor naming an unregistered rule
// stays on the field so that passes fail with
// rule.ErrMissingImplementation instead of ignoring it.
func (f *Field) RefreshConstraints() error {
	f.mu.Lock()
	required := boolOr(f.opts.Required, false)
	f.mu.Unlock()

	var descs []constraint.Descriptor
	if f.source != nil {
		var err error
		if descs, err = f.source(); err != nil {
			return fmt.Errorf(
				"reading declarations of %s: %w", f.name, err,
			)
		}
	}
	if required && !declares(descs, "required") {
		descs = append(descs, constraint.Descriptor{
			Name:         "required",
			Requirements: true,
		})
	}

	bound := make([]constraint.Constraint, 0, len(descs))
	var unbound []constraint.Descriptor
	var errs []error
	for _, d := range descs {
		def, err := f.registry.Get(d.Name)
		if err != nil {
			errs = append(errs, err)
			if errors.Is(err, rule.ErrUnknownRule) {
				unbound = append(unbound, d)
			}
			continue
		}
		c, err := constraint.FromDescriptor(def, d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		bound = append(bound, c)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, d := range unbound {
		if existing, ok := f.constraints.Get(d.Name); ok {
			bound = append(bound, existing)
			continue
		}
		bound = append(bound, missingRule(d))
	}

	keep := make(map[string]bool, len(bound))
	for _, c := range bound {
		keep[c.Name] = true
	}
	f.constraints.RemoveFunc(func(c constraint.Constraint) bool {
		return c.Declared && !keep[c.Name]
	})
	for _, c := range bound {
		if existing, ok := f.constraints.Get(c.Name); ok &&
			existing.Programmatic() {
			continue
		}
		f.constraints.Put(c)
	}
	return errors.Join(errs...)
}

func declares(descs []constraint.Descriptor, name string) bool {
	for _, d := range descs {
		if d.Name == name {
			return true
		}
	}
	return false
}

// missingRule keeps a descriptor whose rule is not registered.
// Its requirements stay unparsed.
func missingRule(d constraint.Descriptor) constraint.Constraint {
	priority := d.Priority
	if priority == 0 {
		priority = rule.PriorityDefault
	}
	return constraint.Constraint{
		Name:         d.Name,
		Requirements: d.Requirements,
		Raw:          d.Requirements,
		Priority:     priority,
		Structural:   d.Structural,
		Declared:     true,
	}
}

// GetValue returns the normalized value a pass would validate.
// A WithValue option is returned as given.
func (f *Field) GetValue(opts ...PassOption) rule.Value {
	return f.readValue(f.Options(), collectPassOptions(opts))
}

func (f *Field) readValue(o Options, po passOptions) rule.Value {
	if po.value != nil {
		return *po.value
	}

	var v rule.Value
	switch {
	case o.Value.IsSet():
		v = o.Value.read()
	case f.element != nil:
		v = f.element()
	}
	return normalizeValue(v, o)
}

// ValidationResult returns the result of the last committed
// pass.
func (f *Field) ValidationResult() Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// IsValid evaluates the field without firing events. The
// result is cached and available from ValidationResult.
func (f *Field) IsValid(
	ctx context.Context,
	opts ...PassOption,
) (Status, error) {
	res, err := f.Evaluate(ctx, opts...)
	return res.Status, err
}

// Evaluate is IsValid returning the full result.
func (f *Field) Evaluate(
	ctx context.Context,
	opts ...PassOption,
) (Result, error) {
	return f.run(ctx, false, opts)
}

// Validate evaluates the field, fires lifecycle events and
// commits the result. The error is non-nil only when ctx is
// done or the pass was superseded.
func (f *Field) Validate(
	ctx context.Context,
	opts ...PassOption,
) (Result, error) {
	return f.run(ctx, true, opts)
}

func (f *Field) begin(ctx context.Context) (
	context.Context, context.CancelFunc, uint64,
) {
	passCtx, cancel := context.WithCancel(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
	}
	f.cancel = cancel
	f.generation++
	return passCtx, cancel, f.generation
}

func (f *Field) current(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generation == gen
}

func (f *Field) run(
	ctx context.Context,
	events bool,
	opts []PassOption,
) (Result, error) {
	po := collectPassOptions(opts)
	passCtx, cancel, gen := f.begin(ctx)
	defer cancel()

	start := time.Now()
	f.metrics.AddInFlight(1)
	defer f.metrics.AddInFlight(-1)

	f.warnSkipped(f.ActualizeOptions())

	f.mu.Lock()
	o := f.opts
	cs := f.constraints.All()
	f.mu.Unlock()

	p := &pass{
		field:  f,
		id:     uuid.NewString(),
		events: events,
	}
	p.logger = f.logger.WithFields(logging.StringField("pass_id", p.id))
	passCtx = rule.WithPassID(passCtx, p.id)

	if po.group != "" && o.Group != po.group {
		return f.conclude(gen, p, Result{Status: StatusSkipped}, start)
	}

	p.value = f.readValue(o, po)
	if events {
		e := &Event{
			Type:   EventValidate,
			Field:  f,
			PassID: p.id,
			Value:  p.value,
		}
		f.events.emit(e)
		p.value = e.Value
	}

	if len(cs) == 0 {
		return f.conclude(gen, p, Result{Status: StatusValid}, start)
	}

	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	p.defs = f.registry.Resolve(names...)

	if !needsValidation(o, po, p.value, cs, p.defs) {
		return f.conclude(gen, p, Result{Status: StatusSkipped}, start)
	}

	failures, err := p.evaluate(passCtx, cs, o.PriorityEnabledOrDefault())
	if err != nil {
		if !f.current(gen) {
			return Result{}, ErrSuperseded
		}
		return Result{}, err
	}
	return f.conclude(gen, p, resultOf(failures), start)
}

// needsValidation reports whether the field must be evaluated.
// Empty values are exempt unless forced, unless the field opts
// in, or unless an active constraint runs on empty values.
func needsValidation(
	o Options,
	po passOptions,
	value rule.Value,
	cs []constraint.Constraint,
	defs map[string]rule.Definition,
) bool {
	if po.force || !value.Empty() || boolOr(o.ValidateIfEmpty, false) {
		return true
	}
	for _, c := range cs {
		def, ok := defs[c.Name]
		if !ok {
			// reported as a missing implementation
			return true
		}
		if def.ValidateIfEmpty && c.Requirements != false {
			return true
		}
	}
	return false
}

func (f *Field) conclude(
	gen uint64,
	p *pass,
	res Result,
	start time.Time,
) (Result, error) {
	f.mu.Lock()
	if f.generation != gen {
		f.mu.Unlock()
		return Result{}, ErrSuperseded
	}
	f.result = res
	f.mu.Unlock()

	elapsed := time.Since(start)
	f.metrics.RecordField(f.name, res.Status.String(), elapsed)
	p.logger.Debug("field validated",
		logging.StringField("status", res.Status.String()),
		logging.IntField("failures", len(res.Failures)),
		logging.DurationField("duration_ms", elapsed),
	)

	if p.events {
		e := &Event{
			Field:  f,
			PassID: p.id,
			Value:  p.value,
			Result: res,
		}
		switch res.Status {
		case StatusValid:
			e.Type = EventSuccess
			f.events.emit(e)
		case StatusInvalid:
			e.Type = EventError
			f.events.emit(e)
		}
		validated := *e
		validated.Type = EventValidated
		f.events.emit(&validated)
	}
	return res, nil
}
