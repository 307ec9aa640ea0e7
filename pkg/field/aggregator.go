package field

import (
	"context"
	"fmt"

	"digital.vasic.constraints/pkg/constraint"
	"digital.vasic.constraints/pkg/logging"
	"digital.vasic.constraints/pkg/rule"
)

// pass carries the state of one validation pass.
type pass struct {
	field  *Field
	id     string
	events bool
	value  rule.Value
	defs   map[string]rule.Definition
	logger logging.Logger
}

// check is a dispatched constraint awaiting settlement.
type check struct {
	constraint constraint.Constraint
	verdict    rule.Verdict
	err        error
}

// evaluate runs the constraints under the selected policy and
// returns the failures. With priority enabled, tiers run one
// after another and the first failing tier ends the pass.
// Otherwise every constraint is dispatched before any is
// awaited.
func (p *pass) evaluate(
	ctx context.Context,
	cs []constraint.Constraint,
	priorityEnabled bool,
) ([]ValidationResult, error) {
	ts := tiers(cs)

	if !priorityEnabled {
		results, err := p.settle(ctx, p.dispatch(ctx, flatten(ts)))
		if err != nil {
			return nil, err
		}
		return failuresOf(results), nil
	}

	for _, t := range ts {
		results, err := p.settle(ctx, p.dispatch(ctx, t.constraints))
		if err != nil {
			return nil, err
		}
		if failures := failuresOf(results); len(failures) > 0 {
			p.logger.Debug("tier failed",
				logging.IntField("priority", t.priority),
				logging.IntField("failures", len(failures)),
			)
			return failures, nil
		}
	}
	return nil, nil
}

func (p *pass) dispatch(
	ctx context.Context,
	cs []constraint.Constraint,
) []check {
	checks := make([]check, len(cs))
	for i, c := range cs {
		checks[i].constraint = c
		def, ok := p.defs[c.Name]
		if !ok {
			checks[i].err = fmt.Errorf(
				"%w: %s", rule.ErrMissingImplementation, c.Name,
			)
			continue
		}
		checks[i].verdict = invoke(ctx, def, p.value, c.Requirements).
			Start(ctx)
	}
	return checks
}

// invoke calls the rule, turning a panic into an evaluation
// error.
func invoke(
	ctx context.Context,
	def rule.Definition,
	value rule.Value,
	requirements any,
) (v rule.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			v = rule.Failed(fmt.Errorf("panic: %v", r))
		}
	}()
	return def.Validate(ctx, value, requirements)
}

// settle waits for every check in order. It only returns an
// error when ctx is done.
func (p *pass) settle(
	ctx context.Context,
	checks []check,
) ([]ValidationResult, error) {
	results := make([]ValidationResult, 0, len(checks))
	for _, chk := range checks {
		res := ValidationResult{
			Constraint: chk.constraint,
			Value:      p.value,
			Err:        chk.err,
		}
		if chk.err == nil {
			out := chk.verdict.Wait(ctx)
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res.Assert = out.Passed && out.Err == nil
			if out.Err != nil {
				res.Err = fmt.Errorf(
					"%w: %s: %w",
					rule.ErrEvaluation, chk.constraint.Name, out.Err,
				)
			}
		}
		p.settled(res)
		results = append(results, res)
	}
	return results, nil
}

func (p *pass) settled(res ValidationResult) {
	f := p.field
	f.metrics.RecordConstraint(f.name, res.Constraint.Name, res.Assert)
	if res.Err != nil {
		p.logger.Warn("constraint evaluation failed",
			logging.StringField("constraint", res.Constraint.Name),
			logging.ErrorField(res.Err),
		)
	}
	if p.events {
		r := res
		f.events.emit(&Event{
			Type:       EventConstraint,
			Field:      f,
			PassID:     p.id,
			Value:      p.value,
			Constraint: &r,
		})
	}
}

func failuresOf(results []ValidationResult) []ValidationResult {
	var failures []ValidationResult
	for _, r := range results {
		if !r.Assert {
			failures = append(failures, r)
		}
	}
	return failures
}
