package field

import (
	"errors"

	"digital.vasic.constraints/pkg/constraint"
	"digital.vasic.constraints/pkg/rule"
)

// Status is the verdict of a validation pass.
type Status int

const (
	// StatusUnknown means no pass has concluded yet.
	StatusUnknown Status = iota
	// StatusValid means every evaluated constraint passed.
	StatusValid
	// StatusInvalid means at least one constraint failed.
	StatusInvalid
	// StatusSkipped means the field was exempt from
	// validation, typically because its value is empty.
	StatusSkipped
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// ValidationResult pairs an evaluated constraint with its
// outcome and the value it was evaluated against.
type ValidationResult struct {
	Constraint constraint.Constraint
	Assert     bool
	Value      rule.Value

	// Err is set when the failure came from evaluation rather
	// than a negative verdict. It wraps
	// rule.ErrMissingImplementation or rule.ErrEvaluation.
	Err error
}

// Kind classifies the failure for presentation layers.
func (r ValidationResult) Kind() string {
	switch {
	case r.Assert:
		return "passed"
	case errors.Is(r.Err, rule.ErrMissingImplementation):
		return "missing_implementation"
	case r.Err != nil:
		return "evaluation_error"
	default:
		return "failed"
	}
}

// Result is the outcome of a field pass. Failures is empty
// unless Status is StatusInvalid.
type Result struct {
	Status   Status
	Failures []ValidationResult
}

// Valid reports whether the pass concluded valid.
func (r Result) Valid() bool {
	return r.Status == StatusValid
}

func resultOf(failures []ValidationResult) Result {
	if len(failures) == 0 {
		return Result{Status: StatusValid}
	}
	return Result{Status: StatusInvalid, Failures: failures}
}
