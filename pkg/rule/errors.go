package rule

import "errors"

var (
	// ErrDuplicateRule is returned when adding a rule whose
	// name is already registered.
	ErrDuplicateRule = errors.New("rule already registered")

	// ErrUnknownRule is returned when a rule name is not
	// registered.
	ErrUnknownRule = errors.New("rule not found")

	// ErrInvalidDefinition is returned for definitions without
	// a name or implementation.
	ErrInvalidDefinition = errors.New("invalid rule definition")

	// ErrMissingImplementation marks a constraint whose rule
	// was removed from the registry.
	ErrMissingImplementation = errors.New(
		"missing rule implementation",
	)

	// ErrEvaluation marks a rule that failed to produce a
	// verdict: it panicked, rejected, or returned an error.
	ErrEvaluation = errors.New("rule evaluation failed")

	// ErrInvalidRequirementShape is returned when requirements
	// do not match the rule's declared shape.
	ErrInvalidRequirementShape = errors.New(
		"invalid requirement shape",
	)
)
