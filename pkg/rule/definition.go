// Package rule provides the named validation rules that field
// constraints bind to, the registry holding them, and the
// verdict type rule implementations return.
package rule

import "context"

const (
	// PriorityDefault is used when a definition omits its
	// priority.
	PriorityDefault = 2

	// PriorityStructural is the priority of rules derived from
	// native element semantics, such as required.
	PriorityStructural = 512
)

// RequirementType describes the shape of the argument a rule
// expects.
type RequirementType int

const (
	// RequirementNone means the rule takes no argument.
	RequirementNone RequirementType = iota
	// RequirementBoolean is a true/false flag.
	RequirementBoolean
	// RequirementNumber is any finite number.
	RequirementNumber
	// RequirementInteger is a whole number.
	RequirementInteger
	// RequirementString is free text.
	RequirementString
	// RequirementArray is a fixed-arity list whose element
	// shapes are given by Definition.Elements.
	RequirementArray
	// RequirementRegexp is a regular expression.
	RequirementRegexp
	// RequirementObject is a string-keyed map.
	RequirementObject
)

// String returns the name of the requirement type.
func (t RequirementType) String() string {
	switch t {
	case RequirementNone:
		return "none"
	case RequirementBoolean:
		return "boolean"
	case RequirementNumber:
		return "number"
	case RequirementInteger:
		return "integer"
	case RequirementString:
		return "string"
	case RequirementArray:
		return "array"
	case RequirementRegexp:
		return "regexp"
	case RequirementObject:
		return "object"
	default:
		return "unknown"
	}
}

// ValidateFunc evaluates a value against parsed requirements.
// The requirements argument has the Go shape produced by
// ParseRequirement for the rule's RequirementType.
type ValidateFunc func(
	ctx context.Context,
	value Value,
	requirements any,
) Verdict

// Definition is a named rule as stored in a Registry.
type Definition struct {
	Name            string
	Validate        ValidateFunc
	Priority        int
	RequirementType RequirementType

	// Elements lists the element shapes of an array
	// requirement, one per position.
	Elements []RequirementType

	// ValidateIfEmpty makes the rule run even when the field
	// value is empty.
	ValidateIfEmpty bool
}

// Check adapts a synchronous predicate into a ValidateFunc.
func Check(fn func(value Value, requirements any) bool) ValidateFunc {
	return func(_ context.Context, value Value, req any) Verdict {
		return Ready(fn(value, req))
	}
}
