// Package constraint models the rules bound to a single field:
// their requirements, priorities and provenance, kept unique by
// name in declaration order.
package constraint

import (
	"errors"
	"fmt"

	"digital.vasic.constraints/pkg/rule"
)

// ErrUnknownConstraint is returned when a field has no
// constraint with the given name.
var ErrUnknownConstraint = errors.New("constraint not found")

// Constraint is a rule bound to one field.
type Constraint struct {
	Name string `json:"name"`

	// Requirements holds the parsed argument in the shape the
	// rule expects. Raw keeps the argument as declared.
	Requirements any `json:"-"`
	Raw          any `json:"requirements,omitempty"`

	Priority int `json:"priority"`

	// Structural is set for constraints inferred from native
	// element semantics.
	Structural bool `json:"structural,omitempty"`

	// Declared is set for constraints that came from the
	// declaration source rather than programmatic calls.
	Declared bool `json:"declared,omitempty"`
}

// Descriptor is a constraint as supplied by a declaration
// source. A zero Priority means the rule's default.
type Descriptor struct {
	Name         string `json:"name" yaml:"name"`
	Requirements any    `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Priority     int    `json:"priority,omitempty" yaml:"priority,omitempty"`
	Structural   bool   `json:"structural,omitempty" yaml:"structural,omitempty"`
}

// New binds raw requirements to def. A priority of zero selects
// the rule's default priority.
func New(
	def rule.Definition,
	raw any,
	priority int,
) (Constraint, error) {
	req, err := rule.ParseRequirement(def, raw)
	if err != nil {
		return Constraint{}, fmt.Errorf(
			"constraint %s: %w", def.Name, err,
		)
	}
	if priority == 0 {
		priority = def.Priority
	}
	return Constraint{
		Name:         def.Name,
		Requirements: req,
		Raw:          raw,
		Priority:     priority,
	}, nil
}

// FromDescriptor binds a declared descriptor to def.
func FromDescriptor(
	def rule.Definition,
	d Descriptor,
) (Constraint, error) {
	c, err := New(def, d.Requirements, d.Priority)
	if err != nil {
		return Constraint{}, err
	}
	c.Structural = d.Structural
	c.Declared = true
	return c, nil
}

// Programmatic reports whether the constraint was added
// through code rather than declarations.
func (c Constraint) Programmatic() bool {
	return !c.Declared && !c.Structural
}
