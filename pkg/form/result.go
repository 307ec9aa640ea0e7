package form

import "digital.vasic.constraints/pkg/field"

// FieldOutcome pairs a field with the result of its pass.
type FieldOutcome struct {
	Field  *field.Field
	Result field.Result
}

// Result is the combined verdict of a form pass. Fields lists
// the failing fields in registration order.
type Result struct {
	Status field.Status
	Fields []FieldOutcome
}

// Valid reports whether the form passed.
func (r Result) Valid() bool {
	return r.Status == field.StatusValid
}

// Failure returns the outcome of the named failing field.
func (r Result) Failure(name string) (FieldOutcome, bool) {
	for _, o := range r.Fields {
		if o.Field.Name() == name {
			return o, true
		}
	}
	return FieldOutcome{}, false
}
