package constraint

import (
	"math"
	"strconv"
	"strings"
)

// NativeAttributes are the constraint-bearing attributes of a
// native input element. Empty strings mean the attribute is
// absent.
type NativeAttributes struct {
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Step      string `json:"step,omitempty" yaml:"step,omitempty"`
	Required  bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Min       string `json:"min,omitempty" yaml:"min,omitempty"`
	Max       string `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength string `json:"minlength,omitempty" yaml:"minlength,omitempty"`
	MaxLength string `json:"maxlength,omitempty" yaml:"maxlength,omitempty"`
}

// Descriptors infers the structural constraints implied by the
// attributes. Paired bounds collapse into a single range or
// length constraint, and a number input yields exactly one type
// constraint chosen from its step.
func (a NativeAttributes) Descriptors() []Descriptor {
	var out []Descriptor
	add := func(name string, req any) {
		out = append(out, Descriptor{
			Name:         name,
			Requirements: req,
			Structural:   true,
		})
	}

	if a.Required {
		add("required", true)
	}
	if a.Pattern != "" {
		add("pattern", a.Pattern)
	}

	switch {
	case a.Min != "" && a.Max != "":
		add("range", []any{a.Min, a.Max})
	case a.Min != "":
		add("min", a.Min)
	case a.Max != "":
		add("max", a.Max)
	}

	switch {
	case a.MinLength != "" && a.MaxLength != "":
		add("length", []any{a.MinLength, a.MaxLength})
	case a.MinLength != "":
		add("minlength", a.MinLength)
	case a.MaxLength != "":
		add("maxlength", a.MaxLength)
	}

	switch strings.ToLower(a.Type) {
	case "number":
		add("type", numberType(a.Step))
	case "email", "url":
		add("type", strings.ToLower(a.Type))
	}

	return out
}

// numberType selects integer validation unless the step allows
// fractional values.
func numberType(step string) string {
	step = strings.TrimSpace(step)
	if step == "" {
		return "integer"
	}
	if strings.EqualFold(step, "any") {
		return "number"
	}
	f, err := strconv.ParseFloat(step, 64)
	if err != nil || f == math.Trunc(f) {
		return "integer"
	}
	return "number"
}
