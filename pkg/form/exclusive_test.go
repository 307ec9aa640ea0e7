package form

import (
	"testing"

	"digital.vasic.constraints/pkg/field"
	"digital.vasic.constraints/pkg/rule"

	"github.com/stretchr/testify/assert"
)

func TestCheckedMember(t *testing.T) {
	reg := rule.NewRegistry()
	a := field.New("a", reg)
	b := field.New("b", reg)
	members := []*field.Field{a, b}

	assert.Same(t, a, FirstMember(members))
	assert.Same(t, b, CheckedMember(func(f *field.Field) bool {
		return f.Name() == "b"
	})(members))
	assert.Same(t, a, CheckedMember(func(*field.Field) bool {
		return false
	})(members))
}

func TestCombine(t *testing.T) {
	reg := rule.NewRegistry()
	a := field.New("a", reg)
	outcome := func(s field.Status) FieldOutcome {
		return FieldOutcome{Field: a, Result: field.Result{Status: s}}
	}

	assert.Equal(t, field.StatusValid, combine(nil).Status)
	assert.Equal(t, field.StatusSkipped, combine([]FieldOutcome{
		outcome(field.StatusSkipped), outcome(field.StatusSkipped),
	}).Status)
	assert.Equal(t, field.StatusValid, combine([]FieldOutcome{
		outcome(field.StatusSkipped), outcome(field.StatusValid),
	}).Status)

	res := combine([]FieldOutcome{
		outcome(field.StatusValid), outcome(field.StatusInvalid),
	})
	assert.Equal(t, field.StatusInvalid, res.Status)
	assert.Len(t, res.Fields, 1)
}
