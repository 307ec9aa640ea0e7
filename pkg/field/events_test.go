package field

import (
	"context"
	"testing"

	"digital.vasic.constraints/pkg/constraint"
	"digital.vasic.constraints/pkg/rule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_EventSequence(t *testing.T) {
	in := priorityInput("")
	f := newInput(rule.NewRegistry(), in)

	var seen []EventType
	record := func(e *Event) { seen = append(seen, e.Type) }
	for _, et := range []EventType{
		EventValidate, EventConstraint, EventValidated,
		EventSuccess, EventError,
	} {
		f.On(et, record)
	}

	f.On(EventValidate, func(e *Event) {
		assert.Equal(t, StatusUnknown, e.Result.Status)
		assert.Empty(t, e.Result.Failures)
		assert.NotEmpty(t, e.PassID)
	})
	f.On(EventValidated, func(e *Event) {
		assert.Len(t, e.Result.Failures, 1)
	})
	f.On(EventError, func(e *Event) {
		assert.Equal(t, "required", e.Result.Failures[0].Constraint.Name)
	})

	_, err := f.Validate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []EventType{
		EventValidate, EventConstraint, EventError, EventValidated,
	}, seen)
}

func TestField_SuccessEvent(t *testing.T) {
	in := &input{
		value: "foo@bar.baz",
		attrs: constraint.NativeAttributes{
			Type: "email", Required: true,
		},
	}
	f := newInput(rule.NewRegistry(), in)

	var success *Event
	f.On(EventSuccess, func(e *Event) { success = e })

	_, err := f.Validate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, success)
	assert.True(t, success.Result.Valid())
	assert.Same(t, f, success.Field)
}

func TestField_ValidateHandlerAltersValue(t *testing.T) {
	in := &input{
		value: "foo@bar.baz",
		attrs: constraint.NativeAttributes{
			Type: "email", Required: true,
		},
	}
	f := newInput(rule.NewRegistry(), in)
	ctx := context.Background()

	res, err := f.Validate(ctx)
	require.NoError(t, err)
	assert.True(t, res.Valid())

	f.On(EventValidate, func(e *Event) {
		e.Value = rule.Text("")
	})
	res, err = f.Validate(ctx)
	require.NoError(t, err)
	assert.False(t, res.Valid())
	assert.Equal(t, rule.Text("foo@bar.baz"), f.GetValue())
}

func TestField_IsValidFiresNoEvents(t *testing.T) {
	f := newInput(rule.NewRegistry(), priorityInput(""))
	fired := false
	f.On(EventValidated, func(*Event) { fired = true })

	_, err := f.IsValid(context.Background())
	require.NoError(t, err)
	assert.False(t, fired)
}

func TestField_SkippedPassFiresValidatedOnly(t *testing.T) {
	in := &input{attrs: constraint.NativeAttributes{Type: "email"}}
	f := newInput(rule.NewRegistry(), in)

	var seen []EventType
	for _, et := range []EventType{EventValidated, EventSuccess, EventError} {
		f.On(et, func(e *Event) { seen = append(seen, e.Type) })
	}

	res, err := f.Validate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Equal(t, []EventType{EventValidated}, seen)
}

func TestField_Off(t *testing.T) {
	f := New("x", rule.NewRegistry())
	calls := 0
	f.On(EventValidated, func(*Event) { calls++ })
	f.Off(EventValidated)

	_, err := f.Validate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestField_ConstraintEventCarriesResult(t *testing.T) {
	f := New("x", rule.NewRegistry(), WithElement(func() rule.Value {
		return rule.Text("ab")
	}))
	require.NoError(t, f.AddConstraint("minlength", 1))
	require.NoError(t, f.AddConstraint("maxlength", 1))

	var settled []ValidationResult
	f.On(EventConstraint, func(e *Event) {
		settled = append(settled, *e.Constraint)
	})

	_, err := f.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, settled, 2)
	assert.True(t, settled[0].Assert)
	assert.False(t, settled[1].Assert)
}
