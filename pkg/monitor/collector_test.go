package monitor

import (
	"context"
	"testing"

	"digital.vasic.constraints/pkg/field"
	"digital.vasic.constraints/pkg/form"
	"digital.vasic.constraints/pkg/rule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupForm(t *testing.T, email string) *form.Form {
	t.Helper()
	reg := rule.NewRegistry()
	e := field.New("email", reg, field.WithElement(func() rule.Value {
		return rule.Text(email)
	}))
	require.NoError(t, e.AddConstraint("required", true))
	require.NoError(t, e.AddConstraint("type", "email"))
	nick := field.New("nickname", reg, field.WithElement(func() rule.Value {
		return rule.Text("")
	}))
	require.NoError(t, nick.AddConstraint("minlength", 3))
	return form.New("signup", form.WithFields(e, nick))
}

func TestCollector_Emit(t *testing.T) {
	c := NewCollector()
	var seen []Event
	c.OnEvent(func(e Event) { seen = append(seen, e) })

	c.Emit(Event{Type: EventFieldValidated, Field: "a", Status: "valid"})
	c.Emit(Event{Type: EventFieldValidated, Field: "b", Status: "invalid"})
	c.Emit(Event{Type: EventFieldValidated, Field: "c", Status: "skipped"})
	c.Emit(Event{Type: EventFormValidated, Form: "f", Status: "invalid"})

	assert.Len(t, seen, 4)
	assert.False(t, seen[0].Timestamp.IsZero())

	s := c.Stats()
	assert.Equal(t, 3, s.Passes)
	assert.Equal(t, 1, s.Valid)
	assert.Equal(t, 1, s.Invalid)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Forms)

	c.Reset()
	assert.Empty(t, c.Events())
	assert.Zero(t, c.Stats().Passes)
}

func TestCollector_Attach(t *testing.T) {
	frm := signupForm(t, "not-an-email")
	c := NewCollector()
	c.Attach(frm)

	_, err := frm.Validate(context.Background())
	require.NoError(t, err)

	events := c.Events()
	require.Len(t, events, 3)
	assert.Equal(t, EventFieldValidated, events[0].Type)
	assert.Equal(t, "email", events[0].Field)
	assert.Equal(t, "invalid", events[0].Status)
	assert.Equal(t, []string{"type"}, events[0].Failures)
	assert.Equal(t, "skipped", events[1].Status)

	assert.Equal(t, EventFormValidated, events[2].Type)
	assert.Equal(t, "signup", events[2].Form)
	assert.Equal(t, []string{"email"}, events[2].Failures)

	_, err = frm.IsValid(context.Background())
	require.NoError(t, err)
	assert.Len(t, c.Events(), 3, "IsValid fires no events")
}

func TestDashboard(t *testing.T) {
	frm := signupForm(t, "jane@example.com")
	c := NewCollector()
	c.Attach(frm)

	for i := 0; i < 2; i++ {
		_, err := frm.Validate(context.Background())
		require.NoError(t, err)
	}

	d := BuildDashboard(c)
	snap := d.Snapshot()
	require.Len(t, snap.Fields, 2)
	email := snap.Fields["signup/email"]
	assert.Equal(t, "valid", email.Status)
	assert.Equal(t, 2, email.Passes)
	assert.Equal(t, 2, snap.Summary.Total)
	assert.Equal(t, 1, snap.Summary.Valid)
	assert.Equal(t, 1, snap.Summary.Skipped)
	assert.InDelta(t, 100.0, snap.Summary.ValidRate, 0.001)
}
