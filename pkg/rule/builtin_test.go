package rule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluate(
	t *testing.T, r *Registry, name string, value Value, raw any,
) Outcome {
	t.Helper()
	def, err := r.Get(name)
	require.NoError(t, err)
	req, err := ParseRequirement(def, raw)
	require.NoError(t, err)
	ctx := context.Background()
	return def.Validate(ctx, value, req).Wait(ctx)
}

func TestBuiltins(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		rule     string
		value    Value
		raw      any
		expected bool
	}{
		{"required", Text("x"), true, true},
		{"required", Text("   "), true, false},
		{"required", Text(""), "", false},
		{"required", Text(""), false, true},
		{"required", Items(), true, false},
		{"required", Items("a"), true, true},
		{"notblank", Text(" a "), nil, true},
		{"notblank", Text(" \t"), nil, false},
		{"type", Text("foo@bar.baz"), "email", true},
		{"type", Text("foo"), "email", false},
		{"type", Text(""), "email", false},
		{"type", Text("12"), "integer", true},
		{"type", Text("1.5"), "integer", false},
		{"type", Text("-1.5e3"), "number", true},
		{"type", Text("1,5"), "number", false},
		{"type", Text("0123"), "digits", true},
		{"type", Text("-1"), "digits", false},
		{"type", Text("abc_12"), "alphanum", true},
		{"type", Text("abc-12"), "alphanum", false},
		{"type", Text("https://example.com/x?y=1"), "url", true},
		{"type", Text("example.com"), "url", true},
		{"type", Text("not a url"), "url", false},
		{"type", Text("javascript:alert(1)"), "url", false},
		{"type", Text("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), "uuid", true},
		{"type", Text("6ba7b810"), "uuid", false},
		{"type", Items("1", "2"), "integer", true},
		{"type", Items("1", "x"), "integer", false},
		{"pattern", Text("A12345"), `[A-F][0-9]{5}`, true},
		{"pattern", Text("foo@bar.baz"), `[A-F][0-9]{5}`, false},
		{"nohtml", Text("a < b & c"), nil, true},
		{"nohtml", Text("<b>bold</b>"), nil, false},
		{"minlength", Text("hola"), 5, false},
		{"minlength", Text("hello"), 5, true},
		{"maxlength", Text("héllo"), 5, true},
		{"maxlength", Text("hello!"), 5, false},
		{"length", Text("abc"), "[5, 10]", false},
		{"length", Text("abcdef"), "[5, 10]", true},
		{"length", Text(""), "[5, 10]", false},
		{"min", Text("5"), 5, true},
		{"min", Text("4.9"), 5, false},
		{"min", Text("five"), 5, false},
		{"max", Text("100"), "100", true},
		{"max", Text("101"), "100", false},
		{"range", Text("50"), "[5, 100]", true},
		{"range", Text("4"), "[5, 100]", false},
		{"mincheck", Items("a", "b"), 2, true},
		{"mincheck", Items("a"), 2, false},
		{"maxcheck", Items("a", "b", "c"), 2, false},
		{"maxcheck", Text("a"), 1, true},
		{"check", Items("a", "b"), "[1, 2]", true},
		{"check", Items(), "[1, 2]", false},
	}
	for _, tt := range tests {
		name := tt.rule + "/" + tt.value.String()
		t.Run(name, func(t *testing.T) {
			out := evaluate(t, r, tt.rule, tt.value, tt.raw)
			require.NoError(t, out.Err)
			assert.Equal(t, tt.expected, out.Passed)
		})
	}
}

func TestBuiltins_UnknownTypeIsEvaluationError(t *testing.T) {
	out := evaluate(t, NewRegistry(), "type", Text("x"), "colour")
	assert.False(t, out.Passed)
	assert.ErrorContains(t, out.Err, "unknown type")
}

func TestBuiltins_RequiredRunsOnEmpty(t *testing.T) {
	r := NewRegistry()
	def, err := r.Get("required")
	require.NoError(t, err)
	assert.True(t, def.ValidateIfEmpty)
	assert.Equal(t, PriorityStructural, def.Priority)

	def, err = r.Get("type")
	require.NoError(t, err)
	assert.False(t, def.ValidateIfEmpty)
}

func TestFormats(t *testing.T) {
	assert.True(t, IsFormat("email"))
	assert.False(t, IsFormat("    email"))
	assert.ElementsMatch(t, []string{
		"email", "number", "integer", "digits",
		"alphanum", "url", "uuid",
	}, Formats())
}
