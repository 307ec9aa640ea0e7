package rule

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isMultiple(v Value, req any) bool {
	n, ok := toFloat(v.Text)
	if !ok {
		return false
	}
	return int(n)%req.(int) == 0
}

func TestNewRegistry_RegistersAllBuiltins(t *testing.T) {
	r := NewRegistry()

	builtins := []string{
		"required", "notblank", "type", "pattern", "nohtml",
		"minlength", "maxlength", "length",
		"min", "max", "range",
		"mincheck", "maxcheck", "check",
	}
	for _, name := range builtins {
		assert.True(t, r.Has(name),
			"missing built-in rule: %s", name)
	}
	assert.Equal(t, len(builtins), r.Count())
}

func TestNewEmptyRegistry(t *testing.T) {
	r := NewEmptyRegistry()
	assert.Equal(t, 0, r.Count())
	assert.Empty(t, r.Names())
}

func TestRegistry_Add(t *testing.T) {
	r := NewEmptyRegistry()

	err := r.Add(Definition{
		Name:            "ismultiple",
		Validate:        Check(isMultiple),
		Priority:        512,
		RequirementType: RequirementInteger,
	})
	require.NoError(t, err)

	def, err := r.Get("ismultiple")
	require.NoError(t, err)
	assert.Equal(t, 512, def.Priority)
	assert.Equal(t, RequirementInteger, def.RequirementType)
}

func TestRegistry_Add_DefaultPriority(t *testing.T) {
	r := NewEmptyRegistry()
	require.NoError(t, r.Add(Definition{
		Name:     "foobazer",
		Validate: Check(func(Value, any) bool { return true }),
	}))

	def, err := r.Get("foobazer")
	require.NoError(t, err)
	assert.Equal(t, PriorityDefault, def.Priority)
}

func TestRegistry_Add_Duplicate(t *testing.T) {
	r := NewRegistry()
	err := r.Add(Definition{
		Name:     "required",
		Validate: Check(func(Value, any) bool { return true }),
	})
	assert.ErrorIs(t, err, ErrDuplicateRule)
	assert.Contains(t, err.Error(), "required")
}

func TestRegistry_Add_InvalidDefinition(t *testing.T) {
	r := NewEmptyRegistry()
	ok := Check(func(Value, any) bool { return true })

	tests := []struct {
		name string
		def  Definition
	}{
		{"no name", Definition{Validate: ok}},
		{"no implementation", Definition{Name: "x"}},
		{"array without elements", Definition{
			Name:            "x",
			Validate:        ok,
			RequirementType: RequirementArray,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, r.Add(tt.def), ErrInvalidDefinition)
		})
	}
}

func TestRegistry_Update(t *testing.T) {
	r := NewRegistry()

	err := r.Update(Definition{
		Name:            "required",
		Validate:        Check(func(Value, any) bool { return false }),
		RequirementType: RequirementBoolean,
	})
	require.NoError(t, err)

	def, err := r.Get("required")
	require.NoError(t, err)
	assert.Equal(t, PriorityDefault, def.Priority)
	assert.False(t, def.Validate(
		context.Background(), Text("x"), true,
	).Wait(context.Background()).Passed)
}

func TestRegistry_Update_Unknown(t *testing.T) {
	r := NewEmptyRegistry()
	err := r.Update(Definition{
		Name:     "ghost",
		Validate: Check(func(Value, any) bool { return true }),
	})
	assert.ErrorIs(t, err, ErrUnknownRule)
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Remove("nohtml"))
	assert.False(t, r.Has("nohtml"))

	err := r.Remove("nohtml")
	assert.True(t, errors.Is(err, ErrUnknownRule))
}

func TestRegistry_Get_Unknown(t *testing.T) {
	_, err := NewRegistry().Get("ghost")
	assert.ErrorIs(t, err, ErrUnknownRule)
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	defs := r.Resolve("required", "ghost", "pattern")

	assert.Len(t, defs, 2)
	assert.Contains(t, defs, "required")
	assert.Contains(t, defs, "pattern")
	assert.NotContains(t, defs, "ghost")
}

func TestRegistry_Names_Sorted(t *testing.T) {
	r := NewEmptyRegistry()
	ok := Check(func(Value, any) bool { return true })
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Add(Definition{Name: name, Validate: ok}))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}

func TestRegistry_ElementsCopied(t *testing.T) {
	r := NewEmptyRegistry()
	elems := []RequirementType{RequirementNumber, RequirementNumber}
	require.NoError(t, r.Add(Definition{
		Name:            "between",
		Validate:        Check(func(Value, any) bool { return true }),
		RequirementType: RequirementArray,
		Elements:        elems,
	}))

	elems[0] = RequirementString
	def, err := r.Get("between")
	require.NoError(t, err)
	assert.Equal(t, RequirementNumber, def.Elements[0])
}

func TestRequirementType_String(t *testing.T) {
	assert.Equal(t, "boolean", RequirementBoolean.String())
	assert.Equal(t, "regexp", RequirementRegexp.String())
	assert.Equal(t, "unknown", RequirementType(99).String())
}
