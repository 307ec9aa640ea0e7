package binding

import (
	"testing"

	"digital.vasic.constraints/pkg/constraint"
	"digital.vasic.constraints/pkg/rule"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	reg := rule.NewRegistry()

	valid := FormDeclaration{
		Name: "ok",
		Fields: []FieldDeclaration{
			{Name: "a", Constraints: []constraint.Descriptor{{Name: "required"}}},
		},
	}
	assert.Empty(t, Check(valid, reg))

	bad := FormDeclaration{
		Fields: []FieldDeclaration{
			{Name: ""},
			{Name: "a", Whitespace: "collapse"},
			{Name: "a", Unicode: "nfx"},
			{Name: "b", Constraints: []constraint.Descriptor{
				{Name: "nosuchrule"}, {Name: ""},
			}},
		},
	}
	errs := Check(bad, reg)
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	assert.Equal(t, []string{
		"form name is required",
		"field name is required",
		`unknown whitespace mode "collapse"`,
		"duplicate field name",
		`unknown unicode form "nfx"`,
		`unknown rule "nosuchrule"`,
		"constraint without a name",
	}, msgs)

	assert.Len(t, Check(bad, nil), 6, "rule names unchecked without registry")
	assert.Len(t, Check(FormDeclaration{Name: "empty"}, reg), 1)
}

func TestDeclarationError_Error(t *testing.T) {
	assert.Equal(t, "f: form declares no fields", DeclarationError{
		Form: "f", Index: -1, Message: "form declares no fields",
	}.Error())
	assert.Equal(t, "f.fields[2](x): duplicate field name", DeclarationError{
		Form: "f", Field: "x", Index: 2, Message: "duplicate field name",
	}.Error())
}
