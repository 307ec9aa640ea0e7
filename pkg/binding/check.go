package binding

import (
	"fmt"
	"strings"

	"digital.vasic.constraints/pkg/field"
	"digital.vasic.constraints/pkg/rule"
)

// DeclarationError is a structural problem in a declaration.
type DeclarationError struct {
	Form    string
	Field   string
	Index   int // -1 for form-level problems
	Message string
}

func (e DeclarationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf(
			"%s.fields[%d](%s): %s", e.Form, e.Index, e.Field, e.Message,
		)
	}
	return fmt.Sprintf("%s: %s", e.Form, e.Message)
}

// Check returns every structural problem of decl. Rule names
// are checked only when reg is non-nil.
func Check(decl FormDeclaration, reg *rule.Registry) []DeclarationError {
	var errs []DeclarationError
	add := func(i int, name, format string, args ...any) {
		errs = append(errs, DeclarationError{
			Form:    decl.Name,
			Field:   name,
			Index:   i,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if decl.Name == "" {
		add(-1, "", "form name is required")
	}
	if len(decl.Fields) == 0 {
		add(-1, "", "form declares no fields")
	}

	seen := make(map[string]bool)
	for i, fd := range decl.Fields {
		switch {
		case fd.Name == "":
			add(i, fd.Name, "field name is required")
		case seen[fd.Name]:
			add(i, fd.Name, "duplicate field name")
		default:
			seen[fd.Name] = true
		}

		switch field.Whitespace(fd.Whitespace) {
		case "", field.WhitespaceNone, field.WhitespaceTrim, field.WhitespaceSquish:
		default:
			add(i, fd.Name, "unknown whitespace mode %q", fd.Whitespace)
		}
		switch strings.ToLower(fd.Unicode) {
		case "", "nfc", "nfd", "nfkc", "nfkd":
		default:
			add(i, fd.Name, "unknown unicode form %q", fd.Unicode)
		}

		for _, d := range fd.Constraints {
			if d.Name == "" {
				add(i, fd.Name, "constraint without a name")
				continue
			}
			if reg != nil && !reg.Has(d.Name) {
				add(i, fd.Name, "unknown rule %q", d.Name)
			}
		}
	}
	return errs
}
