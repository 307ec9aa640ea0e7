package rule

import "strings"

// Value is the normalized value of a field. Single inputs carry
// Text; multi-choice groups carry the selected Items.
type Value struct {
	Text  string   `json:"text,omitempty"`
	Items []string `json:"items,omitempty"`
	Multi bool     `json:"multi,omitempty"`
}

// Text returns a scalar value.
func Text(s string) Value {
	return Value{Text: s}
}

// Items returns a multi-choice value holding the selected
// items.
func Items(items ...string) Value {
	return Value{Items: items, Multi: true}
}

// Empty reports whether the value has nothing to validate.
func (v Value) Empty() bool {
	if v.Multi {
		return len(v.Items) == 0
	}
	return v.Text == ""
}

// Len is the text length in runes, or the number of items.
func (v Value) Len() int {
	if v.Multi {
		return len(v.Items)
	}
	return len([]rune(v.Text))
}

// Strings returns the items, or the text as a single element.
func (v Value) Strings() []string {
	if v.Multi {
		return v.Items
	}
	return []string{v.Text}
}

// String renders the value for logs and reports.
func (v Value) String() string {
	if !v.Multi {
		return v.Text
	}
	return "[" + strings.Join(v.Items, ", ") + "]"
}
