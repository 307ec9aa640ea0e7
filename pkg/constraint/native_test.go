package constraint

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func structural(name string, req any) Descriptor {
	return Descriptor{Name: name, Requirements: req, Structural: true}
}

func TestNativeAttributes_Descriptors(t *testing.T) {
	tests := []struct {
		name     string
		attrs    NativeAttributes
		expected []Descriptor
	}{
		{
			name:     "required only",
			attrs:    NativeAttributes{Required: true},
			expected: []Descriptor{structural("required", true)},
		},
		{
			name:     "email type",
			attrs:    NativeAttributes{Type: "email"},
			expected: []Descriptor{structural("type", "email")},
		},
		{
			name:  "unknown type",
			attrs: NativeAttributes{Type: "foobar"},
		},
		{
			name:  "mistyped type",
			attrs: NativeAttributes{Type: "    email"},
		},
		{
			name: "all html5 attributes",
			attrs: NativeAttributes{
				Type:      "email",
				Pattern:   `\w+`,
				Required:  true,
				Min:       "5",
				Max:       "100",
				MinLength: "1",
				MaxLength: "3",
			},
			expected: []Descriptor{
				structural("required", true),
				structural("pattern", `\w+`),
				structural("range", []any{"5", "100"}),
				structural("length", []any{"1", "3"}),
				structural("type", "email"),
			},
		},
		{
			name: "max without min",
			attrs: NativeAttributes{
				Max:       "100",
				MaxLength: "3",
			},
			expected: []Descriptor{
				structural("max", "100"),
				structural("maxlength", "3"),
			},
		},
		{
			name:  "min and minlength alone",
			attrs: NativeAttributes{Min: "5", MinLength: "1"},
			expected: []Descriptor{
				structural("min", "5"),
				structural("minlength", "1"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.attrs.Descriptors()
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("descriptors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNativeAttributes_NumberStep(t *testing.T) {
	tests := []struct {
		step     string
		expected string
	}{
		{"", "integer"},
		{"1", "integer"},
		{"2.0", "integer"},
		{"0.3", "number"},
		{"any", "number"},
		{"ANY", "number"},
	}
	for _, tt := range tests {
		t.Run("step="+tt.step, func(t *testing.T) {
			got := NativeAttributes{
				Type: "number", Step: tt.step,
			}.Descriptors()

			assert.Len(t, got, 1)
			assert.Equal(t, "type", got[0].Name)
			assert.Equal(t, tt.expected, got[0].Requirements)
		})
	}
}
