package field

import (
	"testing"

	"digital.vasic.constraints/pkg/rule"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		opts     Options
		expected string
	}{
		{"none", " a  b ", Options{}, " a  b "},
		{"explicit none", " a ", Options{Whitespace: WhitespaceNone}, " a "},
		{"trim", "\t a  b \n", Options{Whitespace: WhitespaceTrim}, "a  b"},
		{"squish", " a \t\n b  c ", Options{Whitespace: WhitespaceSquish}, "a b c"},
		{"nfc", "é", Options{Unicode: "NFC"}, "é"},
		{"nfkc", "Ａ", Options{Unicode: "nfkc"}, "A"},
		{"unknown form", "é", Options{Unicode: "nfx"}, "é"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeText(tt.in, tt.opts))
		})
	}
}

func TestNormalizeValue_Items(t *testing.T) {
	got := normalizeValue(
		rule.Items(" a ", "b "),
		Options{Whitespace: WhitespaceTrim},
	)
	assert.Equal(t, rule.Items("a", "b"), got)
}
