package field

import (
	"strings"

	"digital.vasic.constraints/pkg/rule"

	"golang.org/x/text/unicode/norm"
)

func normalizeValue(v rule.Value, o Options) rule.Value {
	if !v.Multi {
		v.Text = normalizeText(v.Text, o)
		return v
	}
	items := make([]string, len(v.Items))
	for i, item := range v.Items {
		items[i] = normalizeText(item, o)
	}
	v.Items = items
	return v
}

func normalizeText(s string, o Options) string {
	switch o.Whitespace {
	case WhitespaceTrim:
		s = strings.TrimSpace(s)
	case WhitespaceSquish:
		s = strings.Join(strings.Fields(s), " ")
	}

	if form, ok := unicodeForm(o.Unicode); ok {
		s = form.String(s)
	}
	return s
}

func unicodeForm(name string) (norm.Form, bool) {
	switch strings.ToLower(name) {
	case "nfc":
		return norm.NFC, true
	case "nfd":
		return norm.NFD, true
	case "nfkc":
		return norm.NFKC, true
	case "nfkd":
		return norm.NFKD, true
	default:
		return 0, false
	}
}
