package rule

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	emailPattern = regexp.MustCompile(
		`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@` +
			`[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?` +
			`(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`,
	)
	numberPattern   = regexp.MustCompile(`^-?(\d*\.)?\d+([eE][-+]?\d+)?$`)
	integerPattern  = regexp.MustCompile(`^-?\d+$`)
	digitsPattern   = regexp.MustCompile(`^\d+$`)
	alphanumPattern = regexp.MustCompile(`^\w+$`)
)

// formatCheckers maps the names accepted by the type rule to
// their predicates.
var formatCheckers = map[string]func(string) bool{
	"email":    emailPattern.MatchString,
	"number":   numberPattern.MatchString,
	"integer":  integerPattern.MatchString,
	"digits":   digitsPattern.MatchString,
	"alphanum": alphanumPattern.MatchString,
	"url":      isURL,
	"uuid":     isUUID,
}

// Formats returns the names accepted by the type rule.
func Formats() []string {
	names := make([]string, 0, len(formatCheckers))
	for name := range formatCheckers {
		names = append(names, name)
	}
	return names
}

// IsFormat reports whether name is accepted by the type rule.
func IsFormat(name string) bool {
	_, ok := formatCheckers[name]
	return ok
}

func checkFormat(name, s string) (bool, error) {
	fn, ok := formatCheckers[name]
	if !ok {
		return false, fmt.Errorf("unknown type %q", name)
	}
	return fn(s), nil
}

// isURL accepts absolute http, https and ftp URLs, and
// scheme-less host names such as example.com/path.
func isURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https", "ftp":
	default:
		return false
	}
	host := u.Hostname()
	return host == "localhost" || strings.Contains(host, ".")
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
