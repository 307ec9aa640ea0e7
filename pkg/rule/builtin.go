package rule

import (
	"context"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Priorities of the built-in rules.
const (
	priorityType    = 256
	priorityPattern = 64
	priorityNoHTML  = 32
	priorityBounds  = 30
)

var strictPolicy = bluemonday.StrictPolicy()

func builtinDefinitions() []Definition {
	return []Definition{
		{
			Name:            "required",
			Validate:        Check(validateRequired),
			Priority:        PriorityStructural,
			RequirementType: RequirementBoolean,
			ValidateIfEmpty: true,
		},
		{
			Name:            "notblank",
			Validate:        Check(validateNotBlank),
			RequirementType: RequirementNone,
		},
		{
			Name:            "type",
			Validate:        validateType,
			Priority:        priorityType,
			RequirementType: RequirementString,
		},
		{
			Name:            "pattern",
			Validate:        Check(validatePattern),
			Priority:        priorityPattern,
			RequirementType: RequirementRegexp,
		},
		{
			Name:            "nohtml",
			Validate:        Check(validateNoHTML),
			Priority:        priorityNoHTML,
			RequirementType: RequirementNone,
		},
		{
			Name: "minlength",
			Validate: Check(func(v Value, req any) bool {
				return v.Len() >= req.(int)
			}),
			Priority:        priorityBounds,
			RequirementType: RequirementInteger,
		},
		{
			Name: "maxlength",
			Validate: Check(func(v Value, req any) bool {
				return v.Len() <= req.(int)
			}),
			Priority:        priorityBounds,
			RequirementType: RequirementInteger,
		},
		{
			Name: "length",
			Validate: Check(func(v Value, req any) bool {
				bounds := req.([]any)
				n := v.Len()
				return n >= bounds[0].(int) && n <= bounds[1].(int)
			}),
			Priority:        priorityBounds,
			RequirementType: RequirementArray,
			Elements: []RequirementType{
				RequirementInteger, RequirementInteger,
			},
		},
		{
			Name: "min",
			Validate: Check(func(v Value, req any) bool {
				return eachNumber(v, func(n float64) bool {
					return n >= req.(float64)
				})
			}),
			Priority:        priorityBounds,
			RequirementType: RequirementNumber,
		},
		{
			Name: "max",
			Validate: Check(func(v Value, req any) bool {
				return eachNumber(v, func(n float64) bool {
					return n <= req.(float64)
				})
			}),
			Priority:        priorityBounds,
			RequirementType: RequirementNumber,
		},
		{
			Name: "range",
			Validate: Check(func(v Value, req any) bool {
				bounds := req.([]any)
				return eachNumber(v, func(n float64) bool {
					return n >= bounds[0].(float64) &&
						n <= bounds[1].(float64)
				})
			}),
			Priority:        priorityBounds,
			RequirementType: RequirementArray,
			Elements: []RequirementType{
				RequirementNumber, RequirementNumber,
			},
		},
		{
			Name: "mincheck",
			Validate: Check(func(v Value, req any) bool {
				return checked(v) >= req.(int)
			}),
			Priority:        priorityBounds,
			RequirementType: RequirementInteger,
		},
		{
			Name: "maxcheck",
			Validate: Check(func(v Value, req any) bool {
				return checked(v) <= req.(int)
			}),
			Priority:        priorityBounds,
			RequirementType: RequirementInteger,
		},
		{
			Name: "check",
			Validate: Check(func(v Value, req any) bool {
				bounds := req.([]any)
				n := checked(v)
				return n >= bounds[0].(int) && n <= bounds[1].(int)
			}),
			Priority:        priorityBounds,
			RequirementType: RequirementArray,
			Elements: []RequirementType{
				RequirementInteger, RequirementInteger,
			},
		},
	}
}

func validateRequired(v Value, req any) bool {
	if required, _ := req.(bool); !required {
		return true
	}
	return validateNotBlank(v, nil)
}

func validateNotBlank(v Value, _ any) bool {
	if v.Multi {
		return len(v.Items) > 0
	}
	return strings.TrimSpace(v.Text) != ""
}

func validateType(_ context.Context, v Value, req any) Verdict {
	name, _ := req.(string)
	for _, s := range v.Strings() {
		ok, err := checkFormat(name, s)
		if err != nil {
			return Failed(err)
		}
		if !ok {
			return Ready(false)
		}
	}
	return Ready(true)
}

func validatePattern(v Value, req any) bool {
	re := req.(*regexp.Regexp)
	for _, s := range v.Strings() {
		if !re.MatchString(s) {
			return false
		}
	}
	return true
}

// validateNoHTML passes when stripping every tag leaves the
// text unchanged.
func validateNoHTML(v Value, _ any) bool {
	for _, s := range v.Strings() {
		if html.UnescapeString(strictPolicy.Sanitize(s)) != s {
			return false
		}
	}
	return true
}

func eachNumber(v Value, fn func(float64) bool) bool {
	for _, s := range v.Strings() {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || !fn(n) {
			return false
		}
	}
	return true
}

// checked counts the selected items of a choice group. A
// scalar counts as one selection when non-empty.
func checked(v Value) int {
	if v.Multi {
		return len(v.Items)
	}
	if v.Text == "" {
		return 0
	}
	return 1
}
