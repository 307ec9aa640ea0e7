package rule

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseRequirement converts raw requirements, typically strings
// read from declarations, into the Go shape expected by def:
//
//	none     -> true
//	boolean  -> bool
//	number   -> float64
//	integer  -> int
//	string   -> string
//	regexp   -> *regexp.Regexp
//	array    -> []any, elements parsed per def.Elements
//	object   -> map[string]any
//
// Mismatches are reported as ErrInvalidRequirementShape.
func ParseRequirement(def Definition, raw any) (any, error) {
	if def.RequirementType == RequirementArray {
		return parseArray(def.Elements, raw)
	}
	return parseScalar(def.RequirementType, raw)
}

func shapeError(t RequirementType, raw any, cause error) error {
	if cause != nil {
		return fmt.Errorf(
			"%w: expected %s, got %T %v: %v",
			ErrInvalidRequirementShape, t, raw, raw, cause,
		)
	}
	return fmt.Errorf(
		"%w: expected %s, got %T %v",
		ErrInvalidRequirementShape, t, raw, raw,
	)
}

func parseScalar(t RequirementType, raw any) (any, error) {
	switch t {
	case RequirementNone:
		return true, nil
	case RequirementBoolean:
		return parseBool(raw)
	case RequirementNumber:
		return parseNumber(raw)
	case RequirementInteger:
		return parseInteger(raw)
	case RequirementString:
		return parseString(raw)
	case RequirementRegexp:
		return parseRegexp(raw)
	case RequirementObject:
		return parseObject(raw)
	default:
		return nil, shapeError(t, raw, nil)
	}
}

func parseBool(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return true, nil
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, shapeError(RequirementBoolean, raw, nil)
}

func toFloat(raw any) (float64, bool) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(
			strings.TrimSpace(rv.String()), 64,
		)
		return f, err == nil
	default:
		return 0, false
	}
}

func parseNumber(raw any) (any, error) {
	f, ok := toFloat(raw)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, shapeError(RequirementNumber, raw, nil)
	}
	return f, nil
}

func parseInteger(raw any) (any, error) {
	f, ok := toFloat(raw)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, shapeError(RequirementInteger, raw, nil)
	}
	return int(f), nil
}

func parseString(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case nil, []any, map[string]any:
		return nil, shapeError(RequirementString, raw, nil)
	default:
		return fmt.Sprint(v), nil
	}
}

// literalRegexp matches the /body/flags notation.
var literalRegexp = regexp.MustCompile(`^/(.*)/([a-z]*)$`)

func parseRegexp(raw any) (any, error) {
	switch v := raw.(type) {
	case *regexp.Regexp:
		return v, nil
	case string:
		expr := "^(?:" + v + ")$"
		if m := literalRegexp.FindStringSubmatch(v); m != nil {
			expr = m[1]
			if flags := goFlags(m[2]); flags != "" {
				expr = "(?" + flags + ")" + expr
			}
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, shapeError(RequirementRegexp, raw, err)
		}
		return re, nil
	default:
		return nil, shapeError(RequirementRegexp, raw, nil)
	}
}

// goFlags keeps the flags RE2 understands. Global and sticky
// flags have no meaning for a single match.
func goFlags(flags string) string {
	var b strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			b.WriteRune(f)
		}
	}
	return b.String()
}

func parseObject(raw any) (any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = val
		}
		return out, nil
	case string:
		var out map[string]any
		if err := yaml.Unmarshal([]byte(v), &out); err != nil {
			return nil, shapeError(RequirementObject, raw, err)
		}
		if out == nil {
			return nil, shapeError(RequirementObject, raw, nil)
		}
		return out, nil
	default:
		return nil, shapeError(RequirementObject, raw, nil)
	}
}

func parseArray(elements []RequirementType, raw any) (any, error) {
	items, err := toSlice(raw)
	if err != nil {
		return nil, err
	}
	if len(items) != len(elements) {
		return nil, fmt.Errorf(
			"%w: expected %d arguments, got %d",
			ErrInvalidRequirementShape, len(elements), len(items),
		)
	}

	out := make([]any, len(items))
	for i, item := range items {
		parsed, err := parseScalar(elements[i], item)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = parsed
	}
	return out, nil
}

func toSlice(raw any) ([]any, error) {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if !strings.HasPrefix(s, "[") {
			s = "[" + s + "]"
		}
		var out []any
		if err := yaml.Unmarshal([]byte(s), &out); err != nil {
			return nil, shapeError(RequirementArray, raw, err)
		}
		return out, nil
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, shapeError(RequirementArray, raw, nil)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
