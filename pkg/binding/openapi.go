package binding

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"digital.vasic.constraints/pkg/constraint"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrOperationNotFound is returned by FromOpenAPI when no
// operation has the requested id.
var ErrOperationNotFound = errors.New("operation not found")

var requestMediaTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"application/json",
}

// FromOpenAPI derives a form declaration from the request body
// schema of an operation. Properties become fields in name
// order.
func FromOpenAPI(
	ctx context.Context,
	data []byte,
	operationID string,
) (FormDeclaration, error) {
	if err := ctx.Err(); err != nil {
		return FormDeclaration{}, err
	}
	if len(data) == 0 {
		return FormDeclaration{}, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return FormDeclaration{}, fmt.Errorf("openapi: load document: %w", err)
	}

	op := findOperation(doc, operationID)
	if op == nil {
		return FormDeclaration{}, fmt.Errorf(
			"%w: %s", ErrOperationNotFound, operationID,
		)
	}

	schema := requestSchema(op.RequestBody)
	if schema == nil {
		return FormDeclaration{}, fmt.Errorf(
			"openapi: operation %s has no request body schema", operationID,
		)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	decl := FormDeclaration{Name: operationID}
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		fd := fieldFromSchema(name, ref.Value)
		fd.Native.Required = required[name]
		decl.Fields = append(decl.Fields, fd)
	}
	return decl, nil
}

func findOperation(doc *openapi3.T, id string) *openapi3.Operation {
	if doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == id {
				return op
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func schemaType(s *openapi3.Schema) string {
	if s.Type == nil {
		return ""
	}
	if values := s.Type.Slice(); len(values) > 0 {
		return values[0]
	}
	return ""
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func fieldFromSchema(name string, s *openapi3.Schema) FieldDeclaration {
	fd := FieldDeclaration{Name: name}
	add := func(rule string, req any) {
		fd.Constraints = append(fd.Constraints, constraint.Descriptor{
			Name:         rule,
			Requirements: req,
		})
	}

	switch schemaType(s) {
	case "integer":
		fd.Native.Type = "number"
	case "number":
		fd.Native.Type = "number"
		fd.Native.Step = "any"
	case "array":
		fd.Multiple = true
		if s.MinItems > 0 {
			add("mincheck", int(s.MinItems))
		}
		if s.MaxItems != nil {
			add("maxcheck", int(*s.MaxItems))
		}
		return fd
	}

	switch s.Format {
	case "email":
		fd.Native.Type = "email"
	case "uri", "url":
		fd.Native.Type = "url"
	case "uuid":
		add("type", "uuid")
	}

	if s.Min != nil {
		fd.Native.Min = formatFloat(*s.Min)
	}
	if s.Max != nil {
		fd.Native.Max = formatFloat(*s.Max)
	}
	if s.MinLength > 0 {
		fd.Native.MinLength = strconv.FormatUint(s.MinLength, 10)
	}
	if s.MaxLength != nil {
		fd.Native.MaxLength = strconv.FormatUint(*s.MaxLength, 10)
	}
	// An enum is stricter than a pattern and replaces it.
	switch {
	case len(s.Enum) > 0:
		alts := make([]string, len(s.Enum))
		for i, v := range s.Enum {
			alts[i] = regexp.QuoteMeta(scalar(v))
		}
		add("pattern", strings.Join(alts, "|"))
	case s.Pattern != "":
		add("pattern", "/"+s.Pattern+"/")
	}
	return fd
}
