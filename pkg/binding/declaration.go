// Package binding turns form declarations, written by hand in
// YAML or JSON or derived from an OpenAPI request body, into
// wired forms reading their values from a submission.
package binding

import (
	"fmt"

	"digital.vasic.constraints/pkg/constraint"

	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a declaration file.
type File struct {
	Version string            `json:"version" yaml:"version"`
	Forms   []FormDeclaration `json:"forms" yaml:"forms"`
}

// FormDeclaration describes a form and its fields.
type FormDeclaration struct {
	Name     string             `json:"name" yaml:"name"`
	FailFast bool               `json:"fail_fast,omitempty" yaml:"fail_fast,omitempty"`
	Fields   []FieldDeclaration `json:"fields" yaml:"fields"`
}

// FieldDeclaration describes one field. Native holds the
// attributes a native input would carry; Constraints holds the
// explicitly declared rules.
type FieldDeclaration struct {
	Name        string                      `json:"name" yaml:"name"`
	Group       string                      `json:"group,omitempty" yaml:"group,omitempty"`
	Exclusive   string                      `json:"exclusive,omitempty" yaml:"exclusive,omitempty"`
	Value       string                      `json:"value,omitempty" yaml:"value,omitempty"`
	Multiple    bool                        `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	Native      constraint.NativeAttributes `json:"native,omitempty" yaml:"native,omitempty"`
	Constraints []constraint.Descriptor     `json:"constraints,omitempty" yaml:"constraints,omitempty"`

	Whitespace      string `json:"whitespace,omitempty" yaml:"whitespace,omitempty"`
	Unicode         string `json:"unicode,omitempty" yaml:"unicode,omitempty"`
	ValidateIfEmpty *bool  `json:"validate_if_empty,omitempty" yaml:"validate_if_empty,omitempty"`
	PriorityEnabled *bool  `json:"priority_enabled,omitempty" yaml:"priority_enabled,omitempty"`
	Excluded        *bool  `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}

// ParseYAML parses a declaration file. JSON documents are
// accepted as well.
func ParseYAML(data []byte) (File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("parse declarations: %w", err)
	}
	return file, nil
}
