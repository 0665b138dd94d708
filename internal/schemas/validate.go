// Package schemas validates section payloads against their JSON Schemas
// before they are persisted. Section types without a schema pass through
// untouched; the job configuration owns the full section vocabulary.
package schemas

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/campushire/faculty-portal/internal/apperr"
)

//go:embed sections/*.schema.json
var sectionFS embed.FS

// Validator holds the compiled schemas, keyed by section type.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewValidator compiles every embedded section schema.
func NewValidator() (*Validator, error) {
	entries, err := fs.ReadDir(sectionFS, "sections")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded schemas: %w", err)
	}

	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(entries))}
	for _, entry := range entries {
		name := entry.Name()
		sectionType := strings.TrimSuffix(name, ".schema.json")
		raw, err := sectionFS.ReadFile("sections/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		v.schemas[sectionType] = schema
	}
	return v, nil
}

// Known reports whether a schema exists for the section type.
func (v *Validator) Known(sectionType string) bool {
	_, ok := v.schemas[sectionType]
	return ok
}

// ValidateSection checks a payload against the schema for its section type.
// Unknown section types are accepted opaquely. Violations carry per-field
// detail keyed by the offending field path.
func (v *Validator) ValidateSection(sectionType string, data json.RawMessage) error {
	schema, ok := v.schemas[sectionType]
	if !ok {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return apperr.NewValidation(
			fmt.Sprintf("section %s payload is not valid JSON", sectionType),
			map[string]string{sectionType: err.Error()})
	}
	if result.Valid() {
		return nil
	}

	fields := make(map[string]string, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields[desc.Field()] = desc.Description()
	}
	return apperr.NewValidation(
		fmt.Sprintf("section %s payload does not match its schema", sectionType), fields)
}
