// Package schema checks result sets against a JSON-Schema built from their
// field list: every key required, each value a non-empty trimmed string or null.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/common"
	"github.com/joseph-ayodele/findoc-reader/internal/entity"
)

// trimmedPattern accepts strings that neither start nor end with whitespace.
const trimmedPattern = `^\S(?s:.*\S)?$`

// BuildFieldSetSchema returns the JSON-Schema for a result set over fields.
func BuildFieldSetSchema(fields []constants.Field) map[string]any {
	required := constants.AsStringSlice(fields)
	props := make(map[string]any, len(required))
	for _, name := range required {
		props[name] = map[string]any{
			"type":      []string{"string", "null"},
			"minLength": 1,
			"pattern":   trimmedPattern,
		}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

// Validator is a compiled result-set schema. Safe for concurrent use.
type Validator struct {
	name   string
	schema *jsonschema.Schema
}

// Compile builds a validator for result sets over fields.
func Compile(name string, fields []constants.Field) (*Validator, error) {
	s, err := compile(name+".json", BuildFieldSetSchema(fields))
	if err != nil {
		return nil, err
	}
	return &Validator{name: name, schema: s}, nil
}

// MustCompile is Compile for package-level schemas built from constant tables.
func MustCompile(name string, fields []constants.Field) *Validator {
	v, err := Compile(name, fields)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Validator) Name() string { return v.name }

// Validate checks fs as it would be serialised.
func (v *Validator) Validate(fs *entity.FieldSet) error {
	data, err := json.Marshal(fs)
	if err != nil {
		return fmt.Errorf("marshal result set: %w", err)
	}
	return v.ValidateJSON(data)
}

// ValidateJSON checks raw JSON against the schema.
func (v *Validator) ValidateJSON(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return common.NewAppError(common.CodeValidation, "result is not valid JSON", fmt.Errorf("%w: %w", common.ErrValidation, err))
	}
	if err := v.schema.Validate(doc); err != nil {
		return common.NewAppError(common.CodeValidation, fmt.Sprintf("result does not match %s schema", v.name), fmt.Errorf("%w: %w", common.ErrValidation, err))
	}
	return nil
}

func compile(url string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}
