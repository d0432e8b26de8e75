package hfnodes

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema converts the visible input ports of s into a JSON Schema
// document. ANY ports only take part in the required check.
func JSONSchema(s Schema) map[string]any {
	properties := make(map[string]any)
	for _, in := range s.Inputs.Visible() {
		prop := portSchema(in)
		if s.InputIsList && in.Type != Any {
			prop = map[string]any{
				"anyOf": []any{prop, map[string]any{"type": "array", "items": prop}},
			}
		}
		properties[in.Name] = prop
	}

	required := make([]string, 0, len(s.Inputs.Required))
	for _, in := range s.Inputs.Required {
		required = append(required, in.Name)
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func portSchema(in Input) map[string]any {
	prop := make(map[string]any)
	switch in.Type {
	case String:
		prop["type"] = "string"
	case Int:
		prop["type"] = "integer"
	case Float:
		prop["type"] = "number"
	case Boolean:
		prop["type"] = "boolean"
	}
	if in.Options.Min != nil {
		prop["minimum"] = *in.Options.Min
	}
	if in.Options.Max != nil {
		prop["maximum"] = *in.Options.Max
	}
	return prop
}

// ApplyDefaults returns a copy of in with the defaults of missing visible
// ports filled in.
func ApplyDefaults(s Schema, in Inputs) Inputs {
	out := make(Inputs, len(in))
	for k, v := range in {
		out[k] = v
	}
	for _, port := range s.Inputs.Visible() {
		if _, ok := out[port.Name]; ok {
			continue
		}
		if port.Options.Default != nil {
			out[port.Name] = port.Options.Default
		}
	}
	return out
}

// ValidateInputs checks in against the visible ports of s.
func ValidateInputs(s Schema, in Inputs) error {
	// Opaque values on ANY ports may not be JSON encodable; only their
	// presence matters here.
	doc := make(map[string]any, len(in))
	for k, v := range in {
		if port, ok := s.Inputs.Lookup(k); ok && port.Type == Any {
			doc[k] = true
			continue
		}
		doc[k] = v
	}

	schemaJSON, err := json.Marshal(JSONSchema(s))
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(docJSON),
	)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
	}

	return nil
}
