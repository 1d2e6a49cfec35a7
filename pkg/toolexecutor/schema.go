package toolexecutor

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

var validParamTypes = map[string]bool{
	"string": true, "number": true, "boolean": true,
	"object": true, "array": true, "integer": true,
}

// buildSchema generates a JSON Schema for a tool's context parameters.
// Unknown keys are allowed so callers can pass extra hints.
func buildSchema(params []ContextParameter) (*gojsonschema.Schema, error) {
	if len(params) == 0 {
		return nil, nil
	}

	properties := make(map[string]any, len(params))
	required := []string{}

	for _, param := range params {
		if param.Name == "" {
			return nil, fmt.Errorf("parameter name cannot be empty")
		}
		if !validParamTypes[param.Type] {
			return nil, fmt.Errorf("invalid parameter type %q for %s", param.Type, param.Name)
		}

		properties[param.Name] = map[string]any{
			"type":        param.Type,
			"description": param.Description,
		}
		if param.Required {
			required = append(required, param.Name)
		}
	}

	schemaMap := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schemaMap["required"] = required
	}

	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
}

// validateContext checks a tool context against its schema. A nil context is treated as empty.
func validateContext(schema *gojsonschema.Schema, toolCtx map[string]any) error {
	if schema == nil {
		return nil
	}
	if toolCtx == nil {
		toolCtx = map[string]any{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(toolCtx))
	if err != nil {
		return err
	}

	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("invalid tool context: %v", errs)
	}

	return nil
}
