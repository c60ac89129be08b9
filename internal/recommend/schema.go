package recommend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// itemSchema describes one element of the "recommendations" array.
var itemSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name":                 map[string]any{"type": "string", "minLength": 1},
		"url":                  map[string]any{"type": "string"},
		"remote_testing":       map[string]any{"type": "boolean"},
		"adaptive_irt_support": map[string]any{"type": "boolean"},
		"duration":             map[string]any{"type": "string"},
		"test_type":            map[string]any{"type": "string"},
		"relevance_score":      map[string]any{"type": "number"},
	},
	"required": []string{
		"name", "url", "remote_testing", "adaptive_irt_support",
		"duration", "test_type", "relevance_score",
	},
}

// ResponseSchema returns the JSON schema of the expected model payload.
func ResponseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"recommendations": map[string]any{
				"type":  "array",
				"items": itemSchema,
			},
		},
		"required": []string{"recommendations"},
	}
}

var (
	compiledItemOnce   sync.Once
	compiledItemSchema *jsonschema.Schema
	compiledItemErr    error
)

// itemValidator returns the compiled item schema.
func itemValidator() (*jsonschema.Schema, error) {
	compiledItemOnce.Do(func() {
		compiledItemSchema, compiledItemErr = compileSchema("item.json", itemSchema)
	})
	return compiledItemSchema, compiledItemErr
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compiled, nil
}
