package prevent

import (
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// knownSchemas holds the argument-shape schema for tools spec.md names
// explicitly (e.g. search_files). Tools with no entry skip shape
// validation entirely.
var knownSchemas = map[string]map[string]any{
	"search_files": {
		"type":     "object",
		"required": []any{"pattern"},
		"properties": map[string]any{
			"pattern":    map[string]any{"type": "string", "minLength": 1},
			"path":       map[string]any{"type": "string"},
			"regex":      map[string]any{"type": "boolean"},
			"file_types": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	},
	"read_file": {
		"type":     "object",
		"required": []any{"path"},
		"properties": map[string]any{
			"path": map[string]any{"type": "string", "minLength": 1},
		},
	},
	"write_file": {
		"type":     "object",
		"required": []any{"path", "content"},
		"properties": map[string]any{
			"path":    map[string]any{"type": "string", "minLength": 1},
			"content": map[string]any{"type": "string"},
		},
	},
}

var compiledSchemas = compileKnownSchemas()

func compileKnownSchemas() map[string]*jsonschema.Schema {
	out := make(map[string]*jsonschema.Schema, len(knownSchemas))
	for tool, raw := range knownSchemas {
		b, err := json.Marshal(raw)
		if err != nil {
			continue
		}
		resource := tool + ".schema.json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(resource, strings.NewReader(string(b))); err != nil {
			continue
		}
		schema, err := c.Compile(resource)
		if err != nil {
			// Invalid schema source never aborts the caller (spec §7 policy);
			// the tool simply goes unvalidated.
			continue
		}
		out[tool] = schema
	}
	return out
}

// validateShape runs the tool's known JSON-schema against args (spec §4.8:
// "argument validation ... for known tools such as search_files"). Tools
// with no registered or compilable schema always pass.
func validateShape(tool string, args map[string]any) []string {
	schema, ok := compiledSchemas[tool]
	if !ok {
		return nil
	}
	if err := schema.Validate(args); err != nil {
		return []string{"argument shape invalid for " + tool + ": " + err.Error()}
	}
	return nil
}
