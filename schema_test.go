package agentry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findSchemaObject returns the first map in schemaMap that has "properties" (root or inside $defs).
// Used by tests to assert on additionalProperties, required, etc.
func findSchemaObject(schemaMap map[string]any) map[string]any {
	if schemaMap == nil {
		return nil
	}
	if schemaMap["properties"] != nil {
		return schemaMap
	}
	if defs, ok := schemaMap["$defs"].(map[string]any); ok {
		for _, v := range defs {
			if o, ok := v.(map[string]any); ok && o["properties"] != nil {
				return o
			}
		}
	}
	return nil
}

func TestGenerateSchema_Simple(t *testing.T) {
	type Simple struct {
		Location string `json:"location"`
		Unit     string `json:"unit,omitempty"`
	}
	m, resolved, err := generateSchema[Simple](false)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.NotNil(t, m)
	obj := findSchemaObject(m)
	require.NotNil(t, obj, "expected root or $defs with properties")
	props, ok := obj["properties"].(map[string]any)
	require.True(t, ok, "expected properties map")
	assert.Contains(t, props, "location")
	assert.Contains(t, props, "unit")
}

func TestGenerateSchema_StructTagEnrichment(t *testing.T) {
	type Args struct {
		Priority string `json:"priority" enum:"low,medium,high" description:"Ticket priority"`
	}
	m, _, err := generateSchema[Args](false)
	require.NoError(t, err)
	props, ok := m["properties"].(map[string]any)
	require.True(t, ok)
	prio, ok := props["priority"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ticket priority", prio["description"])
	assert.Equal(t, []any{"low", "medium", "high"}, prio["enum"])
}

func TestGenerateSchema_StrictMode(t *testing.T) {
	type Nested struct {
		A string `json:"a"`
	}
	type Root struct {
		X string `json:"x"`
		N Nested `json:"n"`
	}
	m, _, err := generateSchema[Root](true)
	require.NoError(t, err)
	require.NotNil(t, m)
	// All objects should have additionalProperties: false
	var check func(map[string]any)
	check = func(m map[string]any) {
		if m == nil {
			return
		}
		if _, hasProps := m["properties"]; hasProps {
			v, ok := m["additionalProperties"]
			assert.True(t, ok, "expected additionalProperties in object schema")
			assert.Equal(t, false, v)
		}
		for _, val := range m {
			switch v := val.(type) {
			case map[string]any:
				check(v)
			case []any:
				for _, item := range v {
					if m2, ok := item.(map[string]any); ok {
						check(m2)
					}
				}
			}
		}
	}
	check(m)
}

func TestApplyStrictMode(t *testing.T) {
	m := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{
				"type":       "object",
				"properties": map[string]any{"c": map[string]any{"type": "integer"}},
			},
		},
	}
	applyStrictMode(m)
	assert.Equal(t, false, m["additionalProperties"])
	props := m["properties"].(map[string]any)
	assert.Equal(t, false, props["b"].(map[string]any)["additionalProperties"])
	required := m["required"].([]any)
	assert.Len(t, required, 2)
}

func TestGenerateSchema_CompiledValidates(t *testing.T) {
	type Args struct {
		X int `json:"x"`
	}
	_, resolved, err := generateSchema[Args](false)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	// Valid JSON matching schema
	var parsed any
	require.NoError(t, json.Unmarshal([]byte(`{"x": 1}`), &parsed))
	assert.NoError(t, resolved.Validate(parsed))
	// Invalid: wrong type
	var parsedBad any
	require.NoError(t, json.Unmarshal([]byte(`{"x": "not a number"}`), &parsedBad))
	assert.Error(t, resolved.Validate(parsedBad))
}

func TestStripSchemaIDs(t *testing.T) {
	m := map[string]any{
		"$id":  "https://example.com/root",
		"type": "object",
		"properties": map[string]any{
			"n": map[string]any{"id": "nested", "type": "string"},
		},
	}
	stripSchemaIDs(m)
	assert.Nil(t, m["$id"])
	props := m["properties"].(map[string]any)
	assert.Nil(t, props["n"].(map[string]any)["id"])
}

func FuzzValidate(f *testing.F) {
	type Args struct {
		X int `json:"x"`
	}
	_, resolved, err := generateSchema[Args](false)
	if err != nil {
		f.Skip("generateSchema failed")
	}
	f.Add([]byte(`{"x": 1}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`{"x": "y"}`))
	f.Fuzz(func(_ *testing.T, data []byte) {
		var instance any
		_ = json.Unmarshal(data, &instance)
		_ = resolved.Validate(instance)
	})
}
