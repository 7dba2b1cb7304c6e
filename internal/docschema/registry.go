// Package docschema holds the per-document-type field schemas extracted data
// is validated against. Schemas are embedded JSON Schema documents, compiled
// once at startup.
package docschema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Rovlad/meddoc-parse/internal/doctype"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// entry pairs a compiled schema with its parsed source document,
// which drives canonicalization.
type entry struct {
	compiled *jsonschema.Schema
	doc      map[string]any
}

// Registry validates and canonicalizes extracted document data.
type Registry struct {
	entries map[doctype.Type]entry
}

// NewRegistry loads and compiles all embedded document schemas.
func NewRegistry() (*Registry, error) {
	r := &Registry{entries: make(map[doctype.Type]entry, len(doctype.Extractable))}

	for _, t := range doctype.Extractable {
		filename := fmt.Sprintf("schemas/%s.json", t)
		raw, err := schemaFS.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema for %s: %w", t, err)
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(filename, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("failed to load schema for %s: %w", t, err)
		}
		compiled, err := compiler.Compile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema for %s: %w", t, err)
		}

		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse schema for %s: %w", t, err)
		}

		r.entries[t] = entry{compiled: compiled, doc: doc}
	}

	return r, nil
}

// Has reports whether a schema exists for t.
func (r *Registry) Has(t doctype.Type) bool {
	_, ok := r.entries[t]
	return ok
}

// Validate checks data against the schema for t. A nil error means the
// mapping conforms; validation errors carry the full constraint detail.
func (r *Registry) Validate(t doctype.Type, data map[string]any) error {
	e, ok := r.entries[t]
	if !ok {
		return fmt.Errorf("no schema registered for document type %q", t)
	}
	// jsonschema validates decoded JSON values, so round-trip through
	// the generic representation it expects.
	if err := e.compiled.Validate(toJSONValue(data)); err != nil {
		return err
	}
	return nil
}

// Canonicalize returns data reshaped to the schema for t: every declared
// field is present, with absent optional fields as explicit nulls. Keys the
// schema does not declare are preserved as-is. Call only after Validate
// succeeds; unknown types return data unchanged.
func (r *Registry) Canonicalize(t doctype.Type, data map[string]any) map[string]any {
	e, ok := r.entries[t]
	if !ok {
		return data
	}
	return canonicalizeObject(e.doc, data)
}

// canonicalizeObject fills in declared-but-absent fields with nulls and
// recurses into nested objects and object lists.
func canonicalizeObject(schemaDoc map[string]any, data map[string]any) map[string]any {
	props, ok := schemaDoc["properties"].(map[string]any)
	if !ok {
		return data
	}

	out := make(map[string]any, len(props))
	for key, rawProp := range props {
		prop, _ := rawProp.(map[string]any)
		value, present := data[key]
		if !present {
			out[key] = nil
			continue
		}
		out[key] = canonicalizeValue(prop, value)
	}

	// Keep undeclared keys the model supplied.
	for key, value := range data {
		if _, declared := props[key]; !declared {
			out[key] = value
		}
	}
	return out
}

func canonicalizeValue(prop map[string]any, value any) any {
	if prop == nil || value == nil {
		return value
	}

	switch v := value.(type) {
	case map[string]any:
		return canonicalizeObject(prop, v)
	case []any:
		items, _ := prop["items"].(map[string]any)
		if items == nil {
			return v
		}
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = canonicalizeValue(items, item)
		}
		return out
	default:
		return value
	}
}

// toJSONValue normalizes a Go value into the generic JSON representation
// the validator expects (map[string]any / []any / float64 / string / bool).
func toJSONValue(data map[string]any) any {
	raw, err := json.Marshal(data)
	if err != nil {
		return data
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return data
	}
	return generic
}
