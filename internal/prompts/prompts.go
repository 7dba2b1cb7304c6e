// Package prompts holds the embedded prompt templates sent to the inference
// service. The per-type field descriptions are data, not control flow: one
// template file per document type, swappable without touching the pipeline.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Rovlad/meddoc-parse/internal/doctype"
)

//go:embed templates/classify.tmpl
var classifyPrompt string

//go:embed templates/extract.tmpl
var extractTmplText string

//go:embed templates/fields/*.tmpl
var fieldFS embed.FS

var extractTemplate = template.Must(template.New("extract").Parse(extractTmplText))

// Classify returns the fixed classification prompt enumerating the five
// document type labels.
func Classify() string {
	return strings.TrimSpace(classifyPrompt)
}

// Extract builds the extraction prompt for a document type: the shared
// wrapper around the type's field-by-field schema description.
func Extract(t doctype.Type) (string, error) {
	desc, err := fieldFS.ReadFile(fmt.Sprintf("templates/fields/%s.tmpl", t))
	if err != nil {
		return "", fmt.Errorf("no schema description for document type %q: %w", t, err)
	}

	var buf bytes.Buffer
	data := struct {
		DocumentType      string
		SchemaDescription string
	}{
		DocumentType:      string(t),
		SchemaDescription: strings.TrimSpace(string(desc)),
	}
	if err := extractTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render extraction prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
