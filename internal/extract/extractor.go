// Package extract produces a structured field mapping for a classified
// document image, validated against the per-type schema.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Rovlad/meddoc-parse/internal/docschema"
	"github.com/Rovlad/meddoc-parse/internal/doctype"
	"github.com/Rovlad/meddoc-parse/internal/prompts"
	"github.com/Rovlad/meddoc-parse/internal/providers"
)

// extractMaxTokens bounds the extraction response.
const extractMaxTokens = 2000

// ErrParse indicates the inference response was not JSON at all. Unlike
// validation failures, this propagates to the caller as a failed extraction.
var ErrParse = errors.New("failed to parse extraction response")

// Outcome is the result of a successful extraction call. Data either
// conforms to the document schema (Validated=true, canonicalized with
// explicit nulls for absent optional fields) or is the raw parsed mapping
// returned despite validation failure (Validated=false). Absence is a nil
// Outcome.
type Outcome struct {
	Data      map[string]any
	Validated bool
}

// Extractor extracts structured data from document images.
// Safe for concurrent use.
type Extractor struct {
	client  providers.VisionClient
	schemas *docschema.Registry
	logger  *slog.Logger
}

// New creates an Extractor.
func New(client providers.VisionClient, schemas *docschema.Registry, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		client:  client,
		schemas: schemas,
		logger:  logger.With("component", "extract"),
	}
}

// Extract runs one inference call for the given document type and validates
// the response against that type's schema.
//
// Callers must classify first; an unknown type returns absence immediately
// without any outbound call. Inference-client errors and non-JSON responses
// propagate. A parsed-but-nonconforming mapping does NOT fail: the raw
// mapping is returned as-is. Partial data is deliberately considered more
// useful to the caller than no data, so this fallback must not be tightened
// into a rejection.
func (e *Extractor) Extract(ctx context.Context, imageBase64 string, t doctype.Type) (*Outcome, error) {
	if !t.IsExtractable() {
		e.logger.Warn("extraction requested for unextractable document type", "document_type", t)
		return nil, nil
	}

	prompt, err := prompts.Extract(t)
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction prompt: %w", err)
	}

	e.logger.Info("starting extraction", "document_type", t)
	res, err := e.client.AnalyzeImage(ctx, &providers.VisionRequest{
		ImageBase64: imageBase64,
		Prompt:      prompt,
		MaxTokens:   extractMaxTokens,
		JSONOnly:    true,
	})
	if err != nil {
		return nil, err
	}

	raw, err := providers.ParseJSONObject(res.Content)
	if err != nil {
		e.logger.Error("extraction response is not valid JSON",
			"document_type", t,
			"error", err,
			"response", providers.Truncate(res.Content, 200),
		)
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if err := e.schemas.Validate(t, raw); err != nil {
		// Log in full for prompt/schema drift diagnosis, then return the
		// raw mapping anyway. The caller never sees the validation error.
		e.logger.Error("extracted data failed schema validation, returning raw data",
			"document_type", t,
			"error", err,
		)
		return &Outcome{Data: raw, Validated: false}, nil
	}

	e.logger.Info("extraction validated",
		"document_type", t,
		"tokens", res.TotalTokens,
	)
	return &Outcome{Data: e.schemas.Canonicalize(t, raw), Validated: true}, nil
}
