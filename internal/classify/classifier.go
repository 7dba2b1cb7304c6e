// Package classify maps a normalized document image to one of the closed set
// of document types using a single inference call.
package classify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Rovlad/meddoc-parse/internal/doctype"
	"github.com/Rovlad/meddoc-parse/internal/prompts"
	"github.com/Rovlad/meddoc-parse/internal/providers"
)

// classifyMaxTokens bounds the classification response; the expected JSON
// object is small.
const classifyMaxTokens = 200

// Result is a classification outcome.
type Result struct {
	Type doctype.Type `json:"document_type"`
	// Confidence is the score reported by the model, passed through
	// verbatim (not clamped to [0,1]). It is forced to 0.0 whenever the
	// classifier falls back to Unknown.
	Confidence float64 `json:"confidence"`
}

// unknownResult is the degraded outcome for every failure mode.
var unknownResult = Result{Type: doctype.Unknown, Confidence: 0.0}

// Classifier classifies document images. Safe for concurrent use.
type Classifier struct {
	client providers.VisionClient
	logger *slog.Logger
}

// New creates a Classifier using the given inference client.
func New(client providers.VisionClient, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		client: client,
		logger: logger.With("component", "classify"),
	}
}

// Classify determines the document type and confidence for the image.
// It never returns an error: inference failures, unparseable responses and
// labels outside the closed set all degrade to (unknown, 0.0). Graceful
// degradation here is part of the contract, not an exceptional path.
func (c *Classifier) Classify(ctx context.Context, imageBase64 string) Result {
	res, err := c.client.AnalyzeImage(ctx, &providers.VisionRequest{
		ImageBase64: imageBase64,
		Prompt:      prompts.Classify(),
		MaxTokens:   classifyMaxTokens,
	})
	if err != nil {
		c.logger.Error("classification inference call failed", "error", err)
		return unknownResult
	}

	parsed, err := providers.ParseJSONObject(res.Content)
	if err != nil {
		c.logger.Error("failed to parse classification response",
			"error", err,
			"response", providers.Truncate(res.Content, 200),
		)
		return unknownResult
	}

	rawType, hasType := parsed["document_type"]
	rawConf, hasConf := parsed["confidence"]
	if !hasType || !hasConf {
		c.logger.Error("classification response missing required keys",
			"response", providers.Truncate(res.Content, 200),
		)
		return unknownResult
	}

	label, _ := rawType.(string)
	confidence, confOK := rawConf.(float64)
	if !confOK {
		c.logger.Error("classification confidence is not a number",
			"response", providers.Truncate(res.Content, 200),
		)
		return unknownResult
	}

	t := doctype.Parse(strings.ToLower(strings.TrimSpace(label)))
	if !t.IsExtractable() {
		// Label drift from the inference service: anything outside the
		// four known labels is unknown with confidence forced to zero.
		if t == doctype.Unknown && doctype.Type(label) != doctype.Unknown {
			c.logger.Warn("classifier returned unrecognized label", "label", label)
		}
		return unknownResult
	}

	c.logger.Info("document classified",
		"document_type", t,
		"confidence", confidence,
		"tokens", res.TotalTokens,
	)
	return Result{Type: t, Confidence: confidence}
}
