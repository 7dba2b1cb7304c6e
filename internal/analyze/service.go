// Package analyze orchestrates the document analysis pipeline: input
// validation, normalization, classification and extraction, producing a
// single result record per request.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rovlad/meddoc-parse/internal/classify"
	"github.com/Rovlad/meddoc-parse/internal/doctype"
	"github.com/Rovlad/meddoc-parse/internal/extract"
	"github.com/Rovlad/meddoc-parse/internal/normalize"
)

// DefaultMaxFileSize caps uploads at 10MB.
const DefaultMaxFileSize = 10 << 20

// DefaultAllowedExtensions lists the accepted upload file extensions.
var DefaultAllowedExtensions = []string{"jpg", "jpeg", "png", "pdf"}

// Result is the outcome of one analysis request. Data is nil when the
// document type is unknown or extraction failed; Validated reports whether
// Data conforms to the per-type schema.
type Result struct {
	RequestID        string         `json:"request_id"`
	Success          bool           `json:"success"`
	DocumentType     doctype.Type   `json:"document_type"`
	Confidence       float64        `json:"confidence"`
	Data             map[string]any `json:"data"`
	Validated        bool           `json:"validated"`
	Error            string         `json:"error,omitempty"`
	ProcessingTimeMS int64          `json:"processing_time_ms"`

	inputError bool
}

// InputError reports whether the failure was caused by the uploaded file
// itself (wrong extension, oversize, unreadable) rather than the pipeline.
// The transport layer maps these to a client error status.
func (r *Result) InputError() bool {
	return r.inputError
}

// Config holds analysis service tuning. Zero values select the defaults.
type Config struct {
	MaxFileSize       int64
	AllowedExtensions []string
}

// Service runs the analysis pipeline. Safe for concurrent use; each call
// carries its own state.
type Service struct {
	normalizer  *normalize.Normalizer
	classifier  *classify.Classifier
	extractor   *extract.Extractor
	maxFileSize int64
	allowed     map[string]bool
	logger      *slog.Logger
}

// New creates a Service from the pipeline stages.
func New(cfg Config, n *normalize.Normalizer, c *classify.Classifier, e *extract.Extractor, logger *slog.Logger) *Service {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if len(cfg.AllowedExtensions) == 0 {
		cfg.AllowedExtensions = DefaultAllowedExtensions
	}
	if logger == nil {
		logger = slog.Default()
	}
	allowed := make(map[string]bool, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &Service{
		normalizer:  n,
		classifier:  c,
		extractor:   e,
		maxFileSize: cfg.MaxFileSize,
		allowed:     allowed,
		logger:      logger.With("component", "analyze"),
	}
}

// MaxFileSize returns the configured upload size cap in bytes.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// Analyze runs the full pipeline on one uploaded file. It always returns a
// populated Result and never panics; every failure mode degrades to a record
// with Success=false and an error message.
func (s *Service) Analyze(ctx context.Context, filename string, data []byte) *Result {
	start := time.Now()
	res := &Result{
		RequestID:    uuid.New().String(),
		DocumentType: doctype.Unknown,
	}
	log := s.logger.With("request_id", res.RequestID, "filename", filename)
	defer func() {
		res.ProcessingTimeMS = time.Since(start).Milliseconds()
	}()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !s.allowed[ext] {
		res.inputError = true
		res.Error = fmt.Sprintf("unsupported file format %q: only JPG, JPEG, PNG and PDF files are supported", ext)
		log.Warn("rejected upload", "error", res.Error)
		return res
	}
	if int64(len(data)) > s.maxFileSize {
		res.inputError = true
		res.Error = fmt.Sprintf("file size %d exceeds the maximum of %dMB", len(data), s.maxFileSize>>20)
		log.Warn("rejected upload", "error", res.Error)
		return res
	}

	log.Info("analysis started", "size_bytes", len(data))

	norm, err := s.normalizer.Normalize(data)
	if err != nil {
		if errors.Is(err, normalize.ErrEmptyInput) ||
			errors.Is(err, normalize.ErrUnreadableImage) ||
			errors.Is(err, normalize.ErrUnreadablePDF) {
			res.inputError = true
		}
		res.Error = fmt.Sprintf("failed to read document: %v", err)
		log.Error("normalization failed", "error", err)
		return res
	}
	imageBase64 := norm.Base64()

	cls := s.classifier.Classify(ctx, imageBase64)
	res.DocumentType = cls.Type
	res.Confidence = cls.Confidence

	if !cls.Type.IsExtractable() {
		// Unknown is a legitimate answer: the request succeeded, there is
		// just no structured data to return.
		res.Success = true
		log.Info("analysis finished", "document_type", cls.Type, "confidence", cls.Confidence)
		return res
	}

	outcome, err := s.extractor.Extract(ctx, imageBase64, cls.Type)
	if err != nil {
		res.Confidence = 0.0
		res.Error = fmt.Sprintf("extraction failed: %v", err)
		log.Error("extraction failed", "document_type", cls.Type, "error", err)
		return res
	}
	if outcome != nil {
		res.Data = outcome.Data
		res.Validated = outcome.Validated
	}
	res.Success = true
	log.Info("analysis finished",
		"document_type", cls.Type,
		"confidence", cls.Confidence,
		"validated", res.Validated,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res
}
