// Package normalize converts arbitrary uploaded images and single-page PDFs
// into a canonical form for the inference service: an opaque RGB JPEG whose
// longer side is capped at a configured dimension.
package normalize

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/disintegration/imaging"
)

// Sentinel errors for the caller to classify input failures.
var (
	ErrEmptyInput      = errors.New("empty input buffer")
	ErrUnreadableImage = errors.New("unreadable image data")
	ErrUnreadablePDF   = errors.New("unreadable PDF document")
)

const (
	// DefaultMaxDimension caps the longer image side before transmission.
	DefaultMaxDimension = 2048
	// DefaultJPEGQuality is the re-encode quality.
	DefaultJPEGQuality = 85
	// DefaultPDFRenderDPI is the rasterization resolution for PDF pages.
	DefaultPDFRenderDPI = 150
)

// Config holds normalizer tuning. Zero values select the defaults.
type Config struct {
	MaxDimension int
	JPEGQuality  int
	PDFRenderDPI int
}

// Normalizer renders, flattens, resizes and re-encodes documents.
// It is stateless and safe for concurrent use.
type Normalizer struct {
	maxDimension int
	jpegQuality  int
	pdfRenderDPI int
	logger       *slog.Logger
}

// Result is a normalized document image.
type Result struct {
	JPEG   []byte // Encoded JPEG bytes
	Width  int    // Final pixel width
	Height int    // Final pixel height
}

// Base64 returns the standard base64 text encoding of the JPEG bytes,
// the form the inference client transmits.
func (r *Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.JPEG)
}

// New creates a Normalizer.
func New(cfg Config, logger *slog.Logger) *Normalizer {
	if cfg.MaxDimension <= 0 {
		cfg.MaxDimension = DefaultMaxDimension
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = DefaultJPEGQuality
	}
	if cfg.PDFRenderDPI <= 0 {
		cfg.PDFRenderDPI = DefaultPDFRenderDPI
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		maxDimension: cfg.MaxDimension,
		jpegQuality:  cfg.JPEGQuality,
		pdfRenderDPI: cfg.PDFRenderDPI,
		logger:       logger.With("component", "normalize"),
	}
}

// Normalize converts raw upload bytes into the canonical JPEG form.
// PDFs are detected by magic number and only their first page is rendered.
// The operation is deterministic for identical input bytes.
func (n *Normalizer) Normalize(data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	if isPDF(data) {
		rendered, err := n.renderFirstPage(data)
		if err != nil {
			return nil, err
		}
		data = rendered
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}

	img = flattenToRGB(img)

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > n.maxDimension || h > n.maxDimension {
		// Fit scales down preserving aspect ratio and never upsamples.
		img = imaging.Fit(img, n.maxDimension, n.maxDimension, imaging.Lanczos)
		resized := img.Bounds()
		n.logger.Debug("downsampled image",
			"from_width", w, "from_height", h,
			"to_width", resized.Dx(), "to_height", resized.Dy(),
		)
		w, h = resized.Dx(), resized.Dy()
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(n.jpegQuality)); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &Result{JPEG: buf.Bytes(), Width: w, Height: h}, nil
}

// flattenToRGB composites any image onto an opaque white background.
// Transparency and palette modes are blended over white; images that are
// already opaque come through unchanged in appearance.
func flattenToRGB(img image.Image) image.Image {
	bounds := img.Bounds()
	bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
