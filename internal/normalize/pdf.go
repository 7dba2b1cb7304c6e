package normalize

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfMagic is the 4-byte prefix identifying a PDF document.
var pdfMagic = []byte("%PDF")

func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// renderFirstPage rasterizes page 1 of the PDF to PNG bytes at the
// configured DPI. The document is validated with pdfcpu first so corrupt
// or empty PDFs fail before shelling out to the renderer.
func (n *Normalizer) renderFirstPage(data []byte) ([]byte, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrUnreadablePDF)
	}
	if pageCount > 1 {
		n.logger.Debug("multi-page PDF, rendering first page only", "pages", pageCount)
	}

	tmpDir, err := os.MkdirTemp("", "meddoc-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "upload.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write temp PDF: %w", err)
	}

	// Render with pdftoppm (poppler-utils):
	// -png: output PNG
	// -f/-l 1: first page only
	// -r: resolution in DPI
	// -singlefile: no page number suffix
	outputPrefix := filepath.Join(tmpDir, "page")
	cmd := exec.Command("pdftoppm",
		"-png",
		"-f", "1",
		"-l", "1",
		"-r", fmt.Sprintf("%d", n.pdfRenderDPI),
		"-singlefile",
		pdfPath,
		outputPrefix,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("%w: pdftoppm failed: %v (output: %s)", ErrUnreadablePDF, err, string(output))
	}

	rendered, err := os.ReadFile(outputPrefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftoppm produced no output: %v", ErrUnreadablePDF, err)
	}
	return rendered, nil
}
