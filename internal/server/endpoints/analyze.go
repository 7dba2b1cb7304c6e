package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Rovlad/meddoc-parse/internal/analyze"
	"github.com/Rovlad/meddoc-parse/internal/api"
	"github.com/Rovlad/meddoc-parse/internal/svcctx"
)

// AnalyzeEndpoint handles POST /api/v1/analyze with a multipart file upload.
type AnalyzeEndpoint struct{}

var _ api.Endpoint = (*AnalyzeEndpoint)(nil)

func (e *AnalyzeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/v1/analyze", e.handler
}

// handler godoc
//
//	@Summary		Analyze a medical document
//	@Description	Upload a document image or PDF, classify it and extract structured fields
//	@Tags			documents
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"Document image (JPG, PNG) or PDF"
//	@Success		200		{object}	analyze.Result
//	@Failure		400		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/v1/analyze [post]
func (e *AnalyzeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svc := svcctx.AnalyzerFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis service not initialized")
		return
	}

	// Bound the request body before parsing; +1MB headroom for the
	// multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, svc.MaxFileSize()+1<<20)
	if err := r.ParseMultipartForm(svc.MaxFileSize()); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read uploaded file: %v", err))
		return
	}

	result := svc.Analyze(r.Context(), header.Filename, data)
	if result.InputError() {
		writeError(w, http.StatusBadRequest, result.Error)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (e *AnalyzeEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a medical document file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()

			client := api.NewClient(getServerURL())
			var result analyze.Result
			if err := client.PostFile(cmd.Context(), "/api/v1/analyze", "file", filepath.Base(args[0]), f, &result); err != nil {
				return err
			}
			return api.Output(result)
		},
	}
}
