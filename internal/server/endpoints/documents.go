package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Rovlad/meddoc-parse/internal/api"
	"github.com/Rovlad/meddoc-parse/internal/doctype"
)

// DocumentTypeInfo describes one supported document type.
type DocumentTypeInfo struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SupportedDocumentsResponse lists the document types extraction supports.
type SupportedDocumentsResponse struct {
	SupportedTypes []DocumentTypeInfo `json:"supported_types"`
}

// SupportedDocumentsEndpoint handles GET /api/v1/supported-documents.
type SupportedDocumentsEndpoint struct{}

func (e *SupportedDocumentsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/v1/supported-documents", e.handler
}

// handler godoc
//
//	@Summary	List supported document types
//	@Tags		documents
//	@Produce	json
//	@Success	200	{object}	SupportedDocumentsResponse
//	@Router		/api/v1/supported-documents [get]
func (e *SupportedDocumentsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := SupportedDocumentsResponse{
		SupportedTypes: make([]DocumentTypeInfo, 0, len(doctype.Extractable)),
	}
	for _, t := range doctype.Extractable {
		resp.SupportedTypes = append(resp.SupportedTypes, DocumentTypeInfo{
			Type:        string(t),
			Name:        t.Name(),
			Description: t.Description(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *SupportedDocumentsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "List supported document types",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SupportedDocumentsResponse
			if err := client.Get(cmd.Context(), "/api/v1/supported-documents", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
