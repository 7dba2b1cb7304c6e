package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Rovlad/meddoc-parse/version"
)

// RootResponse is the service banner returned at /.
type RootResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
	Health  string `json:"health"`
}

// RootEndpoint handles GET /.
type RootEndpoint struct{}

func (e *RootEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/{$}", e.handler
}

func (e *RootEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Service: "Medical Document Analysis API",
		Version: version.GitRelease,
		Docs:    "/swagger",
		Health:  "/api/v1/health",
	})
}

func (e *RootEndpoint) Command(_ func() string) *cobra.Command {
	// The banner carries no information the health command doesn't.
	return nil
}
