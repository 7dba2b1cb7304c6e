package endpoints

import (
	"github.com/Rovlad/meddoc-parse/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// System endpoints
		&RootEndpoint{},
		&HealthEndpoint{},

		// Document endpoints
		&AnalyzeEndpoint{},
		&SupportedDocumentsEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},
	}
}
