// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/Rovlad/meddoc-parse/internal/analyze"
	"github.com/Rovlad/meddoc-parse/internal/config"
	"github.com/Rovlad/meddoc-parse/internal/providers"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Analyzer      *analyze.Service
	Vision        providers.VisionClient
	ConfigManager *config.Manager
	Logger        *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// AnalyzerFrom extracts the analysis service from context.
func AnalyzerFrom(ctx context.Context) *analyze.Service {
	if s := ServicesFrom(ctx); s != nil {
		return s.Analyzer
	}
	return nil
}

// VisionFrom extracts the inference client from context.
func VisionFrom(ctx context.Context) providers.VisionClient {
	if s := ServicesFrom(ctx); s != nil {
		return s.Vision
	}
	return nil
}

// ConfigManagerFrom extracts the config manager from context.
func ConfigManagerFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.ConfigManager
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
