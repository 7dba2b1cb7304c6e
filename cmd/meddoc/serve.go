package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rovlad/meddoc-parse/internal/config"
	"github.com/Rovlad/meddoc-parse/internal/server"
	"github.com/Rovlad/meddoc-parse/internal/server/endpoints"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the meddoc server",
	Long: `Start the meddoc HTTP server.

The server provides:
  - POST /api/v1/analyze             - Upload and analyze a document
  - GET  /api/v1/health              - Service health check
  - GET  /api/v1/supported-documents - List supported document types

Examples:
  meddoc serve                    # Start on default port 8080
  meddoc serve --port 3000        # Start on custom port
  meddoc serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cfgMgr.Get()

		logger := newLogger(cfg.Log)
		slog.SetDefault(logger)

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:            host,
			Port:            port,
			ConfigManager:   cfgMgr,
			Logger:          logger,
			SwaggerSpecPath: endpoints.GetSwaggerSpecPath(),
		})
		if err != nil {
			return err
		}

		cfgMgr.WatchConfig()

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

// newLogger builds the process logger from config.
func newLogger(cfg config.LogCfg) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.Format) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
