package config

import (
	"time"

	"github.com/Rovlad/meddoc-parse/internal/analyze"
	"github.com/Rovlad/meddoc-parse/internal/normalize"
	"github.com/Rovlad/meddoc-parse/internal/providers"
)

// Config holds meddoc configuration.
type Config struct {
	Server ServerCfg `mapstructure:"server" yaml:"server"`
	OpenAI OpenAICfg `mapstructure:"openai" yaml:"openai"`
	Upload UploadCfg `mapstructure:"upload" yaml:"upload"`
	Image  ImageCfg  `mapstructure:"image" yaml:"image"`
	Log    LogCfg    `mapstructure:"log" yaml:"log"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// OpenAICfg configures the inference client.
type OpenAICfg struct {
	APIKey            string `mapstructure:"api_key" yaml:"api_key"` // Supports ${ENV_VAR} syntax
	Model             string `mapstructure:"model" yaml:"model"`
	BaseURL           string `mapstructure:"base_url" yaml:"base_url"` // Override for testing or proxies
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries        int    `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" yaml:"retry_delay_seconds"`
}

// UploadCfg configures upload acceptance limits.
type UploadCfg struct {
	MaxFileSizeMB     int64    `mapstructure:"max_file_size_mb" yaml:"max_file_size_mb"`
	AllowedExtensions []string `mapstructure:"allowed_extensions" yaml:"allowed_extensions"`
}

// ImageCfg configures document normalization.
type ImageCfg struct {
	MaxDimension int `mapstructure:"max_dimension" yaml:"max_dimension"`
	JPEGQuality  int `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
	PDFRenderDPI int `mapstructure:"pdf_render_dpi" yaml:"pdf_render_dpi"`
}

// LogCfg configures the slog handler.
type LogCfg struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: 8080,
		},
		OpenAI: OpenAICfg{
			APIKey:            "${OPENAI_API_KEY}",
			Model:             "gpt-4o",
			TimeoutSeconds:    120,
			MaxRetries:        3,
			RetryDelaySeconds: 2,
		},
		Upload: UploadCfg{
			MaxFileSizeMB:     10,
			AllowedExtensions: []string{"jpg", "jpeg", "png", "pdf"},
		},
		Image: ImageCfg{
			MaxDimension: normalize.DefaultMaxDimension,
			JPEGQuality:  normalize.DefaultJPEGQuality,
			PDFRenderDPI: normalize.DefaultPDFRenderDPI,
		},
		Log: LogCfg{
			Level:  "info",
			Format: "text",
		},
	}
}

// ResolveAPIKey returns the OpenAI API key with ${ENV_VAR} references expanded.
func (c *Config) ResolveAPIKey() string {
	return ResolveEnvVars(c.OpenAI.APIKey)
}

// OpenAIConfig converts the config into providers client settings.
func (c *Config) OpenAIConfig() providers.OpenAIConfig {
	return providers.OpenAIConfig{
		APIKey:     c.ResolveAPIKey(),
		Model:      c.OpenAI.Model,
		BaseURL:    c.OpenAI.BaseURL,
		Timeout:    time.Duration(c.OpenAI.TimeoutSeconds) * time.Second,
		MaxRetries: c.OpenAI.MaxRetries,
		RetryDelay: time.Duration(c.OpenAI.RetryDelaySeconds) * time.Second,
	}
}

// NormalizeConfig converts the config into normalizer settings.
func (c *Config) NormalizeConfig() normalize.Config {
	return normalize.Config{
		MaxDimension: c.Image.MaxDimension,
		JPEGQuality:  c.Image.JPEGQuality,
		PDFRenderDPI: c.Image.PDFRenderDPI,
	}
}

// AnalyzeConfig converts the config into analysis service settings.
func (c *Config) AnalyzeConfig() analyze.Config {
	return analyze.Config{
		MaxFileSize:       c.Upload.MaxFileSizeMB << 20,
		AllowedExtensions: c.Upload.AllowedExtensions,
	}
}
