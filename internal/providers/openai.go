package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	retry "github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	OpenAIName             = "openai"
	openAIDefaultModel     = openai.ChatModelGPT4o
	openAIDefaultMaxTokens = 2000
)

// OpenAIConfig holds configuration for the OpenAI vision client.
type OpenAIConfig struct {
	APIKey     string
	Model      string        // "gpt-4o" (default)
	Timeout    time.Duration // HTTP timeout, must be bounded (default 120s)
	MaxRetries int           // Attempts for transient failures
	RetryDelay time.Duration // Base backoff delay
	BaseURL    string        // Optional (tests)
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClient implements VisionClient using the official OpenAI SDK.
type OpenAIClient struct {
	model      string
	maxRetries int
	retryDelay time.Duration
	client     openai.Client
	hasKey     bool
}

// NewOpenAIClient creates a new OpenAI vision client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// Backoff is handled here with typed error classification,
		// so SDK-level retries stay off.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		client:     openai.NewClient(opts...),
		hasKey:     cfg.APIKey != "",
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Model returns the configured default model.
func (c *OpenAIClient) Model() string {
	return c.model
}

// HealthCheck verifies the API is reachable and the key is valid.
func (c *OpenAIClient) HealthCheck(ctx context.Context) error {
	if !c.hasKey {
		return &AuthError{Message: "API key is not configured"}
	}
	if _, err := c.client.Models.List(ctx); err != nil {
		return fmt.Errorf("openai models list failed: %w", mapOpenAIError(err))
	}
	return nil
}

// AnalyzeImage sends one image and one prompt as a vision chat completion.
// Rate-limited and 5xx responses are retried with exponential backoff;
// auth and request-shape failures fail immediately.
func (c *OpenAIClient) AnalyzeImage(ctx context.Context, req *VisionRequest) (*VisionResult, error) {
	start := time.Now()

	if !c.hasKey {
		return nil, &AuthError{Message: "API key is not configured"}
	}
	if req == nil || req.ImageBase64 == "" {
		return nil, &TransportError{Message: "image data is required"}
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = openAIDefaultMaxTokens
	}

	params := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(c.model),
		MaxTokens: openai.Int(int64(maxTokens)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(req.Prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: "data:image/jpeg;base64," + req.ImageBase64,
				}),
			}),
		},
	}
	if req.JSONOnly {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	var resp *openai.ChatCompletion
	err := retry.Do(
		func() error {
			var callErr error
			resp, callErr = c.client.Chat.Completions.New(ctx, params)
			if callErr != nil {
				return mapOpenAIError(callErr)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var unavailable *ServiceUnavailableError
			return errors.As(err, &unavailable)
		}),
	)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, &TransportError{Message: "response contained no choices"}
	}

	return &VisionResult{
		Content:       resp.Choices[0].Message.Content,
		TotalTokens:   int(resp.Usage.TotalTokens),
		Model:         resp.Model,
		ExecutionTime: time.Since(start),
	}, nil
}

// mapOpenAIError converts SDK errors to the package's typed errors.
func mapOpenAIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return &AuthError{Message: apiErr.Message}
		case apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500:
			return &ServiceUnavailableError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		default:
			return &TransportError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		}
	}

	// Connection-level failure: the service could not be reached at all.
	return &ServiceUnavailableError{Message: err.Error()}
}

var _ VisionClient = (*OpenAIClient)(nil)
