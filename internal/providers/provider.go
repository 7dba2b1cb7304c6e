// Package providers wraps the remote multimodal inference service behind a
// single capability: submit one image and one text prompt, receive response
// text and a token-usage count.
package providers

import (
	"context"
	"time"
)

// VisionClient is the inference capability the pipeline depends on.
// Implementations must be safe for concurrent use; one shared instance
// serves all in-flight requests.
type VisionClient interface {
	// AnalyzeImage submits the image and prompt and returns the response.
	// Transport, auth and availability failures surface as the typed
	// errors in errors.go; the caller decides whether to degrade.
	AnalyzeImage(ctx context.Context, req *VisionRequest) (*VisionResult, error)

	// Name returns the client identifier (e.g. "openai").
	Name() string
}

// VisionRequest is a single image-plus-prompt inference call.
type VisionRequest struct {
	// ImageBase64 is the normalized JPEG, standard base64 encoded.
	ImageBase64 string
	// Prompt is the instruction text.
	Prompt string
	// MaxTokens bounds the response length (0 = client default).
	MaxTokens int
	// JSONOnly requests the service's machine-parseable output mode.
	// The response is still plain text; callers parse it themselves.
	JSONOnly bool
}

// VisionResult is the response from one inference call.
type VisionResult struct {
	Content       string        // Raw response text
	TotalTokens   int           // Token usage reported by the service
	Model         string        // Model that served the request
	ExecutionTime time.Duration // Wall time of the call
}
