package providers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is a VisionClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	Err          error  // Returned from every call when set
	ResponseText string // Returned when Err is nil and no script is set

	// ResponseFunc, when set, computes the response per request and takes
	// precedence over scripts and ResponseText.
	ResponseFunc func(req *VisionRequest) (string, error)

	mu        sync.Mutex
	responses []string // Scripted responses, consumed in order

	requestCount atomic.Int64
}

// NewMockClient creates a mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{ResponseText: "mock response"}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Script queues responses returned by successive calls. After the script
// is exhausted, ResponseText is returned.
func (c *MockClient) Script(responses ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, responses...)
}

// Calls returns the number of AnalyzeImage invocations.
func (c *MockClient) Calls() int {
	return int(c.requestCount.Load())
}

// AnalyzeImage returns the configured error or the next scripted response.
func (c *MockClient) AnalyzeImage(ctx context.Context, req *VisionRequest) (*VisionResult, error) {
	start := time.Now()
	c.requestCount.Add(1)

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if c.Err != nil {
		return nil, c.Err
	}

	if c.ResponseFunc != nil {
		content, err := c.ResponseFunc(req)
		if err != nil {
			return nil, err
		}
		return &VisionResult{
			Content:       content,
			Model:         MockClientName,
			ExecutionTime: time.Since(start),
		}, nil
	}

	content := c.ResponseText
	c.mu.Lock()
	if len(c.responses) > 0 {
		content = c.responses[0]
		c.responses = c.responses[1:]
	}
	c.mu.Unlock()

	return &VisionResult{
		Content:       content,
		TotalTokens:   len(req.Prompt) / 4,
		Model:         MockClientName,
		ExecutionTime: time.Since(start),
	}, nil
}

var _ VisionClient = (*MockClient)(nil)
