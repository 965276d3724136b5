package service

import (
	"context"
	"errors"
)

// ErrAIDisabled is returned by model-backed operations when no API key is configured
var ErrAIDisabled = errors.New("language model is not enabled (missing OPENAI_API_KEY)")

// ChatClient is the interface for OpenAI-compatible chat providers
type ChatClient interface {
	// ChatCompletion sends a request and returns the full response
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)

	// ChatCompletionStream sends a request and calls callback once per chunk
	ChatCompletionStream(ctx context.Context, req ChatCompletionRequest, callback StreamCallback) error

	// IsEnabled returns whether the client is configured and ready
	IsEnabled() bool
}

// StreamChunk represents a generic streaming response chunk
type StreamChunk struct {
	// Regular content
	Content string

	// Thinking/reasoning content (provider-specific, e.g. DeepSeek on NVIDIA)
	ThinkingContent string

	Role string

	// Whether this is the final chunk
	Done bool
}

// Ensure OpenAIClient implements ChatClient
var _ ChatClient = (*OpenAIClient)(nil)
