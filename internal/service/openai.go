package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"evaluator/internal/config"
)

// StreamChunkParser is the interface for provider-specific chunk parsing
type StreamChunkParser interface {
	ParseChunk(data []byte) (*StreamChunk, error)
}

// OpenAIClient handles OpenAI-compatible API interactions
type OpenAIClient struct {
	config      *config.OpenAIConfig
	httpClient  *http.Client
	chunkParser StreamChunkParser
	extraBody   map[string]any
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI-compatible client with auto-detection of provider
func NewOpenAIClient(cfg *config.OpenAIConfig, logger *zap.Logger) *OpenAIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("openai")

	var parser StreamChunkParser
	switch {
	case IsNVIDIAProvider(cfg.APIBase):
		parser = &NVIDIAStreamChunkParser{}
		logger.Info("detected NVIDIA API provider", zap.String("base", cfg.APIBase))
	case IsOpenAIProvider(cfg.APIBase):
		parser = &OpenAIStreamChunkParser{}
		logger.Info("detected OpenAI API provider")
	default:
		// unknown providers speak the OpenAI chunk format
		parser = &OpenAIStreamChunkParser{}
		logger.Info("using standard OpenAI chunk format", zap.String("base", cfg.APIBase))
	}

	var extra map[string]any
	if cfg.ChatExtraBody != "" {
		if err := json.Unmarshal([]byte(cfg.ChatExtraBody), &extra); err != nil {
			logger.Warn("ignoring invalid OPENAI_CHAT_EXTRA_BODY", zap.Error(err))
			extra = nil
		}
	}

	return &OpenAIClient{
		config:      cfg,
		chunkParser: parser,
		extraBody:   extra,
		logger:      logger,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *OpenAIClient) IsEnabled() bool {
	return c.config.Enabled
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	TopP           float64         `json:"top_p,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Stream         bool            `json:"stream,omitempty"`

	// ExtraBody keys are sent as top-level request fields, e.g.
	// {"chat_template_kwargs": {"thinking": true}} for DeepSeek on NVIDIA
	ExtraBody map[string]any `json:"-"`
}

// MarshalJSON flattens ExtraBody into the request object. Explicit fields win.
func (r ChatCompletionRequest) MarshalJSON() ([]byte, error) {
	type plain ChatCompletionRequest
	body, err := json.Marshal(plain(r))
	if err != nil || len(r.ExtraBody) == 0 {
		return body, err
	}
	var merged map[string]any
	if err := json.Unmarshal(body, &merged); err != nil {
		return nil, err
	}
	for k, v := range r.ExtraBody {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat specifies the format of the response
type ResponseFormat struct {
	Type string `json:"type"` // "json_object" or "text"
}

// ChatCompletionResponse represents the API response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Content returns the message of the first choice
func (r *ChatCompletionResponse) Content() (string, error) {
	if len(r.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}

// StreamCallback is called for each chunk in streaming mode
type StreamCallback func(chunk *StreamChunk) error

// applyDefaults fills unset request parameters from configuration
func (c *OpenAIClient) applyDefaults(req *ChatCompletionRequest) {
	if req.Model == "" {
		req.Model = c.config.ChatModel
	}
	if req.Temperature == nil && c.config.ChatTemperature > 0 {
		t := c.config.ChatTemperature
		req.Temperature = &t
	}
	if req.TopP == 0 && c.config.ChatTopP > 0 {
		req.TopP = c.config.ChatTopP
	}
	if req.MaxTokens == 0 && c.config.ChatMaxTokens > 0 {
		req.MaxTokens = c.config.ChatMaxTokens
	}
	if req.ExtraBody == nil {
		req.ExtraBody = c.extraBody
	}
}

func (c *OpenAIClient) newRequest(ctx context.Context, req ChatCompletionRequest) (*http.Request, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.config.APIBase)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))
	return httpReq, nil
}

// ChatCompletion performs a chat completion request
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if !c.config.Enabled {
		return nil, ErrAIDisabled
	}
	c.applyDefaults(&req)
	req.Stream = false

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.logger.Debug("chat completion",
		zap.String("model", result.Model),
		zap.Int("total_tokens", result.Usage.TotalTokens),
		zap.Duration("took", time.Since(start)),
	)
	return &result, nil
}

// ChatCompletionStream performs a streaming chat completion request
func (c *OpenAIClient) ChatCompletionStream(ctx context.Context, req ChatCompletionRequest, callback StreamCallback) error {
	if !c.config.Enabled {
		return ErrAIDisabled
	}
	c.applyDefaults(&req)
	req.Stream = true

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	chunks := 0
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read stream: %w", err)
		}
		eof := err != nil

		line = bytes.TrimSpace(line)
		if data, ok := bytes.CutPrefix(line, []byte("data:")); ok {
			data = bytes.TrimSpace(data)
			if bytes.Equal(data, []byte("[DONE]")) {
				break
			}

			chunk, perr := c.chunkParser.ParseChunk(data)
			if perr != nil {
				c.logger.Warn("failed to parse stream chunk", zap.Error(perr))
			} else {
				chunks++
				if err := callback(chunk); err != nil {
					return fmt.Errorf("callback error: %w", err)
				}
			}
		}
		if eof {
			break
		}
	}

	c.logger.Debug("chat completion stream finished", zap.Int("chunks", chunks))
	return nil
}

// complete sends a system and user message and returns the reply text
func complete(ctx context.Context, client ChatClient, system, user string, opts ...requestOption) (string, error) {
	if client == nil || !client.IsEnabled() {
		return "", ErrAIDisabled
	}
	req := ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	for _, opt := range opts {
		opt(&req)
	}
	resp, err := client.ChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Content()
}

type requestOption func(*ChatCompletionRequest)

// jsonObject asks the model for a JSON object reply
func jsonObject(req *ChatCompletionRequest) {
	req.ResponseFormat = &ResponseFormat{Type: "json_object"}
}

// deterministic pins the temperature to zero
func deterministic(req *ChatCompletionRequest) {
	zero := 0.0
	req.Temperature = &zero
}
