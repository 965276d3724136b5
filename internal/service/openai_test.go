package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"evaluator/internal/config"
)

// fakeModel is an OpenAI-compatible endpoint answering with canned replies
type fakeModel struct {
	t      *testing.T
	mu     sync.Mutex
	calls  []map[string]any
	reply  func(system, user string) string
	status int
}

func (f *fakeModel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	var raw map[string]any
	var req ChatCompletionRequest
	if err == nil {
		err = json.Unmarshal(body, &raw)
	}
	if err == nil {
		err = json.Unmarshal(body, &req)
	}
	if !assert.NoError(f.t, err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.calls = append(f.calls, raw)
	f.mu.Unlock()

	if f.status != 0 && f.status != http.StatusOK {
		http.Error(w, `{"error":"boom"}`, f.status)
		return
	}

	var system, user string
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			system = m.Content
		case "user":
			user = m.Content
		}
	}
	content := f.reply(system, user)

	if req.Stream {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, piece := range strings.SplitAfter(content, " ") {
			chunk, _ := json.Marshal(map[string]any{
				"choices": []any{map[string]any{"delta": map[string]any{"content": piece}}},
			})
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":    "chatcmpl-test",
		"model": req.Model,
		"choices": []any{map[string]any{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"total_tokens": 42},
	})
}

func (f *fakeModel) Calls() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.calls...)
}

func newFakeModel(t *testing.T, reply func(system, user string) string) (*fakeModel, *OpenAIClient) {
	t.Helper()
	fm := &fakeModel{t: t, reply: reply}
	srv := httptest.NewServer(fm)
	t.Cleanup(srv.Close)

	cfg := &config.OpenAIConfig{
		APIKey:          "test-key",
		APIBase:         srv.URL,
		ChatModel:       "gpt-4o-mini",
		ChatTemperature: 0.2,
		ChatMaxTokens:   256,
		Timeout:         5,
		Enabled:         true,
	}
	return fm, NewOpenAIClient(cfg, zap.NewNop())
}

func disabledClient() *OpenAIClient {
	return NewOpenAIClient(&config.OpenAIConfig{APIBase: "https://api.openai.com/v1"}, nil)
}

func TestChatCompletionAppliesDefaults(t *testing.T) {
	fm, client := newFakeModel(t, func(_, user string) string { return "echo: " + user })
	client.extraBody = map[string]any{"chat_template_kwargs": map[string]any{"thinking": true}, "model": "ignored"}

	resp, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	})
	require.NoError(t, err)

	content, err := resp.Content()
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", content)

	calls := fm.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "gpt-4o-mini", calls[0]["model"])
	assert.Equal(t, 0.2, calls[0]["temperature"])
	assert.Equal(t, float64(256), calls[0]["max_tokens"])
	assert.NotContains(t, calls[0], "stream")
	assert.NotContains(t, calls[0], "extra_body")
	assert.Equal(t, map[string]any{"thinking": true}, calls[0]["chat_template_kwargs"])
}

func TestChatCompletionSendsZeroTemperature(t *testing.T) {
	fm, client := newFakeModel(t, func(_, _ string) string { return "{}" })

	_, err := complete(context.Background(), client, "sys", "user", jsonObject, deterministic)
	require.NoError(t, err)

	calls := fm.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 0.0, calls[0]["temperature"])
	assert.Equal(t, map[string]any{"type": "json_object"}, calls[0]["response_format"])
}

func TestChatCompletionErrors(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		_, err := disabledClient().ChatCompletion(context.Background(), ChatCompletionRequest{})
		assert.ErrorIs(t, err, ErrAIDisabled)
	})

	t.Run("status", func(t *testing.T) {
		fm, client := newFakeModel(t, nil)
		fm.status = http.StatusTooManyRequests
		_, err := client.ChatCompletion(context.Background(), ChatCompletionRequest{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("no choices", func(t *testing.T) {
		_, err := (&ChatCompletionResponse{}).Content()
		assert.Error(t, err)
	})
}

func TestChatCompletionStream(t *testing.T) {
	fm, client := newFakeModel(t, func(_, _ string) string { return "a foyer is a small entrance hall" })

	var got strings.Builder
	err := client.ChatCompletionStream(context.Background(), ChatCompletionRequest{
		Messages: []ChatMessage{{Role: "user", Content: "foyer?"}},
	}, func(chunk *StreamChunk) error {
		got.WriteString(chunk.Content)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "a foyer is a small entrance hall", got.String())
	assert.Equal(t, true, fm.Calls()[0]["stream"])
}

func TestChatCompletionStreamCallbackError(t *testing.T) {
	_, client := newFakeModel(t, func(_, _ string) string { return "one two three" })
	stop := errors.New("client went away")

	err := client.ChatCompletionStream(context.Background(), ChatCompletionRequest{}, func(*StreamChunk) error {
		return stop
	})
	assert.ErrorIs(t, err, stop)
}

func TestChunkParsers(t *testing.T) {
	data := []byte(`{"choices":[{"delta":{"role":"assistant","content":"hi","reasoning_content":"thinking"},"finish_reason":"stop"}]}`)

	openai, err := (&OpenAIStreamChunkParser{}).ParseChunk(data)
	require.NoError(t, err)
	assert.Equal(t, &StreamChunk{Content: "hi", Role: "assistant", Done: true}, openai)

	nvidia, err := (&NVIDIAStreamChunkParser{}).ParseChunk(data)
	require.NoError(t, err)
	assert.Equal(t, &StreamChunk{Content: "hi", ThinkingContent: "thinking", Role: "assistant", Done: true}, nvidia)

	empty, err := (&OpenAIStreamChunkParser{}).ParseChunk([]byte(`{"choices":[{"delta":{},"finish_reason":null}]}`))
	require.NoError(t, err)
	assert.False(t, empty.Done)

	_, err = (&OpenAIStreamChunkParser{}).ParseChunk([]byte(`not json`))
	assert.Error(t, err)
}

func TestProviderDetection(t *testing.T) {
	assert.True(t, IsNVIDIAProvider("https://integrate.api.nvidia.com/v1"))
	assert.False(t, IsNVIDIAProvider("https://api.openai.com/v1"))
	assert.True(t, IsOpenAIProvider("https://api.openai.com/v1"))
	assert.False(t, IsOpenAIProvider("http://localhost:11434/v1"))
}
