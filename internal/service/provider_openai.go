package service

import (
	"encoding/json"
	"strings"
)

// chunkEnvelope is the shape shared by OpenAI-compatible stream chunks.
// reasoning_content is only sent by reasoning models behind NVIDIA.
type chunkEnvelope struct {
	Choices []struct {
		Delta struct {
			Role             string  `json:"role,omitempty"`
			Content          string  `json:"content,omitempty"`
			ReasoningContent *string `json:"reasoning_content,omitempty"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason,omitempty"`
	} `json:"choices"`
}

func decodeChunk(data []byte, withReasoning bool) (*StreamChunk, error) {
	var raw chunkEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	chunk := &StreamChunk{}
	if len(raw.Choices) == 0 {
		return chunk, nil
	}
	choice := raw.Choices[0]
	chunk.Role = choice.Delta.Role
	chunk.Content = choice.Delta.Content
	if withReasoning && choice.Delta.ReasoningContent != nil {
		chunk.ThinkingContent = *choice.Delta.ReasoningContent
	}
	chunk.Done = choice.FinishReason != nil && *choice.FinishReason != ""
	return chunk, nil
}

// OpenAIStreamChunkParser parses standard OpenAI-format streaming chunks
type OpenAIStreamChunkParser struct{}

// ParseChunk converts a standard OpenAI chunk to a generic StreamChunk
func (p *OpenAIStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	return decodeChunk(data, false)
}

// IsOpenAIProvider checks if the base URL is the official OpenAI API
func IsOpenAIProvider(baseURL string) bool {
	return strings.Contains(baseURL, "api.openai.com")
}
