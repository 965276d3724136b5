package service

import "strings"

// NVIDIAStreamChunkParser parses NVIDIA-hosted chunks, which carry the
// reasoning stream of thinking models in reasoning_content
type NVIDIAStreamChunkParser struct{}

// ParseChunk converts an NVIDIA/DeepSeek chunk to a generic StreamChunk
func (p *NVIDIAStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	return decodeChunk(data, true)
}

// IsNVIDIAProvider checks if the base URL is the NVIDIA API
func IsNVIDIAProvider(baseURL string) bool {
	return strings.Contains(baseURL, "integrate.api.nvidia.com")
}
