package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"evaluator/internal/schema"
)

// Explainer answers questions about housing concepts with the language model
// and about the tool itself with fixed text
type Explainer struct {
	client  ChatClient
	catalog *schema.Catalog
	logger  *zap.Logger
}

// NewExplainer creates an explainer
func NewExplainer(client ChatClient, catalog *schema.Catalog, logger *zap.Logger) *Explainer {
	if catalog == nil {
		catalog = schema.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Explainer{client: client, catalog: catalog, logger: logger.Named("explainer")}
}

// ExplainProduct describes what the evaluator looks at
func (e *Explainer) ExplainProduct() string {
	return e.catalog.Product
}

// ExplainConcept explains a real-estate concept in plain words
func (e *Explainer) ExplainConcept(ctx context.Context, question string) (string, error) {
	return complete(ctx, e.client, e.catalog.Prompts.Concept, question)
}

// ExplainConceptStream explains a concept and calls onDelta with each piece
// of text as it arrives. It returns the whole explanation.
func (e *Explainer) ExplainConceptStream(ctx context.Context, question string, onDelta func(content string) error) (string, error) {
	if e.client == nil || !e.client.IsEnabled() {
		return "", ErrAIDisabled
	}

	req := ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: e.catalog.Prompts.Concept},
			{Role: "user", Content: question},
		},
	}

	var full strings.Builder
	err := e.client.ChatCompletionStream(ctx, req, func(chunk *StreamChunk) error {
		// reasoning tokens are not part of the answer
		if chunk.Content == "" {
			return nil
		}
		full.WriteString(chunk.Content)
		return onDelta(chunk.Content)
	})
	if err != nil {
		e.logger.Warn("concept stream failed", zap.Error(err), zap.Int("received", full.Len()))
		return full.String(), err
	}
	return strings.TrimSpace(full.String()), nil
}
