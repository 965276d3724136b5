package dialogue

import (
	"context"

	"evaluator/internal/model"
)

// ExtractionContext tells the extractor which question the user is answering
type ExtractionContext struct {
	Ref      model.FieldRef
	Question string
}

// Extractor turns free text into a raw record payload
type Extractor interface {
	Extract(ctx context.Context, text string, ec *ExtractionContext) (map[string]any, error)
}

// AttachmentInfo is what the user said about an attached wall
type AttachmentInfo struct {
	Owner     *model.Owner     `json:"owner"`
	SpaceType *model.SpaceType `json:"space_type"`
}

// AttachmentInterpreter reads an answer to an attachment follow-up
type AttachmentInterpreter interface {
	ExtractAttachment(ctx context.Context, text string) (AttachmentInfo, error)
}

// Intent is the purpose of a user message
type Intent string

const (
	IntentAnswer      Intent = "answer"
	IntentProduct     Intent = "product_question"
	IntentExplanation Intent = "explanation"
	IntentContinue    Intent = "continue_anyway"
)

// IntentClassifier decides whether a message answers the question or asks
// about the tool or a concept. IntentContinue marks a hedged answer; it is
// still extracted like any other answer.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) Intent
}

// Explainer answers concept and product questions
type Explainer interface {
	ExplainConcept(ctx context.Context, text string) (string, error)
	ExplainProduct() string
}
