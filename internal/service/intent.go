package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"evaluator/internal/dialogue"
	"evaluator/internal/schema"
	"evaluator/internal/utils"
)

var (
	productPhrases = []string{
		// how it works
		"how does this work", "how does it work", "how do you evaluate", "how do u evaluate",
		"how is this evaluated", "what is your basis", "basis for judgment",
		// what is evaluated
		"what will you evaluate", "what do you evaluate", "what all do you check", "what are you checking",
		// accuracy
		"how accurate is this", "is this accurate", "can i trust this", "is this reliable",
		// identity
		"what is this tool", "what is this", "what can you do", "who are you",
	}

	quickExplanationPhrases = []string{
		"what is", "what's", "whats", "what does", "meaning of", "meaning", "define", "explain", "means",
	}

	continuePhrases = []string{
		"continue anyway", "just evaluate", "just check", "do it", "do it anyway", "skip",
		"doesn't matter", "not sure", "you decide",
	}

	explanationTriggers = []string{
		"what is", "what does", "what do you mean", "meaning of", "explain", "how does", "how do",
		"why does", "why is",
	}
)

// model labels of the intent prompt
const (
	labelProduct = "A"
	labelAnswer  = "B"
	labelConcept = "C"
)

// IntentClassifier decides what a user message is for. Phrase rules run
// first; messages longer than two words that no product rule catches are
// also labelled by the language model when it is enabled.
type IntentClassifier struct {
	client  ChatClient
	catalog *schema.Catalog
	logger  *zap.Logger
}

// NewIntentClassifier creates an intent classifier. client may be nil.
func NewIntentClassifier(client ChatClient, catalog *schema.Catalog, logger *zap.Logger) *IntentClassifier {
	if catalog == nil {
		catalog = schema.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentClassifier{client: client, catalog: catalog, logger: logger.Named("intent")}
}

// Classify implements dialogue.IntentClassifier
func (c *IntentClassifier) Classify(ctx context.Context, text string) dialogue.Intent {
	t := utils.Normalize(text)
	if t == "" {
		return dialogue.IntentAnswer
	}
	words := utils.WordCount(t)

	// very short inputs are never product questions
	label := labelAnswer
	if words > 2 {
		if utils.ContainsAnyPhrase(t, productPhrases) {
			return dialogue.IntentProduct
		}
		label = c.label(ctx, t)
		if label == labelProduct {
			return dialogue.IntentProduct
		}
	}

	// "foyer?" and friends
	if utils.ContainsAnyPhrase(t, quickExplanationPhrases) || (strings.HasSuffix(t, "?") && words <= 4) {
		return dialogue.IntentExplanation
	}
	if utils.ContainsAnyPhrase(t, continuePhrases) {
		return dialogue.IntentContinue
	}
	// three words minimum so answers like "8 ft" never trigger
	if words >= 3 && utils.ContainsAnyPhrase(t, explanationTriggers) {
		return dialogue.IntentExplanation
	}
	if label == labelConcept {
		return dialogue.IntentExplanation
	}
	return dialogue.IntentAnswer
}

// label asks the model for A, B or C. Anything else, including a failed
// call, counts as an answer.
func (c *IntentClassifier) label(ctx context.Context, text string) string {
	if c.client == nil || !c.client.IsEnabled() {
		return labelAnswer
	}
	reply, err := complete(ctx, c.client, c.catalog.Prompts.Intent, text, deterministic)
	if err != nil {
		c.logger.Warn("intent classification failed", zap.Error(err))
		return labelAnswer
	}
	switch l := strings.ToUpper(strings.TrimSpace(reply)); l {
	case labelProduct, labelAnswer, labelConcept:
		return l
	default:
		c.logger.Debug("unexpected intent label", zap.String("label", reply))
		return labelAnswer
	}
}
