package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"evaluator/internal/dialogue"
	"evaluator/internal/model"
	"evaluator/internal/schema"
	"evaluator/internal/utils"
)

// ErrNoMatch is returned by the offline extractor when an answer matches none
// of the values of the asked field
var ErrNoMatch = errors.New("answer does not match any allowed value")

// Extractor turns free text into a raw record payload with the language model.
// When the model is disabled it hands the text to a fallback extractor.
type Extractor struct {
	client   ChatClient
	catalog  *schema.Catalog
	fallback dialogue.Extractor
	logger   *zap.Logger
}

// NewExtractor creates a model-backed extractor
func NewExtractor(client ChatClient, catalog *schema.Catalog, fallback dialogue.Extractor, logger *zap.Logger) *Extractor {
	if catalog == nil {
		catalog = schema.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{client: client, catalog: catalog, fallback: fallback, logger: logger.Named("extractor")}
}

// Extract sends the text with the extraction prompt and returns the decoded JSON object
func (e *Extractor) Extract(ctx context.Context, text string, ec *dialogue.ExtractionContext) (map[string]any, error) {
	if e.client == nil || !e.client.IsEnabled() {
		if e.fallback != nil {
			return e.fallback.Extract(ctx, text, ec)
		}
		return nil, ErrAIDisabled
	}

	var prompt string
	var err error
	if ec != nil {
		prompt, err = e.catalog.ExtractionPrompt(&ec.Ref, ec.Question)
	} else {
		prompt, err = e.catalog.ExtractionPrompt(nil, "")
	}
	if err != nil {
		return nil, err
	}

	content, err := complete(ctx, e.client, prompt, text, jsonObject, deterministic)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	raw, err := utils.ParseAIObject(content)
	if err != nil {
		e.logger.Warn("unparseable extraction", zap.String("content", content), zap.Error(err))
		return nil, fmt.Errorf("failed to parse extraction: %w", err)
	}
	return raw, nil
}

var (
	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
	yesWords      = []string{"yes", "yeah", "yep", "yup", "true", "y", "correct", "they do", "it is", "there are"}
	noWords       = []string{"no", "nope", "false", "n", "not really", "they don't", "it isn't", "there aren't", "only one"}
	ceilingWords  = []string{"small", "low", "average", "normal", "large", "high"}
)

// AnswerMatcher is the offline extractor. It matches direct answers against
// the allowed values of the asked field. For a whole section it only picks up
// enum values that belong to exactly one field of the section.
type AnswerMatcher struct{}

// Extract maps a short answer onto the asked field
func (AnswerMatcher) Extract(_ context.Context, text string, ec *dialogue.ExtractionContext) (map[string]any, error) {
	if ec == nil {
		return nil, fmt.Errorf("%w: nothing was asked", ErrNoMatch)
	}
	if ec.Ref.IsWholeSection() {
		return matchSection(ec.Ref.Section, text)
	}
	spec, ok := schema.Lookup(ec.Ref.Section, ec.Ref.Field)
	if !ok {
		return nil, fmt.Errorf("%w: unknown field %s", ErrNoMatch, ec.Ref)
	}

	value, ok := matchAnswer(spec, text)
	if !ok {
		return nil, ErrNoMatch
	}
	return map[string]any{
		string(spec.Section): map[string]any{string(spec.Field): value},
	}, nil
}

func matchSection(section model.Section, text string) (map[string]any, error) {
	owners := make(map[string]int)
	for _, spec := range schema.SectionFields(section) {
		for _, v := range spec.Values {
			owners[v]++
		}
	}

	found := make(map[string]any)
	for _, spec := range schema.SectionFields(section) {
		if spec.Kind != schema.KindEnum {
			continue
		}
		if v, ok := matchAnswer(spec, text); ok && owners[v.(string)] == 1 {
			found[string(spec.Field)] = v
		}
	}
	if len(found) == 0 {
		return nil, ErrNoMatch
	}
	return map[string]any{string(section): found}, nil
}

func matchAnswer(spec schema.FieldSpec, text string) (any, bool) {
	t := utils.Normalize(strings.NewReplacer(",", " ", ".", " ", "!", " ", "-", " ", "_", " ").Replace(text))
	switch spec.Kind {
	case schema.KindBool:
		// negatives first so "they don't" is not read as "they do"
		if utils.ContainsAnyPhrase(t, noWords) {
			return false, true
		}
		if utils.ContainsAnyPhrase(t, yesWords) {
			return true, true
		}
	case schema.KindNumber:
		if n := numberPattern.FindString(text); n != "" {
			return n, true
		}
		for _, w := range ceilingWords {
			if utils.ContainsPhrase(t, w) {
				return w, true
			}
		}
	case schema.KindEnum:
		// longest value first so "far apart not facing" beats "far apart facing"
		values := append([]string(nil), spec.Values...)
		sort.SliceStable(values, func(i, j int) bool { return len(values[i]) > len(values[j]) })
		for _, v := range values {
			if utils.ContainsPhrase(t, strings.ReplaceAll(v, "_", " ")) {
				return v, true
			}
		}
	}
	return nil, false
}
