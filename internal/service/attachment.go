package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"evaluator/internal/dialogue"
	"evaluator/internal/model"
	"evaluator/internal/schema"
	"evaluator/internal/utils"
)

// ErrAttachmentUnclear is returned by the phrase interpreter when the answer
// names neither an owner nor a space
var ErrAttachmentUnclear = errors.New("could not tell who owns the space behind the wall")

// AttachmentPhrases interprets attachment answers with the owner phrases and
// the space-type normalisation table. It needs no language model.
type AttachmentPhrases struct{}

// ExtractAttachment reads owner and space type from the answer
func (AttachmentPhrases) ExtractAttachment(_ context.Context, text string) (dialogue.AttachmentInfo, error) {
	var info dialogue.AttachmentInfo
	if owner, ok := utils.DetectOwner(text); ok {
		info.Owner = &owner
	}
	if space, ok := utils.NormalizeSpaceType(text); ok {
		info.SpaceType = &space
	}
	if info.Owner == nil && info.SpaceType == nil {
		return info, ErrAttachmentUnclear
	}
	return info, nil
}

// AttachmentInterpreter asks the language model about an attached wall and
// falls back to phrase matching when the model is disabled or fails
type AttachmentInterpreter struct {
	client   ChatClient
	catalog  *schema.Catalog
	fallback AttachmentPhrases
	logger   *zap.Logger
}

// NewAttachmentInterpreter creates a model-backed attachment interpreter
func NewAttachmentInterpreter(client ChatClient, catalog *schema.Catalog, logger *zap.Logger) *AttachmentInterpreter {
	if catalog == nil {
		catalog = schema.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentInterpreter{client: client, catalog: catalog, logger: logger.Named("attachment")}
}

// ExtractAttachment implements dialogue.AttachmentInterpreter
func (a *AttachmentInterpreter) ExtractAttachment(ctx context.Context, text string) (dialogue.AttachmentInfo, error) {
	if a.client == nil || !a.client.IsEnabled() {
		return a.fallback.ExtractAttachment(ctx, text)
	}

	info, err := a.fromModel(ctx, text)
	if err != nil {
		a.logger.Warn("model attachment interpretation failed, using phrases", zap.Error(err))
		return a.fallback.ExtractAttachment(ctx, text)
	}
	return info, nil
}

func (a *AttachmentInterpreter) fromModel(ctx context.Context, text string) (dialogue.AttachmentInfo, error) {
	var info dialogue.AttachmentInfo

	content, err := complete(ctx, a.client, a.catalog.Prompts.Attachment, text, jsonObject, deterministic)
	if err != nil {
		return info, err
	}

	raw, err := utils.ParseAIObject(content)
	if err != nil {
		return info, fmt.Errorf("failed to parse attachment reply: %w", err)
	}

	// model output is normalised the same way user phrases are
	if s, ok := raw["owner"].(string); ok {
		if owner, err := model.ParseOwner(s); err == nil {
			info.Owner = &owner
		} else if owner, ok := utils.DetectOwner(s); ok {
			info.Owner = &owner
		}
	}
	if s, ok := raw["space_type"].(string); ok {
		if space, ok := utils.NormalizeSpaceType(s); ok {
			info.SpaceType = &space
		}
	}
	return info, nil
}
