package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"evaluator/internal/extract"
	"evaluator/internal/model"
	"evaluator/internal/schema"
	"evaluator/internal/scoring"
)

// Reply is the outcome of a turn
type Reply struct {
	Messages []model.Message
	State    model.DialogueState
	Done     bool
	Result   *model.ScoreResult
}

// Engine moves sessions through the dialogue states
type Engine struct {
	catalog     *schema.Catalog
	extractor   Extractor
	attachments AttachmentInterpreter
	intents     IntentClassifier
	explainer   Explainer
	logger      *zap.Logger
	now         func() time.Time
}

// NewEngine wires the collaborators into an engine. The extractor,
// attachment interpreter and explainer are required; a nil intent
// classifier treats every message as an answer.
func NewEngine(
	catalog *schema.Catalog,
	extractor Extractor,
	attachments AttachmentInterpreter,
	intents IntentClassifier,
	explainer Explainer,
	logger *zap.Logger,
) *Engine {
	switch {
	case extractor == nil:
		panic("dialogue: NewEngine requires an extractor")
	case attachments == nil:
		panic("dialogue: NewEngine requires an attachment interpreter")
	case explainer == nil:
		panic("dialogue: NewEngine requires an explainer")
	}
	if catalog == nil {
		catalog = schema.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		catalog:     catalog,
		extractor:   extractor,
		attachments: attachments,
		intents:     intents,
		explainer:   explainer,
		logger:      logger,
		now:         time.Now,
	}
}

// Start greets the user and positions the session on its first question.
// The greeting stands in for the first question, so only the greeting is sent.
func (e *Engine) Start(s *Session) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref, ok := FindNextMissing(s.record, s.confirmed); ok {
		s.state = fieldState(ref)
	}
	msg := s.say(model.RoleAssistant, e.catalog.Greeting)
	return Reply{Messages: []model.Message{msg}, State: s.state}
}

// Turn processes one user message
func (e *Engine) Turn(ctx context.Context, s *Session, text string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Kind == model.StateDone {
		return Reply{State: s.state, Done: true, Result: s.result}, ErrConversationDone
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return e.respond(s, e.catalog.WithFollowUp(e.catalog.Replies.EmptyInput, e.currentQuestion(s))), nil
	}

	s.say(model.RoleUser, text)
	s.turns++
	s.touch(e.now())

	log := e.logger.With(zap.String("session_id", s.id), zap.String("state", string(s.state.Kind)))

	switch intent := e.classify(ctx, text); intent {
	case IntentProduct:
		log.Debug("product question")
		return e.respond(s, e.catalog.WithFollowUp(e.explainer.ExplainProduct(), e.currentQuestion(s))), nil

	case IntentExplanation:
		log.Debug("concept question")
		explanation, err := e.explainer.ExplainConcept(ctx, text)
		if err != nil {
			log.Warn("concept explanation failed", zap.Error(err))
			explanation = e.catalog.Replies.ExplainFailed
		}
		return e.respond(s, e.catalog.WithFollowUp(explanation, e.currentQuestion(s))), nil

	case IntentContinue:
		// hedges still carry an answer
		log.Debug("hedged answer")
	}

	switch s.state.Kind {
	case model.StateAwaitingAttachment:
		return e.attachmentAnswer(ctx, s, text, log), nil
	default:
		return e.fieldAnswer(ctx, s, text, log), nil
	}
}

func (e *Engine) classify(ctx context.Context, text string) Intent {
	if e.intents == nil {
		return IntentAnswer
	}
	return e.intents.Classify(ctx, text)
}

func (e *Engine) attachmentAnswer(ctx context.Context, s *Session, text string, log *zap.Logger) Reply {
	side := *s.state.Side

	info, err := e.attachments.ExtractAttachment(ctx, text)
	if err != nil {
		log.Warn("attachment interpretation failed", zap.String("side", string(side)), zap.Error(err))
		return e.respond(s, e.catalog.WithFollowUp(e.catalog.Replies.UnclearAttachment, e.currentQuestion(s)))
	}

	if info.Owner != nil || info.SpaceType != nil {
		s.record.SetAttachment(side, model.Attachment{Owner: info.Owner, SpaceType: info.SpaceType})
	}
	s.confirmed.Add(model.Ref(model.SectionBetweenUnits, side.OpenSpaceField()))
	s.askedSides[side] = struct{}{}
	log.Debug("attachment recorded", zap.String("side", string(side)), zap.Any("attachment", info))

	return e.advance(s)
}

func (e *Engine) fieldAnswer(ctx context.Context, s *Session, text string, log *zap.Logger) Reply {
	var ec *ExtractionContext
	var ref model.FieldRef
	if s.state.Ref != nil {
		ref = *s.state.Ref
		ec = &ExtractionContext{Ref: ref, Question: e.catalog.Question(ref)}
	}

	unclear := e.catalog.WithFollowUp(e.catalog.Replies.UnclearAnswer, e.currentQuestion(s))

	raw, err := e.extractor.Extract(ctx, text, ec)
	if err != nil {
		log.Warn("extraction failed", zap.Error(err))
		return e.respond(s, unclear)
	}

	update, dropped, err := extract.Decode(extract.Normalize(raw))
	if err != nil {
		log.Warn("extraction payload rejected", zap.Error(err))
		return e.respond(s, unclear)
	}
	if len(dropped) > 0 {
		log.Debug("dropped extracted values", zap.Strings("fields", dropped))
	}
	if !extract.Meaningful(update) {
		return e.respond(s, unclear)
	}

	extract.Merge(s.record, update)

	// only the field that was asked for is confirmed
	if ec != nil && !ref.IsWholeSection() {
		if _, ok := update.FieldValue(ref); ok {
			s.confirmed.Add(ref)
		}
	}

	return e.advance(s)
}

// advance asks the next attachment follow-up or missing field, or scores
func (e *Engine) advance(s *Session) Reply {
	if side, ok := nextAttachmentSide(s); ok {
		s.state = attachmentState(side)
		return e.respond(s, e.catalog.AttachmentQuestion(side))
	}
	if ref, ok := FindNextMissing(s.record, s.confirmed); ok {
		s.state = fieldState(ref)
		return e.respond(s, e.catalog.Question(ref))
	}
	return e.finish(s)
}

func (e *Engine) finish(s *Session) Reply {
	s.state = model.DialogueState{Kind: model.StateScoring}
	result := scoring.Score(s.record)
	s.result = &result
	s.state = model.DialogueState{Kind: model.StateDone}

	e.logger.Info("evaluation complete",
		zap.String("session_id", s.id),
		zap.Float64("score", result.Score),
		zap.String("confidence", string(result.Confidence)),
		zap.Int("turns", s.turns),
	)

	summary := fmt.Sprintf(e.catalog.Replies.ResultSummary, result.Score, result.Confidence)
	reply := e.respond(s, summary)
	reply.Done = true
	reply.Result = s.result
	return reply
}

func (e *Engine) respond(s *Session, content string) Reply {
	msg := s.say(model.RoleAssistant, content)
	return Reply{Messages: []model.Message{msg}, State: s.state}
}

// currentQuestion repeats whatever the session is waiting for
func (e *Engine) currentQuestion(s *Session) string {
	switch s.state.Kind {
	case model.StateAwaitingField:
		if s.state.Ref != nil {
			return e.catalog.Question(*s.state.Ref)
		}
	case model.StateAwaitingAttachment:
		if s.state.Side != nil {
			return e.catalog.AttachmentQuestion(*s.state.Side)
		}
	}
	return e.catalog.Replies.ContinueDescribing
}

func fieldState(ref model.FieldRef) model.DialogueState {
	return model.DialogueState{Kind: model.StateAwaitingField, Ref: &ref}
}

func attachmentState(side model.Side) model.DialogueState {
	return model.DialogueState{Kind: model.StateAwaitingAttachment, Side: &side}
}
