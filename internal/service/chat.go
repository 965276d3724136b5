package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"evaluator/internal/dialogue"
	"evaluator/internal/model"
	"evaluator/internal/schema"
	"evaluator/internal/scoring"
)

var (
	// ErrResultPending is returned when a result is requested before the conversation finished
	ErrResultPending = errors.New("evaluation still in progress")

	// ErrEvaluationLogDisabled is returned when no evaluation log is configured
	ErrEvaluationLogDisabled = errors.New("evaluation log is disabled")
)

const evaluationLogTimeout = 5 * time.Second

// EvaluationRepository stores completed evaluations
type EvaluationRepository interface {
	LogEvaluation(ctx context.Context, entry *model.EvaluationLog) error
	GetEvaluation(ctx context.Context, sessionID string) (*model.EvaluationLog, error)
	RecentEvaluations(ctx context.Context, limit int) ([]model.EvaluationLog, error)
}

// ChatService handles conversation business logic
type ChatService struct {
	store       *dialogue.Store
	engine      *dialogue.Engine
	explainer   *Explainer
	evaluations EvaluationRepository
	logger      *zap.Logger

	pending sync.WaitGroup
}

// NewChatService creates a chat service. evaluations may be nil to disable the log.
func NewChatService(
	store *dialogue.Store,
	engine *dialogue.Engine,
	explainer *Explainer,
	evaluations EvaluationRepository,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		store:       store,
		engine:      engine,
		explainer:   explainer,
		evaluations: evaluations,
		logger:      logger,
	}
}

// NewEvaluator wires the model-backed collaborators around client into a
// chat service. Without an enabled client every collaborator runs on its
// phrase rules.
func NewEvaluator(
	client ChatClient,
	catalog *schema.Catalog,
	store *dialogue.Store,
	evaluations EvaluationRepository,
	logger *zap.Logger,
) *ChatService {
	if catalog == nil {
		catalog = schema.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	explainer := NewExplainer(client, catalog, logger)
	engine := dialogue.NewEngine(
		catalog,
		NewExtractor(client, catalog, AnswerMatcher{}, logger),
		NewAttachmentInterpreter(client, catalog, logger),
		NewIntentClassifier(client, catalog, logger),
		explainer,
		logger.Named("engine"),
	)
	return NewChatService(store, engine, explainer, evaluations, logger)
}

// StartSession opens a conversation and returns the greeting
func (s *ChatService) StartSession() *model.CreateSessionResponse {
	sess := s.store.Create()
	reply := s.engine.Start(sess)
	return &model.CreateSessionResponse{
		SessionID: sess.ID(),
		State:     reply.State,
		Messages:  reply.Messages,
	}
}

// SendMessage runs one user turn
func (s *ChatService) SendMessage(ctx context.Context, sessionID, message string) (*model.TurnResponse, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	reply, err := s.engine.Turn(ctx, sess, message)
	if err != nil {
		return nil, err
	}

	if reply.Done {
		s.logEvaluation(sess)
	}

	return &model.TurnResponse{
		SessionID: sessionID,
		State:     reply.State,
		Replies:   reply.Messages,
		Done:      reply.Done,
		Result:    reply.Result,
	}, nil
}

// Session returns a snapshot of a conversation
func (s *ChatService) Session(sessionID string) (*model.SessionSnapshot, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	snap := sess.Snapshot()
	return &snap, nil
}

// Result returns the final score of a finished conversation
func (s *ChatService) Result(sessionID string) (*model.ScoreResult, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	result, done := sess.Result()
	if !done {
		return nil, ErrResultPending
	}
	return result, nil
}

// EndSession drops a conversation
func (s *ChatService) EndSession(sessionID string) error {
	return s.store.Delete(sessionID)
}

// Score evaluates a record without a conversation
func (s *ChatService) Score(record *model.Record) model.ScoreResult {
	return scoring.Score(record)
}

// ExplainStream explains a concept, streaming the text to onDelta
func (s *ChatService) ExplainStream(ctx context.Context, question string, onDelta func(string) error) (string, error) {
	return s.explainer.ExplainConceptStream(ctx, question, onDelta)
}

// Evaluation returns a logged evaluation
func (s *ChatService) Evaluation(ctx context.Context, sessionID string) (*model.EvaluationLog, error) {
	if s.evaluations == nil {
		return nil, ErrEvaluationLogDisabled
	}
	return s.evaluations.GetEvaluation(ctx, sessionID)
}

// RecentEvaluations lists the latest logged evaluations
func (s *ChatService) RecentEvaluations(ctx context.Context, limit int) ([]model.EvaluationLog, error) {
	if s.evaluations == nil {
		return nil, ErrEvaluationLogDisabled
	}
	return s.evaluations.RecentEvaluations(ctx, limit)
}

// Close waits for evaluation log writes still in flight
func (s *ChatService) Close() {
	s.pending.Wait()
}

// logEvaluation stores the finished evaluation without blocking the turn
func (s *ChatService) logEvaluation(sess *dialogue.Session) {
	if s.evaluations == nil {
		return
	}
	snap := sess.Snapshot()
	if snap.Result == nil {
		return
	}
	entry := &model.EvaluationLog{
		SessionID:  snap.SessionID,
		Score:      snap.Result.Score,
		Confidence: snap.Result.Confidence,
		Turns:      sess.Turns(),
		Record:     snap.Record,
		Result:     snap.Result,
		CreatedAt:  time.Now().UTC(),
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), evaluationLogTimeout)
		defer cancel()
		if err := s.evaluations.LogEvaluation(ctx, entry); err != nil {
			s.logger.Error("failed to log evaluation", zap.String("session_id", entry.SessionID), zap.Error(err))
		}
	}()
}
