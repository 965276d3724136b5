package dialogue

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"evaluator/internal/model"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrConversationDone = errors.New("conversation already finished")
)

// Session is one conversation. Turns on a session run strictly one at a
// time; the engine holds mu for the whole turn.
type Session struct {
	mu sync.Mutex

	id         string
	record     *model.Record
	confirmed  model.ConfirmedSet
	askedSides map[model.Side]struct{}
	state      model.DialogueState
	messages   []model.Message
	result     *model.ScoreResult
	turns      int
	createdAt  time.Time

	// unix nanos of the last activity, read by the store janitor without mu
	touched atomic.Int64
}

func newSession(id string, now time.Time) *Session {
	s := &Session{
		id:         id,
		record:     &model.Record{},
		confirmed:  model.NewConfirmedSet(),
		askedSides: make(map[model.Side]struct{}),
		createdAt:  now,
	}
	s.touch(now)
	return s
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

func (s *Session) touch(now time.Time) { s.touched.Store(now.UnixNano()) }

// LastActive returns the time of the last turn
func (s *Session) LastActive() time.Time { return time.Unix(0, s.touched.Load()) }

func (s *Session) say(role, content string) model.Message {
	m := model.Message{Role: role, Content: content}
	s.messages = append(s.messages, m)
	return m
}

func (s *Session) askedSideList() []model.Side {
	var out []model.Side
	for _, side := range model.Sides {
		if _, ok := s.askedSides[side]; ok {
			out = append(out, side)
		}
	}
	return out
}

// Snapshot copies the full session state
func (s *Session) Snapshot() model.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]model.Message, len(s.messages))
	copy(msgs, s.messages)
	confirmed := model.NewConfirmedSet(s.confirmed.Sorted()...)

	return model.SessionSnapshot{
		SessionID:  s.id,
		State:      s.state,
		Record:     s.record.Clone(),
		Confirmed:  confirmed,
		AskedSides: s.askedSideList(),
		Messages:   msgs,
		Result:     s.result,
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.LastActive(),
	}
}

// Result returns the score once the conversation is done
func (s *Session) Result() (*model.ScoreResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.state.Kind == model.StateDone
}

// Turns returns the number of user turns processed
func (s *Session) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns
}
