package dialogue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store keeps live sessions in memory. Sessions never share state and are
// dropped once idle for longer than the TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewStore creates a store. A non-positive ttl keeps sessions forever.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Create starts a new empty session
func (st *Store) Create() *Session {
	s := newSession(uuid.NewString(), st.now())

	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()

	st.logger.Debug("session created", zap.String("session_id", s.id))
	return s
}

// Get returns a live session
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops idle sessions and returns how many were removed
func (st *Store) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.LastActive().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled
func (st *Store) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 || st.ttl <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				st.logger.Info("expired idle sessions", zap.Int("count", n), zap.Int("live", st.Len()))
			}
		}
	}
}
