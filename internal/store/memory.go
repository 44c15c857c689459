package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vivahdesk/leadbot/backend/internal/model/lead"
)

// MemoryStore implements Store with a mutex-guarded map. Sessions idle for
// longer than the configured TTL are evicted by the reaper; with a zero TTL
// they are retained for the lifetime of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]lead.Session
	ttl      time.Duration
	logger   *zap.Logger
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithIdleTTL evicts sessions whose last update is older than ttl.
func WithIdleTTL(ttl time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		s.ttl = ttl
	}
}

// WithMemoryLogger sets the logger used by the reaper.
func WithMemoryLogger(logger *zap.Logger) MemoryOption {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]lead.Session),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the stored session or initializes one at the opening
// step. It never fails.
func (s *MemoryStore) GetOrCreate(_ context.Context, id string) (lead.Session, bool, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return session, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok = s.sessions[id]; ok {
		return session, false, nil
	}
	session = lead.NewSession(id)
	s.sessions[id] = session
	return session, true, nil
}

// Put overwrites the stored session. It never fails.
func (s *MemoryStore) Put(_ context.Context, session lead.Session) error {
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return nil
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Reap evicts sessions idle for longer than the TTL and returns the number
// removed. A zero TTL makes it a no-op.
func (s *MemoryStore) Reap() int {
	if s.ttl <= 0 {
		return 0
	}

	cutoff := time.Now().UTC().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartReaper runs Reap on the given interval until ctx is cancelled. It is
// decoupled from the engine; transitions never trigger eviction.
func (s *MemoryStore) StartReaper(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Reap(); n > 0 {
					s.logger.Info("evicted idle sessions", zap.Int("count", n))
				}
			}
		}
	}()
}
