package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"storebot/pkg/logger"
)

// Store is the interface for session state backends.
type Store interface {
	// Load returns the state for a session id, creating an empty state on
	// first use.
	Load(ctx context.Context, id string) (*State, error)

	// Save persists the state for a session id.
	Save(ctx context.Context, id string, st *State) error

	// Delete removes a session's state.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// MemoryStore keeps session state in process memory. Idle sessions are
// removed by Prune; nothing survives a restart.
type MemoryStore struct {
	log *logger.Logger
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*memoryEntry
}

type memoryEntry struct {
	state    *State
	lastSeen time.Time
}

// NewMemoryStore creates an in-memory session store. Sessions idle longer
// than ttl are eligible for pruning.
func NewMemoryStore(log *logger.Logger, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		log:      log,
		ttl:      ttl,
		sessions: make(map[string]*memoryEntry),
	}
}

// Load returns the state for id, creating it on first use.
func (s *MemoryStore) Load(ctx context.Context, id string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		entry = &memoryEntry{state: &State{}}
		s.sessions[id] = entry
	}
	entry.lastSeen = time.Now()
	return entry.state, nil
}

// Save marks the session as recently used. The state is shared by pointer,
// so mutations made by the caller are already visible.
func (s *MemoryStore) Save(ctx context.Context, id string, st *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = &memoryEntry{state: st, lastSeen: time.Now()}
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Prune drops sessions idle longer than the configured TTL and returns how
// many were removed.
func (s *MemoryStore) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.sessions {
		if now.Sub(entry.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug("Pruned idle sessions", zap.Int("removed", removed))
	}
	return removed
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
