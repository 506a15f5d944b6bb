package session

import (
	"context"
	"sync"

	"storebot/pkg/logger"
)

// Manager serializes access to session state. The interaction engine assumes
// exclusive ownership of a session for the duration of one inbound message;
// hosts that deliver concurrently for the same session get that guarantee
// from the per-id lock here.
type Manager struct {
	log   *logger.Logger
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a session manager on top of a store.
func NewManager(log *logger.Logger, store Store) *Manager {
	return &Manager{
		log:   log,
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (m *Manager) lock(id string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// With loads the state for a session, runs fn with exclusive access, and
// persists the (possibly mutated) state afterwards. fn's error aborts the
// save.
func (m *Manager) With(ctx context.Context, id string, fn func(st *State) error) error {
	l := m.lock(id)
	l.Lock()
	defer l.Unlock()

	st, err := m.store.Load(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(st); err != nil {
		return err
	}
	return m.store.Save(ctx, id, st)
}

// Delete removes a session's state.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
