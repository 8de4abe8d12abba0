package store

import (
	"context"
	"sync"

	"ideaflow-backend/application/ports"
	"ideaflow-backend/application/session"

	"go.uber.org/zap"
)

// Manager hands out one store per owner. The first authenticated touch
// of an owner acquires their session and loads the snapshot; clearing
// the session empties it again.
type Manager struct {
	repo   ports.IdeaRepository
	logger *zap.Logger

	mu     sync.Mutex
	stores map[string]*Store
	hubs   map[string]*session.Hub
}

// NewManager creates a store manager over the given repository
func NewManager(repo ports.IdeaRepository, logger *zap.Logger) *Manager {
	return &Manager{
		repo:   repo,
		logger: logger,
		stores: make(map[string]*Store),
		hubs:   make(map[string]*session.Hub),
	}
}

// Acquire returns the owner's store, creating and loading it on first
// touch. The returned store is Ready unless the initial load failed,
// in which case the load error is returned alongside the store so the
// caller can surface it.
func (m *Manager) Acquire(ctx context.Context, ownerID string) (*Store, error) {
	m.mu.Lock()
	st, ok := m.stores[ownerID]
	if !ok {
		hub := session.NewHub()
		st = New(m.repo, hub, m.logger)
		m.stores[ownerID] = st
		m.hubs[ownerID] = hub
	}
	hub := m.hubs[ownerID]
	m.mu.Unlock()

	// Acquire notifies the store synchronously; on first touch this
	// runs the initial refresh.
	hub.Acquire(ownerID)

	if st.State() != StateReady {
		if err := st.Refresh(ctx); err != nil {
			return st, err
		}
	}
	return st, nil
}

// Clear drops the owner's session. The store transitions to Empty and
// is forgotten; the next Acquire starts a fresh lifecycle.
func (m *Manager) Clear(ownerID string) {
	m.mu.Lock()
	hub, ok := m.hubs[ownerID]
	if ok {
		delete(m.stores, ownerID)
		delete(m.hubs, ownerID)
	}
	m.mu.Unlock()

	if ok {
		hub.Clear()
	}
}
