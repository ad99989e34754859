// Package memory provides the in-memory SessionStore used by tests and
// by deployments that accept losing live sessions on restart.
package memory

import (
	"context"
	"sync"

	"github.com/louisbranch/broadside/internal/services/session/domain/game"
	"github.com/louisbranch/broadside/internal/services/session/storage"
)

// Store is a mutex-guarded map store with per-key write versions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]storage.Session
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{sessions: make(map[string]storage.Session)}
}

// Get returns the live session for a game id.
func (s *Store) Get(_ context.Context, id string) (storage.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return storage.Session{}, storage.ErrNotFound
	}
	return sess, nil
}

// Put writes state unconditionally and bumps the version past any prior
// write for the id.
func (s *Store) Put(_ context.Context, state game.State) (storage.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := storage.Session{
		State:   state,
		Version: s.sessions[state.ID].Version + 1,
	}
	s.sessions[state.ID] = sess
	return sess, nil
}

// Update writes state only when version matches the stored session.
func (s *Store) Update(_ context.Context, state game.State, version uint64) (storage.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[state.ID]
	if !ok {
		return storage.Session{}, storage.ErrNotFound
	}
	if current.Version != version {
		return storage.Session{}, storage.ErrVersionConflict
	}
	sess := storage.Session{State: state, Version: version + 1}
	s.sessions[state.ID] = sess
	return sess, nil
}

// Delete evicts the session for a game id.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Close implements SessionStore; nothing to release.
func (s *Store) Close() error {
	return nil
}
