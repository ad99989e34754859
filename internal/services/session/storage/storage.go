// Package storage defines the session store boundary: the keyed live
// state every handler reads and writes.
package storage

import (
	"context"

	apperrors "github.com/louisbranch/broadside/internal/platform/errors"
	"github.com/louisbranch/broadside/internal/services/session/domain/game"
)

// ErrNotFound indicates the game id has no live session. Callers use this
// to tell "never loaded or already evicted" apart from store failures.
var ErrNotFound = apperrors.New(apperrors.CodeSessionNotFound, "session not found")

// ErrVersionConflict indicates a compare-and-swap write lost to a
// concurrent handler. The losing handler re-reads and retries.
var ErrVersionConflict = apperrors.New(apperrors.CodeSessionConflict, "session version conflict")

// Session is a stored live state together with its write version.
// Versions are assigned by the store and increase on every write.
type Session struct {
	State   game.State
	Version uint64
}

// SessionStore holds live game state keyed by game id.
//
// Concurrent handlers for the same id race by design; Update's version
// check is the linearization point that keeps the blocked-flag discipline
// honest (a stale read-modify-write fails instead of silently losing).
type SessionStore interface {
	// Get returns the live session for a game id.
	Get(ctx context.Context, id string) (Session, error)
	// Put writes state unconditionally - the last snapshot wins.
	Put(ctx context.Context, state game.State) (Session, error)
	// Update writes state only when version still matches the stored
	// session, returning ErrVersionConflict otherwise.
	Update(ctx context.Context, state game.State, version uint64) (Session, error)
	// Delete evicts the session. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error
	Close() error
}
