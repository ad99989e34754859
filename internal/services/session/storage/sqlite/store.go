// Package sqlite provides a SQLite-backed SessionStore so a restarted
// coordinator keeps its live sessions.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/louisbranch/broadside/internal/platform/errors"
	"github.com/louisbranch/broadside/internal/services/session/domain/game"
	"github.com/louisbranch/broadside/internal/services/session/storage"
)

// Store implements storage.SessionStore on a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a session store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database. Nil-safe so callers can defer it
// in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    username1 TEXT NOT NULL,
    username2 TEXT NOT NULL DEFAULT '',
    opponent_ai INTEGER NOT NULL DEFAULT 0,
    ai_type TEXT NOT NULL DEFAULT '',
    ruleset TEXT NOT NULL DEFAULT '',
    user_board TEXT NOT NULL,
    opponent_board TEXT NOT NULL,
    user_ships TEXT NOT NULL,
    opponent_ships TEXT NOT NULL,
    first_player_starts INTEGER NOT NULL DEFAULT 0,
    first_player_turn INTEGER NOT NULL DEFAULT 0,
    blocked INTEGER NOT NULL DEFAULT 0,
    finished INTEGER NOT NULL DEFAULT 0,
    won INTEGER NOT NULL DEFAULT 0,
    lost INTEGER NOT NULL DEFAULT 0,
    drawn INTEGER NOT NULL DEFAULT 0,
    updated_at INTEGER NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

const sessionColumns = `id, version, username1, username2, opponent_ai, ai_type, ruleset,
	user_board, opponent_board, user_ships, opponent_ships,
	first_player_starts, first_player_turn, blocked, finished, won, lost, drawn`

// Get returns the live session for a game id.
func (s *Store) Get(ctx context.Context, id string) (storage.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Session{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Session{}, apperrors.Wrap(apperrors.CodeSessionUnavailable, "get session", err)
	}
	return sess, nil
}

// Put writes state unconditionally; the last snapshot for an id wins.
func (s *Store) Put(ctx context.Context, state game.State) (storage.Session, error) {
	row := s.db.QueryRowContext(ctx, `
INSERT INTO sessions (`+sessionColumns+`, updated_at)
VALUES (?, 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    version = sessions.version + 1,
    username1 = excluded.username1,
    username2 = excluded.username2,
    opponent_ai = excluded.opponent_ai,
    ai_type = excluded.ai_type,
    ruleset = excluded.ruleset,
    user_board = excluded.user_board,
    opponent_board = excluded.opponent_board,
    user_ships = excluded.user_ships,
    opponent_ships = excluded.opponent_ships,
    first_player_starts = excluded.first_player_starts,
    first_player_turn = excluded.first_player_turn,
    blocked = excluded.blocked,
    finished = excluded.finished,
    won = excluded.won,
    lost = excluded.lost,
    drawn = excluded.drawn,
    updated_at = excluded.updated_at
RETURNING version`,
		state.ID, state.Username1, state.Username2, state.OpponentAI,
		string(state.AIType), string(state.Ruleset),
		state.UserBoard, state.OpponentBoard, state.UserShips, state.OpponentShips,
		state.FirstPlayerStarts, state.FirstPlayerTurn, state.Blocked,
		state.Finished, state.Won, state.Lost, state.Drawn,
		toMillis(time.Now()),
	)
	var version uint64
	if err := row.Scan(&version); err != nil {
		return storage.Session{}, apperrors.Wrap(apperrors.CodeSessionUnavailable, "put session", err)
	}
	return storage.Session{State: state, Version: version}, nil
}

// Update writes state only when version still matches the stored row.
func (s *Store) Update(ctx context.Context, state game.State, version uint64) (storage.Session, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE sessions SET
    version = version + 1,
    username1 = ?, username2 = ?, opponent_ai = ?, ai_type = ?, ruleset = ?,
    user_board = ?, opponent_board = ?, user_ships = ?, opponent_ships = ?,
    first_player_starts = ?, first_player_turn = ?, blocked = ?,
    finished = ?, won = ?, lost = ?, drawn = ?, updated_at = ?
WHERE id = ? AND version = ?`,
		state.Username1, state.Username2, state.OpponentAI,
		string(state.AIType), string(state.Ruleset),
		state.UserBoard, state.OpponentBoard, state.UserShips, state.OpponentShips,
		state.FirstPlayerStarts, state.FirstPlayerTurn, state.Blocked,
		state.Finished, state.Won, state.Lost, state.Drawn,
		toMillis(time.Now()),
		state.ID, version,
	)
	if err != nil {
		return storage.Session{}, apperrors.Wrap(apperrors.CodeSessionUnavailable, "update session", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storage.Session{}, apperrors.Wrap(apperrors.CodeSessionUnavailable, "update session", err)
	}
	if affected == 0 {
		var exists bool
		row := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = ?)`, state.ID)
		if err := row.Scan(&exists); err != nil {
			return storage.Session{}, apperrors.Wrap(apperrors.CodeSessionUnavailable, "update session", err)
		}
		if !exists {
			return storage.Session{}, storage.ErrNotFound
		}
		return storage.Session{}, storage.ErrVersionConflict
	}
	return storage.Session{State: state, Version: version + 1}, nil
}

// Delete evicts the session for a game id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return apperrors.Wrap(apperrors.CodeSessionUnavailable, "delete session", err)
	}
	return nil
}

func scanSession(row *sql.Row) (storage.Session, error) {
	var sess storage.Session
	var aiType, ruleset string
	err := row.Scan(
		&sess.State.ID, &sess.Version,
		&sess.State.Username1, &sess.State.Username2, &sess.State.OpponentAI,
		&aiType, &ruleset,
		&sess.State.UserBoard, &sess.State.OpponentBoard,
		&sess.State.UserShips, &sess.State.OpponentShips,
		&sess.State.FirstPlayerStarts, &sess.State.FirstPlayerTurn, &sess.State.Blocked,
		&sess.State.Finished, &sess.State.Won, &sess.State.Lost, &sess.State.Drawn,
	)
	if err != nil {
		return storage.Session{}, err
	}
	sess.State.AIType = game.AIType(aiType)
	sess.State.Ruleset = game.Ruleset(ruleset)
	return sess, nil
}
