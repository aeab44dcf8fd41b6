// Package results records game outcomes in SQLite. Recording is
// best-effort: failures are logged and never interrupt a game.
package results

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	session_id TEXT PRIMARY KEY,
	room       TEXT NOT NULL,
	game       TEXT NOT NULL,
	players    INTEGER NOT NULL,
	started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	winner     TEXT,
	ended_at   TIMESTAMP
);`

// Store persists game records.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Open creates or opens the results database at path.
func Open(path string, logger *log.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening results db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating results schema: %w", err)
	}
	return &Store{db: db, logger: logger.WithPrefix("results")}, nil
}

// RecordStart notes a new game. Errors are logged, not returned.
func (s *Store) RecordStart(sessionID, room, game string, players int) {
	_, err := s.db.Exec(
		`INSERT INTO games (session_id, room, game, players) VALUES (?, ?, ?, ?)`,
		sessionID, room, game, players,
	)
	if err != nil {
		s.logger.Warn("could not record game start", "session", sessionID, "error", err)
	}
}

// RecordEnd notes a finished game's winner. Errors are logged.
func (s *Store) RecordEnd(sessionID, winner string) {
	_, err := s.db.Exec(
		`UPDATE games SET winner = ?, ended_at = CURRENT_TIMESTAMP WHERE session_id = ?`,
		winner, sessionID,
	)
	if err != nil {
		s.logger.Warn("could not record game end", "session", sessionID, "error", err)
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}
