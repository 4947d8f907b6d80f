package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists captures to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite capture store.
// The path should be a file path (e.g., "./captures.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS captures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			pattern TEXT NOT NULL,
			line TEXT NOT NULL,
			match_groups TEXT NOT NULL,
			captured_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_captures_session_id
		ON captures(session_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(c Capture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	groups, err := json.Marshal(c.Groups)
	if err != nil {
		return fmt.Errorf("encode groups: %w", err)
	}

	capturedAt := c.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now().UTC()
	}

	if _, err := s.db.Exec(`
		INSERT INTO captures (session_id, pattern, line, match_groups, captured_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.SessionID, c.Pattern, c.Line, string(groups), capturedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("save capture: %w", err)
	}
	return nil
}

// Recent implements Store.
func (s *SQLiteStore) Recent(sessionID string, limit int) ([]Capture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT session_id, pattern, line, match_groups, captured_at
		FROM captures
	`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query captures: %w", err)
	}
	defer rows.Close()

	var captures []Capture
	for rows.Next() {
		var c Capture
		var groups, capturedAt string
		if err := rows.Scan(&c.SessionID, &c.Pattern, &c.Line, &groups, &capturedAt); err != nil {
			return nil, fmt.Errorf("scan capture: %w", err)
		}
		if err := json.Unmarshal([]byte(groups), &c.Groups); err != nil {
			return nil, fmt.Errorf("decode groups: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, capturedAt); err == nil {
			c.CapturedAt = t
		}
		captures = append(captures, c)
	}
	return captures, rows.Err()
}

// CountByPattern implements Store.
func (s *SQLiteStore) CountByPattern() (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT pattern, COUNT(*)
		FROM captures
		GROUP BY pattern
	`)
	if err != nil {
		return nil, fmt.Errorf("count captures: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var pattern string
		var n int
		if err := rows.Scan(&pattern, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[pattern] = n
	}
	return counts, rows.Err()
}

// Count implements Store.
func (s *SQLiteStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM captures`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count captures: %w", err)
	}
	return n, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
