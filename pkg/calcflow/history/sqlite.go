package history

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists history to SQLite so it survives restarts.
type SQLiteStore struct {
	db     *sql.DB
	opts   storeOptions
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite history store.
// The path should be a file path (e.g., "./calcflow.db") or ":memory:" for testing.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one connection: every ":memory:" connection is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			session TEXT NOT NULL,
			seq INTEGER NOT NULL,
			expression TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (session, seq)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db, opts: buildOptions(opts)}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(session, expression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.opts.retry.run(func() error {
		return s.append(session, expression)
	})
	return err
}

func (s *SQLiteStore) append(session, expression string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(`
		INSERT INTO history (session, seq, expression, created_at)
		VALUES (
			?,
			COALESCE((SELECT MAX(seq) FROM history WHERE session = ?), 0) + 1,
			?, ?
		)
	`, session, session, expression, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	if limit := s.opts.maxEntries; limit > 0 {
		if _, err := tx.Exec(`
			DELETE FROM history
			WHERE session = ?
			AND seq <= (SELECT MAX(seq) FROM history WHERE session = ?) - ?
		`, session, session, limit); err != nil {
			return fmt.Errorf("trim history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(session string) ([]string, error) {
	entries, err := s.ListEntries(session)
	if err != nil {
		return nil, err
	}
	return expressions(entries), nil
}

// ListEntries implements Store.
func (s *SQLiteStore) ListEntries(session string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT seq, expression, created_at
		FROM history
		WHERE session = ?
		ORDER BY seq
	`, session)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e := Entry{Session: session}
		var created string
		if err := rows.Scan(&e.Sequence, &e.Expression, &created); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("history entry %d: parse created_at: %w", e.Sequence, err)
		}
		e.Timestamp = ts
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// Clear implements Store.
func (s *SQLiteStore) Clear(session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.opts.retry.run(func() error {
		_, err := s.db.Exec(`DELETE FROM history WHERE session = ?`, session)
		return err
	})
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
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
