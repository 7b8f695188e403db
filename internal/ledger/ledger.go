// Package ledger keeps a local SQLite record of completed searches, so
// past finds can be listed with `brock history`. The ledger is purely
// observational: failures here never fail a finished search.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Find is one recorded search success.
type Find struct {
	ID          string
	CreatedAt   time.Time
	Terms       []string
	MatchedTerm string
	KeyType     string
	Fingerprint string
	Output      string
	Attempts    uint64
	Duration    time.Duration
	Workers     int
}

// Store wraps the SQLite database holding the finds table.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the ledger database at path and
// ensures the finds table exists.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS finds (
  id           TEXT PRIMARY KEY,
  created_at   TEXT NOT NULL,
  terms        TEXT NOT NULL,
  matched_term TEXT NOT NULL,
  key_type     TEXT NOT NULL,
  fingerprint  TEXT NOT NULL,
  output       TEXT NOT NULL,
  attempts     INTEGER NOT NULL,
  duration_ms  INTEGER NOT NULL,
  workers      INTEGER NOT NULL
);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap ledger: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one find. The ID and timestamp are assigned here if unset.
func (s *Store) Record(ctx context.Context, find *Find) error {
	if find.ID == "" {
		find.ID = uuid.New().String()
	}
	if find.CreatedAt.IsZero() {
		find.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO finds (id, created_at, terms, matched_term, key_type, fingerprint, output, attempts, duration_ms, workers)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		find.ID,
		find.CreatedAt.Format(time.RFC3339),
		strings.Join(find.Terms, ","),
		find.MatchedTerm,
		find.KeyType,
		find.Fingerprint,
		find.Output,
		find.Attempts,
		find.Duration.Milliseconds(),
		find.Workers,
	)
	if err != nil {
		return fmt.Errorf("record find: %w", err)
	}
	return nil
}

// List returns the most recent finds, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]*Find, error) {
	query := `SELECT id, created_at, terms, matched_term, key_type, fingerprint, output, attempts, duration_ms, workers
		FROM finds ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list finds: %w", err)
	}
	defer rows.Close()

	var finds []*Find
	for rows.Next() {
		var (
			find       Find
			createdAt  string
			terms      string
			durationMs int64
		)
		if err := rows.Scan(&find.ID, &createdAt, &terms, &find.MatchedTerm, &find.KeyType,
			&find.Fingerprint, &find.Output, &find.Attempts, &durationMs, &find.Workers); err != nil {
			return nil, fmt.Errorf("scan find: %w", err)
		}
		find.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		find.Terms = strings.Split(terms, ",")
		find.Duration = time.Duration(durationMs) * time.Millisecond
		finds = append(finds, &find)
	}
	return finds, rows.Err()
}
