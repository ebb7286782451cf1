// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/s0u7a/pri-training/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session summaries. Summaries are
// append-only; nothing here mutates or deletes existing rows.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS summaries (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			pri_index INTEGER NOT NULL,
			score INTEGER NOT NULL,
			mistakes INTEGER NOT NULL,
			time_limit INTEGER NOT NULL,
			elapsed_seconds INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_created_at ON summaries(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AppendSummary stores a finalized session summary and returns its id.
func (s *Store) AppendSummary(ctx context.Context, summary model.SessionSummary) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO summaries (created_at, mode, pri_index, score, mistakes, time_limit, elapsed_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		summary.Timestamp.Format(time.RFC3339Nano),
		string(summary.Mode),
		summary.Index,
		summary.Score,
		summary.Mistakes,
		int(summary.TimeLimit),
		summary.ElapsedSeconds,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSummaries returns summaries in insertion order, filtered by the
// stats config. The Last limit is applied by the report builder.
func (s *Store) ListSummaries(ctx context.Context, cfg model.StatsConfig) ([]model.SessionSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, created_at, mode, pri_index, score, mistakes, time_limit, elapsed_seconds
		FROM summaries
		WHERE %s
		ORDER BY id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var summaries []model.SessionSummary
	for rows.Next() {
		var sum model.SessionSummary
		var createdAt, mode string
		var limit int
		if err := rows.Scan(&sum.ID, &createdAt, &mode, &sum.Index, &sum.Score, &sum.Mistakes, &limit, &sum.ElapsedSeconds); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		sum.Timestamp = parsed
		sum.Mode = model.Mode(mode)
		sum.TimeLimit = model.TimeLimit(limit)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}
