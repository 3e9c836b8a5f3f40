// ============================================================================
// pratt - Operator Precedence Parsing Toolkit
// ============================================================================
//
// Package:     history
// Description: SQLite persistence of evaluated expressions
// Author:      Mike Stoffels
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	mdwerror "github.com/msto63/pratt/foundation/core/error"
)

// Entry is one recorded evaluation
type Entry struct {
	ID         string        `json:"id"`
	Expression string        `json:"expression"`
	Mode       string        `json:"mode"`
	Result     string        `json:"result,omitempty"`
	ErrorCode  string        `json:"error_code,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Failed reports whether the evaluation ended in an error
func (e *Entry) Failed() bool {
	return e.ErrorCode != ""
}

// Filter narrows Query results
type Filter struct {
	Mode       string
	FailedOnly bool
	Since      time.Time
	Limit      int
}

// Store defines the interface for history persistence
type Store interface {
	Record(ctx context.Context, entry *Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	Query(ctx context.Context, filter Filter) ([]*Entry, error)
	Recent(ctx context.Context, limit int) ([]*Entry, error)
	Count(ctx context.Context) (int64, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// Config holds configuration for the SQLite store
type Config struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/history.db",
	}
}

// Open creates or opens the history database
func Open(cfg Config) (*SQLiteStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, dbError(err, "create directory "+dir)
	}

	// WAL lets readers proceed while the server records
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, dbError(err, "open database")
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "initialize schema")
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluations (
		id TEXT PRIMARY KEY,
		expression TEXT NOT NULL,
		mode TEXT NOT NULL,
		result TEXT,
		error_code TEXT,
		error TEXT,
		duration_ns INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_evaluations_mode ON evaluations(mode);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores an entry, assigning ID and CreatedAt when unset
func (s *SQLiteStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations (id, expression, mode, result, error_code, error, duration_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Expression, entry.Mode,
		nullString(entry.Result), nullString(entry.ErrorCode), nullString(entry.Error),
		entry.Duration.Nanoseconds(), entry.CreatedAt,
	)
	if err != nil {
		return dbError(err, "record evaluation")
	}
	return nil
}

// Get returns one entry by ID
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mdwerror.Newf("history entry %q not found", id).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("history.Get")
	}
	if err != nil {
		return nil, dbError(err, "get evaluation")
	}
	return entry, nil
}

// Query retrieves entries matching filter, newest first
func (s *SQLiteStore) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectColumns + ` WHERE 1=1`
	var args []interface{}

	if filter.Mode != "" {
		query += " AND mode = ?"
		args = append(args, filter.Mode)
	}
	if filter.FailedOnly {
		query += " AND error_code IS NOT NULL"
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "query evaluations")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, dbError(err, "scan evaluation")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "query evaluations")
	}

	return entries, nil
}

// Recent returns the newest entries
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	return s.Query(ctx, Filter{Limit: limit})
}

// Count returns the number of stored entries
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM evaluations`).Scan(&n); err != nil {
		return 0, dbError(err, "count evaluations")
	}
	return n, nil
}

// Prune deletes entries older than the given age
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)

	result, err := s.db.ExecContext(ctx, `DELETE FROM evaluations WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, dbError(err, "prune evaluations")
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// Ping verifies the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectColumns = `SELECT id, expression, mode, result, error_code, error, duration_ns, created_at FROM evaluations`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		entry                   Entry
		result, code, errorText sql.NullString
		durationNs              int64
	)
	if err := row.Scan(&entry.ID, &entry.Expression, &entry.Mode,
		&result, &code, &errorText, &durationNs, &entry.CreatedAt); err != nil {
		return nil, err
	}
	entry.Result = result.String
	entry.ErrorCode = code.String
	entry.Error = errorText.String
	entry.Duration = time.Duration(durationNs)
	return &entry, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func dbError(err error, action string) error {
	return mdwerror.Wrap(err, "history: "+action).
		WithCode(mdwerror.CodeDatabaseError).
		WithOperation("history")
}
