package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	eulererr "github.com/msto63/euler/foundation/core/error"
	"github.com/msto63/euler/internal/euler/rewriter"
)

// SQLiteStore implements HistoryStore using SQLite
type SQLiteStore struct {
	db    *sql.DB
	mu    sync.RWMutex
	limit int
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path  string
	Limit int
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path:  "./data/history.db",
		Limit: MaxEntries,
	}
}

// NewSQLiteStore opens (creating if needed) the history database.
// The path ":memory:" opens a private in-memory database.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultSQLiteConfig().Path
	}

	dsn := ":memory:"
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, dbError(err, "failed to create directory", "store.NewSQLiteStore")
		}
		dsn = cfg.Path + "?_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, dbError(err, "failed to open database", "store.NewSQLiteStore")
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, limit: normalizeLimit(cfg.Limit)}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema", "store.NewSQLiteStore")
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		expression TEXT NOT NULL,
		result TEXT NOT NULL,
		angle_mode TEXT NOT NULL,
		timestamp DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Add records a new entry and prunes the oldest beyond the limit
func (s *SQLiteStore) Add(ctx context.Context, entry Entry) (Entry, error) {
	entry, err := prepare(entry)
	if err != nil {
		return entry, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entry, dbError(err, "failed to begin transaction", "store.Add")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO history (id, expression, result, angle_mode, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.Expression, entry.Result, entry.AngleMode.String(), entry.Timestamp); err != nil {
		return entry, dbError(err, "failed to insert history entry", "store.Add")
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM history WHERE seq NOT IN (
			SELECT seq FROM history ORDER BY seq DESC LIMIT ?
		)
	`, s.limit); err != nil {
		return entry, dbError(err, "failed to prune history", "store.Add")
	}

	if err := tx.Commit(); err != nil {
		return entry, dbError(err, "failed to commit history entry", "store.Add")
	}
	return entry, nil
}

// List returns entries newest first
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = s.limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, expression, result, angle_mode, timestamp
		FROM history ORDER BY seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, dbError(err, "failed to query history", "store.List")
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read history", "store.List")
	}
	return entries, nil
}

// Get returns the entry with the given ID
func (s *SQLiteStore) Get(ctx context.Context, id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, expression, result, angle_mode, timestamp
		FROM history WHERE id = ?
	`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, notFound(id)
	}
	return entry, err
}

// Clear removes all entries
func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, dbError(err, "failed to clear history", "store.Clear")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbError(err, "failed to count removed entries", "store.Clear")
	}
	return int(n), nil
}

// Ping checks the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return dbError(err, "history database unreachable", "store.Ping")
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var entry Entry
	var mode string
	if err := row.Scan(&entry.ID, &entry.Expression, &entry.Result, &mode, &entry.Timestamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entry, err
		}
		return entry, dbError(err, "failed to scan history entry", "store.scan")
	}
	// rows written by this store always carry a valid mode
	entry.AngleMode, _ = rewriter.ParseAngleMode(mode)
	return entry, nil
}

func dbError(err error, message, operation string) error {
	return eulererr.Wrap(err, message).
		WithCode(eulererr.CodeDatabaseError).
		WithOperation(operation)
}
