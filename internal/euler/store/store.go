// Package store persists the calculation history: successful
// (expression, result, timestamp) entries, newest first, capped at
// MaxEntries.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	eulererr "github.com/msto63/euler/foundation/core/error"
	"github.com/msto63/euler/internal/euler/rewriter"
)

// MaxEntries is the largest number of entries a history keeps.
const MaxEntries = 50

// Entry is one recorded calculation
type Entry struct {
	ID         string             `json:"id"`
	Expression string             `json:"expression"`
	Result     string             `json:"result"`
	AngleMode  rewriter.AngleMode `json:"angle_mode"`
	Timestamp  time.Time          `json:"timestamp"`
}

// HistoryStore defines the interface for history persistence
type HistoryStore interface {
	// Add records an entry, assigning ID and Timestamp when empty, and
	// drops the oldest entries beyond the store's limit.
	Add(ctx context.Context, entry Entry) (Entry, error)
	// List returns up to limit entries, newest first; limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	// Clear removes all entries and reports how many were removed.
	Clear(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

// Config selects and configures a backend
type Config struct {
	Backend string // "sqlite" or "memory"
	Path    string
	Limit   int
}

// New opens the backend named in cfg.
func New(cfg Config) (HistoryStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case "memory":
		return NewMemoryStore(cfg.Limit), nil
	case "", "sqlite":
		return NewSQLiteStore(SQLiteConfig{Path: cfg.Path, Limit: cfg.Limit})
	default:
		return nil, eulererr.Newf("unknown history backend %q", cfg.Backend).
			WithCode(eulererr.CodeInvalidConfig).
			WithOperation("store.New")
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > MaxEntries {
		return MaxEntries
	}
	return limit
}

func prepare(entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.Expression) == "" {
		return entry, eulererr.New("history entry requires an expression").
			WithCode(eulererr.CodeInvalidInput).
			WithOperation("store.Add")
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	return entry, nil
}

func notFound(id string) error {
	return eulererr.Newf("history entry %q not found", id).
		WithCode(eulererr.CodeNotFound).
		WithOperation("store.Get").
		WithDetail("id", id)
}
