package store

import (
	"context"
	"fmt"

	"go-datasync/internal/config"
	"go-datasync/internal/features/normalize"
)

// Backend is the black-box destination store client: table-scoped upsert,
// count and delete. Implementations do no chunking or validation; the
// Writer owns both.
type Backend interface {
	// UpsertChunk writes one chunk, updating on conflict (duplicates are
	// never silently ignored). Returns the number of result rows the
	// store reported back.
	UpsertChunk(ctx context.Context, table string, rows []normalize.TypedRow, conflictColumn string) (int, error)

	// CountRows returns the exact row count of table.
	CountRows(ctx context.Context, table string) (int64, error)

	// Probe issues a no-op read against table. found=false with a nil
	// error means the store is reachable but the table does not exist.
	Probe(ctx context.Context, table string) (found bool, err error)

	// DeleteAll removes every row of table. Maintenance only.
	DeleteAll(ctx context.Context, table string) error
}

// NewBackend constructs the configured backend.
func NewBackend(cfg *config.Config) (Backend, error) {
	switch cfg.StoreBackend {
	case "rest":
		return NewRESTBackend(cfg), nil
	case "postgres", "mysql":
		return NewSQLBackend(cfg)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}
}
