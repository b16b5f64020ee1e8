package store

import (
	"context"
	"fmt"
	"regexp"

	"go-datasync/internal/features/normalize"
	"go-datasync/pkg/syncerr"

	"go.uber.org/zap"
)

const defaultChunkSize = 500

var (
	tableNameRe      = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	conflictColumnRe = regexp.MustCompile(`^[A-Za-z0-9_ -]+$`)
)

// UpsertResult summarizes one (possibly chunked) upsert.
type UpsertResult struct {
	RecordsProcessed int `json:"records_processed"`
	ResultsReturned  int `json:"results_returned"`
}

// Writer performs validated, chunked, idempotent upserts over a Backend.
type Writer struct {
	backend   Backend
	log       *zap.Logger
	chunkSize int
}

func NewWriter(backend Backend, log *zap.Logger) *Writer {
	return &Writer{
		backend:   backend,
		log:       log,
		chunkSize: defaultChunkSize,
	}
}

// Upsert validates inputs, splits rows into chunks of at most 500 and
// writes them sequentially. The first chunk failure aborts the operation;
// chunks already written stay committed (no cross-chunk transaction).
func (w *Writer) Upsert(ctx context.Context, table string, rows []normalize.TypedRow, conflictColumn string) (*UpsertResult, error) {
	if !tableNameRe.MatchString(table) {
		return nil, syncerr.NewValidationError("table", fmt.Sprintf("invalid table name %q", table))
	}
	if !conflictColumnRe.MatchString(conflictColumn) {
		return nil, syncerr.NewValidationError("conflictColumn", fmt.Sprintf("invalid conflict column %q", conflictColumn))
	}
	if len(rows) == 0 {
		return nil, syncerr.NewValidationError("rows", "no rows to upsert")
	}

	missing := 0
	for _, row := range rows {
		if row[conflictColumn] == nil {
			missing++
		}
	}
	if missing > 0 {
		// Non-fatal: the store will treat these as inserts each run.
		w.log.Warn("rows missing conflict column value",
			zap.String("table", table),
			zap.String("conflict_column", conflictColumn),
			zap.Int("rows", missing))
	}

	result := &UpsertResult{}
	for i := 0; i < len(rows); i += w.chunkSize {
		end := i + w.chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[i:end]
		chunkIndex := i/w.chunkSize + 1

		returned, err := w.backend.UpsertChunk(ctx, table, chunk, conflictColumn)
		if err != nil {
			return nil, &syncerr.WriteError{Table: table, Chunk: chunkIndex, Err: err}
		}

		result.RecordsProcessed += len(chunk)
		result.ResultsReturned += returned
	}

	return result, nil
}

// RecordCount returns the exact row count of table.
func (w *Writer) RecordCount(ctx context.Context, table string) (int64, error) {
	count, err := w.backend.CountRows(ctx, table)
	if err != nil {
		return 0, &syncerr.WriteError{Table: table, Err: err}
	}
	return count, nil
}

// ValidateConnection confirms reachability and credentials with a no-op
// read. A missing table is a normal false result, not an error.
func (w *Writer) ValidateConnection(ctx context.Context, tableHint string) (bool, error) {
	return w.backend.Probe(ctx, tableHint)
}

// Truncate deletes all rows of table. Not part of the standard run path.
func (w *Writer) Truncate(ctx context.Context, table string) error {
	if !tableNameRe.MatchString(table) {
		return syncerr.NewValidationError("table", fmt.Sprintf("invalid table name %q", table))
	}
	if err := w.backend.DeleteAll(ctx, table); err != nil {
		return &syncerr.WriteError{Table: table, Err: err}
	}
	return nil
}
