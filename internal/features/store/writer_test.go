package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go-datasync/internal/features/normalize"
	"go-datasync/pkg/syncerr"

	"go.uber.org/zap"
)

// fakeBackend records chunk sizes and can fail a specific chunk.
type fakeBackend struct {
	chunks    [][]normalize.TypedRow
	failChunk int // 1-based; 0 means never fail
	count     int64
	found     bool
	probeErr  error
}

func (f *fakeBackend) UpsertChunk(ctx context.Context, table string, rows []normalize.TypedRow, conflictColumn string) (int, error) {
	if f.failChunk > 0 && len(f.chunks)+1 == f.failChunk {
		return 0, fmt.Errorf("store rejected chunk")
	}
	f.chunks = append(f.chunks, rows)
	return len(rows), nil
}

func (f *fakeBackend) CountRows(ctx context.Context, table string) (int64, error) {
	return f.count, nil
}

func (f *fakeBackend) Probe(ctx context.Context, table string) (bool, error) {
	return f.found, f.probeErr
}

func (f *fakeBackend) DeleteAll(ctx context.Context, table string) error {
	return nil
}

func makeRows(n int) []normalize.TypedRow {
	rows := make([]normalize.TypedRow, n)
	for i := range rows {
		rows[i] = normalize.TypedRow{"id": int64(i + 1)}
	}
	return rows
}

func TestUpsertChunking(t *testing.T) {
	backend := &fakeBackend{}
	writer := NewWriter(backend, zap.NewNop())

	result, err := writer.Upsert(context.Background(), "invoices", makeRows(1200), "id")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if len(backend.chunks) != 3 {
		t.Fatalf("issued %d chunks, want 3", len(backend.chunks))
	}
	for i, want := range []int{500, 500, 200} {
		if len(backend.chunks[i]) != want {
			t.Errorf("chunk %d has %d rows, want %d", i+1, len(backend.chunks[i]), want)
		}
	}
	if result.RecordsProcessed != 1200 {
		t.Errorf("RecordsProcessed = %d", result.RecordsProcessed)
	}
}

func TestUpsertAbortsOnChunkFailure(t *testing.T) {
	backend := &fakeBackend{failChunk: 2}
	writer := NewWriter(backend, zap.NewNop())

	_, err := writer.Upsert(context.Background(), "invoices", makeRows(1200), "id")

	var we *syncerr.WriteError
	if !errors.As(err, &we) {
		t.Fatalf("expected WriteError, got %v", err)
	}
	if we.Table != "invoices" || we.Chunk != 2 {
		t.Errorf("WriteError fields = table %q chunk %d", we.Table, we.Chunk)
	}
	// The first chunk stays committed, the third is never attempted.
	if len(backend.chunks) != 1 {
		t.Errorf("%d chunks committed, want 1", len(backend.chunks))
	}
}

func TestUpsertValidation(t *testing.T) {
	tests := []struct {
		name     string
		table    string
		rows     []normalize.TypedRow
		conflict string
	}{
		{"bad table name", "bad table!", makeRows(1), "id"},
		{"bad conflict column", "invoices", makeRows(1), "id; DROP TABLE"},
		{"empty rows", "invoices", nil, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			writer := NewWriter(backend, zap.NewNop())

			_, err := writer.Upsert(context.Background(), tt.table, tt.rows, tt.conflict)

			var ve *syncerr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(backend.chunks) != 0 {
				t.Error("backend was called despite validation failure")
			}
		})
	}
}

func TestUpsertMissingConflictValueIsNonFatal(t *testing.T) {
	backend := &fakeBackend{}
	writer := NewWriter(backend, zap.NewNop())

	rows := []normalize.TypedRow{
		{"id": int64(1)},
		{"name": "no id here"}, // missing conflict value
	}

	if _, err := writer.Upsert(context.Background(), "invoices", rows, "id"); err != nil {
		t.Fatalf("missing conflict value must not fail the upsert: %v", err)
	}
	if len(backend.chunks) != 1 || len(backend.chunks[0]) != 2 {
		t.Errorf("all rows should still be written, got %v", backend.chunks)
	}
}

func TestValidateConnection(t *testing.T) {
	writer := NewWriter(&fakeBackend{found: false}, zap.NewNop())
	found, err := writer.ValidateConnection(context.Background(), "invoices")
	if err != nil {
		t.Fatalf("missing table must not error: %v", err)
	}
	if found {
		t.Error("expected found=false")
	}

	writer = NewWriter(&fakeBackend{probeErr: fmt.Errorf("bad credentials")}, zap.NewNop())
	if _, err := writer.ValidateConnection(context.Background(), "invoices"); err == nil {
		t.Error("credential errors must propagate")
	}
}

func TestTruncateValidatesTableName(t *testing.T) {
	writer := NewWriter(&fakeBackend{}, zap.NewNop())
	err := writer.Truncate(context.Background(), "no spaces allowed")
	var ve *syncerr.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}
