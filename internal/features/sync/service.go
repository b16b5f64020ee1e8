package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"go-datasync/internal/features/catalog"
	"go-datasync/internal/features/normalize"
	"go-datasync/internal/features/source"
	"go-datasync/internal/features/store"

	"go.uber.org/zap"
)

// SourceReader is the consumed slice of the source client.
type SourceReader interface {
	FetchPage(ctx context.Context, sourceID string, page int) (*source.Page, error)
	FetchAllPages(ctx context.Context, sourceID string) ([]source.RawRow, error)
}

// DestinationWriter is the consumed slice of the store writer.
type DestinationWriter interface {
	Upsert(ctx context.Context, table string, rows []normalize.TypedRow, conflictColumn string) (*store.UpsertResult, error)
	RecordCount(ctx context.Context, table string) (int64, error)
	ValidateConnection(ctx context.Context, tableHint string) (bool, error)
}

type Service interface {
	Run(ctx context.Context) *RunStats
	IsRunning() bool
	LastStats() *RunStats
	Catalog() []catalog.MappingEntry
}

type ServiceImpl struct {
	catalog *catalog.Catalog
	reader  SourceReader
	writer  DestinationWriter
	log     *zap.Logger

	pageDelay time.Duration

	runMu     stdsync.Mutex
	stateMu   stdsync.RWMutex
	running   bool
	lastStats *RunStats
}

func NewService(cat *catalog.Catalog, reader SourceReader, writer DestinationWriter, log *zap.Logger) Service {
	return &ServiceImpl{
		catalog:   cat,
		reader:    reader,
		writer:    writer,
		log:       log,
		pageDelay: time.Second,
	}
}

// Run executes one full pass over the catalog: validate both remote
// connections, then sync each mapping sequentially with per-mapping
// failure isolation. A stats object is always returned.
func (s *ServiceImpl) Run(ctx context.Context) *RunStats {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.setRunning(true)
	defer s.setRunning(false)

	stats := newRunStats(len(s.catalog.Entries))
	defer func() {
		stats.complete()
		s.stateMu.Lock()
		s.lastStats = stats
		s.stateMu.Unlock()
	}()

	s.log.Info("sync run started", zap.Int("mappings", stats.TotalMappings))

	if err := s.validateConnections(ctx); err != nil {
		stats.Aborted = true
		stats.recordFailure("connection validation failed, run aborted", err)
		s.log.Error("connection validation failed, aborting run", zap.Error(err))
		return stats
	}

	for _, entry := range s.catalog.Entries {
		if err := s.syncMapping(ctx, entry); err != nil {
			s.log.Error("mapping sync failed",
				zap.String("mapping", entry.DisplayName),
				zap.String("table", entry.DestinationTable),
				zap.Error(err))
			stats.recordFailure(fmt.Sprintf("sync failed for %s", entry.DisplayName), err)
			continue
		}
		stats.recordSuccess()
	}

	s.log.Info("sync run completed",
		zap.Int("successful", stats.SuccessfulSyncs),
		zap.Int("failed", stats.FailedSyncs))
	return stats
}

// validateConnections dry-runs a fetch against the first catalog entry and
// probes the destination store. Either failure aborts the whole run.
func (s *ServiceImpl) validateConnections(ctx context.Context) error {
	first := s.catalog.Entries[0]

	if _, err := s.reader.FetchPage(ctx, first.SourceID, 0); err != nil {
		return fmt.Errorf("source connection: %w", err)
	}

	found, err := s.writer.ValidateConnection(ctx, first.DestinationTable)
	if err != nil {
		return fmt.Errorf("destination connection: %w", err)
	}
	if !found {
		// Reachable store without the table is a deploy problem, not a
		// credentials problem; the per-mapping writes will surface it.
		s.log.Warn("destination probe table missing", zap.String("table", first.DestinationTable))
	}

	return nil
}

func (s *ServiceImpl) syncMapping(ctx context.Context, entry catalog.MappingEntry) error {
	table := entry.DestinationTable
	conflictColumn := normalize.ResolveConflictColumn(table)

	// Best-effort diagnostics only; count failures never fail the mapping.
	before, countErr := s.writer.RecordCount(ctx, table)
	if countErr != nil {
		s.log.Debug("record count unavailable", zap.String("table", table), zap.Error(countErr))
	}

	var synced int
	var err error
	if catalog.IsPaginated(table) {
		synced, err = s.syncPaginated(ctx, entry, conflictColumn)
	} else {
		synced, err = s.syncBulk(ctx, entry, conflictColumn)
	}
	if err != nil {
		return err
	}

	after, countErr := s.writer.RecordCount(ctx, table)
	if countErr == nil {
		s.log.Info("mapping synced",
			zap.String("mapping", entry.DisplayName),
			zap.String("table", table),
			zap.Int("rows_synced", synced),
			zap.Int64("rows_before", before),
			zap.Int64("rows_after", after))
	} else {
		s.log.Info("mapping synced",
			zap.String("mapping", entry.DisplayName),
			zap.String("table", table),
			zap.Int("rows_synced", synced))
	}

	return nil
}

// syncPaginated normalizes and writes each page independently, looping
// 1-based pages until the source reports no more. A page failure aborts
// the remaining pages of this mapping only.
func (s *ServiceImpl) syncPaginated(ctx context.Context, entry catalog.MappingEntry, conflictColumn string) (int, error) {
	table := entry.DestinationTable
	synced := 0

	for page := 1; ; page++ {
		if page > 1 {
			select {
			case <-ctx.Done():
				return synced, ctx.Err()
			case <-time.After(s.pageDelay):
			}
		}

		p, err := s.reader.FetchPage(ctx, entry.SourceID, page-1)
		if err != nil {
			return synced, err
		}

		if len(p.Rows) > 0 {
			typed := normalize.Normalize(table, p.Rows)
			if _, err := s.writer.Upsert(ctx, table, typed, conflictColumn); err != nil {
				return synced, err
			}
			synced += len(typed)
		}

		if !p.HasMore {
			break
		}
	}

	return synced, nil
}

// syncBulk fetches every page, normalizes the whole result set in one
// pass and performs a single (internally chunked) upsert.
func (s *ServiceImpl) syncBulk(ctx context.Context, entry catalog.MappingEntry, conflictColumn string) (int, error) {
	rows, err := s.reader.FetchAllPages(ctx, entry.SourceID)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		s.log.Info("source returned no rows", zap.String("mapping", entry.DisplayName))
		return 0, nil
	}

	typed := normalize.Normalize(entry.DestinationTable, rows)
	if _, err := s.writer.Upsert(ctx, entry.DestinationTable, typed, conflictColumn); err != nil {
		return 0, err
	}
	return len(typed), nil
}

func (s *ServiceImpl) IsRunning() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.running
}

func (s *ServiceImpl) LastStats() *RunStats {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.lastStats
}

func (s *ServiceImpl) Catalog() []catalog.MappingEntry {
	return s.catalog.Entries
}

func (s *ServiceImpl) setRunning(v bool) {
	s.stateMu.Lock()
	s.running = v
	s.stateMu.Unlock()
}
