package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"go-datasync/internal/config"
	"go-datasync/internal/features/catalog"
	"go-datasync/internal/features/source"
	"go-datasync/internal/features/store"
	sync_feature "go-datasync/internal/features/sync"
	"go-datasync/internal/logger"
)

// One-shot runner: a single pass over the catalog, stats JSON on stdout,
// non-zero exit when anything failed. Meant for cron/systemd timers.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zapLogger, _, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zapLogger.Sync()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	backend, err := store.NewBackend(cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	client := source.NewClient(cfg, source.NewTokenSigner(cfg), zapLogger)
	writer := store.NewWriter(backend, zapLogger)
	service := sync_feature.NewService(cat, client, writer, zapLogger)

	stats := service.Run(context.Background())

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		log.Fatalf("encode stats: %v", err)
	}
	fmt.Println(string(out))

	if stats.Aborted || stats.FailedSyncs > 0 {
		os.Exit(1)
	}
}
