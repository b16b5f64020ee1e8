package scheduler

import (
	"context"
	"fmt"
	"time"

	"go-datasync/internal/config"
	sync_feature "go-datasync/internal/features/sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Service re-invokes the sync run on a fixed interval.
type Service interface {
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
}

type ServiceImpl struct {
	syncService sync_feature.Service
	interval    time.Duration
	log         *zap.Logger

	scheduler *cron.Cron
}

func NewService(cfg *config.Config, syncService sync_feature.Service, log *zap.Logger) Service {
	return &ServiceImpl{
		syncService: syncService,
		interval:    cfg.SyncInterval,
		log:         log,
	}
}

func (s *ServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.log.Info("initializing sync scheduler", zap.Duration("interval", s.interval))
	s.scheduler = cron.New()

	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.scheduler.AddFunc(spec, func() {
		if s.syncService.IsRunning() {
			// No overlap: skip this tick, the next one retries naturally.
			s.log.Warn("previous sync run still in progress, skipping scheduled run")
			return
		}
		s.syncService.Run(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync run: %w", err)
	}

	s.scheduler.Start()
	return nil
}

func (s *ServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}
