package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mbacelar/rebanho/internal/config"
	"github.com/mbacelar/rebanho/internal/domain/models"
	"github.com/mbacelar/rebanho/internal/repository/sheets"
	"github.com/mbacelar/rebanho/internal/service/migration"
	"github.com/mbacelar/rebanho/pkg/clients/webhook"
)

// Scheduler manages the daily age-group migration run.
type Scheduler struct {
	cron         *cron.Cron
	migrationSvc *migration.Service
	exporter     sheets.Repository
	notifier     webhook.Client
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. exporter and notifier may be
// nil when the corresponding integrations are not configured.
func NewScheduler(cfg config.Config, migrationSvc *migration.Service, exporter sheets.Repository, notifier webhook.Client, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Migration.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to local", zap.String("timezone", cfg.Migration.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		migrationSvc: migrationSvc,
		exporter:     exporter,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Migration.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.Migration.CronSchedule, s.runMigrations)
	if err != nil {
		s.logger.Error("failed to schedule migration run", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runMigrations() {
	s.logger.Info("running scheduled age-group migration")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	err := s.migrationSvc.Initialize(ctx, "", s.fanOutResult)
	if err != nil {
		s.logger.Error("scheduled migration run failed", zap.Error(err))
	}
}

// fanOutResult ships one run result to the configured export targets. It runs
// on the engine's callback goroutine, detached from the cron job.
func (s *Scheduler) fanOutResult(result models.MigrationResult) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if s.notifier != nil {
		if err := s.notifier.NotifyMigrationResult(ctx, result); err != nil {
			s.logger.Error("failed to notify migration result", zap.Error(err), zap.String("run_id", result.RunID))
		}
	}

	if s.exporter != nil {
		if err := s.exporter.AppendMigrationResult(ctx, result); err != nil {
			s.logger.Error("failed to export migration result", zap.Error(err), zap.String("run_id", result.RunID))
		}
	}
}
