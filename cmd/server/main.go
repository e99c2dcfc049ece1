package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mbacelar/rebanho/internal/config"
	"github.com/mbacelar/rebanho/internal/repository/mongodb"
	"github.com/mbacelar/rebanho/internal/repository/sheets"
	"github.com/mbacelar/rebanho/internal/scheduler"
	"github.com/mbacelar/rebanho/internal/server/handlers"
	"github.com/mbacelar/rebanho/internal/server/router"
	balancesvc "github.com/mbacelar/rebanho/internal/service/balance"
	migrationsvc "github.com/mbacelar/rebanho/internal/service/migration"
	"github.com/mbacelar/rebanho/pkg/clients/webhook"
	"github.com/mbacelar/rebanho/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var exporter sheets.Repository
	if cfg.SheetsEnabled() {
		exporter, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		baseLogger.Info("sheets export enabled")
	} else {
		baseLogger.Warn("sheets export disabled, no spreadsheet configured")
	}

	var notifier webhook.Client
	if cfg.NotifierEnabled() {
		notifier = webhook.NewClient(cfg.Notifier)
		baseLogger.Info("migration webhook notifier enabled")
	}

	balanceSvc := balancesvc.NewService(baseLogger.Named("svc.balance"))
	migrationSvc := migrationsvc.NewService(mongoRepo, balanceSvc, baseLogger.Named("svc.migration"))

	sched := scheduler.NewScheduler(*cfg, migrationSvc, exporter, notifier, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	gtaHandler := handlers.NewGTAHandler(baseLogger.Named("handlers.gta"))
	herdHandler := handlers.NewHerdHandler(mongoRepo, migrationSvc, nil, baseLogger.Named("handlers.herd"))
	engine := router.New(gtaHandler, herdHandler, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
