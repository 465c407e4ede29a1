package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shelfmetrics/stockwatch/internal/api/handlers"
	"github.com/shelfmetrics/stockwatch/internal/api/router"
	"github.com/shelfmetrics/stockwatch/internal/config"
	"github.com/shelfmetrics/stockwatch/internal/notifier"
	"github.com/shelfmetrics/stockwatch/internal/pkg/cache"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
	"github.com/shelfmetrics/stockwatch/internal/pkg/validator"
	"github.com/shelfmetrics/stockwatch/internal/repository/postgres"
	"github.com/shelfmetrics/stockwatch/internal/services"
	"github.com/shelfmetrics/stockwatch/internal/worker"
	"github.com/shelfmetrics/stockwatch/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	alertRepo := postgres.NewAlertRepository(db)
	productRepo := postgres.NewProductRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	// Services
	auditor := services.NewAuditService(auditRepo, log)
	dispatcher := notifier.NewWebhook(cfg.Notify, log)
	engine := services.NewLifecycleService(alertRepo, productRepo, auditor, dispatcher,
		cfg.Alerting.LowStockThreshold, log)
	alertService := services.NewAlertService(alertRepo, auditor, dispatcher, log)
	schedulerService := services.NewSchedulerService(engine, productRepo, auditor, auditRepo,
		cfg.Alerting, log)

	// Cache for degraded read paths
	listCache := cache.New(cfg.Alerting.CheckInterval)
	evictStop := make(chan struct{})
	defer close(evictStop)
	listCache.StartEviction(cfg.Alerting.CheckInterval, evictStop)

	// HTTP handlers
	val := validator.New()
	h := &router.Handlers{
		Health:    handlers.NewHealthHandler(db),
		Alert:     handlers.NewAlertHandler(alertService, engine, listCache, log, val),
		Scheduler: handlers.NewSchedulerHandler(schedulerService, log),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Periodic sweep worker
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	sweeper := worker.NewSweeper(schedulerService, cfg.Alerting.CheckInterval, log)
	if err := sweeper.Start(workerCtx); err != nil {
		log.Fatalf("Failed to start sweep worker: %v", err)
	}

	go func() {
		log.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	cancelWorker()
	sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}
}
