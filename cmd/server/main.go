package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PDG1999/tool-dashboard-samebi/internal/api"
	"github.com/PDG1999/tool-dashboard-samebi/internal/config"
	"github.com/PDG1999/tool-dashboard-samebi/internal/jobs"
	"github.com/PDG1999/tool-dashboard-samebi/internal/logger"
	"github.com/PDG1999/tool-dashboard-samebi/internal/services"
	"github.com/PDG1999/tool-dashboard-samebi/internal/sources"
	"github.com/PDG1999/tool-dashboard-samebi/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithAutoColors(),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Life-Balance Stats Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("record_source=%s", cfg.RecordSource)
	log.Debug("record_store_url=%s", cfg.RecordStoreURL)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("default_time_range=%s", cfg.DefaultTimeRange)
	log.Debug("anonymous_policy=%s", cfg.AnonymousPolicy)
	log.Debug("redis_addr=%s", cfg.RedisAddr)
	log.Debug("refresh_worker_count=%d", cfg.RefreshWorkerCount)
	log.Debug("refresh_queue_size=%d", cfg.RefreshQueueSize)

	opened, err := sources.Open(cfg)
	if err != nil {
		log.Error("failed to open record source: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := opened.Close(); err != nil {
			log.Warn("failed to close record source: %v", err)
		}
	}()

	snapshotCache, closeCache := sources.OpenCache(cfg)
	defer func() {
		if err := closeCache(); err != nil {
			log.Warn("failed to close snapshot cache: %v", err)
		}
	}()

	var opts []services.SnapshotServiceOption
	if snapshotCache != nil {
		opts = append(opts, services.WithSnapshotCache(snapshotCache))
	}
	builder := services.NewSnapshotBuilder(opened.Source, cfg.Policy(), time.Now)
	snapshotService := services.NewSnapshotService(builder, opts...)

	refreshPool := worker.NewPool(cfg.RefreshWorkerCount, cfg.RefreshQueueSize)
	queue := jobs.NewWorkerQueue(refreshPool, snapshotService)

	srv := &api.Server{
		SnapshotService: snapshotService,
		JobQueue:        queue,
		DefaultRange:    cfg.TimeRange(),
		RequestTimeout:  cfg.RecordStoreTimeout + 5*time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	refreshPool.Start(ctx)

	// Warm up the default view so /api/stats/current has something to show.
	if err := queue.EnqueueRefresh(cfg.TimeRange()); err != nil {
		log.Warn("failed to queue warm-up refresh: %v", err)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RecordStoreTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping refresh pool")
	cancel()
	refreshPool.Stop()

	log.Info("===========================================")
	log.Info("Life-Balance Stats Server Stopped")
	log.Info("===========================================")
}
