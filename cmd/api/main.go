package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bryanwahyu/ph-daily/internal/config"
	"github.com/bryanwahyu/ph-daily/internal/infra/httpserver"
	"github.com/bryanwahyu/ph-daily/internal/logging"
	"github.com/bryanwahyu/ph-daily/internal/middleware"
	"github.com/bryanwahyu/ph-daily/internal/wiring"
)

func main() {
	// load config
	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(cfg.Log.Level, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	// base context for background runs and the rate limiter janitor
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reportsDir := cfg.Analyzer.ReportsDir
	if !filepath.IsAbs(reportsDir) {
		reportsDir = filepath.Join(cfg.Bootstrap.WorkDir, reportsDir)
	}
	cfg.Analyzer.ReportsDir = reportsDir

	// analysis service and optional adapters
	components := wiring.Build(ctx, cfg, logger, wiring.Options{})
	defer components.Close()

	health := map[string]middleware.HealthChecker{
		"reports": middleware.DirHealthChecker{Path: reportsDir},
	}
	if components.DB != nil {
		health["database"] = &middleware.DatabaseHealthChecker{DB: components.DB}
	}

	router := httpserver.NewRouter(httpserver.Deps{
		Analyzer:      components.Analysis,
		Runs:          components.Runs,
		ReportsDir:    reportsDir,
		ReportPattern: cfg.Bootstrap.ReportPattern,
		APIKeys:       cfg.Server.APIKeys,
		Health:        health,
		Metrics:       middleware.NewMetrics(),
		Limiter:       middleware.NewRateLimiter(ctx, 30, 1),
		Log:           logger,
		BaseContext:   ctx,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.WithField("addr", addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("shutdown error")
	}

	// abort in-flight analyses; each still records its failed run before returning
	cancel()
	router.Wait()
}
