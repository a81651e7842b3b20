package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/turboplaylist/turboplaylist/internal/config"
	"github.com/turboplaylist/turboplaylist/internal/download"
	"github.com/turboplaylist/turboplaylist/internal/server"
	"github.com/turboplaylist/turboplaylist/internal/session"
	"github.com/turboplaylist/turboplaylist/internal/ytdlp"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const shutdownGrace = 10 * time.Second

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	logger.Info("turboplaylist engine starting",
		zap.String("version", version),
		zap.String("addr", cfg.ListenAddr),
		zap.String("downloads_dir", cfg.DownloadsDir),
	)

	store, err := session.NewStore(cfg.DownloadsDir, logger)
	if err != nil {
		logger.Fatal("failed to prepare downloads root", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reaper := session.NewReaper(store, cfg.SessionTTL, cfg.SweepInterval, nil, logger)
	reaper.Start(ctx)

	probe := ytdlp.NewProbe(cfg.YTDLPPath, logger)
	probe.Timeout = cfg.ProbeTimeout
	runner := ytdlp.NewExecRunner(cfg.YTDLPPath, logger)
	orch := download.New(runner, cfg.OutputTemplate, logger)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(cfg, probe, store, orch, logger).Handler(),
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
