package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ahmethakanbesel/similarity-api/internal/config"
	"github.com/ahmethakanbesel/similarity-api/internal/content/web"
	"github.com/ahmethakanbesel/similarity-api/internal/embedding/openai"
	"github.com/ahmethakanbesel/similarity-api/internal/job"
	"github.com/ahmethakanbesel/similarity-api/internal/scoring"
	"github.com/ahmethakanbesel/similarity-api/internal/server"
	"github.com/ahmethakanbesel/similarity-api/internal/sheet"
	sheetsqlite "github.com/ahmethakanbesel/similarity-api/internal/sheet/sqlite"
	"github.com/ahmethakanbesel/similarity-api/internal/sheet/xlsx"
	"github.com/ahmethakanbesel/similarity-api/internal/similarity"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	// Root context: cancelled on SIGINT/SIGTERM so in-flight scoring workers
	// stop promptly during graceful shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	var opener sheet.Opener
	switch cfg.DatasetBackend {
	case "sqlite":
		opener = sheetsqlite.NewOpener("")
	case "xlsx":
		opener = xlsx.NewOpener("")
	default:
		slog.Error("unknown dataset backend", "backend", cfg.DatasetBackend)
		os.Exit(1)
	}

	embedder := openai.New(
		openai.WithBaseURL(cfg.EmbeddingBaseURL),
		openai.WithAPIKey(cfg.EmbeddingAPIKey),
		openai.WithModel(cfg.EmbeddingModel),
	)
	engine := similarity.NewEngine(embedder)
	fetcher := web.New(web.WithTimeout(cfg.FetchTimeout))

	// Job store and services
	store := job.NewStore()
	jobSvc := job.NewService(store)
	scoringSvc := scoring.NewService(store, opener, fetcher, engine)

	// Worker pool: picks up queued jobs in the background
	pool := job.NewWorkerPool(store, scoringSvc, cfg.Workers)
	jobSvc.SetNotify(pool.Notify)
	poolDone := make(chan struct{})
	go func() {
		pool.Run(rootCtx)
		close(poolDone)
	}()

	// Janitor: sweep old terminal jobs so the in-memory store stays bounded.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-rootCtx.Done():
				return
			case <-ticker.C:
				jobSvc.Cleanup(cfg.JobRetention)
			}
		}
	}()

	// rootCtx is used as BaseContext so every request context inherits
	// from it and is cancelled on shutdown.
	srv := server.New(rootCtx, cfg.Port, jobSvc)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("server started", "port", cfg.Port, "backend", cfg.DatasetBackend)
	<-done

	// Cancel root context first so in-flight jobs begin winding down
	// immediately.
	rootCancel()

	// Wait for worker pool to drain before shutting down HTTP.
	<-poolDone

	// Then drain connections with a deadline.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
