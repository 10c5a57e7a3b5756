package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "net/http/pprof"

	"festbetrag/config"
	"festbetrag/data"
	"festbetrag/festbetragparser"
	"festbetrag/logging"
	"festbetrag/scheduler"
	"festbetrag/server"
	"festbetrag/storage"
)

func main() {
	// Read the env variables; when started from elsewhere, fall back to the
	// executable directory.
	if err := godotenv.Load(); err != nil {
		if ex, exErr := os.Executable(); exErr == nil {
			if chErr := os.Chdir(filepath.Dir(ex)); chErr == nil {
				godotenv.Load()
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg.LogRetentionWeeks, cfg.MaxLogFileSize, logging.ParseLevel(cfg.LogLevel))

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		logging.Error("Failed to open database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		logging.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	if err := store.EnsureColumns(); err != nil {
		logging.Error("Failed to upgrade database schema", "error", err)
		os.Exit(1)
	}

	status := data.NewStatusContainer()
	status.SetServerStartTime(time.Now())

	// Seed the status from the existing database so health checks are
	// meaningful before the first import of this process finishes.
	if count, err := store.CountMedications(); err == nil {
		status.SetRecordCount(int64(count))
	}

	parser := festbetragparser.NewFestbetragParser()
	sched := scheduler.NewScheduler(cfg, parser, store, status)

	// Import in the background; the status server answers immediately.
	go func() {
		if err := sched.Start(); err != nil {
			logging.Error("Import scheduling failed", "error", err)
		}
	}()
	defer sched.Stop()

	srv := server.NewServer(cfg, status)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown failed", "error", err)
	}
}
