package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devault/tasks/adapters/db"
	"devault/tasks/adapters/rest/handlers"
	"devault/tasks/config"
	"devault/tasks/core"
)

func main() {
	// config
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "task tracker configuration file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	// logger
	log := mustMakeLogger(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	log.Info("starting task tracker")

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// database adapter
	storage, err := db.New(log, cfg.DB.Driver, cfg.DB.Address)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %v", err)
	}
	defer func(storage *db.DB) {
		err := storage.Close()
		if err != nil {
			log.Error("failed to close db connection", "error", err)
		}
	}(storage)

	if err := storage.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate db: %v", err)
	}

	// service
	tasksService := core.NewService(log, storage, core.DefaultAppRegistry())

	count, err := tasksService.CountTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to count tasks: %v", err)
	}
	log.Info("database initialized", "driver", cfg.DB.Driver, "existing_tasks", count)

	// http
	page, err := handlers.NewPage()
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	handlers.Register(mux, log, tasksService, page, cfg.HTTP.Timeout)

	server := http.Server{
		Addr:              cfg.HTTP.Address,
		ReadHeaderTimeout: cfg.HTTP.Timeout,
		Handler:           handlers.LogRequests(log, mux),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("task tracker http server is running", "address", "http://"+server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func mustMakeLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
