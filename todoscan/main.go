package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"devault/tasks/adapters/db"
	"devault/tasks/core"
	"devault/todoscan/config"
	"devault/todoscan/scanner"
)

func main() {
	var (
		configPath string
		dir        string
		due        string
		exts       string
		dryRun     bool
	)
	flag.StringVar(&configPath, "config", "config.yaml", "task tracker configuration file")
	flag.StringVar(&dir, "dir", ".", "project directory to scan")
	flag.StringVar(&due, "due", "", "due date of imported tasks, YYYY-MM-DD (default: today + scan_due_in)")
	flag.StringVar(&exts, "ext", "", "comma separated file extensions to scan (default: built-in list)")
	flag.BoolVar(&dryRun, "dry-run", false, "print findings without importing them")
	flag.Parse()

	cfg := config.MustLoad(configPath)
	log := mustMakeLogger(cfg.LogLevel)

	if due == "" {
		due = time.Now().Add(cfg.DueIn).Format(core.DateLayout)
	}

	if err := run(cfg, log, dir, due, splitExts(exts), dryRun); err != nil {
		log.Error("todoscan failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger, dir, due string, exts []string, dryRun bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := core.ParseDueDate(due); err != nil {
		return err
	}

	found, err := scanner.New(exts...).Scan(ctx, dir)
	if err != nil {
		return err
	}
	log.Info("scan finished", "dir", dir, "findings", len(found))

	if dryRun {
		for _, f := range found {
			fmt.Printf("%s:%d\t%s\n", f.File, f.Line, f.Comment)
		}
		return nil
	}

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

	svc := core.NewService(log, storage, core.DefaultAppRegistry())

	imported, err := importFindings(ctx, log, svc, found, due)
	log.Info("import finished", "imported", imported, "skipped", len(found)-imported)
	return err
}

type taskAdder interface {
	AddTask(ctx context.Context, in core.TaskInput) (core.Task, error)
}

// importFindings adds one task per finding. Findings the service rejects are
// logged and skipped; any other error stops the import.
func importFindings(ctx context.Context, log *slog.Logger, svc taskAdder, found []scanner.Finding, due string) (int, error) {
	imported := 0
	for _, f := range found {
		_, err := svc.AddTask(ctx, core.TaskInput{
			Title:       f.Title(core.MaxTitleLen),
			Description: f.Description(),
			DueDate:     due,
		})
		if errors.Is(err, core.ErrTaskInvalidArgs) {
			log.Warn("finding skipped", "file", f.File, "line", f.Line, "error", err)
			continue
		}
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func splitExts(s string) []string {
	var out []string
	for _, e := range strings.Split(s, ",") {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
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
