package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alexanderramin/feather/internal/cli"
	"github.com/alexanderramin/feather/internal/clients/caldav"
	"github.com/alexanderramin/feather/internal/config"
	"github.com/alexanderramin/feather/internal/db"
	"github.com/alexanderramin/feather/internal/docstore"
	"github.com/alexanderramin/feather/internal/repository"
	"github.com/alexanderramin/feather/internal/service"
	"github.com/alexanderramin/feather/internal/undo"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("finding home directory: %w", err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	logOut, closeLog := openLog(cfg.LogFile)
	defer closeLog()
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelInfo}))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := docstore.New(database, docstore.WithLogger(logger))
	defer store.Close()

	observer := service.NewLogUseCaseObserver(logger)
	calendarSvc := service.NewCalendarService(store,
		repository.NewDocPlanRepo(store, cfg.UID),
		repository.NewDocLabelRepo(store, cfg.UID),
		repository.NewDocStyleRepo(store, cfg.UID),
		undo.New(undo.WithLimit(cfg.UndoLimit)),
		logger, observer,
	)
	notesSvc := service.NewNotesService(store,
		repository.NewDocInodeRepo(store, cfg.UID),
		undo.New(undo.WithLimit(cfg.UndoLimit)),
		logger, observer,
	)

	app := &cli.App{
		Calendar:  calendarSvc,
		Notes:     notesSvc,
		CalDAV:    caldav.NewClient(cfg.CalDAV.URL, cfg.CalDAV.Username, cfg.CalDAV.Password, cfg.CalDAV.Calendar),
		WeekStart: cfg.DayStart(),
		Weeks:     cfg.Weeks,
		Location:  loc,
		Logger:    logger,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// openLog appends to path, falling back to stderr when it cannot be opened.
func openLog(path string) (io.Writer, func()) {
	if path == "" {
		return os.Stderr, func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return os.Stderr, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return os.Stderr, func() {}
	}
	return f, func() { f.Close() }
}
