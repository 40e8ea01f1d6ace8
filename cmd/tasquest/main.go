package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/tasquest/internal/config"
	"github.com/tgienger/tasquest/internal/db"
	"github.com/tgienger/tasquest/internal/logging"
	"github.com/tgienger/tasquest/internal/models"
	"github.com/tgienger/tasquest/internal/seed"
	"github.com/tgienger/tasquest/internal/store"
	"github.com/tgienger/tasquest/internal/ui"
	"github.com/tgienger/tasquest/internal/ui/styles"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain returns the exit code so deferred cleanup runs before os.Exit
func runMain(args []string) int {
	var configPath, seedPath string
	var showVersion bool
	fs := flag.NewFlagSet("tasquest", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", config.DefaultPath(), "configuration file")
	fs.StringVar(&seedPath, "seed", "", "YAML board loaded when the database is empty")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")
	fs.BoolVar(&showVersion, "v", false, "print version and exit (shorthand)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Printf("tasquest %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		return 1
	}
	defer logger.Close()

	if err := run(cfg, seedPath, logger.Logger); err != nil {
		logger.Error("tasquest failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func run(cfg config.Config, seedPath string, log *slog.Logger) error {
	log.Info("starting tasquest", "version", version, "db", cfg.DBPath)

	if !styles.Use(cfg.UI.Theme) {
		log.Warn("unknown theme, using default", "theme", cfg.UI.Theme)
	}

	database, err := db.New(log, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	board := store.New(store.WithLogger(log))
	if err := loadBoard(database, board, seedPath, log); err != nil {
		return err
	}

	autosave := database.Autosave(board)
	defer autosave.Close()

	app := ui.NewApp(board, database, cfg.Decay, log)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run application: %w", err)
	}
	return nil
}

// loadBoard fills the store from the database, seeding an empty database first
func loadBoard(database *db.DB, board *store.Store, seedPath string, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	empty, err := database.BoardEmpty(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect database: %w", err)
	}

	if !empty {
		statuses, err := database.LoadBoard(ctx)
		if err != nil {
			return fmt.Errorf("failed to load board: %w", err)
		}
		return board.Load(statuses)
	}

	var statuses []models.Status
	if seedPath != "" {
		statuses, err = seed.LoadFile(seedPath, time.Now())
	} else {
		statuses, err = seed.Default(time.Now())
	}
	if err != nil {
		return fmt.Errorf("failed to read seed board: %w", err)
	}
	if err := board.Load(statuses); err != nil {
		return fmt.Errorf("invalid seed board: %w", err)
	}
	if err := database.SaveBoard(ctx, board.Statuses()); err != nil {
		return fmt.Errorf("failed to save seed board: %w", err)
	}
	log.Info("seeded empty database", "statuses", len(statuses), "from", seedPath)
	return nil
}
