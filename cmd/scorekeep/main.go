// scorekeep is a live scoreboard for the terminal.
//
// Usage:
//
//	scorekeep [--config scorekeep.yaml] [--storage file|memory|redis|none] [--broadcast :8080]
//
// Keys: ↑/↓ team 1 score, →/← team 2 score, space start/pause, 0 reset,
// tab to edit names, period and clock, q to quit.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/hammamikhairi/scorekeep/internal/broadcast"
	"github.com/hammamikhairi/scorekeep/internal/config"
	"github.com/hammamikhairi/scorekeep/internal/display"
	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/horn"
	"github.com/hammamikhairi/scorekeep/internal/input"
	"github.com/hammamikhairi/scorekeep/internal/logger"
	"github.com/hammamikhairi/scorekeep/internal/scoreboard"
	"github.com/hammamikhairi/scorekeep/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var flags config.Flags
	fs := pflag.NewFlagSet("scorekeep", pflag.ContinueOnError)
	flags.Register(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := config.LoadDotEnv(flags.EnvFile); err != nil {
		return err
	}
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}
	flags.Apply(fs, &cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	// Direct logs to a file by default so the board stays clean.
	logOut, closeLog := openLog(cfg.Log.File)
	defer closeLog()

	// Third-party libraries that use the standard logger go to the same
	// place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	level := logger.ParseLevel(cfg.Log.Level)
	var log *logger.Logger
	if cfg.Log.Format == config.FormatJSON {
		log = logger.NewJSON(level, logOut)
	} else {
		log = logger.New(level, logOut)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire dependencies.
	backend, closeStore, err := storage.Open(cfg.StorageOptions(), log.With("storage"))
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	defer closeStore()
	names := storage.NewTeamStore(backend, log.With("storage"))

	board := scoreboard.New(names, log.With("board"),
		scoreboard.WithDefaults(cfg.Defaults),
		scoreboard.WithHorn(buildHorn(cfg.Horn, log.With("horn"))),
	)
	defer board.Close()
	board.Mount(ctx)

	kb := input.NewKeyboard()
	ctrl := input.NewController(board, log.With("input"))
	sub := ctrl.Bind(ctx, kb)
	defer sub.Close()

	if cfg.Broadcast.Addr != "" {
		srv := broadcast.NewServer(board, log.With("broadcast"),
			broadcast.WithAllowedOrigins(cfg.Broadcast.AllowedOrigins),
		)
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Broadcast.Addr); err != nil {
				log.Error("broadcast: %v", err)
			}
		}()
	}

	ui := display.NewUI(board, kb, ctrl, log.With("display"),
		display.WithTitle(cfg.Title),
		display.WithBanner(!flags.NoBanner),
	)

	// Bubble Tea owns the terminal. Blocks until quit.
	if err := ui.Run(ctx); err != nil {
		log.Error("display: %v", err)
		return err
	}
	log.Info("scorekeep exiting")
	return nil
}

// openLog opens the log destination. Falls back to stderr when the file
// cannot be opened.
func openLog(path string) (io.Writer, func()) {
	if path == "" || path == "stderr" {
		return os.Stderr, func() {}
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, func() {}
	}
	return f, func() { f.Close() }
}

// buildHorn opens the audio device, or returns a silent horn when the
// horn is disabled or no device is available.
func buildHorn(cfg config.Horn, log *logger.Logger) domain.Horn {
	if !cfg.Enabled {
		return horn.NewNoOp(log)
	}
	h, err := horn.NewSpeaker(log, horn.WithTone(horn.Tone{
		Frequency: cfg.Frequency,
		Duration:  cfg.Duration,
		Volume:    cfg.Volume,
	}))
	if err != nil {
		log.Error("audio init failed, horn disabled: %v", err)
		return horn.NewNoOp(log)
	}
	return h
}
