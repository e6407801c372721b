package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"falling-sand/internal/app"
	"falling-sand/internal/config"
	"falling-sand/internal/engine"
	"falling-sand/internal/term"
)

func main() {
	flags := app.NewConfig()
	flags.Bind(flag.CommandLine)
	fps := flag.Int("fps", 0, "terminal frame cap (0 keeps the config value)")
	logPath := flag.String("log", "", "write logs to this file (discarded when empty)")
	flag.Parse()

	// The terminal owns stdout and stderr while the screen is active.
	logOut, err := openLog(*logPath)
	if err != nil {
		slog.Error("failed to open log", "error", err)
		os.Exit(1)
	}
	defer logOut.Close()
	logger := slog.New(slog.NewTextHandler(logOut, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	flags.Apply(cfg)
	if *fps > 0 {
		cfg.Terminal.FPS = *fps
	}

	eng, err := engine.New(cfg.EngineConfig(), engine.WithLogger(logger))
	if err != nil {
		slog.Error("failed to create engine", "error", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("failed to create screen", "error", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		slog.Error("failed to initialise screen", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	runErr := term.New(screen, eng, cfg.Terminal.FPS, logger).Run(ctx)
	screen.Fini()
	stop()
	<-done

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		slog.Error("terminal exited", "error", runErr)
		os.Exit(1)
	}
}

func openLog(path string) (*os.File, error) {
	if path == "" {
		return os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
