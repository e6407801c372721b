//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"falling-sand/internal/app"
	"falling-sand/internal/config"
	"falling-sand/internal/engine"
	"falling-sand/internal/telemetry"
)

func main() {
	flags := app.NewConfig()
	flags.Bind(flag.CommandLine)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	flags.Apply(cfg)

	eng, err := engine.New(cfg.EngineConfig(), engine.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create engine", "error", err)
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		logger.Error("failed to create telemetry output", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		logger.Error("failed to write config", "error", err)
	}

	var onState func(engine.State)
	var rec *telemetry.Recorder
	if out != nil {
		rec = telemetry.NewRecorder("gui", out, 0)
		onState = func(s engine.State) {
			if err := rec.Observe(s); err != nil {
				logger.Warn("telemetry write failed", "error", err)
			}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	game := app.New(eng, cfg.Display.Scale, cfg.Display.HUDWidth, onState)
	size := eng.Size()

	logger.Info("starting",
		"cols", size.W,
		"rows", size.H,
		"seed", cfg.Seed,
		"scale", cfg.Display.Scale)

	ebiten.SetWindowTitle("falling sand")
	ebiten.SetTPS(cfg.Display.TPS)
	ebiten.SetWindowSize(size.W*cfg.Display.Scale+cfg.Display.HUDWidth, size.H*cfg.Display.Scale)
	ebiten.SetRunnableOnUnfocused(true)

	runErr := ebiten.RunGame(game)
	game.Close()
	cancel()
	<-done

	if rec != nil {
		if err := rec.Close(); err != nil {
			logger.Warn("telemetry close failed", "error", err)
		}
		s := rec.Summary()
		logger.Info("frame summary", "samples", s.Samples, "mean_ms", s.MeanMs, "p95_ms", s.P95Ms)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		logger.Error("game exited", "error", runErr)
		os.Exit(1)
	}
}
