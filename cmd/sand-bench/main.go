package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"falling-sand/internal/config"
	"falling-sand/internal/core"
	"falling-sand/internal/engine"
	"falling-sand/internal/telemetry"
)

type runResult struct {
	seed      int64
	frames    []telemetry.FrameRecord
	summary   telemetry.Summary
	particles int
	err       error
}

func main() {
	configPath := flag.String("config", "", "path to YAML config (embedded defaults when empty)")
	steps := flag.Int("steps", 600, "ticks to simulate per run")
	runs := flag.Int("runs", 8, "number of seeded runs")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	seed := flag.Int64("seed", 1, "seed of the first run; later runs use seed+i")
	outputDir := flag.String("output-dir", "", "directory for frames.csv and summary.csv")
	timeout := flag.Duration("timeout", 2*time.Minute, "maximum wall time per run")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Telemetry.OutputDir = *outputDir
	}

	out, err := telemetry.NewOutputManager(cfg.Telemetry.OutputDir)
	if err != nil {
		logger.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		logger.Error("failed to write config", "error", err)
	}

	logger.Info("benchmark starting",
		"runs", *runs,
		"workers", *workers,
		"steps", *steps,
		"grid", fmt.Sprintf("%dx%d", cfg.Grid.Cols, cfg.Grid.Rows))

	jobs := make(chan int64)
	results := make(chan runResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobs {
				ec := cfg.EngineConfig()
				ec.Seed = s
				results <- runScenario(ec, *steps, *timeout)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for i := 0; i < *runs; i++ {
			jobs <- *seed + int64(i)
		}
		close(jobs)
	}()

	start := time.Now()
	var all []runResult
	for res := range results {
		if res.err != nil {
			logger.Error("run failed", "seed", res.seed, "error", res.err)
			continue
		}
		logger.Info("run complete",
			"seed", res.seed,
			"particles", res.particles,
			"mean_ms", res.summary.MeanMs,
			"p95_ms", res.summary.P95Ms)
		if err := out.WriteFrames(res.frames); err != nil {
			logger.Error("failed to write frames", "seed", res.seed, "error", err)
		}
		if err := out.WriteSummary(res.summary); err != nil {
			logger.Error("failed to write summary", "seed", res.seed, "error", err)
		}
		all = append(all, res)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].summary.MeanMs < all[j].summary.MeanMs })
	elapsed := time.Since(start)

	fmt.Printf("Completed %d runs in %s\n", len(all), elapsed.Round(time.Millisecond))
	for _, res := range all {
		s := res.summary
		fmt.Printf("seed=%d particles=%d mean=%.3fms sd=%.3fms min=%.3fms max=%.3fms p95=%.3fms fps=%.1f\n",
			res.seed, res.particles, s.MeanMs, s.StdDev, s.MinMs, s.MaxMs, s.P95Ms, s.MeanFPS)
	}
	if dir := out.Dir(); dir != "" {
		fmt.Printf("Telemetry written to %s\n", dir)
	}
}

// runScenario drives one engine for steps ticks with a pointer that pours
// along the top row, advancing as soon as each snapshot is observed.
func runScenario(cfg engine.Config, steps int, timeout time.Duration, opts ...engine.Option) runResult {
	res := runResult{seed: cfg.Seed}
	opts = append([]engine.Option{engine.WithLogger(slog.Default().With("seed", cfg.Seed))}, opts...)
	eng, err := engine.New(cfg, opts...)
	if err != nil {
		res.err = err
		return res
	}

	run := fmt.Sprintf("seed-%d", cfg.Seed)
	var durations []float64
	var lastMs int64
	finished := make(chan struct{})
	var once sync.Once

	eng.Subscribe(func(s engine.State) {
		rec := telemetry.FrameFromState(run, s)
		if len(res.frames) > 0 {
			durations = append(durations, float64(rec.TimestampMs-lastMs))
		}
		lastMs = rec.TimestampMs
		res.frames = append(res.frames, rec)

		if s.Tick >= uint64(steps) {
			res.particles = rec.Particles
			once.Do(func() { close(finished) })
			return
		}
		eng.SetPointerLocation(pourLocation(s.Tick, cfg.Cols))
		eng.Advance()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	eng.SetPointerLocation(pourLocation(0, cfg.Cols))
	eng.SetPointerDown(true)
	eng.Resume()

	poll := time.NewTicker(10 * time.Millisecond)
	defer poll.Stop()
	deadline := time.After(timeout)
wait:
	for {
		select {
		case <-finished:
			break wait
		case <-poll.C:
			if err := eng.LastError(); err != nil {
				res.err = fmt.Errorf("tick %d aborted: %w", eng.Snapshot().Tick+1, err)
				break wait
			}
		case <-deadline:
			res.err = fmt.Errorf("run stalled at tick %d", eng.Snapshot().Tick)
			break wait
		}
	}
	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		res.err = err
	}
	if err := eng.LastError(); err != nil && res.err == nil {
		res.err = err
	}
	res.summary = telemetry.Summarize(run, durations)
	return res
}

// pourLocation sweeps the pointer back and forth along the top row, moving
// one column every four ticks.
func pourLocation(tick uint64, cols int) core.Coordinate {
	if cols <= 1 {
		return core.Coordinate{}
	}
	span := uint64(2 * (cols - 1))
	pos := int((tick / 4) % span)
	if pos >= cols {
		pos = int(span) - pos
	}
	return core.Coordinate{X: pos, Y: 0}
}
