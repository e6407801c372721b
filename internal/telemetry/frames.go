// Package telemetry records per-tick frame statistics.
package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"falling-sand/internal/engine"
)

// FrameRecord is one published snapshot reduced to its numbers.
type FrameRecord struct {
	Run            string  `csv:"run"`
	Tick           uint64  `csv:"tick"`
	TimestampMs    int64   `csv:"timestamp_ms"`
	AvgFrameTimeMs float64 `csv:"avg_frame_ms"`
	AvgFPS         float64 `csv:"avg_fps"`
	Particles      int     `csv:"particles"`
	Paused         bool    `csv:"paused"`
	Hue            int     `csv:"hue"`
}

// FrameFromState builds a record from a published snapshot.
func FrameFromState(run string, s engine.State) FrameRecord {
	particles := 0
	if s.Grid.Valid() {
		particles = s.Grid.Occupied()
	}
	return FrameRecord{
		Run:            run,
		Tick:           s.Tick,
		TimestampMs:    s.Timestamp.UnixMilli(),
		AvgFrameTimeMs: s.AvgFrameTimeMs,
		AvgFPS:         s.AvgFPS,
		Particles:      particles,
		Paused:         s.Paused,
		Hue:            s.Hue,
	}
}

// Summary aggregates frame durations in milliseconds.
type Summary struct {
	Run     string  `csv:"run"`
	Samples int     `csv:"samples"`
	MeanMs  float64 `csv:"mean_ms"`
	StdDev  float64 `csv:"stddev_ms"`
	MinMs   float64 `csv:"min_ms"`
	MaxMs   float64 `csv:"max_ms"`
	P95Ms   float64 `csv:"p95_ms"`
	MeanFPS float64 `csv:"mean_fps"`
}

// Summarize computes summary statistics over frame durations. An empty input
// yields a zero Summary.
func Summarize(run string, samples []float64) Summary {
	s := Summary{Run: run, Samples: len(samples)}
	if len(samples) == 0 {
		return s
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	s.MeanMs = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	s.MinMs = floats.Min(sorted)
	s.MaxMs = floats.Max(sorted)
	s.P95Ms = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	if s.MeanMs > 0 {
		s.MeanFPS = 1000 / s.MeanMs
	}
	return s
}
