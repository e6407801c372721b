package telemetry

import (
	"falling-sand/internal/engine"
)

// Recorder buffers frame records from engine snapshots and flushes them to
// an OutputManager in batches. It is meant to be called from the engine
// observer, so it is not safe for concurrent use.
type Recorder struct {
	run        string
	out        *OutputManager
	flushEvery int
	buf        []FrameRecord
	durations  []float64
	seen       bool
	lastTick   uint64
	lastMs     int64
}

// NewRecorder returns a Recorder writing to out every flushEvery records.
func NewRecorder(run string, out *OutputManager, flushEvery int) *Recorder {
	if flushEvery <= 0 {
		flushEvery = 60
	}
	return &Recorder{run: run, out: out, flushEvery: flushEvery}
}

// Observe records a snapshot. Snapshots that repeat the previous tick, such
// as the one published by a reset, are written but do not count as frames.
func (r *Recorder) Observe(s engine.State) error {
	rec := FrameFromState(r.run, s)
	if !r.seen || s.Tick > r.lastTick {
		if r.seen {
			r.durations = append(r.durations, float64(rec.TimestampMs-r.lastMs))
		}
		r.seen = true
		r.lastTick = s.Tick
		r.lastMs = rec.TimestampMs
	}
	r.buf = append(r.buf, rec)
	if len(r.buf) >= r.flushEvery {
		return r.Flush()
	}
	return nil
}

// Flush writes buffered records.
func (r *Recorder) Flush() error {
	if len(r.buf) == 0 {
		return nil
	}
	err := r.out.WriteFrames(r.buf)
	r.buf = r.buf[:0]
	return err
}

// Summary summarizes the frame durations seen so far.
func (r *Recorder) Summary() Summary {
	return Summarize(r.run, r.durations)
}

// Close flushes pending records and writes the summary row.
func (r *Recorder) Close() error {
	if err := r.Flush(); err != nil {
		return err
	}
	return r.out.WriteSummary(r.Summary())
}
