package core

import "gonum.org/v1/gonum/stat"

// DefaultFrameWindow is the number of tick durations averaged by default.
const DefaultFrameWindow = 30

// FrameTimer keeps a rolling window of tick durations in milliseconds.
// Slots that have not been written yet count as zero in the average.
type FrameTimer struct {
	samples    []float64
	writeIndex int
	count      int
	lastMs     float64
}

// NewFrameTimer constructs a FrameTimer averaging over window ticks, measuring
// the first tick from startMs.
func NewFrameTimer(window int, startMs float64) *FrameTimer {
	if window <= 0 {
		window = DefaultFrameWindow
	}
	return &FrameTimer{samples: make([]float64, window), lastMs: startMs}
}

// RecordTick stores the time elapsed since the previous tick and returns the
// mean frame time over the window together with the derived frame rate.
func (f *FrameTimer) RecordTick(nowMs float64) (avgFrameTimeMs, avgFPS float64) {
	f.samples[f.writeIndex] = nowMs - f.lastMs
	f.writeIndex = (f.writeIndex + 1) % len(f.samples)
	if f.count < len(f.samples) {
		f.count++
	}
	f.lastMs = nowMs
	return f.Average()
}

// Average returns the current mean frame time and frame rate without
// recording a tick. The rate is zero while the mean is zero.
func (f *FrameTimer) Average() (avgFrameTimeMs, avgFPS float64) {
	avgFrameTimeMs = stat.Mean(f.samples, nil)
	if avgFrameTimeMs == 0 {
		return 0, 0
	}
	return avgFrameTimeMs, 1000 / avgFrameTimeMs
}

// Window returns the capacity of the rolling window.
func (f *FrameTimer) Window() int { return len(f.samples) }

// Samples returns the recorded durations oldest first, excluding slots that
// were never written.
func (f *FrameTimer) Samples() []float64 {
	out := make([]float64, 0, f.count)
	start := f.writeIndex - f.count
	if start < 0 {
		start += len(f.samples)
	}
	for i := 0; i < f.count; i++ {
		out = append(out, f.samples[(start+i)%len(f.samples)])
	}
	return out
}
