package ui

import (
	"fmt"

	"falling-sand/internal/engine"
)

// FrameStats returns the frame time and rate to display for s. Both read
// zero while the engine is paused.
func FrameStats(s engine.State) (frameMs, fps float64) {
	if s.Paused {
		return 0, 0
	}
	return s.AvgFrameTimeMs, s.AvgFPS
}

// StatusLines formats the snapshot summary shown by the frontends.
func StatusLines(s engine.State) []string {
	frameMs, fps := FrameStats(s)
	particles := 0
	if s.Grid.Valid() {
		particles = s.Grid.Occupied()
	}
	state := "running"
	if s.Paused {
		state = "paused"
	}
	return []string{
		fmt.Sprintf("%.1f fps  %.2f ms", fps, frameMs),
		fmt.Sprintf("%d particles  tick %d", particles, s.Tick),
		fmt.Sprintf("hue %d  %s", s.Hue, state),
	}
}
