// Package term draws the sand engine in a terminal with tcell.
package term

import (
	"context"
	"image/color"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"falling-sand/internal/core"
	"falling-sand/internal/engine"
	"falling-sand/internal/render"
	"falling-sand/internal/ui"
)

const particleRune = '█'

// Frontend maps one terminal cell to one grid cell. Rows below the grid hold
// the status line.
type Frontend struct {
	screen   tcell.Screen
	eng      *engine.Engine
	interval time.Duration
	log      *slog.Logger

	pending  atomic.Bool
	failures uint64
	focused  bool
	size     core.Size
}

// New constructs a frontend drawing at most fps frames per second. The
// screen must already be initialised.
func New(screen tcell.Screen, eng *engine.Engine, fps int, log *slog.Logger) *Frontend {
	if fps <= 0 {
		fps = 30
	}
	if log == nil {
		log = slog.Default()
	}
	f := &Frontend{
		screen:   screen,
		eng:      eng,
		interval: time.Second / time.Duration(fps),
		log:      log,
		focused:  true,
		size:     eng.Size(),
	}
	f.pending.Store(true)
	return f
}

// Run handles terminal events and redraws until ctx is cancelled or the user
// quits. A nil error means the user asked to quit.
func (f *Frontend) Run(ctx context.Context) error {
	unsub := f.eng.Subscribe(func(engine.State) { f.pending.Store(true) })
	defer unsub()

	f.screen.EnableMouse()
	f.screen.EnableFocus()

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !f.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			f.frame()
		}
	}
}

// frame redraws the screen and asks the engine for the next tick when a new
// snapshot was drawn or the last tick aborted without publishing.
func (f *Frontend) frame() {
	fresh := f.pending.Swap(false)
	f.draw(f.eng.Snapshot())
	f.screen.Show()
	failures := f.eng.Failures()
	if fresh || failures != f.failures {
		f.failures = failures
		f.eng.Advance()
	}
}

func (f *Frontend) draw(s engine.State) {
	f.screen.Clear()
	bg := tcell.StyleDefault.Background(rgb(render.Background))
	if s.Grid.Valid() {
		s.Grid.Each(func(x, y int, c core.Cell) {
			if !c.Occupied {
				f.screen.SetContent(x, y, ' ', nil, bg)
				return
			}
			f.screen.SetContent(x, y, particleRune, nil, bg.Foreground(rgb(render.CellColor(c.Color))))
		})
	}
	status := tcell.StyleDefault.Foreground(tcell.ColorSilver)
	line := strings.Join(ui.StatusLines(s), " | ")
	for i, r := range []rune(line) {
		f.screen.SetContent(i, f.size.H, r, nil, status)
	}
}

// handleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (f *Frontend) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return f.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		f.handleMouse(x, y, ev.Buttons())
	case *tcell.EventFocus:
		f.handleFocus(ev.Focused)
	case *tcell.EventResize:
		f.screen.Sync()
	}
	return true
}

func (f *Frontend) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}
	switch r {
	case 'q', 'Q':
		return false
	case ' ':
		if f.eng.Paused() {
			f.eng.Resume()
		} else {
			f.eng.Pause()
		}
	case 'r', 'R':
		f.eng.Reset()
	case '+', '=':
		f.adjust(engine.ParamSaturation, 1)
	case '-', '_':
		f.adjust(engine.ParamSaturation, -1)
	case ']':
		f.adjust(engine.ParamLightness, 1)
	case '[':
		f.adjust(engine.ParamLightness, -1)
	}
	return true
}

func (f *Frontend) handleMouse(x, y int, buttons tcell.ButtonMask) {
	if x < 0 || y < 0 || x >= f.size.W || y >= f.size.H {
		f.eng.SetPointerLocation(core.OffGrid)
		f.eng.SetPointerDown(false)
		return
	}
	f.eng.SetPointerLocation(core.Coordinate{X: x, Y: y})
	down := buttons&tcell.Button1 != 0
	if down && !f.eng.Pointer().Down && f.eng.Paused() {
		f.eng.Resume()
	}
	f.eng.SetPointerDown(down)
}

func (f *Frontend) handleFocus(focused bool) {
	if focused == f.focused {
		return
	}
	f.focused = focused
	if focused {
		f.eng.Resume()
	} else {
		f.eng.Pause()
	}
}

func (f *Frontend) adjust(key string, direction float64) {
	current := f.eng.Saturation()
	if key == engine.ParamLightness {
		current = f.eng.Lightness()
	}
	for _, ctrl := range f.eng.ParameterControls() {
		if ctrl.Key != key {
			continue
		}
		next := ctrl.Clamp(current + direction*ctrl.Step)
		if f.eng.SetFloatParameter(key, next) {
			f.log.Debug("parameter changed", "key", key, "value", next)
		}
		return
	}
}

func rgb(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
