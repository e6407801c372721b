//go:build ebiten

package app

import (
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"falling-sand/internal/core"
	"falling-sand/internal/engine"
	"falling-sand/internal/render"
	"falling-sand/internal/ui"
)

// Game adapts the sand engine to the ebiten.Game interface. The engine runs
// on its own goroutine; the game feeds it input, draws published snapshots
// and asks for the next tick once a snapshot is on screen.
type Game struct {
	eng     *engine.Engine
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay

	scale    int
	hudWidth int
	size     core.Size

	// pending is set by the observer and cleared once the snapshot is drawn.
	pending  atomic.Bool
	failures uint64
	focused  bool
	unsub    func()
}

// New constructs a Game for eng. onState, when non-nil, also receives every
// published snapshot.
func New(eng *engine.Engine, scale, hudWidth int, onState func(engine.State)) *Game {
	if scale <= 0 {
		scale = 1
	}
	size := eng.Size()
	g := &Game{
		eng:      eng,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(scale),
		scale:    scale,
		hudWidth: hudWidth,
		size:     size,
		focused:  true,
	}
	if hudWidth > 0 {
		g.hud = ui.NewHUD(eng, hudWidth, size.H*scale, eng.Reset)
	}
	g.pending.Store(true)
	g.unsub = eng.Subscribe(func(s engine.State) {
		if onState != nil {
			onState(s)
		}
		g.pending.Store(true)
	})
	return g
}

// Close detaches the game from the engine.
func (g *Game) Close() {
	if g.unsub != nil {
		g.unsub()
		g.unsub = nil
	}
}

// Update handles keyboard, focus and pointer input.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.eng.Paused() {
			g.eng.Resume()
		} else {
			g.eng.Pause()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.eng.Reset()
	}

	if focused := ebiten.IsFocused(); focused != g.focused {
		g.focused = focused
		if focused {
			g.eng.Resume()
		} else {
			g.eng.Pause()
		}
	}

	g.updatePointer()
	g.overlay.Update()
	g.hud.Update(g.size.W * g.scale)
	return nil
}

func (g *Game) updatePointer() {
	x, y := ebiten.CursorPosition()
	loc := CellAt(x, y, g.scale, g.size)
	if loc == core.OffGrid {
		g.eng.SetPointerLocation(core.OffGrid)
		g.eng.SetPointerDown(false)
		return
	}
	g.eng.SetPointerLocation(loc)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && g.eng.Paused() {
		g.eng.Resume()
	}
	g.eng.SetPointerDown(ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

// Draw renders the latest snapshot and requests the next tick when a new
// snapshot was drawn or the last tick aborted without publishing.
func (g *Game) Draw(screen *ebiten.Image) {
	fresh := g.pending.Swap(false)
	s := g.eng.Snapshot()
	if fresh {
		g.painter.Upload(s.Grid, render.Background)
	}
	g.painter.Draw(screen, g.scale)
	g.overlay.Draw(screen, s)
	g.hud.Draw(screen, g.size.W*g.scale)
	failures := g.eng.Failures()
	if fresh || failures != g.failures {
		g.failures = failures
		g.eng.Advance()
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size.W*g.scale + g.hudWidth, g.size.H * g.scale
}
