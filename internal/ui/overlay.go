//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"falling-sand/internal/core"
	"falling-sand/internal/engine"
)

// Overlay draws the frame statistics and the pointer marker on top of the
// simulation view.
type Overlay struct {
	scale       int
	showStats   bool
	showPointer bool
	pixel       *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{scale: scale, showStats: true, showPointer: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles overlay layers. 1 switches the statistics line, 2 the
// pointer marker.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showStats = !o.showStats
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showPointer = !o.showPointer
	}
}

// Draw renders the overlay for snapshot s onto screen.
func (o *Overlay) Draw(screen *ebiten.Image, s engine.State) {
	if o.showPointer && s.Pointer.Location != core.OffGrid {
		o.drawPointer(screen, s.Pointer)
	}
	if o.showStats {
		o.drawStats(screen, s)
	}
}

func (o *Overlay) drawPointer(screen *ebiten.Image, p core.PointerState) {
	col := color.RGBA{R: 40, G: 40, B: 48, A: 90}
	if p.Down {
		col = color.RGBA{R: 40, G: 40, B: 48, A: 180}
	}
	size := float64(o.scale)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(float64(p.Location.X)*size, float64(p.Location.Y)*size)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawStats(screen *ebiten.Image, s engine.State) {
	lines := StatusLines(s)
	face := basicfont.Face7x13
	width := 0
	for _, line := range lines {
		if w := text.BoundString(face, line).Dx(); w > width {
			width = w
		}
	}
	const pad = 4
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(width+2*pad), float64(len(lines)*statsLineHeight+2*pad))
	op.ColorScale.ScaleWithColor(color.RGBA{R: 16, G: 16, B: 20, A: 170})
	screen.DrawImage(o.pixel, op)
	for i, line := range lines {
		text.Draw(screen, line, face, pad, pad+(i+1)*statsLineHeight-3, color.RGBA{R: 235, G: 235, B: 240, A: 255})
	}
}

const statsLineHeight = 14
