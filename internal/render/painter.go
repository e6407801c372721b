//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"falling-sand/internal/core"
)

// GridPainter updates a single RGBA image from snapshot grids.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Upload refreshes the painter image from v. Views of a different size are
// ignored.
func (gp *GridPainter) Upload(v core.View, bg color.RGBA) {
	if !v.Valid() || v.Size() != (core.Size{W: gp.w, H: gp.h}) {
		return
	}
	fillCellsRGBA(gp.buf, v, bg)
	gp.img.WritePixels(gp.buf)
}

// Draw paints the last uploaded image onto dst at the given scale.
func (gp *GridPainter) Draw(dst *ebiten.Image, scale int) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
