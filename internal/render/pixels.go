package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"falling-sand/internal/core"
)

// Background is the colour of empty cells.
var Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// CellColor converts a particle colour to RGBA. Saturation and lightness are
// percentages; values outside 0-100 are clamped into gamut here rather than
// rejected by the engine.
func CellColor(c core.Color) color.RGBA {
	hsl := colorful.Hsl(float64(c.Hue), c.Saturation/100, c.Lightness/100).Clamped()
	r, g, b := hsl.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// fillCellsRGBA converts grid cells into RGBA pixels in buf. Pixels are laid
// out row by row; buf must hold 4*cols*rows bytes.
func fillCellsRGBA(buf []byte, v core.View, bg color.RGBA) {
	cols, _ := v.Dimensions()
	v.Each(func(x, y int, c core.Cell) {
		base := (y*cols + x) * 4
		col := bg
		if c.Occupied {
			col = CellColor(c.Color)
		}
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	})
}

// Pixels returns a freshly allocated RGBA buffer for the view.
func Pixels(v core.View, bg color.RGBA) []byte {
	cols, rows := v.Dimensions()
	buf := make([]byte, 4*cols*rows)
	fillCellsRGBA(buf, v, bg)
	return buf
}
