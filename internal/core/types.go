package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Coordinate addresses a grid cell. X indexes columns and Y indexes rows,
// with (0,0) at the top-left and rows growing downward.
type Coordinate struct {
	X int
	Y int
}

// OffGrid is the pointer location used when the pointer is not over the grid.
var OffGrid = Coordinate{X: -1, Y: -1}

// PointerState is the latest known pointer button and location.
type PointerState struct {
	Down     bool
	Location Coordinate
}

// HueRange is the number of distinct hue steps before the cursor wraps.
const HueRange = 360

// Color is the value carried by a particle. The engine only stores it and
// advances the hue cursor; interpretation is up to the renderer.
type Color struct {
	Hue        int
	Saturation float64
	Lightness  float64
}

// Cell is either empty or holds the color of one particle.
type Cell struct {
	Color
	Occupied bool
}

// Empty is the value of a cell without a particle.
var Empty = Cell{}

// Particle returns an occupied cell with the given color.
func Particle(c Color) Cell {
	return Cell{Color: c, Occupied: true}
}

// NextHue advances a hue cursor by one step, wrapping at HueRange.
func NextHue(hue int) int {
	hue++
	if hue >= HueRange || hue < 0 {
		return 0
	}
	return hue
}
