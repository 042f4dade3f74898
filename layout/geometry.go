package layout

import "math"

// Size is a page size in points.
type Size struct {
	W, H float64
}

// Point is a position in points from the top-left page corner.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box; (X, Y) is its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the centre of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Color is an RGB colour with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Gray returns a neutral colour of the given level.
func Gray(level float64) Color {
	return Color{R: level, G: level, B: level}
}

// RGB255 returns the components scaled to 0..255.
func (c Color) RGB255() (r, g, b int) {
	return to255(c.R), to255(c.G), to255(c.B)
}

func to255(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
