// Package core provides the platform-neutral types shared by the game and
// its front ends. It has no Bubble Tea dependency so game logic stays pure
// and testable.
package core

// Rect is an axis-aligned rectangle on the screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Center returns the center point of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Centered returns a w×h rectangle centered inside r.
func (r Rect) Centered(w, h int) Rect {
	cx, cy := r.Center()
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
