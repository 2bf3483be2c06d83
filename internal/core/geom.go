// Package core provides the world and terminal primitives shared by the
// simulation and the frontends. It has no external dependencies so the
// game logic stays pure and testable.
package core

// Vec is a point or displacement in world units. Y grows upwards.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by f.
func (v Vec) Scale(f float64) Vec {
	return Vec{X: v.X * f, Y: v.Y * f}
}

// Box is an axis-aligned bounding box described by its centre and full size,
// the same convention the physics bodies use.
type Box struct {
	Center Vec
	Size   Vec
}

// NewBox creates a box centred at (x, y) with the given dimensions.
func NewBox(x, y, w, h float64) Box {
	return Box{Center: Vec{X: x, Y: y}, Size: Vec{X: w, Y: h}}
}

// Left returns the x-coordinate of the left edge.
func (b Box) Left() float64 { return b.Center.X - b.Size.X/2 }

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 { return b.Center.X + b.Size.X/2 }

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Center.Y - b.Size.Y/2 }

// Top returns the y-coordinate of the top edge.
func (b Box) Top() float64 { return b.Center.Y + b.Size.Y/2 }

// Overlaps reports whether the interiors of the two boxes intersect.
// Boxes that only share an edge do not overlap.
func (b Box) Overlaps(o Box) bool {
	if b.Left() >= o.Right() || o.Left() >= b.Right() {
		return false
	}
	if b.Bottom() >= o.Top() || o.Bottom() >= b.Top() {
		return false
	}
	return true
}

// Touches reports whether the boxes overlap or lie within slop of each other
// on both axes. Resting contact is detected this way.
func (b Box) Touches(o Box, slop float64) bool {
	if b.Left() > o.Right()+slop || o.Left() > b.Right()+slop {
		return false
	}
	if b.Bottom() > o.Top()+slop || o.Bottom() > b.Top()+slop {
		return false
	}
	return true
}

// Contains returns true if the point lies inside the box (edges inclusive).
func (b Box) Contains(p Vec) bool {
	return p.X >= b.Left() && p.X <= b.Right() && p.Y >= b.Bottom() && p.Y <= b.Top()
}

// Rect is an integer rectangle in screen cells, origin top-left.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
