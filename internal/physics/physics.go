// Package physics provides collision detection and distance utilities.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Rect is an axis-aligned bounding box given by its center and half extents.
type Rect struct {
	X, Y         float64 // Center
	HalfW, HalfH float64
}

// CenteredSquare returns the bounding box of a square of the given side centered on (x, y).
func CenteredSquare(x, y, size float64) Rect {
	return Rect{X: x, Y: y, HalfW: size / 2, HalfH: size / 2}
}

// RectsOverlap reports whether two boxes intersect. Touching edges count as overlap.
func RectsOverlap(a, b Rect) bool {
	return math.Abs(a.X-b.X) <= a.HalfW+b.HalfW &&
		math.Abs(a.Y-b.Y) <= a.HalfH+b.HalfH
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// InBounds reports whether a point lies inside [0,w) x [0,h) expanded by margin on every side.
func InBounds(x, y, w, h, margin float64) bool {
	return x >= -margin && x < w+margin && y >= -margin && y < h+margin
}
