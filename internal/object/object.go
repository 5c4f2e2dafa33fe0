// Package object defines the combat entities: projectiles, enemies, the
// player's ship and the playfield they move in.
package object

import "github.com/tomz197/mathblaster/internal/physics"

// Playfield is the logical game area. Origin is top-left, y grows downward.
type Playfield struct {
	Width  float64
	Height float64
}

// Contains reports whether (x, y) lies within the field expanded by margin.
func (f Playfield) Contains(x, y, margin float64) bool {
	return physics.InBounds(x, y, f.Width, f.Height, margin)
}

// CenterX returns the horizontal center of the field.
func (f Playfield) CenterX() float64 {
	return f.Width / 2
}
