package object

// Ship is the player-controlled cannon at the bottom of the field.
type Ship struct {
	X, Y  float64 // Position (center)
	Speed float64 // Lateral units per tick
	Size  float64
}

// NewShip creates a ship centered horizontally near the bottom of f.
func NewShip(f Playfield) *Ship {
	size := 4.0
	return &Ship{
		X:     f.CenterX(),
		Y:     f.Height - size,
		Speed: 1.5,
		Size:  size,
	}
}

// Move shifts the ship by dir (-1 left, +1 right) and keeps it on the field.
func (s *Ship) Move(dir int, f Playfield) {
	s.X += float64(dir) * s.Speed
	half := s.Size / 2
	if s.X < half {
		s.X = half
	}
	if s.X > f.Width-half {
		s.X = f.Width - half
	}
}

// Muzzle returns the point projectiles are fired from.
func (s *Ship) Muzzle() (float64, float64) {
	return s.X, s.Y - s.Size/2
}
