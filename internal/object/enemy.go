package object

import "github.com/tomz197/mathblaster/internal/physics"

// FleeSpeedFactor multiplies an enemy's speed once it starts fleeing.
const FleeSpeedFactor = 3.0

// Enemy is a hostile ship descending the playfield.
type Enemy struct {
	ID        int
	X, Y      float64 // Position (center)
	Size      float64
	Speed     float64 // Units per tick
	Shield    int     // Remaining; may dip below zero within a resolution pass
	MaxShield int
	Behavior  BehaviorKind
	Fleeing   bool // Set once shield <= 0; takes no more damage
	Archetype string

	SpawnX float64 // Anchor for lateral motion patterns
	FieldW float64 // Field width, bounds lateral motion
	Age    int     // Ticks since spawn
}

// NewEnemy creates an enemy of archetype a with its center at (x, y).
func NewEnemy(id int, a Archetype, x, y float64, field Playfield) *Enemy {
	return &Enemy{
		ID:        id,
		X:         x,
		Y:         y,
		Size:      a.Size,
		Speed:     a.Speed,
		Shield:    a.Shield,
		MaxShield: a.Shield,
		Behavior:  a.Behavior,
		Archetype: a.Name,
		SpawnX:    x,
		FieldW:    field.Width,
	}
}

// Advance moves the enemy by one tick. Fleeing enemies head straight up.
func (e *Enemy) Advance() {
	e.Age++
	if e.Fleeing {
		e.Y -= e.Speed * FleeSpeedFactor
		return
	}
	e.X, e.Y = NextPosition(e, e.Age)
}

// Bounds returns the enemy's bounding box.
func (e *Enemy) Bounds() physics.Rect {
	return physics.CenteredSquare(e.X, e.Y, e.Size)
}

// Exited reports whether a fleeing enemy has fully left the field.
func (e *Enemy) Exited(f Playfield) bool {
	return e.Fleeing && !f.Contains(e.X, e.Y, e.Size)
}

// ReachedBottom reports whether a non-fleeing enemy has crossed the bottom edge.
func (e *Enemy) ReachedBottom(f Playfield) bool {
	return !e.Fleeing && e.Y-e.Size/2 > f.Height
}

// Destroyed reports the destruction predicate observed from outside combat.
func (e *Enemy) Destroyed() bool {
	return e.Shield <= 0
}
