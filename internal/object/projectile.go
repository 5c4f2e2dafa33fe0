package object

import (
	"math"

	"github.com/tomz197/mathblaster/internal/ammo"
	"github.com/tomz197/mathblaster/internal/physics"
)

// ProjectileSpeed is the base speed of projectiles in units per tick.
const ProjectileSpeed = 2.0

// ProjectileSize is the side of a projectile's bounding box.
const ProjectileSize = 1.0

// Projectile is a bullet fired by the player.
type Projectile struct {
	X, Y   float64 // Position (center)
	VX, VY float64 // Velocity per tick
	Damage int
	Tier   int // Firing tier, used to look up splash radius at impact
	Size   float64
}

// NewProjectile creates a projectile for tier at (x, y) travelling upward,
// rotated by offsetDeg degrees (positive = to the right).
func NewProjectile(x, y float64, tier ammo.WeaponTier, offsetDeg float64) *Projectile {
	rad := offsetDeg * math.Pi / 180
	return &Projectile{
		X:      x,
		Y:      y,
		VX:     math.Sin(rad) * ProjectileSpeed,
		VY:     -math.Cos(rad) * ProjectileSpeed,
		Damage: tier.Damage,
		Tier:   tier.Index,
		Size:   ProjectileSize,
	}
}

// Advance moves the projectile by one tick.
func (p *Projectile) Advance() {
	p.X += p.VX
	p.Y += p.VY
}

// OutOfBounds reports whether the projectile has left the field.
func (p *Projectile) OutOfBounds(f Playfield) bool {
	return !f.Contains(p.X, p.Y, p.Size)
}

// Bounds returns the projectile's bounding box.
func (p *Projectile) Bounds() physics.Rect {
	return physics.CenteredSquare(p.X, p.Y, p.Size)
}
