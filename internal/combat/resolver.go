// Package combat resolves projectile hits against enemies, including
// splash damage and destruction bookkeeping.
package combat

import (
	"github.com/tomz197/mathblaster/internal/ammo"
	"github.com/tomz197/mathblaster/internal/object"
	"github.com/tomz197/mathblaster/internal/physics"
)

// gridCellSize is the broad-phase cell size. Queries pass their own reach,
// so it only needs to be on the order of an enemy's size.
const gridCellSize = 10.0

// Hit records damage applied to one enemy by one projectile.
type Hit struct {
	EnemyID    int
	Damage     int
	Primary    bool
	Distance   float64 // From the impact point; 0 for the primary target
	Projectile int     // Index into the resolved projectile slice
}

// Result is the outcome of one resolution pass.
type Result struct {
	Consumed  []int           // Indices of projectiles that hit something
	Hits      []Hit           // Damage applications in resolution order
	Destroyed []*object.Enemy // Enemies that transitioned to fleeing, in order
}


// Resolver detects projectile-enemy overlaps each tick.
// It keeps a reusable spatial grid, so a Resolver must not be shared between games.
type Resolver struct {
	grid       *physics.SpatialGrid
	candidates []splashTarget // Reused between projectiles
}

// NewResolver creates a resolver for the given playfield.
func NewResolver(field object.Playfield) *Resolver {
	return &Resolver{
		grid: physics.NewSpatialGrid(field.Width, field.Height, gridCellSize),
	}
}

// Resolve applies every projectile to the enemy set. Enemies are mutated in
// place: shields drop and destroyed enemies start fleeing.
//
// When several enemies overlap one projectile the primary target is whichever
// the broad phase yields first; callers must not rely on a particular choice.
func (r *Resolver) Resolve(projectiles []*object.Projectile, enemies []*object.Enemy) Result {
	var res Result
	if len(projectiles) == 0 || len(enemies) == 0 {
		return res
	}

	maxHalf := 0.0
	r.grid.Clear()
	for i, e := range enemies {
		r.grid.Insert(e.X, e.Y, i)
		maxHalf = max(maxHalf, e.Size/2)
	}

	for pi, p := range projectiles {
		primary := r.findPrimary(p, enemies, p.Size/2+maxHalf)
		if primary == nil {
			continue
		}

		res.Consumed = append(res.Consumed, pi)
		res.Hits = r.applyDamage(p, pi, primary, enemies, res.Hits)
		res.Destroyed = markDestroyed(enemies, res.Destroyed)
	}

	return res
}

// findPrimary returns an enemy overlapping p, or nil.
func (r *Resolver) findPrimary(p *object.Projectile, enemies []*object.Enemy, reach float64) *object.Enemy {
	var hit *object.Enemy
	pb := p.Bounds()
	r.grid.QueryRadius(p.X, p.Y, reach, func(i int) bool {
		e := enemies[i]
		if e.Fleeing || !physics.RectsOverlap(pb, e.Bounds()) {
			return false
		}
		hit = e
		return true
	})
	return hit
}

// applyDamage applies p's damage to primary and, for splash tiers, spreads
// the remainder over nearby enemies.
func (r *Resolver) applyDamage(p *object.Projectile, pi int, primary *object.Enemy, enemies []*object.Enemy, hits []Hit) []Hit {
	damage := max(p.Damage, 0)
	radius := ammo.Tier(p.Tier).SplashRadius

	if radius <= 0 {
		primary.Shield -= damage
		return append(hits, Hit{EnemyID: primary.ID, Damage: damage, Primary: true, Projectile: pi})
	}

	applied := min(damage, primary.Shield)
	primary.Shield -= applied
	hits = append(hits, Hit{EnemyID: primary.ID, Damage: applied, Primary: true, Projectile: pi})

	remaining := damage - applied
	if remaining <= 0 {
		return hits
	}

	r.candidates = collectSplashTargets(r.grid, enemies, primary, radius, r.candidates[:0])
	return distributeSplash(r.candidates, remaining, pi, hits)
}

// markDestroyed transitions every enemy at or below zero shield to fleeing,
// not only those touched by the last projectile, so one splash can credit
// several kills in the same pass.
func markDestroyed(enemies []*object.Enemy, destroyed []*object.Enemy) []*object.Enemy {
	for _, e := range enemies {
		if e.Shield <= 0 && !e.Fleeing {
			e.Fleeing = true
			destroyed = append(destroyed, e)
		}
	}
	return destroyed
}
