package combat

import (
	"cmp"
	"slices"

	"github.com/tomz197/mathblaster/internal/object"
	"github.com/tomz197/mathblaster/internal/physics"
)

// splashTarget is an enemy within splash range of an impact.
type splashTarget struct {
	enemy    *object.Enemy
	distance float64
}

// collectSplashTargets gathers every other non-fleeing enemy whose center lies
// within radius of the primary's center, sorted closest first. Enemies already
// at zero shield are skipped since they can absorb nothing.
func collectSplashTargets(grid *physics.SpatialGrid, enemies []*object.Enemy, primary *object.Enemy, radius float64, out []splashTarget) []splashTarget {
	grid.QueryRadius(primary.X, primary.Y, radius, func(i int) bool {
		e := enemies[i]
		if e == primary || e.Fleeing || e.Shield <= 0 {
			return false
		}
		if physics.PointInCircle(e.X, e.Y, primary.X, primary.Y, radius) {
			out = append(out, splashTarget{enemy: e, distance: physics.Distance(primary.X, primary.Y, e.X, e.Y)})
		}
		return false
	})

	slices.SortFunc(out, func(a, b splashTarget) int {
		if c := cmp.Compare(a.distance, b.distance); c != 0 {
			return c
		}
		return cmp.Compare(a.enemy.ID, b.enemy.ID)
	})
	return out
}

// distributeSplash greedily hands remaining damage to targets in order
// until it is used up.
func distributeSplash(targets []splashTarget, remaining, projectile int, hits []Hit) []Hit {
	for _, t := range targets {
		if remaining <= 0 {
			break
		}
		dealt := min(remaining, t.enemy.Shield)
		t.enemy.Shield -= dealt
		remaining -= dealt
		hits = append(hits, Hit{EnemyID: t.enemy.ID, Damage: dealt, Distance: t.distance, Projectile: projectile})
	}
	return hits
}
