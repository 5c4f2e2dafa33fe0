package game

import (
	"math/rand"

	"github.com/tomz197/mathblaster/internal/object"
	"github.com/tomz197/mathblaster/internal/progression"
)

// spawnMargin keeps spawned enemies this far from the side walls.
const spawnMargin = 2.0

// EnemySpawner drops a new enemy above the field every spawn interval.
type EnemySpawner struct {
	elapsed int
	nextID  int
	rng     *rand.Rand
	table   []object.Archetype
}

// NewEnemySpawner creates a spawner picking from table.
func NewEnemySpawner(rng *rand.Rand, table []object.Archetype) *EnemySpawner {
	return &EnemySpawner{rng: rng, table: table}
}

// Update advances the spawn timer one tick and returns a new enemy when it
// fires, or nil.
func (s *EnemySpawner) Update(interval, level int, field object.Playfield) *object.Enemy {
	s.elapsed++
	if s.elapsed < max(interval, 1) {
		return nil
	}
	s.elapsed = 0

	pool := progression.Spawnable(level, s.table)
	if len(pool) == 0 {
		return nil
	}
	a := pool[s.rng.Intn(len(pool))]

	half := a.Size/2 + spawnMargin
	span := max(field.Width-2*half, 0)
	x := half + s.rng.Float64()*span

	s.nextID++
	return object.NewEnemy(s.nextID, a, x, -a.Size/2, field)
}

// Reset restarts the timer. Enemy ids keep increasing.
func (s *EnemySpawner) Reset() {
	s.elapsed = 0
}
