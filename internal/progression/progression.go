// Package progression tracks level advancement and spawn-rate scaling.
package progression

import "github.com/tomz197/mathblaster/internal/object"

const (
	DefaultInitialRequired   = 10
	DefaultInitialSpawnTicks = 120
	RequiredIncrement        = 2
)

// band is one row of the spawn interval schedule.
type band struct {
	below     int // Applies while the new level is below this (0 = no bound)
	decrement int
	floor     int
}

// spawnBands is ordered by level; the last band is open-ended.
var spawnBands = []band{
	{below: 5, decrement: 5, floor: 60},
	{below: 10, decrement: 8, floor: 40},
	{below: 0, decrement: 10, floor: 20},
}

// State is the progression snapshot exposed to the HUD and persistence.
type State struct {
	Level              int
	DestroyedThisLevel int
	RequiredThisLevel  int
	SpawnIntervalTicks int
}

// Controller advances State as enemies are destroyed.
type Controller struct {
	state State
}

// NewController returns a controller at level 1. Non-positive arguments
// fall back to the defaults.
func NewController(initialRequired, initialSpawnTicks int) *Controller {
	if initialRequired <= 0 {
		initialRequired = DefaultInitialRequired
	}
	if initialSpawnTicks <= 0 {
		initialSpawnTicks = DefaultInitialSpawnTicks
	}
	return &Controller{state: State{
		Level:              1,
		RequiredThisLevel:  initialRequired,
		SpawnIntervalTicks: initialSpawnTicks,
	}}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Level returns the current level.
func (c *Controller) Level() int {
	return c.state.Level
}

// SpawnInterval returns the current ticks between spawns.
func (c *Controller) SpawnInterval() int {
	return c.state.SpawnIntervalTicks
}

// RecordDestroyed counts one destroyed enemy and reports whether it
// completed the level.
func (c *Controller) RecordDestroyed() bool {
	c.state.DestroyedThisLevel++
	if c.state.DestroyedThisLevel < c.state.RequiredThisLevel {
		return false
	}
	c.levelUp()
	return true
}

func (c *Controller) levelUp() {
	c.state.Level++
	c.state.DestroyedThisLevel = 0
	c.state.RequiredThisLevel += RequiredIncrement
	c.state.SpawnIntervalTicks = NextSpawnInterval(c.state.SpawnIntervalTicks, c.state.Level)
}

// NextSpawnInterval applies the band for newLevel to current. The result
// never exceeds current, even when current is already below the band floor.
func NextSpawnInterval(current, newLevel int) int {
	b := bandFor(newLevel)
	next := max(current-b.decrement, b.floor)
	return min(next, current)
}

func bandFor(level int) band {
	for _, b := range spawnBands {
		if b.below == 0 || level < b.below {
			return b
		}
	}
	return spawnBands[len(spawnBands)-1]
}

// Spawnable returns the archetypes unlocked at level, in table order.
func Spawnable(level int, archetypes []object.Archetype) []object.Archetype {
	var out []object.Archetype
	for _, a := range archetypes {
		if a.MinLevel <= level {
			out = append(out, a)
		}
	}
	return out
}
