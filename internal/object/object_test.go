package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/mathblaster/internal/ammo"
)

var testField = Playfield{Width: 120, Height: 80}

func TestProjectileTravelsUp(t *testing.T) {
	p := NewProjectile(60, 70, ammo.Tiers[3], 0)
	assert.Equal(t, 4, p.Damage)
	assert.Equal(t, 3, p.Tier)
	assert.InDelta(t, 0, p.VX, 1e-9)
	assert.InDelta(t, -ProjectileSpeed, p.VY, 1e-9)

	p.Advance()
	assert.InDelta(t, 68, p.Y, 1e-9)

	right := NewProjectile(60, 70, ammo.Tiers[3], 8)
	left := NewProjectile(60, 70, ammo.Tiers[3], -8)
	assert.Greater(t, right.VX, 0.0)
	assert.Less(t, left.VX, 0.0)
	assert.InDelta(t, right.VY, left.VY, 1e-9)
}

func TestProjectileOutOfBounds(t *testing.T) {
	p := NewProjectile(60, 1, ammo.Tiers[0], 0)
	assert.False(t, p.OutOfBounds(testField))
	p.Advance()
	p.Advance()
	assert.True(t, p.OutOfBounds(testField))
}

func TestEnemyReachesBottom(t *testing.T) {
	e := NewEnemy(1, Archetypes[0], 30, 78, testField)
	assert.False(t, e.ReachedBottom(testField))
	for i := 0; i < 40; i++ {
		e.Advance()
	}
	assert.True(t, e.ReachedBottom(testField))
	assert.InDelta(t, 30, e.X, 1e-9, "straight enemies keep their column")
}

func TestFleeingEnemyExitsUpward(t *testing.T) {
	e := NewEnemy(1, Archetypes[0], 30, 5, testField)
	e.Fleeing = true
	assert.False(t, e.ReachedBottom(testField), "fleeing enemies never cost a life")

	for i := 0; i < 100 && !e.Exited(testField); i++ {
		e.Advance()
	}
	assert.True(t, e.Exited(testField))
	assert.Less(t, e.Y, 0.0)
}

func TestNextPositionIsPure(t *testing.T) {
	for kind := BehaviorStraight; kind < numBehaviors; kind++ {
		e := &Enemy{X: 50, Y: 10, Size: 4, Speed: 0.5, Behavior: kind, SpawnX: 50, FieldW: 120}
		before := *e
		x, y := NextPosition(e, 7)
		assert.Equal(t, before, *e, kind.String())
		assert.Greater(t, y, e.Y, "%s descends", kind)
		assert.GreaterOrEqual(t, x, 2.0)
		assert.LessOrEqual(t, x, 118.0)
	}
}

func TestDriftStaysOnField(t *testing.T) {
	e := NewEnemy(1, Archetype{Name: "d", Shield: 1, Speed: 2, Size: 4, Behavior: BehaviorDrift}, 100, 0, testField)
	for i := 0; i < 500; i++ {
		e.Advance()
		require.GreaterOrEqual(t, e.X, 2.0-1e-9)
		require.LessOrEqual(t, e.X, 118.0+1e-9)
	}
}

func TestChargeDives(t *testing.T) {
	e := &Enemy{Y: 0, Speed: 1, Behavior: BehaviorCharge}
	_, slow := NextPosition(e, 1)
	_, fast := NextPosition(e, chargeDelay)
	assert.Less(t, slow, fast)
}

func TestUnknownBehaviorFallsBack(t *testing.T) {
	e := &Enemy{X: 3, Y: 4, Speed: 1, Behavior: BehaviorKind(42)}
	x, y := NextPosition(e, 1)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 5.0, y)
	assert.Equal(t, "unknown", e.Behavior.String())
}

func TestArchetypeFloor(t *testing.T) {
	hasFloor := false
	for _, a := range Archetypes {
		assert.GreaterOrEqual(t, a.MinLevel, 1)
		assert.Positive(t, a.Shield)
		if a.MinLevel == 1 {
			hasFloor = true
		}
	}
	assert.True(t, hasFloor)
}

func TestShipStaysOnField(t *testing.T) {
	s := NewShip(testField)
	for i := 0; i < 200; i++ {
		s.Move(-1, testField)
	}
	assert.InDelta(t, s.Size/2, s.X, 1e-9)
	for i := 0; i < 200; i++ {
		s.Move(1, testField)
	}
	assert.InDelta(t, testField.Width-s.Size/2, s.X, 1e-9)
}
