package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/mathblaster/internal/object"
	"github.com/tomz197/mathblaster/internal/practice"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestGame(cfg Config) *Game {
	cfg.Seed = 7
	return New(cfg)
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestNewDefaults(t *testing.T) {
	g := newTestGame(Config{})

	assert.Equal(t, PhaseCombat, g.Phase())
	assert.Equal(t, DefaultLives, g.Lives)
	assert.Equal(t, 1, g.Level())
	assert.Equal(t, 120.0, g.Field.Width)
	assert.Equal(t, 0, g.Weapon.Current())
}

func TestSpawnOnInterval(t *testing.T) {
	g := newTestGame(Config{InitialSpawnTicks: 5})

	for range 4 {
		g.Update(Input{Now: t0})
	}
	assert.Empty(t, g.Enemies)

	g.Update(Input{Now: t0})
	require.Len(t, g.Enemies, 1)
	e := g.Enemies[0]
	assert.Equal(t, "scout", e.Archetype, "only scouts unlock at level 1")
	assert.GreaterOrEqual(t, e.X, e.Size/2)
	assert.LessOrEqual(t, e.X, g.Field.Width-e.Size/2)
}

func TestDestroyScoresAndLevelsUp(t *testing.T) {
	g := newTestGame(Config{InitialRequired: 1})
	e := object.NewEnemy(99, object.Archetypes[0], 60, 40, g.Field)
	g.Enemies = append(g.Enemies, e)
	g.Projectiles = append(g.Projectiles, &object.Projectile{X: 60, Y: 42, VY: -2, Damage: 1, Size: 1})

	events := g.Update(Input{Now: t0})

	assert.Equal(t, []EventKind{EventEnemyDestroyed, EventScoreChanged, EventLevelChanged}, kinds(events))
	assert.Equal(t, 99, events[0].EnemyID)
	assert.Equal(t, ScorePerEnemy, g.Score)
	assert.Equal(t, 2, g.Level())
	assert.Equal(t, 1, g.Destroyed)
	assert.Empty(t, g.Projectiles, "projectile is consumed")
	assert.True(t, e.Fleeing)
}

func TestFleeingEnemyRemovedAfterExit(t *testing.T) {
	g := newTestGame(Config{})
	e := object.NewEnemy(1, object.Archetypes[0], 60, 1, g.Field)
	e.Fleeing = true
	g.Enemies = append(g.Enemies, e)

	for range 10 {
		g.Update(Input{Now: t0})
	}

	assert.Empty(t, g.Enemies)
	assert.Equal(t, DefaultLives, g.Lives)
}

func TestLifeLossAndGameOver(t *testing.T) {
	g := newTestGame(Config{Lives: 2})
	g.Enemies = append(g.Enemies,
		object.NewEnemy(1, object.Archetypes[0], 30, 85, g.Field),
	)

	events := g.Update(Input{Now: t0})
	assert.Equal(t, []EventKind{EventLifeLost}, kinds(events))
	assert.Equal(t, 1, events[0].Value)
	assert.Empty(t, g.Enemies)

	g.Enemies = append(g.Enemies, object.NewEnemy(2, object.Archetypes[0], 30, 85, g.Field))
	events = g.Update(Input{Now: t0})
	assert.Equal(t, []EventKind{EventLifeLost, EventGameOver}, kinds(events))
	assert.Equal(t, PhaseGameOver, g.Phase())

	tick := g.Tick
	assert.Nil(t, g.Update(Input{Now: t0}))
	assert.Equal(t, tick, g.Tick)
}

func TestFireDowngradesAndReportsAmmo(t *testing.T) {
	g := newTestGame(Config{})
	g.Bank.Credit(2, 5)

	events := g.Update(Input{Now: t0, Select: true, SelectTier: 5})
	assert.Equal(t, []EventKind{EventTierChanged}, kinds(events))

	events = g.Update(Input{Now: t0, Fire: true})
	require.Equal(t, []EventKind{EventTierChanged, EventAmmoChanged}, kinds(events))
	assert.Equal(t, 2, events[0].Tier)
	assert.Equal(t, 4, events[1].Count)
	require.Len(t, g.Projectiles, 1)
	assert.Equal(t, 2, g.Projectiles[0].Tier)
}

func TestProjectilesLeaveField(t *testing.T) {
	g := newTestGame(Config{})
	g.Update(Input{Now: t0, Fire: true})
	require.Len(t, g.Projectiles, 1)

	for range 60 {
		g.Update(Input{Now: t0})
	}
	assert.Empty(t, g.Projectiles)
}

func TestMathModePausesCombat(t *testing.T) {
	g := newTestGame(Config{InitialSpawnTicks: 1})

	tok, ok := g.EnterMath(3)
	require.True(t, ok)
	assert.Equal(t, PhaseMath, g.Phase())

	assert.Nil(t, g.Update(Input{Now: t0}))
	assert.Empty(t, g.Enemies)
	assert.Zero(t, g.Tick)

	require.True(t, g.DeliverProblem(tok, practice.Problem{Question: "2 + 3", Answer: 5}, t0))
	out, events, err := g.SubmitAnswer("5", t0)
	require.NoError(t, err)
	assert.True(t, out.Correct)
	assert.Equal(t, 100, g.Bank.Count(3))
	require.Len(t, events, 1)
	assert.Equal(t, Event{Kind: EventAmmoChanged, Tier: 3, Count: 100}, events[0])

	next, ok := g.NextProblem()
	require.True(t, ok)
	g.ExitMath()
	assert.Equal(t, PhaseCombat, g.Phase())
	assert.False(t, g.DeliverProblem(next, practice.Problem{Question: "1 + 1", Answer: 2}, t0))
}

func TestEnterMathRejectsTierZero(t *testing.T) {
	g := newTestGame(Config{})
	_, ok := g.EnterMath(0)
	assert.False(t, ok)
	assert.Equal(t, PhaseCombat, g.Phase())
}

func TestResetAmmoPersistence(t *testing.T) {
	g := newTestGame(Config{})
	g.Bank.Credit(4, 30)
	g.Score = 50

	g.Reset(true)
	assert.Equal(t, 30, g.Bank.Count(4))
	assert.Zero(t, g.Score)

	g.Reset(false)
	assert.Zero(t, g.Bank.Count(4))
	assert.Equal(t, PhaseCombat, g.Phase())
}
