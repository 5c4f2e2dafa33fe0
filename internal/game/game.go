// Package game owns the explicit game state and advances it one tick at a
// time. It performs no I/O; callers render the state and act on the events
// each step returns.
package game

import (
	"math/rand"
	"slices"
	"time"

	"github.com/tomz197/mathblaster/internal/ammo"
	"github.com/tomz197/mathblaster/internal/combat"
	"github.com/tomz197/mathblaster/internal/object"
	"github.com/tomz197/mathblaster/internal/practice"
	"github.com/tomz197/mathblaster/internal/progression"
	"github.com/tomz197/mathblaster/internal/reward"
	"github.com/tomz197/mathblaster/internal/weapon"
)

const (
	// ScorePerEnemy is awarded for every destroyed enemy.
	ScorePerEnemy = 10
	// DefaultLives is the starting life count.
	DefaultLives = 3
)

// Phase is the top-level mode of a game.
type Phase int

const (
	PhaseCombat Phase = iota
	PhaseMath         // Combat paused while the player earns ammo
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseCombat:
		return "combat"
	case PhaseMath:
		return "math"
	case PhaseGameOver:
		return "game_over"
	}
	return "unknown"
}

// Config holds the tunables of a game. Zero values select defaults.
type Config struct {
	Field             object.Playfield
	Lives             int
	MaxPerTier        int
	InitialRequired   int
	InitialSpawnTicks int
	Seed              int64
}

// Input is the player's intent for one tick.
type Input struct {
	Now          time.Time
	Move         int // -1 left, 0 none, +1 right
	Fire         bool
	Select       bool
	SelectTier   int // Used when Select is set
	Upgrade      bool
	Downgrade    bool
	ToggleTriple bool
}

// Game is the complete state of one player's session.
type Game struct {
	cfg Config

	Field       object.Playfield
	Ship        *object.Ship
	Projectiles []*object.Projectile
	Enemies     []*object.Enemy

	Bank     *ammo.Bank
	Weapon   *weapon.FireControl
	Progress *progression.Controller
	Practice *practice.Session

	Score     int
	Lives     int
	Destroyed int // Enemies destroyed this game
	Tick      int

	phase    Phase
	resolver *combat.Resolver
	spawner  *EnemySpawner
}

// New creates a game ready to play.
func New(cfg Config) *Game {
	if cfg.Field.Width <= 0 || cfg.Field.Height <= 0 {
		cfg.Field = object.Playfield{Width: 120, Height: 80}
	}
	if cfg.Lives <= 0 {
		cfg.Lives = DefaultLives
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	bank := ammo.NewBank(cfg.MaxPerTier)
	g := &Game{
		cfg:      cfg,
		Field:    cfg.Field,
		Bank:     bank,
		Weapon:   weapon.NewFireControl(bank),
		Practice: practice.NewSession(bank),
		resolver: combat.NewResolver(cfg.Field),
		spawner:  NewEnemySpawner(rand.New(rand.NewSource(cfg.Seed)), object.Archetypes),
	}
	g.start()
	return g
}

func (g *Game) start() {
	g.Ship = object.NewShip(g.Field)
	g.Projectiles = g.Projectiles[:0]
	g.Enemies = g.Enemies[:0]
	g.Progress = progression.NewController(g.cfg.InitialRequired, g.cfg.InitialSpawnTicks)
	g.Weapon.Reset()
	g.Practice.Cancel()
	g.spawner.Reset()
	g.Score = 0
	g.Lives = g.cfg.Lives
	g.Destroyed = 0
	g.Tick = 0
	g.phase = PhaseCombat
}

// Reset starts a new game. The bank is emptied unless persistAmmo is set.
func (g *Game) Reset(persistAmmo bool) {
	if !persistAmmo {
		g.Bank.ClearAll()
	}
	g.start()
}

// Phase returns the current mode.
func (g *Game) Phase() Phase {
	return g.phase
}

// Level returns the current progression level.
func (g *Game) Level() int {
	return g.Progress.Level()
}

// Update advances combat by one tick and returns what changed. It does
// nothing outside PhaseCombat.
func (g *Game) Update(in Input) []Event {
	if g.phase != PhaseCombat {
		return nil
	}
	g.Tick++

	var events []Event
	events = g.applyWeaponCommands(in, events)
	g.Ship.Move(in.Move, g.Field)
	if in.Fire {
		events = g.fire(in.Now, events)
	}

	g.moveProjectiles()

	events = g.moveEnemies(events)
	if g.phase == PhaseGameOver {
		return events
	}

	events = g.resolveCollisions(events)

	if e := g.spawner.Update(g.Progress.SpawnInterval(), g.Progress.Level(), g.Field); e != nil {
		g.Enemies = append(g.Enemies, e)
	}
	return events
}

func (g *Game) applyWeaponCommands(in Input, events []Event) []Event {
	before := g.Weapon.Current()
	if in.Select {
		g.Weapon.SelectTier(in.SelectTier)
	}
	if in.Upgrade {
		g.Weapon.Upgrade()
	}
	if in.Downgrade {
		g.Weapon.Downgrade()
	}
	if in.ToggleTriple {
		g.Weapon.ToggleTriple()
	}
	if g.Weapon.Current() != before {
		events = append(events, tierChanged(g.Weapon.Current()))
	}
	return events
}

func (g *Game) fire(now time.Time, events []Event) []Event {
	before := g.Weapon.Current()
	x, y := g.Ship.Muzzle()
	shots, ok := g.Weapon.Fire(now, x, y)
	if !ok {
		return events
	}
	g.Projectiles = append(g.Projectiles, shots...)

	tier := g.Weapon.Current()
	if tier != before {
		events = append(events, tierChanged(tier))
	}
	if tier != 0 {
		events = append(events, ammoChanged(tier, g.Bank.Count(tier)))
	}
	return events
}

func (g *Game) moveProjectiles() {
	for _, p := range g.Projectiles {
		p.Advance()
	}
	g.Projectiles = slices.DeleteFunc(g.Projectiles, func(p *object.Projectile) bool {
		return p.OutOfBounds(g.Field)
	})
}

func (g *Game) moveEnemies(events []Event) []Event {
	kept := g.Enemies[:0]
	for _, e := range g.Enemies {
		e.Advance()
		switch {
		case e.Exited(g.Field):
			continue
		case e.ReachedBottom(g.Field):
			g.Lives = max(g.Lives-1, 0)
			events = append(events, lifeLost(g.Lives))
			continue
		}
		kept = append(kept, e)
	}
	clear(g.Enemies[len(kept):])
	g.Enemies = kept

	if g.Lives <= 0 {
		g.Lives = 0
		g.phase = PhaseGameOver
		g.Practice.Cancel()
		events = append(events, Event{Kind: EventGameOver, Value: g.Score})
	}
	return events
}

func (g *Game) resolveCollisions(events []Event) []Event {
	res := g.resolver.Resolve(g.Projectiles, g.Enemies)
	if len(res.Consumed) > 0 {
		consumed := make(map[int]struct{}, len(res.Consumed))
		for _, i := range res.Consumed {
			consumed[i] = struct{}{}
		}
		kept := g.Projectiles[:0]
		for i, p := range g.Projectiles {
			if _, hit := consumed[i]; !hit {
				kept = append(kept, p)
			}
		}
		clear(g.Projectiles[len(kept):])
		g.Projectiles = kept
	}

	for _, e := range res.Destroyed {
		g.Score += ScorePerEnemy
		g.Destroyed++
		events = append(events, destroyed(e.ID), scoreChanged(g.Score))
		if g.Progress.RecordDestroyed() {
			events = append(events, levelChanged(g.Progress.Level()))
		}
	}
	return events
}

// EnterMath pauses combat and requests a problem for tier.
func (g *Game) EnterMath(tier int) (practice.Token, bool) {
	if g.phase == PhaseGameOver {
		return "", false
	}
	tok, ok := g.Practice.Begin(tier)
	if !ok {
		return "", false
	}
	g.phase = PhaseMath
	return tok, true
}

// NextProblem requests another problem for the current practice tier.
func (g *Game) NextProblem() (practice.Token, bool) {
	if g.phase != PhaseMath {
		return "", false
	}
	return g.Practice.Begin(g.Practice.Tier())
}

// ExitMath discards pending problems and resumes combat.
func (g *Game) ExitMath() {
	if g.phase != PhaseMath {
		return
	}
	g.Practice.Cancel()
	g.phase = PhaseCombat
}

// DeliverProblem hands an oracle response to the practice session.
func (g *Game) DeliverProblem(tok practice.Token, p practice.Problem, now time.Time) bool {
	if g.phase != PhaseMath {
		return false
	}
	return g.Practice.Deliver(tok, p, now)
}

// SubmitAnswer grades input and reports the ammo change on a correct answer.
func (g *Game) SubmitAnswer(input string, now time.Time) (reward.Outcome, []Event, error) {
	out, err := g.Practice.Submit(input, now)
	if err != nil {
		return out, nil, err
	}
	var events []Event
	if out.Correct {
		events = append(events, ammoChanged(out.Tier, g.Bank.Count(out.Tier)))
	}
	return out, events, nil
}
