package game

import "fmt"

// EventKind identifies a HUD-facing state change.
type EventKind int

const (
	EventScoreChanged EventKind = iota
	EventLevelChanged
	EventAmmoChanged
	EventEnemyDestroyed
	EventLifeLost
	EventGameOver
	EventTierChanged
)

var eventNames = [...]string{
	EventScoreChanged:   "score_changed",
	EventLevelChanged:   "level_changed",
	EventAmmoChanged:    "ammo_changed",
	EventEnemyDestroyed: "enemy_destroyed",
	EventLifeLost:       "life_lost",
	EventGameOver:       "game_over",
	EventTierChanged:    "tier_changed",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is emitted by a simulation step. Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	Value   int // Score, level or lives remaining
	Tier    int
	Count   int // Ammo count for EventAmmoChanged
	EnemyID int
}

func scoreChanged(score int) Event { return Event{Kind: EventScoreChanged, Value: score} }
func levelChanged(level int) Event { return Event{Kind: EventLevelChanged, Value: level} }
func lifeLost(remaining int) Event { return Event{Kind: EventLifeLost, Value: remaining} }
func tierChanged(tier int) Event { return Event{Kind: EventTierChanged, Tier: tier} }
func destroyed(id int) Event { return Event{Kind: EventEnemyDestroyed, EnemyID: id} }
func ammoChanged(tier, n int) Event { return Event{Kind: EventAmmoChanged, Tier: tier, Count: n} }
