package loop

import (
	"github.com/tomz197/mathblaster/internal/ammo"
	"github.com/tomz197/mathblaster/internal/game"
)

// HUD is the presentation copy of the values shown in the status lines. It
// changes only through Sync and Apply.
type HUD struct {
	Score     int
	Level     int
	Lives     int
	Tier      int
	Destroyed int
	Ammo      [ammo.NumTiers]int
	GameOver  bool
}

// Sync copies every displayed value from g, e.g. after a reset.
func (h *HUD) Sync(g *game.Game) {
	h.Score = g.Score
	h.Level = g.Level()
	h.Lives = g.Lives
	h.Tier = g.Weapon.Current()
	h.Destroyed = g.Destroyed
	h.GameOver = g.Phase() == game.PhaseGameOver
	for t := range ammo.NumTiers {
		h.Ammo[t] = g.Bank.Count(t)
	}
}

// Apply folds step events into the HUD.
func (h *HUD) Apply(events []game.Event) {
	for _, e := range events {
		switch e.Kind {
		case game.EventScoreChanged:
			h.Score = e.Value
		case game.EventLevelChanged:
			h.Level = e.Value
		case game.EventAmmoChanged:
			if ammo.ValidTier(e.Tier) {
				h.Ammo[e.Tier] = e.Count
			}
		case game.EventEnemyDestroyed:
			h.Destroyed++
		case game.EventLifeLost:
			h.Lives = e.Value
		case game.EventGameOver:
			h.GameOver = true
			h.Score = e.Value
		case game.EventTierChanged:
			h.Tier = e.Tier
		}
	}
}
