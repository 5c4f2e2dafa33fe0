// Package weapon handles tier selection, fire-rate limiting and
// auto-downgrade when a magazine runs dry.
package weapon

import (
	"time"

	"github.com/tomz197/mathblaster/internal/ammo"
	"github.com/tomz197/mathblaster/internal/object"
)

const (
	// MinShotInterval is the minimum time between accepted shots.
	MinShotInterval = 150 * time.Millisecond
	// SpreadDegreesPerPower is the angular offset of triple-fire side shots per tier power.
	SpreadDegreesPerPower = 2.0
	// TripleCost is the rounds debited by one triple shot.
	TripleCost = 3

	maxFireAttempts = ammo.NumTiers
)

// FireControl owns the current tier and fire mode for one player.
type FireControl struct {
	bank     *ammo.Bank
	current  int
	triple   bool
	lastShot time.Time
}

// NewFireControl returns a control on tier 0 in single-fire mode.
func NewFireControl(bank *ammo.Bank) *FireControl {
	return &FireControl{bank: bank}
}

// Current returns the selected tier.
func (f *FireControl) Current() int {
	return f.current
}

// Triple reports whether triple fire is on.
func (f *FireControl) Triple() bool {
	return f.triple
}

// SelectTier switches to n. Out of range values are ignored.
func (f *FireControl) SelectTier(n int) {
	if ammo.ValidTier(n) {
		f.current = n
	}
}

// Downgrade moves to the next lower tier that can fire. Tier 0 stays put.
func (f *FireControl) Downgrade() {
	if t, ok := f.bank.NextLowerNonEmpty(f.current); ok {
		f.current = t
	}
}

// Upgrade moves to the next higher tier holding ammo, or stays put.
func (f *FireControl) Upgrade() {
	if t, ok := f.bank.NextHigherNonEmpty(f.current); ok {
		f.current = t
	}
}

// ToggleTriple flips between single and triple fire.
func (f *FireControl) ToggleTriple() {
	f.triple = !f.triple
}

// Reset returns to tier 0 single fire and clears the rate governor.
func (f *FireControl) Reset() {
	f.current = 0
	f.triple = false
	f.lastShot = time.Time{}
}

// Fire attempts a shot from (x, y) at time now. It returns the spawned
// projectiles and whether the shot was accepted. Shots inside the rate
// window are dropped without touching the bank. An empty tier downgrades
// until one can pay; tier 0 always can.
func (f *FireControl) Fire(now time.Time, x, y float64) ([]*object.Projectile, bool) {
	if !f.lastShot.IsZero() && now.Sub(f.lastShot) < MinShotInterval {
		return nil, false
	}

	cost := 1
	if f.triple {
		cost = TripleCost
	}

	for range maxFireAttempts {
		if f.bank.CanFire(f.current, cost) {
			break
		}
		f.Downgrade()
	}

	if err := f.bank.Debit(f.current, cost); err != nil {
		return nil, false
	}
	f.lastShot = now

	tier := ammo.Tier(f.current)
	if !f.triple {
		return []*object.Projectile{object.NewProjectile(x, y, tier, 0)}, true
	}

	k := float64(tier.Power) * SpreadDegreesPerPower
	return []*object.Projectile{
		object.NewProjectile(x, y, tier, -k),
		object.NewProjectile(x, y, tier, 0),
		object.NewProjectile(x, y, tier, k),
	}, true
}
