package ammo

import "errors"

// DefaultMaxPerTier is the per-tier cap used when none is configured.
const DefaultMaxPerTier = 999

// ErrNoAmmo is returned by Debit when a finite tier holds fewer rounds than requested.
var ErrNoAmmo = errors.New("no ammo")

// Bank tracks the ammunition count of every finite tier.
// Tier 0 is inexhaustible and its count is never tracked.
type Bank struct {
	counts [NumTiers]int
	max    int
}

// NewBank creates an empty bank. maxPerTier <= 0 selects DefaultMaxPerTier.
func NewBank(maxPerTier int) *Bank {
	if maxPerTier <= 0 {
		maxPerTier = DefaultMaxPerTier
	}
	return &Bank{max: maxPerTier}
}

// Max returns the per-tier cap.
func (b *Bank) Max() int {
	return b.max
}

// Count returns the rounds held in tier. Tier 0 and invalid tiers report 0.
func (b *Bank) Count(tier int) int {
	if !ValidTier(tier) || tier == 0 {
		return 0
	}
	return b.counts[tier]
}

// Credit adds amount rounds to tier, silently dropping anything above the cap.
func (b *Bank) Credit(tier, amount int) {
	if !ValidTier(tier) || tier == 0 || amount <= 0 {
		return
	}
	b.counts[tier] = min(b.counts[tier]+amount, b.max)
}

// Set overwrites the count of tier, clamped to [0, max]. Used when loading profiles.
func (b *Bank) Set(tier, count int) {
	if !ValidTier(tier) || tier == 0 {
		return
	}
	b.counts[tier] = max(0, min(count, b.max))
}

// CanFire reports whether tier holds at least amount rounds. Tier 0 always can.
func (b *Bank) CanFire(tier, amount int) bool {
	if tier == 0 {
		return true
	}
	if !ValidTier(tier) {
		return false
	}
	return b.counts[tier] >= amount
}

// Debit removes amount rounds from tier. Tier 0 always succeeds and is unaffected.
func (b *Bank) Debit(tier, amount int) error {
	if tier == 0 {
		return nil
	}
	if !b.CanFire(tier, amount) {
		return ErrNoAmmo
	}
	if amount > 0 {
		b.counts[tier] -= amount
	}
	return nil
}

// NextLowerNonEmpty scans from-1 down to 0 for a tier that can fire.
// ok is false when the scan finds nothing (only possible when from <= 0).
func (b *Bank) NextLowerNonEmpty(from int) (tier int, ok bool) {
	for t := min(from-1, NumTiers-1); t >= 0; t-- {
		if t == 0 || b.counts[t] > 0 {
			return t, true
		}
	}
	return 0, false
}

// NextHigherNonEmpty scans from+1 up to 9 for a tier holding ammunition.
func (b *Bank) NextHigherNonEmpty(from int) (tier int, ok bool) {
	for t := max(from+1, 0); t < NumTiers; t++ {
		if t == 0 || b.counts[t] > 0 {
			return t, true
		}
	}
	return 0, false
}

// ClearAll empties every finite tier.
func (b *Bank) ClearAll() {
	for t := 1; t < NumTiers; t++ {
		b.counts[t] = 0
	}
}

// Counts returns a snapshot keyed by tier. Tier 0 is reported as 0.
func (b *Bank) Counts() map[int]int {
	out := make(map[int]int, NumTiers)
	for t := 0; t < NumTiers; t++ {
		out[t] = b.Count(t)
	}
	return out
}

// Load replaces the bank contents from a snapshot. Unknown tiers are ignored.
func (b *Bank) Load(counts map[int]int) {
	b.ClearAll()
	for t, n := range counts {
		b.Set(t, n)
	}
}
