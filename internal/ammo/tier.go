// Package ammo holds the weapon tier table and the per-tier ammunition bank.
package ammo

// NumTiers is the number of weapon tiers (and magazines).
const NumTiers = 10

// WeaponTier describes the fixed characteristics of one weapon tier.
type WeaponTier struct {
	Index        int
	Damage       int
	SplashRadius float64 // 0 = no splash
	Infinite     bool    // Only tier 0
	Power        int     // Drives the spread angle of triple fire
}

// Tiers is the immutable tier table indexed by tier number.
var Tiers = [NumTiers]WeaponTier{
	{Index: 0, Damage: 1, SplashRadius: 0, Infinite: true, Power: 1},
	{Index: 1, Damage: 2, SplashRadius: 0, Power: 2},
	{Index: 2, Damage: 3, SplashRadius: 0, Power: 3},
	{Index: 3, Damage: 4, SplashRadius: 40, Power: 4},
	{Index: 4, Damage: 5, SplashRadius: 45, Power: 5},
	{Index: 5, Damage: 6, SplashRadius: 50, Power: 6},
	{Index: 6, Damage: 8, SplashRadius: 55, Power: 7},
	{Index: 7, Damage: 10, SplashRadius: 60, Power: 8},
	{Index: 8, Damage: 12, SplashRadius: 70, Power: 9},
	{Index: 9, Damage: 15, SplashRadius: 80, Power: 10},
}

// ValidTier reports whether n is a tier index.
func ValidTier(n int) bool {
	return n >= 0 && n < NumTiers
}

// Tier returns the tier for index n. Out-of-range indices map to tier 0.
func Tier(n int) WeaponTier {
	if !ValidTier(n) {
		return Tiers[0]
	}
	return Tiers[n]
}
