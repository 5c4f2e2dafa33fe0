// Package storage persists player profiles: ammunition banks, lifetime stats
// and settings.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/tomz197/mathblaster/internal/ammo"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username already exists")
)

// Stats are lifetime totals for one player.
type Stats struct {
	TotalScore            int `json:"total_score"`
	HighestLevel          int `json:"highest_level"`
	TotalMathProblems     int `json:"total_math_problems"`
	CorrectMathProblems   int `json:"correct_math_problems"`
	TotalEnemiesDestroyed int `json:"total_enemies_destroyed"`
}

// Settings are per-player preferences.
type Settings struct {
	AmmoPersistence bool `json:"ammo_persistence"`
}

// Profile is everything stored about a player except credentials.
type Profile struct {
	Username        string      `json:"username"`
	CreatedAt       time.Time   `json:"created_at"`
	LastLogin       *time.Time  `json:"last_login"`
	AmmunitionBanks map[int]int `json:"ammunition_banks"`
	GameStats       Stats       `json:"game_stats"`
	Settings        Settings    `json:"settings"`
}

// Sink receives best-effort progress saves.
type Sink interface {
	SaveAmmunition(ctx context.Context, username string, counts map[int]int) error
	SaveStats(ctx context.Context, username string, stats Stats) error
}

// ProfileStore loads saved profiles.
type ProfileStore interface {
	LoadProfile(ctx context.Context, username string) (Profile, error)
}

// Backend is a full persistence backend for the game client.
type Backend interface {
	Sink
	ProfileStore
	// CreateProfile registers username with empty banks and default stats.
	// It fails with ErrUserExists when the name is taken.
	CreateProfile(ctx context.Context, username string) (Profile, error)
}

// DefaultStats is the record of a player who has never played.
func DefaultStats() Stats {
	return Stats{HighestLevel: 1}
}

// Merge folds one finished game into lifetime totals.
func (s Stats) Merge(score, level, problems, correct, destroyed int) Stats {
	s.TotalScore += score
	s.HighestLevel = max(s.HighestLevel, level)
	s.TotalMathProblems += problems
	s.CorrectMathProblems += correct
	s.TotalEnemiesDestroyed += destroyed
	return s
}

// Nop discards saves and reports every profile as missing.
type Nop struct{}

func (Nop) SaveAmmunition(context.Context, string, map[int]int) error { return nil }
func (Nop) SaveStats(context.Context, string, Stats) error { return nil }

func (Nop) LoadProfile(context.Context, string) (Profile, error) {
	return Profile{}, ErrUserNotFound
}

func (Nop) CreateProfile(_ context.Context, username string) (Profile, error) {
	return NewProfile(username), nil
}

// NewProfile is the record of a freshly registered player.
func NewProfile(username string) Profile {
	p := Profile{
		Username:        username,
		AmmunitionBanks: make(map[int]int, ammo.NumTiers),
		GameStats:       DefaultStats(),
		Settings:        Settings{AmmoPersistence: true},
	}
	for t := range ammo.NumTiers {
		p.AmmunitionBanks[t] = 0
	}
	return p
}
