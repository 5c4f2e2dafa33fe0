package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface check
var _ Backend = (*GormStore)(nil)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	s, err := OpenSQLite("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndLoadProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "ada", "hash")
	require.NoError(t, err)
	assert.Equal(t, "ada", created.Username)

	p, err := s.LoadProfile(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, DefaultStats(), p.GameStats)
	assert.True(t, p.Settings.AmmoPersistence)
	assert.Len(t, p.AmmunitionBanks, 10)
	for tier, n := range p.AmmunitionBanks {
		assert.Zero(t, n, "tier %d", tier)
	}
	assert.Nil(t, p.LastLogin)

	hash, err := s.PasswordHash(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, "hash", hash)
}

func TestCreateDuplicateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "ada", "hash")
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, "ada", "other")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestSaveAmmunitionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateUser(ctx, "ada", "hash")
	require.NoError(t, err)

	require.NoError(t, s.SaveAmmunition(ctx, "ada", map[int]int{0: 50, 3: 12, 9: 999, 11: 5}))
	p, err := s.LoadProfile(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 0, p.AmmunitionBanks[0], "tier 0 is never stored")
	assert.Equal(t, 12, p.AmmunitionBanks[3])
	assert.Equal(t, 999, p.AmmunitionBanks[9])
	assert.NotContains(t, p.AmmunitionBanks, 11)

	require.NoError(t, s.SaveAmmunition(ctx, "ada", map[int]int{3: 1}))
	p, err = s.LoadProfile(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, 1, p.AmmunitionBanks[3])
	assert.Equal(t, 0, p.AmmunitionBanks[9], "missing tiers are saved as empty")
}

func TestSaveStatsAndSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.CreateUser(ctx, "ada", "hash")
	require.NoError(t, err)

	stats := Stats{TotalScore: 120, HighestLevel: 4, TotalMathProblems: 9, CorrectMathProblems: 7, TotalEnemiesDestroyed: 12}
	require.NoError(t, s.SaveStats(ctx, "ada", stats))
	require.NoError(t, s.SaveSettings(ctx, "ada", Settings{AmmoPersistence: false}))
	login := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, s.TouchLogin(ctx, "ada", login))

	p, err := s.LoadProfile(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, stats, p.GameStats)
	assert.False(t, p.Settings.AmmoPersistence)
	require.NotNil(t, p.LastLogin)
	assert.True(t, login.Equal(*p.LastLogin))
}

func TestUnknownUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.LoadProfile(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, s.SaveStats(ctx, "ghost", Stats{}), ErrUserNotFound)
	assert.ErrorIs(t, s.SaveAmmunition(ctx, "ghost", nil), ErrUserNotFound)
	assert.ErrorIs(t, s.SaveSettings(ctx, "ghost", Settings{}), ErrUserNotFound)
	_, err = s.PasswordHash(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"ada", "grace", "linus"} {
		_, err := s.CreateUser(ctx, name, "hash")
		require.NoError(t, err)
	}

	names, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ada", "grace", "linus"}, names)
}

func TestCreateProfileThenSave(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.CreateProfile(ctx, "sshuser")
	require.NoError(t, err)
	assert.Equal(t, NewProfile("sshuser").GameStats, p.GameStats)
	assert.True(t, p.Settings.AmmoPersistence)

	require.NoError(t, s.SaveAmmunition(ctx, "sshuser", map[int]int{5: 12}))
	require.NoError(t, s.SaveStats(ctx, "sshuser", Stats{TotalScore: 30, HighestLevel: 2}))

	p, err = s.LoadProfile(ctx, "sshuser")
	require.NoError(t, err)
	assert.Equal(t, 12, p.AmmunitionBanks[5])
	assert.Equal(t, 30, p.GameStats.TotalScore)

	_, err = s.CreateProfile(ctx, "sshuser")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestNopCreateProfile(t *testing.T) {
	p, err := Nop{}.CreateProfile(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, "ada", p.Username)
	assert.Len(t, p.AmmunitionBanks, 10)
	assert.Equal(t, 1, p.GameStats.HighestLevel)
}

func TestStatsMerge(t *testing.T) {
	s := DefaultStats().Merge(100, 3, 5, 4, 10).Merge(40, 2, 1, 0, 4)
	assert.Equal(t, Stats{TotalScore: 140, HighestLevel: 3, TotalMathProblems: 6, CorrectMathProblems: 4, TotalEnemiesDestroyed: 14}, s)
}

func TestNop(t *testing.T) {
	var b Backend = Nop{}
	assert.NoError(t, b.SaveStats(context.Background(), "ada", Stats{}))
	_, err := b.LoadProfile(context.Background(), "ada")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
