package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/mathblaster/internal/object"
)

func TestNewControllerDefaults(t *testing.T) {
	c := NewController(0, 0)
	assert.Equal(t, State{Level: 1, RequiredThisLevel: 10, SpawnIntervalTicks: 120}, c.State())
}

func TestLevelUpOncePerThreshold(t *testing.T) {
	c := NewController(3, 120)

	assert.False(t, c.RecordDestroyed())
	assert.False(t, c.RecordDestroyed())
	assert.True(t, c.RecordDestroyed())

	s := c.State()
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 0, s.DestroyedThisLevel)
	assert.Equal(t, 5, s.RequiredThisLevel)
	assert.Equal(t, 115, s.SpawnIntervalTicks)

	for range 4 {
		assert.False(t, c.RecordDestroyed())
	}
	assert.True(t, c.RecordDestroyed())
	assert.Equal(t, 3, c.Level())
}

func TestSpawnIntervalNeverIncreases(t *testing.T) {
	c := NewController(1, 120)
	prev := c.SpawnInterval()
	for range 30 {
		level := c.Level()
		for !c.RecordDestroyed() {
			require.Equal(t, level, c.Level())
		}
		s := c.State()
		require.Equal(t, level+1, s.Level)
		assert.LessOrEqual(t, s.SpawnIntervalTicks, prev, "level %d", s.Level)
		assert.Less(t, s.DestroyedThisLevel, s.RequiredThisLevel)
		prev = s.SpawnIntervalTicks
	}
	assert.Equal(t, 20, c.SpawnInterval())
}

func TestNextSpawnIntervalBands(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		level    int
		expected int
	}{
		{"low band", 120, 2, 115},
		{"low band floor", 62, 4, 60},
		{"mid band", 60, 5, 52},
		{"mid band floor", 45, 9, 40},
		{"high band", 40, 10, 30},
		{"high band floor", 25, 14, 20},
		{"below floor stays", 15, 3, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextSpawnInterval(tt.current, tt.level))
		})
	}
}

func TestSpawnableMonotonic(t *testing.T) {
	prev := 0
	for level := 1; level <= 12; level++ {
		set := Spawnable(level, object.Archetypes)
		require.NotEmpty(t, set, "level %d", level)
		assert.GreaterOrEqual(t, len(set), prev)
		for _, a := range set {
			assert.LessOrEqual(t, a.MinLevel, level)
		}
		prev = len(set)
	}
	assert.Len(t, Spawnable(100, object.Archetypes), len(object.Archetypes))
}
