package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(0, 0, 3, 4), 1e-9)
	assert.InDelta(t, 25.0, DistanceSquared(0, 0, 3, 4), 1e-9)
}

func TestRectsOverlap(t *testing.T) {
	a := CenteredSquare(10, 10, 4)

	assert.True(t, RectsOverlap(a, CenteredSquare(12, 12, 2)))
	assert.True(t, RectsOverlap(a, CenteredSquare(14, 10, 4)), "touching edges overlap")
	assert.False(t, RectsOverlap(a, CenteredSquare(20, 10, 4)))
	assert.False(t, RectsOverlap(a, CenteredSquare(10, 16, 2)))
}

func TestInBounds(t *testing.T) {
	assert.True(t, InBounds(0, 0, 100, 50, 0))
	assert.False(t, InBounds(100, 10, 100, 50, 0))
	assert.True(t, InBounds(-3, 10, 100, 50, 5))
	assert.False(t, InBounds(10, -6, 100, 50, 5))
}

func TestSpatialGridQueryRadius(t *testing.T) {
	g := NewSpatialGrid(100, 100, 10)
	g.Insert(5, 5, 0)
	g.Insert(50, 50, 1)
	g.Insert(95, 95, 2)
	g.Insert(-20, 200, 3) // clamped into the bottom-left border cell

	var found []int
	g.QueryRadius(52, 48, 5, func(i int) bool {
		found = append(found, i)
		return false
	})
	assert.Equal(t, []int{1}, found)

	found = found[:0]
	g.QueryRadius(0, 100, 3, func(i int) bool {
		found = append(found, i)
		return false
	})
	assert.Equal(t, []int{3}, found)

	found = found[:0]
	g.QueryRadius(50, 50, 100, func(i int) bool {
		found = append(found, i)
		return len(found) == 2
	})
	assert.Len(t, found, 2, "early stop")

	g.Clear()
	found = found[:0]
	g.QueryRadius(50, 50, 100, func(i int) bool {
		found = append(found, i)
		return false
	})
	assert.Empty(t, found)
}

func TestPointInCircle(t *testing.T) {
	assert.True(t, PointInCircle(3, 4, 0, 0, 5), "on the edge")
	assert.True(t, PointInCircle(1, 1, 0, 0, 5))
	assert.False(t, PointInCircle(3, 4.01, 0, 0, 5))
}
