package locus

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrail_Empty(t *testing.T) {
	tr := NewTrail(10)
	_, ok := tr.Latest()
	assert.False(t, ok)
	assert.Nil(t, tr.All())
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 10, tr.Cap())
}

func TestTrail_ExtendInterpolates(t *testing.T) {
	tr := NewTrail(10)
	from := Point{X: 0, Y: 0}
	to := Point{X: 9, Y: -3}
	tr.Extend(from, to)

	pts := tr.All()
	require.Len(t, pts, InterpolationSteps)
	assert.InDelta(t, 3, pts[0].X, 1e-9)
	assert.InDelta(t, -1, pts[0].Y, 1e-9)
	assert.InDelta(t, 6, pts[1].X, 1e-9)
	assert.InDelta(t, -2, pts[1].Y, 1e-9)
	assert.Equal(t, to, pts[2], "last interpolated point is the target exactly")

	latest, ok := tr.Latest()
	require.True(t, ok)
	assert.Equal(t, to, latest)
}

func TestTrail_BoundKeepsNewestInOrder(t *testing.T) {
	tr := NewTrail(150)
	var all []Point
	last := Point{}
	for i := 1; i <= 60; i++ {
		next := Point{X: float64(i * 30), Y: float64(i * 3)}
		tr.Extend(last, next)
		step := next.Sub(last).Scale(1.0 / InterpolationSteps)
		all = append(all, last.Add(step), last.Add(step.Scale(2)), next)
		last = next
	}

	require.Len(t, all, 180)
	assert.Equal(t, 150, tr.Len())
	if diff := cmp.Diff(all[30:], tr.All()); diff != "" {
		t.Errorf("trail contents mismatch (-want +got):\n%s", diff)
	}
}

func TestTrail_NeverExceedsCapacity(t *testing.T) {
	for _, capacity := range []int{1, 2, 3, 4, 7, 150} {
		tr := NewTrail(capacity)
		for i := 0; i < 500; i++ {
			tr.Push(Point{X: float64(i)})
			require.LessOrEqual(t, tr.Len(), capacity)
		}
		pts := tr.All()
		require.Len(t, pts, capacity)
		for i, p := range pts {
			assert.Equal(t, float64(500-capacity+i), p.X)
		}
	}
}

func TestTrail_Reset(t *testing.T) {
	tr := NewTrail(4)
	tr.Extend(Point{}, Point{X: 3})
	tr.Reset()
	assert.Equal(t, 0, tr.Len())
	_, ok := tr.Latest()
	assert.False(t, ok)
}

func TestTrail_Transform(t *testing.T) {
	tr := NewTrail(3)
	for i := 1; i <= 4; i++ {
		tr.Push(Point{X: float64(i), Y: 1})
	}
	tr.Transform(func(p Point) Point { return p.Scale(10) })

	assert.Equal(t, []Point{{X: 20, Y: 10}, {X: 30, Y: 10}, {X: 40, Y: 10}}, tr.All())
	assert.Equal(t, 3, tr.Len())
}
