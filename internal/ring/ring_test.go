package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer(t *testing.T) {
	b := New[float64](3)
	assert.Nil(t, b.Values())
	_, ok := b.Last()
	assert.False(t, ok)
	assert.Equal(t, 3, b.Cap())

	b.Push(1)
	b.Push(2)
	assert.Equal(t, []float64{1, 2}, b.Values())

	for _, v := range []float64{3, 4} {
		b.Push(v)
	}
	assert.Equal(t, []float64{2, 3, 4}, b.Values())
	last, ok := b.Last()
	assert.True(t, ok)
	assert.Equal(t, 4.0, last)
	assert.Equal(t, 3, b.Len())

	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Nil(t, b.Values())
}

func TestBuffer_MinimumCapacity(t *testing.T) {
	b := New[string](0)
	assert.Equal(t, 1, b.Cap())
	b.Push("a")
	b.Push("b")
	assert.Equal(t, []string{"b"}, b.Values())
}

func TestBuffer_Apply(t *testing.T) {
	double := func(v int) int { return v * 2 }

	partial := New[int](4)
	partial.Push(1)
	partial.Push(2)
	partial.Apply(double)
	assert.Equal(t, []int{2, 4}, partial.Values())

	// Wrapped: the oldest value sits after the write position
	wrapped := New[int](3)
	for _, v := range []int{1, 2, 3, 4, 5} {
		wrapped.Push(v)
	}
	wrapped.Apply(double)
	assert.Equal(t, []int{6, 8, 10}, wrapped.Values())

	wrapped.Push(7)
	assert.Equal(t, []int{8, 10, 7}, wrapped.Values())
}
