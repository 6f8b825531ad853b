package locus

import (
	"locus.klederson.com/internal/config"
	"locus.klederson.com/internal/ring"
)

// InterpolationSteps is the number of points Extend pushes per coordinate.
const InterpolationSteps = config.InterpolationSteps

// Trail is a fixed-capacity history of recent coordinates. When full,
// each push overwrites the oldest point.
type Trail struct {
	points *ring.Buffer[Point]
}

// NewTrail creates an empty trail holding at most capacity points.
func NewTrail(capacity int) *Trail {
	return &Trail{points: ring.New[Point](capacity)}
}

// Push appends a point, discarding the oldest when full.
func (t *Trail) Push(p Point) { t.points.Push(p) }

// Extend pushes InterpolationSteps evenly spaced points from just past
// from up to and including to.
func (t *Trail) Extend(from, to Point) {
	step := to.Sub(from).Scale(1.0 / InterpolationSteps)
	for i := 1; i < InterpolationSteps; i++ {
		t.Push(from.Add(step.Scale(float64(i))))
	}
	t.Push(to)
}

// Transform maps every stored point through fn in place.
func (t *Trail) Transform(fn func(Point) Point) { t.points.Apply(fn) }

// All returns the points oldest first.
func (t *Trail) All() []Point { return t.points.Values() }

// Latest returns the most recent point, or false if the trail is empty.
func (t *Trail) Latest() (Point, bool) { return t.points.Last() }

// Len returns the number of stored points.
func (t *Trail) Len() int { return t.points.Len() }

// Cap returns the maximum number of stored points.
func (t *Trail) Cap() int { return t.points.Cap() }

// Reset empties the trail.
func (t *Trail) Reset() { t.points.Reset() }
