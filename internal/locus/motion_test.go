package locus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamera_ConvergesWithoutOvershoot(t *testing.T) {
	for _, speed := range []float64{0.03, 0.3, 0.9} {
		var cam Camera
		target := Point{X: 1500, Y: -400}
		center := Point{X: 500, Y: 300}
		desired := target.Sub(center)

		prevDist := math.Inf(1)
		for i := 0; i < 3000; i++ {
			cam.Update(target, center, speed)
			dist := math.Hypot(desired.X-cam.Pos.X, desired.Y-cam.Pos.Y)
			require.LessOrEqual(t, dist, prevDist, "speed %v step %d", speed, i)
			require.LessOrEqual(t, cam.Pos.X, desired.X, "overshoot x")
			require.GreaterOrEqual(t, cam.Pos.Y, desired.Y, "overshoot y")
			prevDist = dist
		}
		assert.InDelta(t, desired.X, cam.Pos.X, 1e-6)
		assert.InDelta(t, desired.Y, cam.Pos.Y, 1e-6)
	}
}

func TestCamera_SingleStep(t *testing.T) {
	var cam Camera
	cam.Update(Point{X: 200, Y: 100}, Point{X: 100, Y: 50}, 0.03)
	assert.InDelta(t, 3, cam.Pos.X, 1e-9)
	assert.InDelta(t, 1.5, cam.Pos.Y, 1e-9)

	fixed := Camera{Pos: Point{X: 3, Y: 1.5}}
	assert.Equal(t, Point{X: 7, Y: 8.5}, fixed.ToScreen(Point{X: 10, Y: 10}))
}

func TestTargetSize(t *testing.T) {
	canvas := Size{Width: 200, Height: 100}

	assert.Equal(t, 800.0, TargetSize(Point{X: 100, Y: 50}, canvas, 800))
	// Corner is exactly max distance
	assert.InDelta(t, 0, TargetSize(Point{X: 0, Y: 0}, canvas, 800), 1e-9)
	// Halfway along x: d² = 50² = 2500, max² = 12500
	assert.InDelta(t, 800*(1-2500.0/12500.0), TargetSize(Point{X: 150, Y: 50}, canvas, 800), 1e-9)
}

func TestTargetSize_ClampedBeyondMaxDistance(t *testing.T) {
	canvas := Size{Width: 200, Height: 100}
	for _, p := range []Point{{X: -500, Y: 50}, {X: 5000, Y: 5000}, {X: 100, Y: -1e6}} {
		size := TargetSize(p, canvas, 800)
		assert.GreaterOrEqual(t, size, 0.0, "point %v", p)
		assert.LessOrEqual(t, size, 800.0)
	}
}

func TestCrosshair_StepTowardsLatest(t *testing.T) {
	canvas := Size{Width: 200, Height: 100}
	center := canvas.Center()
	cam := &Camera{Pos: Point{X: 10, Y: 0}}
	e := Easing{Size: 0.1, CameraSpeed: 0.03, Position: 0.05}

	var c Crosshair
	c.Place(center, 800)
	c.Step(Point{X: 160, Y: 50}, true, center, cam, canvas, 800, e)

	s := c.State
	assert.Equal(t, Point{X: 150, Y: 50}, s.Target)
	assert.InDelta(t, 640, s.TargetSize, 1e-9)
	assert.InDelta(t, 100+50*0.05, s.Current.X, 1e-9)
	assert.InDelta(t, 50, s.Current.Y, 1e-9)
	assert.InDelta(t, 800-160*0.1, s.CurrentSize, 1e-9)
}

func TestCrosshair_TargetClampedToCanvas(t *testing.T) {
	canvas := Size{Width: 200, Height: 100}
	center := canvas.Center()
	e := Easing{Size: 0.1, Position: 0.05}

	var c Crosshair
	c.Place(center, 800)
	for i := 0; i < 500; i++ {
		c.Step(Point{X: 10000, Y: -10000}, true, center, &Camera{}, canvas, 800, e)
		require.GreaterOrEqual(t, c.State.CurrentSize, 0.0)
	}
	assert.Equal(t, Point{X: 200, Y: 0}, c.State.Target)
	assert.Equal(t, 0.0, c.State.TargetSize)
	assert.InDelta(t, 0, c.State.CurrentSize, 1e-6)
}

func TestCrosshair_EmptyTrailFollowsCenter(t *testing.T) {
	canvas := Size{Width: 200, Height: 100}
	center := canvas.Center()
	cam := &Camera{Pos: Point{X: 20, Y: -10}}

	var c Crosshair
	c.Place(center, 400)
	c.Step(Point{}, false, center, cam, canvas, 800, Easing{Size: 0.1, Position: 0.05})

	assert.Equal(t, Point{X: 80, Y: 60}, c.State.Target)
	assert.Equal(t, 800.0, c.State.TargetSize)
	assert.InDelta(t, 440, c.State.CurrentSize, 1e-9)
}
