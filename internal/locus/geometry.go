package locus

import "math"

// Point is a position in canvas (or world) pixels.
type Point struct {
	X, Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p * k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Lerp moves p toward q by factor t: p + (q-p)*t.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Size is a canvas extent in pixels.
type Size struct {
	Width, Height float64
}

// Center returns the midpoint of a canvas of this size.
func (s Size) Center() Point { return Point{s.Width / 2, s.Height / 2} }

// Clamp limits p to [0, Width] x [0, Height].
func (s Size) Clamp(p Point) Point {
	return Point{clamp(p.X, 0, s.Width), clamp(p.Y, 0, s.Height)}
}

// Range is the closed interval a cyclic sensor angle lives in.
// Callers must keep Max > Min.
type Range struct {
	Min, Max float64
}

// Span returns Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// jsRound rounds half toward +Inf, matching the browser host the sensor
// pipeline was tuned against.
func jsRound(v float64) float64 { return math.Floor(v + 0.5) }

// RoundTenth rounds v to one decimal place.
func RoundTenth(v float64) float64 { return jsRound(v*10) / 10 }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
