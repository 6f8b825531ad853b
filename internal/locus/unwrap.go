package locus

// MaxSafeInteger bounds the running angle. Past it, float64 can no longer
// represent one-decimal steps exactly and the tracker resets to 0.
const MaxSafeInteger = 1<<53 - 1

// AngleTrackState is the unwrap state for one axis.
type AngleTrackState struct {
	Previous float64 // Last raw sample, rounded to 0.1
	Running  float64 // Accumulated unwrapped value
}

// AngleTracker turns a cyclic angle stream into a continuous running
// value. The zero value is unseeded; the first sample seeds it.
type AngleTracker struct {
	state *AngleTrackState
}

// Seeded reports whether the tracker has seen a sample.
func (t *AngleTracker) Seeded() bool { return t.state != nil }

// Running returns the running value, 0 when unseeded.
func (t *AngleTracker) Running() float64 {
	if t.state == nil {
		return 0
	}
	return t.state.Running
}

// Reset forgets all state; the next sample seeds again.
func (t *AngleTracker) Reset() { t.state = nil }

// Unwrap feeds one raw sample. The step taken is the shorter way around
// rng, rounded to 0.1. It is subtracted from the running value when
// invert is set and added otherwise. Returns the new running value and
// the wrap-corrected delta.
func (t *AngleTracker) Unwrap(raw float64, rng Range, invert bool) (running, delta float64) {
	raw = RoundTenth(raw)
	if t.state == nil {
		t.state = &AngleTrackState{Previous: raw, Running: raw}
	}

	delta = WrapDelta(t.state.Previous, raw, rng)
	t.state.Previous = raw
	if invert {
		t.state.Running -= delta
	} else {
		t.state.Running += delta
	}
	if t.state.Running > MaxSafeInteger || t.state.Running < -MaxSafeInteger {
		t.state.Running = 0
	}
	return t.state.Running, delta
}

// WrapDelta returns cur - prev corrected for wrap-around within rng,
// rounded to one decimal place.
func WrapDelta(prev, cur float64, rng Range) float64 {
	span := rng.Span()
	threshold := span / 2
	d := cur - prev
	if d > threshold {
		d -= span
	} else if d < -threshold {
		d += span
	}
	return RoundTenth(d)
}
