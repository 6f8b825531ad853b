package render

import "math"

// Reticle is a procedural crosshair image: a ring with a centre cross.
type Reticle struct {
	// CrossFrac is the arm length of the centre cross as a fraction of
	// the ring radius.
	CrossFrac float64
}

// NewReticle returns the default crosshair image.
func NewReticle() *Reticle {
	return &Reticle{CrossFrac: 0.35}
}

// Glyph implements Image.
func (r *Reticle) Glyph(dx, dy, w, h, tolX, tolY float64) (rune, bool) {
	if w <= 0 || h <= 0 {
		return 0, false
	}
	radius := math.Min(w, h) / 2
	adx, ady := math.Abs(dx), math.Abs(dy)

	if adx <= tolX && ady <= tolY {
		return '+', true
	}

	dist := math.Hypot(dx, dy)
	// Half-extent of the cell along the radial direction
	support := (adx*tolX + ady*tolY) / dist
	if math.Abs(dist-radius) <= support {
		return RingChar(PixelAngle(dx, dy, 0, 0)), true
	}

	arm := radius * r.CrossFrac
	if adx <= tolX && ady <= arm {
		return '|', true
	}
	if ady <= tolY && adx <= arm {
		return '-', true
	}
	return 0, false
}
