package locus

// Easing holds the per-step fractions of remaining distance to close.
type Easing struct {
	Size        float64
	CameraSpeed float64
	Position    float64
}

// CrosshairState is the eased crosshair.
type CrosshairState struct {
	Current     Point
	Target      Point
	CurrentSize float64
	TargetSize  float64
}

// Crosshair animates CrosshairState one render tick at a time.
type Crosshair struct {
	State CrosshairState
}

// Place snaps both current and target to p at the given size.
func (c *Crosshair) Place(p Point, size float64) {
	c.State = CrosshairState{Current: p, Target: p, CurrentSize: size, TargetSize: size}
}

// Step recomputes the target from the newest trail point (if any) and
// eases toward it. The crosshair shrinks with squared distance from the
// canvas center and never goes below zero.
func (c *Crosshair) Step(latest Point, hasLatest bool, center Point, cam *Camera, canvas Size, defaultSize float64, e Easing) {
	s := &c.State
	if hasLatest {
		t := cam.ToScreen(latest)
		s.Target = canvas.Clamp(t)
		s.TargetSize = TargetSize(t, canvas, defaultSize)
	} else {
		s.Target = cam.ToScreen(center)
		s.TargetSize = defaultSize
	}

	s.CurrentSize += (s.TargetSize - s.CurrentSize) * e.Size
	s.Current = s.Current.Lerp(s.Target, e.Position)
}

// TargetSize scales defaultSize by 1 - d²/max², where d is the distance
// of screen point p from the canvas center and max is the half diagonal.
// The result is clamped to [0, defaultSize].
func TargetSize(p Point, canvas Size, defaultSize float64) float64 {
	hw, hh := canvas.Width/2, canvas.Height/2
	maxDist := hw*hw + hh*hh
	if maxDist == 0 {
		return defaultSize
	}
	dx, dy := p.X-hw, p.Y-hh
	dist := dx*dx + dy*dy
	return clamp(defaultSize*(1-dist/maxDist), 0, defaultSize)
}
