package locus

// CameraCadence selects what drives camera easing.
type CameraCadence int

const (
	// CadenceSample eases once per ingested coordinate.
	CadenceSample CameraCadence = iota
	// CadenceFrame eases once per render tick toward the last coordinate.
	CadenceFrame
)

func (c CameraCadence) String() string {
	if c == CadenceFrame {
		return "frame"
	}
	return "sample"
}

// Camera is the scroll offset subtracted from every world position
// before drawing. It trails the latest coordinate so the world recenters
// under the crosshair.
type Camera struct {
	Pos Point
}

// Update eases the camera so that target drifts toward center.
func (c *Camera) Update(target, center Point, speed float64) {
	desired := target.Sub(center)
	c.Pos = c.Pos.Lerp(desired, speed)
}

// ToScreen converts a world position to canvas space.
func (c *Camera) ToScreen(world Point) Point { return world.Sub(c.Pos) }
