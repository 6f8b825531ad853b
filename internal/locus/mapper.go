package locus

import "locus.klederson.com/internal/config"

// DefaultWorldScale is how many canvases wide/tall the virtual world is.
const DefaultWorldScale = config.WorldScale

// MapCoordinate projects running yaw/pitch onto a world that is scale
// times larger than the canvas. Results are whole pixels.
func MapCoordinate(yaw, pitch float64, yawRange, pitchRange Range, canvas Size, scale float64) Point {
	x := (yaw - yawRange.Min) / yawRange.Span() * canvas.Width * scale
	y := (pitch - pitchRange.Min) / pitchRange.Span() * canvas.Height * scale
	return Point{jsRound(x), jsRound(y)}
}
