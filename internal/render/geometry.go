package render

import "math"

// PixelAngle computes the angle from (cx, cy) to (x, y) in canvas pixels.
// Returns radians in [0, 2π), where 0=north, increasing clockwise.
func PixelAngle(x, y, cx, cy float64) float64 {
	angle := math.Atan2(x-cx, -(y - cy)) // 0=north, clockwise
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

// RingChar returns the character tangent to a ring at the given angle.
func RingChar(angle float64) rune {
	angle = NormalizeAngle(angle)

	// 8 sectors for character selection
	sector := int(math.Round(angle/(math.Pi/4))) % 8

	switch sector {
	case 0, 4: // North, South
		return '-'
	case 1, 5: // NE, SW
		return '\\'
	case 2, 6: // East, West
		return '|'
	case 3, 7: // SE, NW
		return '/'
	default:
		return '.'
	}
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// PixelToCell maps a canvas pixel to the terminal cell containing it.
func PixelToCell(x, y, cellW, cellH float64) (col, row int) {
	return int(math.Floor(x / cellW)), int(math.Floor(y / cellH))
}

// CellCenter returns the canvas pixel at the middle of a cell.
func CellCenter(col, row int, cellW, cellH float64) (x, y float64) {
	return (float64(col) + 0.5) * cellW, (float64(row) + 0.5) * cellH
}
