package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"locus.klederson.com/internal/render"
)

// needleFrac is the needle length as a fraction of the dial radius.
const needleFrac = 0.8

var (
	dialLevel, _  = colorful.Hex("#00FF41")
	dialTilted, _ = colorful.Hex("#005511")

	styleDialRing    = lipgloss.NewStyle().Foreground(ColorDimGreen)
	styleDialMark    = lipgloss.NewStyle().Foreground(ColorMatrixGreen).Bold(true)
	styleDialHorizon = lipgloss.NewStyle().Foreground(lipgloss.Color("#006622"))
)

// RenderCompass draws the heading dial: a ring with cardinal marks, a
// needle along heading (radians, 0 = north, clockwise) and a horizon
// bar that drops as pitch (degrees) rises. The needle dims with tilt.
func RenderCompass(width, height int, heading, pitch float64) string {
	if width < 9 || height < 5 {
		return ""
	}

	d := newDial(width, height)
	d.ring()
	d.cardinals()
	d.horizon(pitch)
	d.needle(heading, lipgloss.NewStyle().Foreground(lipgloss.Color(tiltColor(pitch))).Bold(true))
	d.put(d.col0, d.row0, '+', styleDialMark)
	return d.String()
}

type dialCell struct {
	ch    rune
	style lipgloss.Style
}

// dial is a character grid with an elliptical ring; rx and ry are in
// columns and rows so the ring looks round on tall terminal cells.
type dial struct {
	w, h       int
	cx, cy     float64
	rx, ry     float64
	col0, row0 int
	cells      []*dialCell
}

func newDial(w, h int) *dial {
	cx, cy := float64(w)/2, float64(h)/2
	return &dial{
		w:     w,
		h:     h,
		cx:    cx,
		cy:    cy,
		rx:    math.Max(cx-2, 3),
		ry:    math.Max(cy-2, 2),
		col0:  int(math.Round(cx)),
		row0:  int(math.Round(cy)),
		cells: make([]*dialCell, w*h),
	}
}

func (d *dial) put(col, row int, ch rune, style lipgloss.Style) {
	if col < 0 || col >= d.w || row < 0 || row >= d.h {
		return
	}
	d.cells[row*d.w+col] = &dialCell{ch: ch, style: style}
}

// at maps an angle and a fraction of the radius to a grid cell.
func (d *dial) at(a, frac float64) (col, row int) {
	return int(math.Round(d.cx + frac*d.rx*math.Sin(a))),
		int(math.Round(d.cy - frac*d.ry*math.Cos(a)))
}

func (d *dial) ring() {
	const steps = 96
	for i := 0; i < steps; i++ {
		a := float64(i) * 2 * math.Pi / steps
		col, row := d.at(a, 1)
		d.put(col, row, render.RingChar(a), styleDialRing)
	}
}

func (d *dial) cardinals() {
	rx, ry := int(math.Round(d.rx)), int(math.Round(d.ry))
	d.put(d.col0, d.row0-ry-1, 'N', styleDialMark)
	d.put(d.col0, d.row0+ry+1, 'S', styleDialMark)
	d.put(d.col0+rx+1, d.row0, 'E', styleDialMark)
	d.put(d.col0-rx-1, d.row0, 'W', styleDialMark)
}

func (d *dial) horizon(pitch float64) {
	off := math.Max(-1, math.Min(pitch/90, 1)) * (d.ry - 1)
	row := int(math.Round(d.cy + off))
	half := int(d.rx * 0.6)
	for col := d.col0 - half; col <= d.col0+half; col++ {
		d.put(col, row, '=', styleDialHorizon)
	}
}

func (d *dial) needle(heading float64, style lipgloss.Style) {
	n := int(math.Max(d.rx, d.ry) * needleFrac)
	if n < 2 {
		n = 2
	}
	ch := needleChar(heading)
	for s := 1; s < n; s++ {
		col, row := d.at(heading, float64(s)/float64(n)*needleFrac)
		d.put(col, row, ch, style)
	}
	col, row := d.at(heading, needleFrac)
	d.put(col, row, needleTip(heading), style)
}

func (d *dial) String() string {
	var sb strings.Builder
	for row := 0; row < d.h; row++ {
		for col := 0; col < d.w; col++ {
			c := d.cells[row*d.w+col]
			if c == nil {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(c.style.Render(string(c.ch)))
		}
		if row < d.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func octant(a float64) int {
	return int(math.Round(render.NormalizeAngle(a)/(math.Pi/4))) % 8
}

// needleChar is the line glyph running along direction a on screen.
func needleChar(a float64) rune {
	switch octant(a) {
	case 1, 5:
		return '/'
	case 2, 6:
		return '-'
	case 3, 7:
		return '\\'
	default:
		return '|'
	}
}

func needleTip(a float64) rune {
	return []rune("^/>\\v/<\\")[octant(a)]
}

// tiltColor fades the needle from bright (level) to dim (60° or more).
func tiltColor(pitch float64) string {
	f := math.Min(math.Abs(pitch)/60, 1)
	return dialLevel.BlendRgb(dialTilted, f).Clamped().Hex()
}
