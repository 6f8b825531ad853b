package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"locus.klederson.com/internal/config"
	"locus.klederson.com/internal/locus"
)

const dotGlyph = '●'

type cell struct {
	ch    rune
	color colorful.Color
}

// TerminalCanvas is a Surface backed by a grid of terminal cells. Each
// cell covers CellWidth x CellHeight canvas pixels. Drawing blends the
// ink colour over the cell by alpha; Gamma lifts faint layers so they
// stay visible on a terminal palette.
type TerminalCanvas struct {
	cols, rows   int
	cellW, cellH float64
	cells        []cell

	Gamma      float64
	Ink        colorful.Color
	Background colorful.Color
}

// NewTerminalCanvas creates a cleared canvas of cols x rows cells.
func NewTerminalCanvas(cols, rows int) *TerminalCanvas {
	ink, _ := colorful.Hex("#00FF41")
	c := &TerminalCanvas{
		cellW:      config.CellWidth,
		cellH:      config.CellHeight,
		Gamma:      0.5,
		Ink:        ink,
		Background: colorful.Color{},
	}
	c.Resize(cols, rows)
	return c
}

// Resize changes the grid dimensions and clears it.
func (c *TerminalCanvas) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	c.cols, c.rows = cols, rows
	c.cells = make([]cell, cols*rows)
	c.Clear()
}

// Dimensions returns the grid size in cells.
func (c *TerminalCanvas) Dimensions() (cols, rows int) { return c.cols, c.rows }

// PixelSize returns the canvas extent in pixels.
func (c *TerminalCanvas) PixelSize() locus.Size {
	return locus.Size{Width: float64(c.cols) * c.cellW, Height: float64(c.rows) * c.cellH}
}

// Clear implements Surface.
func (c *TerminalCanvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{color: c.Background}
	}
}

// FillCircle implements Surface. The cell containing the centre is
// always painted so dots smaller than a cell stay visible.
func (c *TerminalCanvas) FillCircle(x, y, radius float64, color string, alpha float64) {
	ink, err := colorful.Hex(color)
	if err != nil {
		ink = c.Ink
	}

	col0, row0 := PixelToCell(x-radius, y-radius, c.cellW, c.cellH)
	col1, row1 := PixelToCell(x+radius, y+radius, c.cellW, c.cellH)
	hc, hr := PixelToCell(x, y, c.cellW, c.cellH)
	for row := row0; row <= row1; row++ {
		for col := col0; col <= col1; col++ {
			px, py := CellCenter(col, row, c.cellW, c.cellH)
			if (col == hc && row == hr) || math.Hypot(px-x, py-y) <= radius {
				c.paint(col, row, dotGlyph, ink, alpha)
			}
		}
	}
}

// DrawImage implements Surface.
func (c *TerminalCanvas) DrawImage(img Image, x, y, w, h, alpha float64) {
	if img == nil || w <= 0 || h <= 0 {
		return
	}
	cx, cy := x+w/2, y+h/2
	tolX, tolY := c.cellW/2, c.cellH/2

	col0, row0 := PixelToCell(x-tolX, y-tolY, c.cellW, c.cellH)
	col1, row1 := PixelToCell(x+w+tolX, y+h+tolY, c.cellW, c.cellH)
	col0, row0 = max(col0, 0), max(row0, 0)
	col1, row1 = min(col1, c.cols-1), min(row1, c.rows-1)

	for row := row0; row <= row1; row++ {
		for col := col0; col <= col1; col++ {
			px, py := CellCenter(col, row, c.cellW, c.cellH)
			if ch, ok := img.Glyph(px-cx, py-cy, w, h, tolX, tolY); ok {
				c.paint(col, row, ch, c.Ink, alpha)
			}
		}
	}
}

func (c *TerminalCanvas) paint(col, row int, ch rune, ink colorful.Color, alpha float64) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	if alpha <= 0 {
		return
	}
	cl := &c.cells[row*c.cols+col]
	cl.color = cl.color.BlendRgb(ink, math.Pow(math.Min(alpha, 1), c.Gamma)).Clamped()
	if ch != ' ' {
		cl.ch = ch
	}
}

// Cell returns the glyph (0 if empty) and colour at a cell.
func (c *TerminalCanvas) Cell(col, row int) (rune, colorful.Color) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return 0, c.Background
	}
	cl := c.cells[row*c.cols+col]
	return cl.ch, cl.color
}

// String renders the grid as styled terminal text.
func (c *TerminalCanvas) String() string {
	var sb strings.Builder
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			cl := c.cells[row*c.cols+col]
			if cl.ch == 0 {
				sb.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(cl.color.Hex()))
			sb.WriteString(style.Render(string(cl.ch)))
		}
		if row < c.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
