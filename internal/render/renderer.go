package render

import (
	"locus.klederson.com/internal/config"
	"locus.klederson.com/internal/locus"
)

// Image is an opaque crosshair asset owned by the host. Surfaces ask it
// which glyph, if any, covers a point at (dx, dy) from its center when
// drawn at w x h; tolX and tolY are half a cell in pixels.
type Image interface {
	Glyph(dx, dy, w, h, tolX, tolY float64) (rune, bool)
}

// Surface is the drawing target. Coordinates are canvas pixels; DrawImage
// takes the top-left corner like a 2D canvas context.
type Surface interface {
	Clear()
	DrawImage(img Image, x, y, w, h, alpha float64)
	FillCircle(x, y, radius float64, color string, alpha float64)
}

// Renderer draws a session frame: trail dots, the faint base crosshair
// at the canvas center, then the eased crosshair.
type Renderer struct {
	Image Image

	DotRadius      float64
	DotColor       string
	DotAlpha       float64
	BaseAlpha      float64
	CrosshairAlpha float64
}

// NewRenderer creates a renderer with the default dot and opacity settings.
func NewRenderer(img Image) *Renderer {
	return &Renderer{
		Image:          img,
		DotRadius:      config.DotRadius,
		DotColor:       config.DotColor,
		DotAlpha:       config.DotAlpha,
		BaseAlpha:      config.BaseCrosshairAlpha,
		CrosshairAlpha: config.CrosshairAlpha,
	}
}

// Draw renders one frame. It does not advance any animation.
func (r *Renderer) Draw(s Surface, f locus.Frame) {
	s.Clear()

	// A single point has no path to show yet
	if len(f.Trail) > 1 {
		for _, p := range f.Trail {
			s.FillCircle(p.X-f.Camera.X, p.Y-f.Camera.Y, r.DotRadius, r.DotColor, r.DotAlpha)
		}
	}

	if r.Image == nil {
		return
	}

	base := f.DefaultSize
	s.DrawImage(r.Image, f.Center.X-base/2, f.Center.Y-base/2, base, base, r.BaseAlpha)

	size := f.Crosshair.CurrentSize
	cur := f.Crosshair.Current
	s.DrawImage(r.Image, cur.X-size/2, cur.Y-size/2, size, size, r.CrosshairAlpha)
}

// DrawCanvas advances the session by one render tick and draws it.
func (r *Renderer) DrawCanvas(sess *locus.Session, s Surface) {
	sess.Step()
	r.Draw(s, sess.Frame())
}
