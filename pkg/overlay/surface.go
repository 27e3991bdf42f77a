package overlay

import (
	"image/color"

	"github.com/fogleman/gg"
)

// Surface is the set of drawing primitives needed to render boxes and labels.
// Coordinates are in pixels, with the origin at the top-left of the image.
type Surface interface {
	DrawLine(x1, y1, x2, y2, width float64, c color.Color)
	FillRect(x1, y1, x2, y2 float64, c color.Color)

	// DrawText draws text with its top-left corner at (x, y), using the surface's font
	DrawText(text string, x, y float64, c color.Color)

	// MeasureText returns the width and height of text, using the surface's font
	MeasureText(text string) (w, h float64)
}

// GGSurface is a Surface that draws with a gg context
type GGSurface struct {
	dc *gg.Context
}

func NewGGSurface(dc *gg.Context) *GGSurface {
	return &GGSurface{dc: dc}
}

func (s *GGSurface) DrawLine(x1, y1, x2, y2, width float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

func (s *GGSurface) FillRect(x1, y1, x2, y2 float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawRectangle(x1, y1, x2-x1, y2-y1)
	s.dc.Fill()
}

func (s *GGSurface) DrawText(text string, x, y float64, c color.Color) {
	s.dc.SetColor(c)
	// gg places the baseline at y + h*ay, so ay=1 puts the top of the line at y
	s.dc.DrawStringAnchored(text, x, y, 0, 1)
}

func (s *GGSurface) MeasureText(text string) (w, h float64) {
	return s.dc.MeasureString(text)
}
