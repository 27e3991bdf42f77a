package overlay

import (
	"fmt"
	"image/color"
	"math"

	"github.com/bmharper/cimg/v2"
	"github.com/chewxy/math32"
	"github.com/cyclopcam/keyframes/pkg/nn"
	"github.com/cyclopcam/logs"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
)

const DefaultThickness = 4

// Each label has a top and bottom margin of this fraction of its height
const labelMarginFraction = 0.05

var labelTextColor = color.RGBA{0, 0, 0, 255}

// Renderer draws detection boxes and their labels onto images.
// A Renderer is immutable once created, so it can be shared between goroutines.
type Renderer struct {
	Thickness float64 // Width of box outlines, in pixels
	FontSize  float64

	font        *truetype.Font
	builtinFont bool
}

// NewRenderer creates a renderer that draws labels with the given TrueType font file.
// If fontFile is empty, DefaultFontPath is used. If the font can't be loaded, a warning
// is logged and the built-in font is used instead.
// If fontSize is not positive, DefaultFontSize is used.
func NewRenderer(log logs.Log, fontFile string, fontSize float64) *Renderer {
	if fontFile == "" {
		fontFile = DefaultFontPath
	}
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	f, isBuiltin := loadFont(log, fontFile)
	return &Renderer{
		Thickness:   DefaultThickness,
		FontSize:    fontSize,
		font:        f,
		builtinFont: isBuiltin,
	}
}

// UsingBuiltinFont returns true if the requested font could not be loaded
func (r *Renderer) UsingBuiltinFont() bool {
	return r.builtinFont
}

func (r *Renderer) surfaceFor(dc *gg.Context) *GGSurface {
	dc.SetFontFace(newFace(r.font, r.FontSize))
	return NewGGSurface(dc)
}

// MeasureText returns the size of text, as it would be drawn by this renderer
func (r *Renderer) MeasureText(text string) (w, h float64) {
	return r.surfaceFor(gg.NewContext(1, 1)).MeasureText(text)
}

// DrawBoxes draws the boxes and labels of rec onto img, and returns img.
// The image is modified in place. img must be 24-bit RGB.
// Only the first params.MaxBoxes detections are drawn, and of those, only detections with a
// score of at least params.MinScore. A nil params uses the defaults.
// If no detection passes the filter, img is left untouched.
func (r *Renderer) DrawBoxes(img *cimg.Image, rec *nn.DetectionRecord, params *nn.QueryParams) (*cimg.Image, error) {
	rgba, err := ToRGBA(img)
	if err != nil {
		return nil, err
	}
	surface := r.surfaceFor(gg.NewContextForRGBA(rgba))
	if r.DrawBoxesOn(surface, img.Width, img.Height, rec, params) != 0 {
		CopyFromRGBA(img, rgba)
	}
	return img, nil
}

// DrawBoxesOn draws the boxes and labels of rec onto an arbitrary surface of the given size.
// Returns the number of boxes drawn.
func (r *Renderer) DrawBoxesOn(s Surface, width, height int, rec *nn.DetectionRecord, params *nn.QueryParams) int {
	nDrawn := 0
	minScore := params.EffectiveMinScore()
	for i := 0; i < rec.Limit(params.EffectiveMaxBoxes()); i++ {
		if rec.Scores[i] < minScore {
			continue
		}
		entity := rec.ClassEntities[i]
		rect := rec.Boxes[i].ToPixels(width, height)
		DrawBoundingBox(s, rect, ColorForClass(entity).RGBA, r.Thickness, []string{LabelText(entity, rec.Scores[i])})
		nDrawn++
	}
	return nDrawn
}

// LabelText returns the text that we draw alongside a box, eg "Cat: 90%"
func LabelText(classEntity string, score float32) string {
	return fmt.Sprintf("%v: %v%%", classEntity, int(math32.Round(100*score)))
}

// LabelPlacement is where a single label is drawn
type LabelPlacement struct {
	Text       string
	Background nn.PixelRect // Filled with the box color
	TextX      float64      // Left edge of text
	TextY      float64      // Top edge of text
}

// PlaceLabels computes where the labels of a box go.
// Labels are stacked upwards from the top edge of the box, with the last label closest to the box.
// If there isn't enough room between the top of the box and the top of the image, the stack is
// pushed down by its own height, so that it doesn't run off the canvas.
// Results are in drawing order (ie reverse of labels).
func PlaceLabels(s Surface, rect nn.PixelRect, labels []string) []LabelPlacement {
	heights := 0.0
	for _, label := range labels {
		_, h := s.MeasureText(label)
		heights += h
	}
	total := (1 + 2*labelMarginFraction) * heights

	textBottom := rect.Top
	if rect.Top <= total {
		textBottom = rect.Top + total
	}

	placements := make([]LabelPlacement, 0, len(labels))
	for i := len(labels) - 1; i >= 0; i-- {
		w, h := s.MeasureText(labels[i])
		margin := math.Ceil(labelMarginFraction * h)
		placements = append(placements, LabelPlacement{
			Text: labels[i],
			Background: nn.PixelRect{
				Left:   rect.Left,
				Top:    textBottom - h - 2*margin,
				Right:  rect.Left + w,
				Bottom: textBottom,
			},
			TextX: rect.Left + margin,
			TextY: textBottom - h - margin,
		})
		textBottom -= h + 2*margin
	}
	return placements
}

// DrawBoundingBox draws the outline of rect, and its labels
func DrawBoundingBox(s Surface, rect nn.PixelRect, c color.Color, thickness float64, labels []string) {
	s.DrawLine(rect.Left, rect.Top, rect.Left, rect.Bottom, thickness, c)
	s.DrawLine(rect.Left, rect.Bottom, rect.Right, rect.Bottom, thickness, c)
	s.DrawLine(rect.Right, rect.Bottom, rect.Right, rect.Top, thickness, c)
	s.DrawLine(rect.Right, rect.Top, rect.Left, rect.Top, thickness, c)

	for _, p := range PlaceLabels(s, rect, labels) {
		s.FillRect(p.Background.Left, p.Background.Top, p.Background.Right, p.Background.Bottom, c)
		s.DrawText(p.Text, p.TextX, p.TextY, labelTextColor)
	}
}
