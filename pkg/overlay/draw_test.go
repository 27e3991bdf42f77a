package overlay

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"testing"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/keyframes/pkg/nn"
	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"
)

type line struct {
	x1, y1, x2, y2, width float64
	c                     color.Color
}

type text struct {
	text string
	x, y float64
	c    color.Color
}

// recordingSurface records drawing calls. Text is 10 pixels wide per character, and 30 pixels high.
type recordingSurface struct {
	lines []line
	rects []nn.PixelRect
	texts []text
}

func (s *recordingSurface) DrawLine(x1, y1, x2, y2, width float64, c color.Color) {
	s.lines = append(s.lines, line{x1, y1, x2, y2, width, c})
}

func (s *recordingSurface) FillRect(x1, y1, x2, y2 float64, c color.Color) {
	s.rects = append(s.rects, nn.PixelRect{Left: x1, Top: y1, Right: x2, Bottom: y2})
}

func (s *recordingSurface) DrawText(t string, x, y float64, c color.Color) {
	s.texts = append(s.texts, text{t, x, y, c})
}

func (s *recordingSurface) MeasureText(t string) (w, h float64) {
	return float64(len(t) * 10), 30
}

func catRecord(score float32) *nn.DetectionRecord {
	return &nn.DetectionRecord{
		Boxes:         []nn.Box{{YMin: 0.1, XMin: 0.1, YMax: 0.4, XMax: 0.4}},
		Scores:        []float32{score},
		ClassNames:    []string{"/m/01yrx"},
		ClassEntities: []string{"cat"},
	}
}

func testRenderer(t *testing.T) *Renderer {
	return NewRenderer(logs.NewTestingLog(t), "/nonexistent/font.ttf", 0)
}

func TestLabelText(t *testing.T) {
	require.Equal(t, "cat: 90%", LabelText("cat", 0.9))
	require.Equal(t, "Dog: 100%", LabelText("Dog", 1))
	require.Equal(t, "Dog: 0%", LabelText("Dog", 0.001))
	require.Equal(t, "Dog: 57%", LabelText("Dog", 0.567))
}

func TestPalette(t *testing.T) {
	// PaletteIndex is a modulo of the palette size, so changing the size changes every class color.
	// Bump PaletteVersion if this changes.
	require.Equal(t, 1, PaletteVersion)
	require.Equal(t, 91, len(Palette))
	names := map[string]bool{}
	for _, c := range Palette {
		require.False(t, names[c.Name], "duplicate color %v", c.Name)
		names[c.Name] = true
		require.Equal(t, uint8(255), c.RGBA.A)
	}
}

func TestColorForClass(t *testing.T) {
	require.Equal(t, ColorForClass("cat"), ColorForClass("cat"))
	require.Equal(t, PaletteIndex("Person"), PaletteIndex("Person"))

	used := map[int]bool{}
	for i := 0; i < 1000; i++ {
		idx := PaletteIndex(fmt.Sprintf("class-%v", i))
		require.True(t, idx >= 0 && idx < len(Palette))
		used[idx] = true
	}
	// A reasonable hash should spread 1000 labels over most of the palette
	require.Greater(t, len(used), len(Palette)/2)

	names := map[string]bool{}
	for _, c := range Palette {
		require.False(t, names[c.Name], "duplicate palette entry %v", c.Name)
		names[c.Name] = true
		require.Equal(t, uint8(255), c.RGBA.A)
	}
}

func TestDrawBoxesOnScenario(t *testing.T) {
	r := testRenderer(t)
	s := &recordingSurface{}
	n := r.DrawBoxesOn(s, 100, 100, catRecord(0.9), &nn.QueryParams{MaxBoxes: 10, MinScore: 0.5})
	require.Equal(t, 1, n)

	catColor := ColorForClass("cat").RGBA
	require.Len(t, s.lines, 4)
	xs := map[float64]bool{}
	ys := map[float64]bool{}
	for _, l := range s.lines {
		require.Equal(t, float64(DefaultThickness), l.width)
		require.Equal(t, catColor, l.c)
		for _, v := range []float64{l.x1, l.x2} {
			xs[math.Round(v)] = true
		}
		for _, v := range []float64{l.y1, l.y2} {
			ys[math.Round(v)] = true
		}
	}
	require.Equal(t, map[float64]bool{10: true, 40: true}, xs)
	require.Equal(t, map[float64]bool{10: true, 40: true}, ys)

	require.Len(t, s.texts, 1)
	require.Equal(t, "cat: 90%", s.texts[0].text)
	require.Equal(t, labelTextColor, s.texts[0].c)
	require.Len(t, s.rects, 1)

	// top=10 is less than 1.1 * 30, so the label is pushed below the top edge
	require.InDelta(t, 10+33, s.rects[0].Bottom, 1e-9)
	require.GreaterOrEqual(t, s.texts[0].y, 0.0)
}

func TestDrawBoxesOnFilters(t *testing.T) {
	r := testRenderer(t)

	s := &recordingSurface{}
	require.Equal(t, 0, r.DrawBoxesOn(s, 100, 100, catRecord(0.3), &nn.QueryParams{MaxBoxes: 10, MinScore: 0.5}))
	require.Empty(t, s.lines)
	require.Empty(t, s.texts)

	rec := &nn.DetectionRecord{}
	for i := 0; i < 12; i++ {
		rec.Boxes = append(rec.Boxes, nn.Box{YMin: 0.5, XMin: 0.1, YMax: 0.9, XMax: 0.2})
		rec.Scores = append(rec.Scores, 0.9)
		rec.ClassNames = append(rec.ClassNames, "x")
		rec.ClassEntities = append(rec.ClassEntities, fmt.Sprintf("class%v", i))
	}
	rec.Scores[3] = 0.2
	s = &recordingSurface{}
	require.Equal(t, 9, r.DrawBoxesOn(s, 100, 100, rec, nil))
	require.Len(t, s.texts, 9)
	// Drawn in rank order
	require.Equal(t, "class0: 90%", s.texts[0].text)
	require.Equal(t, "class4: 90%", s.texts[3].text)
	require.Equal(t, "class9: 90%", s.texts[8].text)
}

func TestPlaceLabels(t *testing.T) {
	s := &recordingSurface{}

	// Enough room above the box
	p := PlaceLabels(s, nn.PixelRect{Left: 50, Top: 100, Right: 150, Bottom: 200}, []string{"cat: 90%"})
	require.Len(t, p, 1)
	// margin = ceil(0.05 * 30) = 2
	require.Equal(t, nn.PixelRect{Left: 50, Top: 100 - 30 - 4, Right: 50 + 80, Bottom: 100}, p[0].Background)
	require.Equal(t, 52.0, p[0].TextX)
	require.Equal(t, 100.0-30-2, p[0].TextY)

	// Not enough room above the box. Text must never be anchored above row 0.
	for _, top := range []float64{0, 5, 10, 33} {
		p = PlaceLabels(s, nn.PixelRect{Left: 0, Top: top, Right: 50, Bottom: 90}, []string{"cat: 90%"})
		require.InDelta(t, top+33, p[0].Background.Bottom, 1e-9)
		require.GreaterOrEqual(t, p[0].TextY, 0.0)
		require.GreaterOrEqual(t, p[0].Background.Bottom, 30.0)
	}
}

func TestPlaceLabelsStacked(t *testing.T) {
	s := &recordingSurface{}
	labels := []string{"first", "second", "third"}
	for _, top := range []float64{300, 20} {
		p := PlaceLabels(s, nn.PixelRect{Left: 0, Top: top, Right: 50, Bottom: 400}, labels)
		require.Len(t, p, 3)
		// Drawn in reverse order, stacking upwards
		require.Equal(t, "third", p[0].Text)
		require.Equal(t, "first", p[2].Text)
		for i := 1; i < len(p); i++ {
			require.LessOrEqual(t, p[i].Background.Bottom, p[i-1].Background.Top, "labels overlap")
		}
		require.GreaterOrEqual(t, p[2].Background.Top, 0.0)
		if top == 300 {
			require.Equal(t, 300.0, p[0].Background.Bottom)
		}
	}
}

func TestFontFallback(t *testing.T) {
	var output bytes.Buffer
	r := NewRenderer(&logs.Logger{Output: &output}, "/nonexistent/font.ttf", 0)
	require.True(t, r.UsingBuiltinFont())
	require.Contains(t, output.String(), "Warning Font /nonexistent/font.ttf unavailable, using built-in font")
	w, h := r.MeasureText("cat: 90%")
	require.Greater(t, w, 0.0)
	require.Greater(t, h, 0.0)
}

func TestDrawBoxesPixels(t *testing.T) {
	r := testRenderer(t)
	img := cimg.NewImage(400, 400, cimg.PixelFormatRGB)
	rec := catRecord(0.9)
	rec.Boxes[0] = nn.Box{YMin: 0.25, XMin: 0.25, YMax: 0.75, XMax: 0.75}

	out, err := r.DrawBoxes(img, rec, nn.NewQueryParams())
	require.NoError(t, err)
	require.Same(t, img, out)

	pixel := func(x, y int) color.RGBA {
		p := img.Pixels[y*img.Stride+x*3:]
		return color.RGBA{p[0], p[1], p[2], 255}
	}
	requireColor := func(expect color.RGBA, x, y int) {
		t.Helper()
		actual := pixel(x, y)
		require.InDelta(t, expect.R, actual.R, 2, "pixel %v,%v: %v", x, y, actual)
		require.InDelta(t, expect.G, actual.G, 2, "pixel %v,%v: %v", x, y, actual)
		require.InDelta(t, expect.B, actual.B, 2, "pixel %v,%v: %v", x, y, actual)
	}
	black := color.RGBA{0, 0, 0, 255}
	catColor := ColorForClass("cat").RGBA

	// box outline
	requireColor(catColor, 100, 200)
	requireColor(catColor, 300, 200)
	requireColor(catColor, 200, 300)
	// inside and outside the box
	requireColor(black, 200, 200)
	requireColor(black, 200, 350)
	requireColor(black, 0, 0)

	// The label background sits above the box. Sample its top margin, where there is no text.
	w, h := r.MeasureText("cat: 90%")
	require.Less(t, 1.1*h, 100.0)
	margin := math.Ceil(0.05 * h)
	bgTop := 100 - h - 2*margin
	requireColor(catColor, 100+int(w)-1, int(math.Ceil(bgTop)))
}

func TestDrawBoxesBelowThresholdLeavesImageUnchanged(t *testing.T) {
	r := testRenderer(t)
	img := cimg.NewImage(100, 100, cimg.PixelFormatRGB)
	for i := range img.Pixels {
		img.Pixels[i] = byte(i * 7)
	}
	before := bytes.Clone(img.Pixels)
	out, err := r.DrawBoxes(img, catRecord(0.3), &nn.QueryParams{MaxBoxes: 10, MinScore: 0.5})
	require.NoError(t, err)
	require.Same(t, img, out)
	require.Equal(t, before, img.Pixels)
}

func TestDrawBoxesRequiresRGB(t *testing.T) {
	r := testRenderer(t)
	img := cimg.NewImage(10, 10, cimg.PixelFormatRGBA)
	_, err := r.DrawBoxes(img, catRecord(0.9), nil)
	require.Error(t, err)
}

func TestConvertRoundTrip(t *testing.T) {
	img := cimg.NewImage(7, 5, cimg.PixelFormatRGB)
	for i := range img.Pixels {
		img.Pixels[i] = byte(i)
	}
	rgba, err := ToRGBA(img)
	require.NoError(t, err)
	require.Equal(t, color.RGBA{3, 4, 5, 255}, rgba.RGBAAt(1, 0))
	dst := cimg.NewImage(7, 5, cimg.PixelFormatRGB)
	CopyFromRGBA(dst, rgba)
	require.Equal(t, img.Pixels, dst.Pixels)
}
