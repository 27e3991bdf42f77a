package nn

// Box is a detection box in normalized image coordinates, each component in [0,1].
// The field order matches the on-disk order (ymin, xmin, ymax, xmax).
type Box struct {
	YMin float64 `json:"ymin"`
	XMin float64 `json:"xmin"`
	YMax float64 `json:"ymax"`
	XMax float64 `json:"xmax"`
}

// PixelRect is a box in pixel space. It is not rounded, because drawing is done with sub-pixel precision.
type PixelRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

func (r PixelRect) Width() float64 {
	return r.Right - r.Left
}

func (r PixelRect) Height() float64 {
	return r.Bottom - r.Top
}

// ToPixels scales the box to an image of the given size.
// X is scaled by width, and Y by height.
func (b Box) ToPixels(width, height int) PixelRect {
	w := float64(width)
	h := float64(height)
	return PixelRect{
		Left:   b.XMin * w,
		Top:    b.YMin * h,
		Right:  b.XMax * w,
		Bottom: b.YMax * h,
	}
}

// Array returns the box in on-disk order
func (b Box) Array() [4]float64 {
	return [4]float64{b.YMin, b.XMin, b.YMax, b.XMax}
}
