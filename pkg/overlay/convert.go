package overlay

import (
	"fmt"
	"image"

	"github.com/bmharper/cimg/v2"
)

// ToRGBA copies a 24-bit RGB image into a new opaque RGBA image
func ToRGBA(img *cimg.Image) (*image.RGBA, error) {
	if img.Format != cimg.PixelFormatRGB {
		return nil, fmt.Errorf("Expected an RGB image, but pixel format is %v", img.Format)
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		src := img.Pixels[y*img.Stride : y*img.Stride+img.Width*3]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+img.Width*4]
		for x := 0; x < img.Width; x++ {
			out[x*4] = src[x*3]
			out[x*4+1] = src[x*3+1]
			out[x*4+2] = src[x*3+2]
			out[x*4+3] = 255
		}
	}
	return dst, nil
}

// CopyFromRGBA writes the RGB channels of src into the 24-bit RGB image dst.
// Both images must have the same dimensions.
func CopyFromRGBA(dst *cimg.Image, src *image.RGBA) {
	b := src.Bounds()
	if b.Dx() != dst.Width || b.Dy() != dst.Height {
		panic("CopyFromRGBA: image sizes differ")
	}
	for y := 0; y < dst.Height; y++ {
		in := src.Pix[y*src.Stride : y*src.Stride+dst.Width*4]
		out := dst.Pixels[y*dst.Stride : y*dst.Stride+dst.Width*3]
		for x := 0; x < dst.Width; x++ {
			out[x*3] = in[x*4]
			out[x*3+1] = in[x*4+1]
			out[x*3+2] = in[x*4+2]
		}
	}
}
