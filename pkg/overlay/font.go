package overlay

import (
	"os"

	"github.com/cyclopcam/logs"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const DefaultFontPath = "/usr/share/fonts/truetype/liberation/LiberationSansNarrow-Regular.ttf"
const DefaultFontSize = 25

var builtinFont *truetype.Font

// init parses the built-in font, which we fall back to when a font file is unavailable
func init() {
	var err error
	builtinFont, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// loadFont loads a TrueType font file.
// On failure, a warning is logged and the built-in font is returned instead. Font problems never abort rendering.
func loadFont(log logs.Log, filename string) (f *truetype.Font, isBuiltin bool) {
	raw, err := os.ReadFile(filename)
	if err == nil {
		f, err = truetype.Parse(raw)
	}
	if err != nil {
		if log != nil {
			log.Warnf("Font %v unavailable, using built-in font: %v", filename, err)
		}
		return builtinFont, true
	}
	return f, false
}

// newFace creates a font face. Faces hold glyph caches, so they must not be shared between goroutines.
func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size})
}
