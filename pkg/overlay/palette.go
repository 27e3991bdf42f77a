package overlay

import (
	"image/color"

	"github.com/cespare/xxhash/v2"
)

// PaletteVersion must be incremented whenever Palette or the hash in PaletteIndex changes,
// because doing so changes the color of every class.
const PaletteVersion = 1

type NamedColor struct {
	Name string
	RGBA color.RGBA
}

// Palette is the fixed list of box and label background colors.
var Palette = []NamedColor{
	{"aliceblue", color.RGBA{240, 248, 255, 255}},
	{"chartreuse", color.RGBA{127, 255, 0, 255}},
	{"aqua", color.RGBA{0, 255, 255, 255}},
	{"aquamarine", color.RGBA{127, 255, 212, 255}},
	{"azure", color.RGBA{240, 255, 255, 255}},
	{"beige", color.RGBA{245, 245, 220, 255}},
	{"bisque", color.RGBA{255, 228, 196, 255}},
	{"blanchedalmond", color.RGBA{255, 235, 205, 255}},
	{"blueviolet", color.RGBA{138, 43, 226, 255}},
	{"burlywood", color.RGBA{222, 184, 135, 255}},
	{"cadetblue", color.RGBA{95, 158, 160, 255}},
	{"antiquewhite", color.RGBA{250, 235, 215, 255}},
	{"chocolate", color.RGBA{210, 105, 30, 255}},
	{"coral", color.RGBA{255, 127, 80, 255}},
	{"cornflowerblue", color.RGBA{100, 149, 237, 255}},
	{"cornsilk", color.RGBA{255, 248, 220, 255}},
	{"crimson", color.RGBA{220, 20, 60, 255}},
	{"darkcyan", color.RGBA{0, 139, 139, 255}},
	{"darkgoldenrod", color.RGBA{184, 134, 11, 255}},
	{"darkgray", color.RGBA{169, 169, 169, 255}},
	{"darkkhaki", color.RGBA{189, 183, 107, 255}},
	{"darkorange", color.RGBA{255, 140, 0, 255}},
	{"darkorchid", color.RGBA{153, 50, 204, 255}},
	{"darksalmon", color.RGBA{233, 150, 122, 255}},
	{"darkseagreen", color.RGBA{143, 188, 143, 255}},
	{"darkturquoise", color.RGBA{0, 206, 209, 255}},
	{"darkviolet", color.RGBA{148, 0, 211, 255}},
	{"deeppink", color.RGBA{255, 20, 147, 255}},
	{"deepskyblue", color.RGBA{0, 191, 255, 255}},
	{"dodgerblue", color.RGBA{30, 144, 255, 255}},
	{"firebrick", color.RGBA{178, 34, 34, 255}},
	{"floralwhite", color.RGBA{255, 250, 240, 255}},
	{"forestgreen", color.RGBA{34, 139, 34, 255}},
	{"fuchsia", color.RGBA{255, 0, 255, 255}},
	{"gainsboro", color.RGBA{220, 220, 220, 255}},
	{"ghostwhite", color.RGBA{248, 248, 255, 255}},
	{"gold", color.RGBA{255, 215, 0, 255}},
	{"goldenrod", color.RGBA{218, 165, 32, 255}},
	{"salmon", color.RGBA{250, 128, 114, 255}},
	{"tan", color.RGBA{210, 180, 140, 255}},
	{"honeydew", color.RGBA{240, 255, 240, 255}},
	{"hotpink", color.RGBA{255, 105, 180, 255}},
	{"indianred", color.RGBA{205, 92, 92, 255}},
	{"ivory", color.RGBA{255, 255, 240, 255}},
	{"khaki", color.RGBA{240, 230, 140, 255}},
	{"lavender", color.RGBA{230, 230, 250, 255}},
	{"lavenderblush", color.RGBA{255, 240, 245, 255}},
	{"lawngreen", color.RGBA{124, 252, 0, 255}},
	{"lemonchiffon", color.RGBA{255, 250, 205, 255}},
	{"lightblue", color.RGBA{173, 216, 230, 255}},
	{"lightcoral", color.RGBA{240, 128, 128, 255}},
	{"lightcyan", color.RGBA{224, 255, 255, 255}},
	{"lightgreen", color.RGBA{144, 238, 144, 255}},
	{"lightpink", color.RGBA{255, 182, 193, 255}},
	{"lightsalmon", color.RGBA{255, 160, 122, 255}},
	{"lightseagreen", color.RGBA{32, 178, 170, 255}},
	{"lightskyblue", color.RGBA{135, 206, 250, 255}},
	{"lightsteelblue", color.RGBA{176, 196, 222, 255}},
	{"lime", color.RGBA{0, 255, 0, 255}},
	{"limegreen", color.RGBA{50, 205, 50, 255}},
	{"mediumaquamarine", color.RGBA{102, 205, 170, 255}},
	{"mediumorchid", color.RGBA{186, 85, 211, 255}},
	{"mediumseagreen", color.RGBA{60, 179, 113, 255}},
	{"mediumspringgreen", color.RGBA{0, 250, 154, 255}},
	{"mediumturquoise", color.RGBA{72, 209, 204, 255}},
	{"mediumvioletred", color.RGBA{199, 21, 133, 255}},
	{"orange", color.RGBA{255, 165, 0, 255}},
	{"orchid", color.RGBA{218, 112, 214, 255}},
	{"palegreen", color.RGBA{152, 251, 152, 255}},
	{"paleturquoise", color.RGBA{175, 238, 238, 255}},
	{"palevioletred", color.RGBA{219, 112, 147, 255}},
	{"peachpuff", color.RGBA{255, 218, 185, 255}},
	{"peru", color.RGBA{205, 133, 63, 255}},
	{"pink", color.RGBA{255, 192, 203, 255}},
	{"plum", color.RGBA{221, 160, 221, 255}},
	{"powderblue", color.RGBA{176, 224, 230, 255}},
	{"red", color.RGBA{255, 0, 0, 255}},
	{"royalblue", color.RGBA{65, 105, 225, 255}},
	{"sandybrown", color.RGBA{244, 164, 96, 255}},
	{"seagreen", color.RGBA{46, 139, 87, 255}},
	{"silver", color.RGBA{192, 192, 192, 255}},
	{"skyblue", color.RGBA{135, 206, 235, 255}},
	{"springgreen", color.RGBA{0, 255, 127, 255}},
	{"steelblue", color.RGBA{70, 130, 180, 255}},
	{"thistle", color.RGBA{216, 191, 216, 255}},
	{"tomato", color.RGBA{255, 99, 71, 255}},
	{"turquoise", color.RGBA{64, 224, 208, 255}},
	{"violet", color.RGBA{238, 130, 238, 255}},
	{"wheat", color.RGBA{245, 222, 179, 255}},
	{"yellow", color.RGBA{255, 255, 0, 255}},
	{"yellowgreen", color.RGBA{154, 205, 50, 255}},
}

// PaletteIndex maps a class label to an index in Palette.
// The hash is xxHash64 (seed 0) over the UTF-8 bytes of the label, so the mapping is stable
// across processes, machines, and releases with the same PaletteVersion.
func PaletteIndex(classEntity string) int {
	return int(xxhash.Sum64String(classEntity) % uint64(len(Palette)))
}

// ColorForClass returns the box color of a class label
func ColorForClass(classEntity string) NamedColor {
	return Palette[PaletteIndex(classEntity)]
}
