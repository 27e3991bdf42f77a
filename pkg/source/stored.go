package source

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/keyframes/pkg/nn"
	"github.com/cyclopcam/keyframes/pkg/storage"
)

const RecordExtension = ".json"
const DefaultImageExtension = ".jpg"

// StoredRecords is a RecordSource backed by blob storage.
// A frame with ID "C00_V0000/000000" is stored at "<prefix>/C00_V0000/000000.json".
type StoredRecords struct {
	store  storage.Storage
	prefix string
}

func NewStoredRecords(store storage.Storage, prefix string) *StoredRecords {
	return &StoredRecords{
		store:  store,
		prefix: cleanPrefix(prefix),
	}
}

func (s *StoredRecords) ListRecords() ([]string, error) {
	names, err := s.store.List(s.prefix)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	for _, name := range names {
		if !strings.HasSuffix(name, RecordExtension) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name[len(s.prefix):], RecordExtension))
	}
	return ids, nil
}

func (s *StoredRecords) GetRecord(id string) (map[string]any, error) {
	b, err := storage.ReadFile(s.store, s.prefix+id+RecordExtension)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &MissingResourceError{Kind: "record", ID: id}
	} else if err != nil {
		return nil, err
	}
	raw, err := nn.DecodeRaw(b)
	if err != nil {
		return nil, fmt.Errorf("Record '%v': %w", id, err)
	}
	return raw, nil
}

// StoredImages is an ImageSource backed by blob storage, holding compressed images (eg JPEG).
type StoredImages struct {
	store     storage.Storage
	prefix    string
	extension string
}

func NewStoredImages(store storage.Storage, prefix, extension string) *StoredImages {
	if extension == "" {
		extension = DefaultImageExtension
	}
	return &StoredImages{
		store:     store,
		prefix:    cleanPrefix(prefix),
		extension: extension,
	}
}

func (s *StoredImages) GetImage(id string) (*cimg.Image, error) {
	b, err := storage.ReadFile(s.store, s.prefix+id+s.extension)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &MissingResourceError{Kind: "image", ID: id}
	} else if err != nil {
		return nil, err
	}
	img, err := cimg.Decompress(b)
	if err != nil {
		return nil, fmt.Errorf("Failed to decode image '%v': %w", id, err)
	}
	return ToRGB(img), nil
}

// ToRGB returns img if it is already 24-bit RGB, otherwise a converted copy.
// The renderer only works on RGB buffers.
func ToRGB(img *cimg.Image) *cimg.Image {
	if img.Format == cimg.PixelFormatRGB {
		return img
	}
	rgb := cimg.NewImage(img.Width, img.Height, cimg.PixelFormatRGB)
	nchan := img.NChan()
	for y := 0; y < img.Height; y++ {
		src := img.Pixels[y*img.Stride:]
		dst := rgb.Pixels[y*rgb.Stride:]
		for x := 0; x < img.Width; x++ {
			if nchan < 3 {
				g := src[x*nchan]
				dst[x*3], dst[x*3+1], dst[x*3+2] = g, g, g
			} else {
				// RGBA and friends. BGR orders are not produced by our decoder.
				dst[x*3], dst[x*3+1], dst[x*3+2] = src[x*nchan], src[x*nchan+1], src[x*nchan+2]
			}
		}
	}
	return rgb
}

// Turn "objects" into "objects/", and "" into "".
func cleanPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return path.Clean(prefix) + "/"
}
