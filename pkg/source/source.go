package source

import (
	"errors"
	"fmt"

	"github.com/bmharper/cimg/v2"
)

var ErrMissingResource = errors.New("Missing resource")

// MissingResourceError is returned when a frame identifier is not present in a source
type MissingResourceError struct {
	Kind string // "record" or "image"
	ID   string
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("%v '%v' not found", e.Kind, e.ID)
}

func (e *MissingResourceError) Is(target error) bool {
	return target == ErrMissingResource
}

// RecordSource supplies raw detection records, keyed by frame identifier
type RecordSource interface {
	// ListRecords returns all frame identifiers, in a stable order
	ListRecords() ([]string, error)

	// GetRecord returns the raw (unvalidated) record of a frame.
	// Use nn.Parse to validate it.
	GetRecord(id string) (map[string]any, error)
}

// ImageSource supplies decoded 24-bit RGB images, keyed by frame identifier
type ImageSource interface {
	GetImage(id string) (*cimg.Image, error)
}
