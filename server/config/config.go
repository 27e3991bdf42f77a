package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chewxy/math32"
	"github.com/cyclopcam/keyframes/pkg/nn"
	"github.com/cyclopcam/keyframes/pkg/overlay"
	"github.com/cyclopcam/keyframes/pkg/source"
	"github.com/cyclopcam/keyframes/pkg/storage"
	"github.com/cyclopcam/logs"
)

const DefaultFilename = "keyframes.json"

const (
	StorageFS  = "fs"
	StorageGCS = "gcs"
)

type Config struct {
	Listen           string  `json:"listen"`           // HTTP listen address, eg ":8080"
	Storage          string  `json:"storage"`          // "fs" or "gcs"
	Root             string  `json:"root"`             // Directory (fs) or bucket name (gcs)
	RecordsPrefix    string  `json:"recordsPrefix"`    // Folder of detection records, eg "records"
	ImagesPrefix     string  `json:"imagesPrefix"`     // Folder of key frame images, eg "images"
	ImageExtension   string  `json:"imageExtension"`   // Extension of key frame images, eg ".jpg"
	FontPath         string  `json:"fontPath"`         // TrueType font for labels
	FontSize         float64 `json:"fontSize"`         // Label font size, in points
	MaxBoxes         int     `json:"maxBoxes"`         // Default rank cutoff of queries and overlays
	MinScore         float32 `json:"minScore"`         // Default score threshold of queries and overlays
	OverlayRateLimit int     `json:"overlayRateLimit"` // Maximum overlay requests per minute, per IP
}

func LoadConfig(filename string) (*Config, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("Error loading %v: %w", filename, err)
	}
	// Unmarshal only overwrites the fields that are present
	cfg := &Config{MinScore: nn.DefaultMinScore}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("Error loading as JSON %v: %w", filename, err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid config %v: %w", filename, err)
	}
	return cfg, nil
}

// SetDefaults fills in zero values.
// MinScore is left alone, because zero is a legal threshold.
func (c *Config) SetDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.Storage == "" {
		c.Storage = StorageFS
	}
	if c.Root == "" && c.Storage == StorageFS {
		c.Root = "."
	}
	if c.RecordsPrefix == "" {
		c.RecordsPrefix = "records"
	}
	if c.ImagesPrefix == "" {
		c.ImagesPrefix = "images"
	}
	if c.ImageExtension == "" {
		c.ImageExtension = source.DefaultImageExtension
	}
	if c.FontPath == "" {
		c.FontPath = overlay.DefaultFontPath
	}
	if c.FontSize <= 0 {
		c.FontSize = overlay.DefaultFontSize
	}
	if c.MaxBoxes <= 0 {
		c.MaxBoxes = nn.DefaultMaxBoxes
	}
	if c.OverlayRateLimit <= 0 {
		c.OverlayRateLimit = 60
	}
}

// NewConfig returns a config with every field at its default
func NewConfig() *Config {
	c := &Config{
		MinScore: nn.DefaultMinScore,
	}
	c.SetDefaults()
	return c
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFS, StorageGCS:
	default:
		return fmt.Errorf("Unknown storage '%v'. Must be '%v' or '%v'", c.Storage, StorageFS, StorageGCS)
	}
	if c.Storage == StorageGCS && c.Root == "" {
		return fmt.Errorf("GCS storage requires a bucket name in 'root'")
	}
	if math32.IsNaN(c.MinScore) || c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("minScore must be between 0 and 1 (not %v)", c.MinScore)
	}
	return nil
}

// QueryParams returns the configured default query parameters
func (c *Config) QueryParams() *nn.QueryParams {
	return &nn.QueryParams{
		MaxBoxes: c.MaxBoxes,
		MinScore: c.MinScore,
	}
}

// OpenStorage opens the configured blob store
func (c *Config) OpenStorage(log logs.Log) (storage.Storage, error) {
	switch c.Storage {
	case StorageGCS:
		return storage.NewStorageGCS(log, c.Root)
	default:
		return storage.NewStorageFS(log, c.Root)
	}
}
