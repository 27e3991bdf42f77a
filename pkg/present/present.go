package present

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/keyframes/pkg/overlay"
)

const DefaultJPEGQuality = 90

// EncodeImage compresses an RGB image to PNG or JPEG, based on the extension of filename
func EncodeImage(img *cimg.Image, filename string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		rgba, err := overlay.ToRGBA(img)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, rgba); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ".jpg", ".jpeg":
		return cimg.Compress(img, cimg.MakeCompressParams(cimg.Sampling420, DefaultJPEGQuality, 0))
	}
	return nil, fmt.Errorf("Unsupported image type '%v'. Use .png or .jpg", filepath.Ext(filename))
}

// SaveImage writes img to filename, as PNG or JPEG
func SaveImage(img *cimg.Image, filename string) error {
	b, err := EncodeImage(img, filename)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}

// Show opens an image file in the desktop's default viewer, without waiting for the viewer to exit
func Show(filename string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", filename)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", filename)
	default:
		cmd = exec.Command("xdg-open", filename)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("Failed to show %v: %w", filename, err)
	}
	go cmd.Wait()
	return nil
}
