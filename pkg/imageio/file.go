package imageio

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Save writes img to path, choosing PNG or PPM from the file extension
func Save(path string, img image.Image) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close image file: %w", cerr)
		}
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return EncodePPM(f, img)
	case ".png":
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported image format %q", filepath.Ext(path))
	}
}
