// Package imageio converts linear render output to 8-bit pixels and writes
// them as PNG or plain PPM images.
package imageio

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// ToRGBA converts a linear color to 8-bit sRGB-ish output using gamma 2.
// NaN components from degenerate samples come out as 0.
func ToRGBA(c core.Vec3) color.RGBA {
	c = c.Sqrt().Clamp(0.0, 0.999)

	return color.RGBA{
		R: quantize(c.X),
		G: quantize(c.Y),
		B: quantize(c.Z),
		A: 255,
	}
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(256 * v)
}

// ImageSink collects pixels written in raster order into an RGBA image
type ImageSink struct {
	img  *image.RGBA
	next int
}

// NewImageSink creates a sink for a width x height image
func NewImageSink(width, height int) *ImageSink {
	return &ImageSink{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// WritePixel stores the next pixel in raster order
func (s *ImageSink) WritePixel(c core.Vec3) error {
	bounds := s.img.Bounds()
	if s.next >= bounds.Dx()*bounds.Dy() {
		return ErrImageFull
	}

	x := s.next % bounds.Dx()
	y := s.next / bounds.Dx()
	s.img.SetRGBA(x, y, ToRGBA(c))
	s.next++
	return nil
}

// Image returns the image built so far
func (s *ImageSink) Image() *image.RGBA {
	return s.img
}
