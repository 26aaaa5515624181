package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// ErrImageFull is returned when more pixels are written than the image holds
var ErrImageFull = errors.New("imageio: all pixels already written")

// PPMWriter streams pixels as a plain (P3) PPM image. The header is written
// with the first pixel; call Flush once the last pixel is written.
type PPMWriter struct {
	w             *bufio.Writer
	width, height int
	written       int
}

// NewPPMWriter creates a streaming PPM writer for a width x height image
func NewPPMWriter(w io.Writer, width, height int) *PPMWriter {
	return &PPMWriter{w: bufio.NewWriter(w), width: width, height: height}
}

// WritePixel writes the next pixel in raster order
func (p *PPMWriter) WritePixel(c core.Vec3) error {
	if p.written >= p.width*p.height {
		return ErrImageFull
	}
	if p.written == 0 {
		if err := p.writeHeader(); err != nil {
			return err
		}
	}

	rgba := ToRGBA(c)
	if _, err := fmt.Fprintf(p.w, "%d %d %d\n", rgba.R, rgba.G, rgba.B); err != nil {
		return fmt.Errorf("write ppm pixel: %w", err)
	}
	p.written++
	return nil
}

// Flush writes any buffered data and reports an incomplete image
func (p *PPMWriter) Flush() error {
	if err := p.w.Flush(); err != nil {
		return fmt.Errorf("flush ppm: %w", err)
	}
	if p.written != p.width*p.height {
		return fmt.Errorf("ppm incomplete: wrote %d of %d pixels", p.written, p.width*p.height)
	}
	return nil
}

func (p *PPMWriter) writeHeader() error {
	if _, err := fmt.Fprintf(p.w, "P3\n%d %d\n255\n", p.width, p.height); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}
	return nil
}

// EncodePPM writes an already quantized image as a plain PPM
func EncodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return fmt.Errorf("write ppm header: %w", err)
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", r>>8, g>>8, b>>8); err != nil {
				return fmt.Errorf("write ppm pixel: %w", err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush ppm: %w", err)
	}
	return nil
}
