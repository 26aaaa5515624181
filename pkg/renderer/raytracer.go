package renderer

import (
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
)

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() core.Camera
	GetWorld() core.Shape
	GetSamplingConfig() core.SamplingConfig
}

// PixelSink receives finished, sample-averaged linear colors one pixel at a
// time in raster order: top row first, left to right within a row
type PixelSink interface {
	WritePixel(color core.Vec3) error
}

// Raytracer renders a whole image in a single pass on the calling goroutine
type Raytracer struct {
	scene      Scene
	integrator integrator.Integrator
	width      int
	height     int
	config     core.SamplingConfig
}

// NewRaytracer creates a new raytracer using the scene's sampling configuration
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:      scene,
		integrator: integrator.NewPathTracingIntegrator(),
		width:      width,
		height:     height,
		config:     scene.GetSamplingConfig(),
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config core.SamplingConfig) {
	rt.config = config
}

// MergeSamplingConfig applies the non-zero fields of updates
func (rt *Raytracer) MergeSamplingConfig(updates core.SamplingConfig) {
	if updates.SamplesPerPixel != 0 {
		rt.config.SamplesPerPixel = updates.SamplesPerPixel
	}
	if updates.MaxDepth != 0 {
		rt.config.MaxDepth = updates.MaxDepth
	}
	if updates.AdaptiveMinSamples != 0 {
		rt.config.AdaptiveMinSamples = updates.AdaptiveMinSamples
	}
	if updates.AdaptiveThreshold != 0 {
		rt.config.AdaptiveThreshold = updates.AdaptiveThreshold
	}
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(integ integrator.Integrator) {
	rt.integrator = integ
}

// GetSamplingConfig returns the active sampling configuration
func (rt *Raytracer) GetSamplingConfig() core.SamplingConfig {
	return rt.config
}

// SamplePixel traces one jittered camera ray through pixel (x, y), where y=0
// is the top row of the image, and returns its linear color
func (rt *Raytracer) SamplePixel(x, y int, sampler core.Sampler) core.Vec3 {
	// Camera coordinates grow upwards from the bottom-left corner
	j := rt.height - 1 - y
	s := (float64(x) + sampler.Float64()) / float64(max(1, rt.width-1))
	t := (float64(j) + sampler.Float64()) / float64(max(1, rt.height-1))

	ray := rt.scene.GetCamera().GetRay(s, t, sampler)
	return rt.integrator.RayColor(ray, rt.scene.GetWorld(), sampler, rt.config.MaxDepth)
}

// Render takes SamplesPerPixel samples for every pixel and writes the averages
// to sink in raster order
func (rt *Raytracer) Render(sink PixelSink, sampler core.Sampler) (RenderStats, error) {
	samples := max(1, rt.config.SamplesPerPixel)
	stats := newRenderStats(rt.width*rt.height, samples)

	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			var ps PixelStats
			for ps.SampleCount < samples {
				ps.AddSample(rt.SamplePixel(x, y, sampler))
			}

			if err := sink.WritePixel(ps.GetColor()); err != nil {
				return stats, fmt.Errorf("write pixel (%d, %d): %w", x, y, err)
			}
			stats.update(ps.SampleCount)
		}
	}

	stats.finalize()
	return stats, nil
}
