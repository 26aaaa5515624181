package renderer

import (
	"image"
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// TileRenderer handles the actual rendering of individual tiles
type TileRenderer struct {
	raytracer *Raytracer
}

// NewTileRenderer creates a new tile renderer sampling pixels through raytracer
func NewTileRenderer(raytracer *Raytracer) *TileRenderer {
	return &TileRenderer{raytracer: raytracer}
}

// RenderTileBounds brings every pixel within bounds up to targetSamples, or
// fewer if adaptive sampling decides the pixel has converged
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	samplingConfig := tr.raytracer.GetSamplingConfig()
	stats := newRenderStats(bounds.Dx()*bounds.Dy(), targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			samplesUsed := tr.adaptiveSamplePixel(x, y, &pixelStats[y][x], sampler, targetSamples, samplingConfig)
			stats.update(samplesUsed)
		}
	}

	stats.finalize()
	return stats
}

// adaptiveSamplePixel samples until convergence or maxSamples
func (tr *TileRenderer) adaptiveSamplePixel(x, y int, ps *PixelStats, sampler core.Sampler, maxSamples int, samplingConfig core.SamplingConfig) int {
	initialSampleCount := ps.SampleCount

	for ps.SampleCount < maxSamples && !shouldStopSampling(ps, maxSamples, samplingConfig) {
		ps.AddSample(tr.raytracer.SamplePixel(x, y, sampler))
	}

	return ps.SampleCount - initialSampleCount
}

// shouldStopSampling determines if adaptive sampling should stop based on perceptual relative error
func shouldStopSampling(ps *PixelStats, maxSamples int, samplingConfig core.SamplingConfig) bool {
	if samplingConfig.AdaptiveThreshold <= 0 {
		return false
	}

	// Calculate minimum samples as percentage of max samples, but ensure at least 1 sample
	minSamples := max(1, int(float64(maxSamples)*samplingConfig.AdaptiveMinSamples))
	if ps.SampleCount < minSamples {
		return false
	}

	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	variance := math.Max(0, meanSq-mean*mean)

	// Avoid division by zero for black pixels
	if mean <= 1e-8 {
		return variance < 1e-6
	}

	// Coefficient of variation (relative error)
	relativeError := math.Sqrt(variance) / mean
	return relativeError < samplingConfig.AdaptiveThreshold
}
