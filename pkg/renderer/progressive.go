package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/imageio"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int // Size of each tile (64x64 recommended)
	InitialSamples     int // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int // Maximum total samples per pixel
	MaxPasses          int // Maximum number of passes
	NumWorkers         int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 100, // Match the single pass renderer
		MaxPasses:          7,
		NumWorkers:         0, // Auto-detect CPU count
	}
}

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile        // Tile management
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	workerPool    *WorkerPool    // Worker pool for parallel processing
	logger        core.Logger    // Logger for rendering output
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(scene Scene, width, height int, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultProgressiveConfig().TileSize
	}
	config.MaxPasses = max(1, config.MaxPasses)
	config.MaxSamplesPerPixel = max(1, config.MaxSamplesPerPixel)
	config.InitialSamples = min(max(1, config.InitialSamples), config.MaxSamplesPerPixel)
	if logger == nil {
		logger = NewDefaultLogger()
	}

	raytracer := NewRaytracer(scene, width, height)
	tiles := NewTileGrid(width, height, config.TileSize)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	return &ProgressiveRaytracer{
		width:      width,
		height:     height,
		config:     config,
		tiles:      tiles,
		pixelStats: pixelStats,
		workerPool: NewWorkerPool(raytracer, len(tiles), config.NumWorkers),
		logger:     logger,
	}
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	// For the final pass, use all remaining samples
	if passNumber == pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(passNumber int) (*image.RGBA, RenderStats, error) {
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	pr.workerPool.Start()

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			PixelStats:    pr.pixelStats,
		})
	}

	// Drain every result before reporting an error so no worker is left blocked
	var firstErr error
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		pr.tiles[result.TaskID].PassesCompleted++
	}
	if firstErr != nil {
		return nil, RenderStats{}, firstErr
	}

	img, stats := pr.assembleCurrentImage(targetSamples)
	return img, stats, nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// RenderProgressive renders with channel-based communication.
// The pass channel is closed when rendering ends; at most one error is sent on
// the error channel, and cancelling ctx stops rendering between passes.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)
		defer pr.workerPool.Stop()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()

			img, stats, err := pr.RenderPass(pass)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Printf("Pass %d completed in %v (average: %.1f samples/pixel)\n",
				pass, time.Since(startTime), stats.AverageSamples)

			isLast := pass == pr.config.MaxPasses || stats.MinSamples >= pr.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{PassNumber: pass, Image: img, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if isLast {
				break
			}
		}
	}()

	return passChan, errChan
}

// assembleCurrentImage creates an image from the current state of the shared pixel stats
// and calculates render statistics in a single pass
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))
	stats := newRenderStats(pr.width*pr.height, targetSamples)
	stats.MinSamples = pr.config.MaxSamplesPerPixel

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]
			img.SetRGBA(x, y, imageio.ToRGBA(pixel.GetColor()))
			stats.update(pixel.SampleCount)
		}
	}

	stats.finalize()
	return img, stats
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int                 // Unique tile identifier
	Bounds          image.Rectangle     // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int                 // Number of passes completed for this tile
	Sampler         *core.RandomSampler // Tile-private random stream, never shared between goroutines
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: core.NewSeededSampler(int64(id + 42)), // +42 to avoid seed 0
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}
