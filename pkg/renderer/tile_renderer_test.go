package renderer

import (
	"image"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// constantIntegrator is a stateless integrator safe to share between workers
type constantIntegrator struct {
	color core.Vec3
}

func (c constantIntegrator) RayColor(ray core.Ray, world core.Shape, sampler core.Sampler, depth int) core.Vec3 {
	return c.color
}

func newPixelStats(width, height int) [][]PixelStats {
	stats := make([][]PixelStats, height)
	for y := range stats {
		stats[y] = make([]PixelStats, width)
	}
	return stats
}

func TestTileRenderer_RenderTileBounds(t *testing.T) {
	scene := createMockScene(1, 2)
	rt := NewRaytracer(scene, 20, 10)
	mock := &MockIntegrator{returnColor: core.NewVec3(0.5, 0.5, 0.5)}
	rt.SetIntegrator(mock)
	tr := NewTileRenderer(rt)

	pixelStats := newPixelStats(20, 10)
	bounds := image.Rect(4, 2, 8, 5)

	stats := tr.RenderTileBounds(bounds, pixelStats, core.NewSeededSampler(3), 6)

	if stats.TotalPixels != 12 {
		t.Errorf("Expected 12 pixels, got %d", stats.TotalPixels)
	}
	if stats.TotalSamples != 72 || mock.callCount != 72 {
		t.Errorf("Expected 72 samples, got %d (integrator calls %d)", stats.TotalSamples, mock.callCount)
	}

	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			inside := image.Pt(x, y).In(bounds)
			count := pixelStats[y][x].SampleCount
			if inside && count != 6 {
				t.Errorf("Pixel (%d,%d) inside tile has %d samples, expected 6", x, y, count)
			}
			if !inside && count != 0 {
				t.Errorf("Pixel (%d,%d) outside tile was sampled %d times", x, y, count)
			}
		}
	}
}

func TestTileRenderer_Incremental(t *testing.T) {
	scene := createMockScene(1, 2)
	rt := NewRaytracer(scene, 4, 4)
	mock := &MockIntegrator{returnColor: core.NewVec3(1, 0, 0)}
	rt.SetIntegrator(mock)
	tr := NewTileRenderer(rt)

	pixelStats := newPixelStats(4, 4)
	bounds := image.Rect(0, 0, 4, 4)
	sampler := core.NewSeededSampler(1)

	tr.RenderTileBounds(bounds, pixelStats, sampler, 2)
	stats := tr.RenderTileBounds(bounds, pixelStats, sampler, 5)

	// Second call only adds the missing samples
	if stats.TotalSamples != 16*3 {
		t.Errorf("Expected %d new samples, got %d", 16*3, stats.TotalSamples)
	}
	if pixelStats[3][3].SampleCount != 5 {
		t.Errorf("Expected 5 accumulated samples, got %d", pixelStats[3][3].SampleCount)
	}
}

func TestShouldStopSampling(t *testing.T) {
	constant := func(c core.Vec3, n int) *PixelStats {
		ps := &PixelStats{}
		for i := 0; i < n; i++ {
			ps.AddSample(c)
		}
		return ps
	}
	noisy := &PixelStats{}
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			noisy.AddSample(core.NewVec3(1, 1, 1))
		} else {
			noisy.AddSample(core.NewVec3(0, 0, 0))
		}
	}

	tests := []struct {
		name     string
		ps       *PixelStats
		config   core.SamplingConfig
		expected bool
	}{
		{
			name:     "disabled threshold never stops",
			ps:       constant(core.NewVec3(0.5, 0.5, 0.5), 50),
			config:   core.SamplingConfig{AdaptiveMinSamples: 0.1, AdaptiveThreshold: 0},
			expected: false,
		},
		{
			name:     "below minimum samples",
			ps:       constant(core.NewVec3(0.5, 0.5, 0.5), 5),
			config:   core.SamplingConfig{AdaptiveMinSamples: 0.15, AdaptiveThreshold: 0.01},
			expected: false,
		},
		{
			name:     "converged constant pixel",
			ps:       constant(core.NewVec3(0.5, 0.5, 0.5), 20),
			config:   core.SamplingConfig{AdaptiveMinSamples: 0.15, AdaptiveThreshold: 0.01},
			expected: true,
		},
		{
			name:     "converged black pixel",
			ps:       constant(core.Vec3{}, 20),
			config:   core.SamplingConfig{AdaptiveMinSamples: 0.15, AdaptiveThreshold: 0.01},
			expected: true,
		},
		{
			name:     "noisy pixel keeps sampling",
			ps:       noisy,
			config:   core.SamplingConfig{AdaptiveMinSamples: 0.15, AdaptiveThreshold: 0.01},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldStopSampling(tt.ps, 100, tt.config); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestWorkerPool_ProcessesAllTasks(t *testing.T) {
	scene := createMockScene(1, 1)
	rt := NewRaytracer(scene, 16, 16)
	rt.SetIntegrator(constantIntegrator{color: core.NewVec3(0.1, 0.2, 0.3)})

	tiles := NewTileGrid(16, 16, 4)
	pixelStats := newPixelStats(16, 16)
	pool := NewWorkerPool(rt, len(tiles), 3)
	if pool.GetNumWorkers() != 3 {
		t.Errorf("Expected 3 workers, got %d", pool.GetNumWorkers())
	}

	pool.Start()
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, PassNumber: 1, TargetSamples: 2, TaskID: i, PixelStats: pixelStats})
	}

	seen := make(map[int]bool)
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			t.Fatal("Result queue closed early")
		}
		if result.Error != nil {
			t.Errorf("Task %d failed: %v", result.TaskID, result.Error)
		}
		if result.Stats.TotalSamples != 32 {
			t.Errorf("Task %d: expected 32 samples, got %d", result.TaskID, result.Stats.TotalSamples)
		}
		seen[result.TaskID] = true
	}
	pool.Stop()
	pool.Stop()

	if len(seen) != len(tiles) {
		t.Errorf("Expected %d distinct results, got %d", len(tiles), len(seen))
	}
	if _, ok := pool.GetResult(); ok {
		t.Error("Expected result queue to be closed after Stop")
	}
}
