package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/imageio"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// scenesDir holds JSON scenes that can be selected by name
const scenesDir = "scenes"

// Config holds the command line options
type Config struct {
	SceneType  string
	Mode       string
	Samples    int
	Depth      int
	Width      int
	Workers    int
	Passes     int
	Format     string
	OutputPath string
	Seed       int64
}

func main() {
	config, help := parseFlags()

	if help {
		showHelp()
		return
	}

	if err := run(config); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func parseFlags() (Config, bool) {
	var config Config
	flag.StringVar(&config.SceneType, "scene", "default", "Scene: built-in name or path to a .json scene")
	flag.StringVar(&config.Mode, "mode", "single", "Rendering mode: 'single' or 'progressive'")
	flag.IntVar(&config.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&config.Depth, "depth", 0, "Maximum bounces per path (0 = scene default)")
	flag.IntVar(&config.Width, "width", 0, "Image width in pixels (0 = scene default)")
	flag.IntVar(&config.Workers, "workers", 0, "Parallel workers for progressive mode (0 = CPU count)")
	flag.IntVar(&config.Passes, "passes", 7, "Number of progressive passes")
	flag.StringVar(&config.Format, "format", "png", "Output format: 'png' or 'ppm'")
	flag.StringVar(&config.OutputPath, "out", "", "Output file (default output/<scene>/render_<timestamp>.<format>)")
	flag.Int64Var(&config.Seed, "seed", 42, "Random seed for single mode")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()
	return config, *help
}

func showHelp() {
	fmt.Println("Sphere Tracer")
	fmt.Println("Usage: sphere-tracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	scenes, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		fmt.Printf("  (failed to list scenes: %v)\n", err)
	}
	for _, info := range scenes {
		name := info.Name
		if info.Type == "json" {
			name = info.FilePath
		}
		fmt.Printf("  %-24s %s\n", name, info.Description)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.<format>")
}

func run(config Config) error {
	if config.Format != "png" && config.Format != "ppm" {
		return fmt.Errorf("unknown format %q", config.Format)
	}

	fmt.Println("Starting Sphere Tracer...")

	sceneObj, err := createScene(config.SceneType, geometry.CameraConfig{Width: config.Width})
	if err != nil {
		return err
	}
	applySamplingFlags(sceneObj, config)

	outputPath := config.OutputPath
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = filepath.Join(createOutputDir(config.SceneType), fmt.Sprintf("render_%s.%s", timestamp, config.Format))
	}

	width, height := sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height
	fmt.Printf("Rendering %s (%d spheres) at %dx%d, %d samples, depth %d\n",
		config.SceneType, sceneObj.GetPrimitiveCount(), width, height,
		sceneObj.SamplingConfig.SamplesPerPixel, sceneObj.SamplingConfig.MaxDepth)

	startTime := time.Now()
	switch config.Mode {
	case "single":
		err = renderSingle(sceneObj, config, outputPath)
	case "progressive":
		err = renderProgressive(sceneObj, config, outputPath)
	default:
		return fmt.Errorf("unknown mode %q", config.Mode)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Render completed in %v\n", time.Since(startTime))
	fmt.Printf("Render saved as %s\n", outputPath)
	return nil
}

// applySamplingFlags overrides the scene's sampling settings with non-zero flags
func applySamplingFlags(s *scene.Scene, config Config) {
	if config.Samples > 0 {
		s.SamplingConfig.SamplesPerPixel = config.Samples
	}
	if config.Depth > 0 {
		s.SamplingConfig.MaxDepth = config.Depth
	}
}

// renderSingle renders in one pass on the calling goroutine. PPM output is
// streamed straight to the file.
func renderSingle(s *scene.Scene, config Config, outputPath string) error {
	width, height := s.SamplingConfig.Width, s.SamplingConfig.Height
	raytracer := renderer.NewRaytracer(s, width, height)
	sampler := core.NewSeededSampler(config.Seed)

	var stats renderer.RenderStats
	if config.Format == "ppm" {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()

		writer := imageio.NewPPMWriter(file, width, height)
		if stats, err = raytracer.Render(writer, sampler); err != nil {
			return err
		}
		if err := writer.Flush(); err != nil {
			return err
		}
	} else {
		sink := imageio.NewImageSink(width, height)
		var err error
		if stats, err = raytracer.Render(sink, sampler); err != nil {
			return err
		}
		if err := imageio.Save(outputPath, sink.Image()); err != nil {
			return err
		}
	}

	fmt.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)
	return nil
}

// renderProgressive renders in parallel passes, stopping early on interrupt
// and saving the last completed pass
func renderProgressive(s *scene.Scene, config Config, outputPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	progressiveConfig := renderer.DefaultProgressiveConfig()
	progressiveConfig.MaxSamplesPerPixel = s.SamplingConfig.SamplesPerPixel
	progressiveConfig.MaxPasses = config.Passes
	progressiveConfig.NumWorkers = config.Workers

	width, height := s.SamplingConfig.Width, s.SamplingConfig.Height
	pr := renderer.NewProgressiveRaytracer(s, width, height, progressiveConfig, renderer.NewDefaultLogger())

	passChan, errChan := pr.RenderProgressive(ctx)

	var last *image.RGBA
	for result := range passChan {
		last = result.Image
	}
	if err := <-errChan; err != nil {
		if !errors.Is(err, context.Canceled) || last == nil {
			return err
		}
		fmt.Println("Interrupted, saving last completed pass")
	}
	if last == nil {
		return errors.New("no pass completed")
	}

	return imageio.Save(outputPath, last)
}

// createScene resolves a built-in scene name, a .json path, or the name of a
// JSON file in the scenes directory
func createScene(sceneType string, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, errors.New("empty scene name")
	}

	s, err := scene.New(sceneType, cameraOverrides...)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, scene.ErrUnknownScene) {
		return nil, err
	}

	if strings.HasSuffix(sceneType, ".json") {
		return scene.Load(sceneType, cameraOverrides...)
	}

	path := filepath.Join(scenesDir, sceneType+".json")
	if _, statErr := os.Stat(path); statErr == nil {
		return scene.Load(path, cameraOverrides...)
	}

	return nil, err
}

// createOutputDir returns output/<scene> where <scene> is the built-in name or
// the JSON file name without extension
func createOutputDir(sceneType string) string {
	base := strings.TrimSuffix(filepath.Base(sceneType), ".json")
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "scene"
	}
	return filepath.Join("output", base)
}
