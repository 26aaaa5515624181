package main

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"spheregrid scene", "spheregrid", false},
		{"bubble scene", "bubble", false},

		// JSON scenes by name and by path
		{"glass-trio by name", "glass-trio", false},
		{"glass-trio by path", "scenes/glass-trio.json", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"invalid JSON path", "scenes/nonexistent.json", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := createScene(tt.sceneType)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if scene != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s', got %T", tt.sceneType, scene)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if scene.CameraConfig.Width <= 0 {
				t.Errorf("Scene camera width should be positive, got %d", scene.CameraConfig.Width)
			}
			if scene.SamplingConfig.Height <= 0 {
				t.Errorf("Scene sampling height should be positive, got %d", scene.SamplingConfig.Height)
			}
			if scene.SamplingConfig.Width <= 0 {
				t.Errorf("Scene sampling width should be positive, got %d", scene.SamplingConfig.Width)
			}
		})
	}
}

func TestCreateScene_WidthOverride(t *testing.T) {
	scene, err := createScene("default", geometry.CameraConfig{Width: 64})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if scene.SamplingConfig.Width != 64 || scene.SamplingConfig.Height != 36 {
		t.Errorf("Expected 64x36, got %dx%d", scene.SamplingConfig.Width, scene.SamplingConfig.Height)
	}
}

func TestCreateOutputDir(t *testing.T) {
	tests := []struct {
		name      string
		sceneType string
		expected  string
	}{
		{"default scene", "default", filepath.Join("output", "default")},
		{"json scene by name", "glass-trio", filepath.Join("output", "glass-trio")},
		{"json scene path", "scenes/glass-trio.json", filepath.Join("output", "glass-trio")},
		{"nested json path", "scenes/subdir/my-scene.json", filepath.Join("output", "my-scene")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := createOutputDir(tt.sceneType); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		mode   string
		format string
	}{
		{"single png", "single", "png"},
		{"single ppm", "single", "ppm"},
		{"progressive png", "progressive", "png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+"."+tt.format)
			config := Config{
				SceneType:  "default",
				Mode:       tt.mode,
				Samples:    2,
				Depth:      3,
				Width:      32,
				Workers:    2,
				Passes:     2,
				Format:     tt.format,
				OutputPath: out,
				Seed:       42,
			}

			if err := run(config); err != nil {
				t.Fatalf("run failed: %v", err)
			}

			f, err := os.Open(out)
			if err != nil {
				t.Fatalf("Expected output file: %v", err)
			}
			defer f.Close()

			if tt.format == "png" {
				img, err := png.Decode(f)
				if err != nil {
					t.Fatalf("Invalid png: %v", err)
				}
				if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 18 {
					t.Errorf("Expected 32x18, got %v", img.Bounds())
				}
				return
			}

			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if lines[0] != "P3" || lines[1] != "32 18" || lines[2] != "255" {
				t.Errorf("Unexpected PPM header %q", lines[:3])
			}
			if len(lines) != 3+32*18 {
				t.Errorf("Expected %d PPM lines, got %d", 3+32*18, len(lines))
			}
		})
	}
}

func TestRun_InvalidOptions(t *testing.T) {
	base := Config{SceneType: "default", Mode: "single", Format: "png", Width: 8, Samples: 1, Depth: 1,
		OutputPath: filepath.Join(t.TempDir(), "out.png")}

	badMode := base
	badMode.Mode = "sideways"
	if err := run(badMode); err == nil {
		t.Error("Expected error for unknown mode")
	}

	badFormat := base
	badFormat.Format = "gif"
	if err := run(badFormat); err == nil {
		t.Error("Expected error for unknown format")
	}

	badScene := base
	badScene.SceneType = "nonexistent"
	if err := run(badScene); err == nil {
		t.Error("Expected error for unknown scene")
	}
}
