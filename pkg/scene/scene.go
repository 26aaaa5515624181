package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	World          *geometry.ShapeList // Objects in the scene, searched linearly
	SamplingConfig core.SamplingConfig
}

// newScene builds an empty scene, sizing the image from the camera config
func newScene(cameraConfig geometry.CameraConfig, samplingConfig core.SamplingConfig) *Scene {
	samplingConfig.Width = cameraConfig.Width
	samplingConfig.Height = cameraConfig.ImageHeight()

	return &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		World:          geometry.NewShapeList(),
		SamplingConfig: samplingConfig,
	}
}

// applyOverrides merges the first camera override, if any, into base
func applyOverrides(base geometry.CameraConfig, overrides []geometry.CameraConfig) geometry.CameraConfig {
	if len(overrides) == 0 {
		return base
	}
	return geometry.MergeCameraConfig(base, overrides[0])
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...core.Shape) {
	s.World.Add(shapes...)
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() core.Camera {
	return s.Camera
}

// GetWorld returns the aggregate of every shape in the scene
func (s *Scene) GetWorld() core.Shape {
	return s.World
}

// GetSamplingConfig returns the scene's sampling configuration
func (s *Scene) GetSamplingConfig() core.SamplingConfig {
	return s.SamplingConfig
}

// GetPrimitiveCount returns the number of spheres in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}
