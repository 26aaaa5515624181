package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// NewDefaultScene creates the five sphere scene: a diffuse blue sphere between
// a gold mirror and a hollow glass sphere, all resting on a huge yellow ground
// sphere and seen through a wide-aperture lens
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	lookFrom := core.NewVec3(-2, 2, 1)
	lookAt := core.NewVec3(0, 0, -1)

	defaultCameraConfig := geometry.CameraConfig{
		Center:        lookFrom,
		LookAt:        lookAt,
		Up:            core.NewVec3(0, 1, 0),
		Width:         384,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      2.0, // Strong depth of field blur
		FocusDistance: lookFrom.Subtract(lookAt).Length(),
	}
	cameraConfig := applyOverrides(defaultCameraConfig, cameraOverrides)

	s := newScene(cameraConfig, core.DefaultSamplingConfig())

	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	lambertianYellow := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)
	glass := material.NewDielectric(1.5)

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, lambertianBlue),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, lambertianYellow),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, metalGold),
		// Negative radius flips the normals, making a thin glass shell
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, glass),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.45, glass),
	)

	return s
}

// NewBubbleScene creates a hollow glass bubble floating over diffuse ground,
// seen through a pinhole camera so everything is in focus
func NewBubbleScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(0, 0.6, 2.5),
		LookAt:      core.NewVec3(0, 0.3, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        35.0,
	}
	cameraConfig := applyOverrides(defaultCameraConfig, cameraOverrides)

	samplingConfig := core.DefaultSamplingConfig()
	samplingConfig.SamplesPerPixel = 200
	samplingConfig.AdaptiveThreshold = 0.01 // 1% relative error threshold

	s := newScene(cameraConfig, samplingConfig)

	ground := material.NewLambertian(fromRGBA(diffusePalette[2]))
	glass := material.NewDielectric(1.5)
	mirror := material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.05)
	red := material.NewLambertian(fromRGBA(diffusePalette[4]))

	s.Add(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground),
		geometry.NewSphere(core.NewVec3(0, 0.6, -1), 0.6, glass),
		geometry.NewSphere(core.NewVec3(0, 0.6, -1), -0.55, glass),
		geometry.NewSphere(core.NewVec3(-1.3, 0.4, -1.8), 0.4, mirror),
		geometry.NewSphere(core.NewVec3(1.2, 0.3, -1.6), 0.3, red),
	)

	return s
}
