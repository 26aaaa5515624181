package scene

import (
	"math/rand"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// sphereGridSeed fixes the layout so every render of the scene matches
const sphereGridSeed = 1337

// NewSphereGridScene creates a field of small random spheres around three
// large ones (glass, diffuse and polished metal)
func NewSphereGridScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	}
	cameraConfig := applyOverrides(defaultCameraConfig, cameraOverrides)

	samplingConfig := core.DefaultSamplingConfig()
	samplingConfig.AdaptiveThreshold = 0.015 // 1.5% relative error threshold

	s := newScene(cameraConfig, samplingConfig)

	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000,
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	random := rand.New(rand.NewSource(sphereGridSeed))
	glass := material.NewDielectric(1.5)
	clearing := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(b)+0.9*random.Float64(),
			)
			// Keep the space around the large metal sphere clear
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var mat core.Material
			switch choose := random.Float64(); {
			case choose < 0.8:
				base := fromRGBA(diffusePalette[random.Intn(len(diffusePalette))])
				mat = material.NewLambertian(base.Multiply(0.5 + 0.5*random.Float64()))
			case choose < 0.95:
				albedo := core.NewVec3(
					0.5*(1+random.Float64()),
					0.5*(1+random.Float64()),
					0.5*(1+random.Float64()),
				)
				mat = material.NewMetal(albedo, 0.5*random.Float64())
			default:
				mat = glass
			}

			s.Add(geometry.NewSphere(center, 0.2, mat))
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, glass),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return s
}
