package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// document is the on-disk layout of a JSON scene:
//
//	{
//	  "name": "Glass Trio",
//	  "camera": {"lookFrom": [0, 1, 3], "lookAt": [0, 0, -1], "vfov": 40},
//	  "sampling": {"samplesPerPixel": 64, "maxDepth": 20},
//	  "materials": {
//	    "ground": {"type": "lambertian", "albedo": "olivedrab"},
//	    "glass":  {"type": "dielectric", "refractiveIndex": 1.5}
//	  },
//	  "spheres": [{"center": [0, -100.5, -1], "radius": 100, "material": "ground"}]
//	}
type document struct {
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Camera      *cameraDocument             `json:"camera"`
	Sampling    samplingDocument            `json:"sampling"`
	Materials   map[string]materialDocument `json:"materials"`
	Spheres     []sphereDocument            `json:"spheres"`
}

type cameraDocument struct {
	LookFrom      vec3Value  `json:"lookFrom"`
	LookAt        vec3Value  `json:"lookAt"`
	Up            *vec3Value `json:"up"`
	Width         int        `json:"width"`
	AspectRatio   float64    `json:"aspectRatio"`
	VFov          float64    `json:"vfov"`
	Aperture      float64    `json:"aperture"`
	FocusDistance float64    `json:"focusDistance"`
}

type samplingDocument struct {
	SamplesPerPixel    int     `json:"samplesPerPixel"`
	MaxDepth           int     `json:"maxDepth"`
	AdaptiveMinSamples float64 `json:"adaptiveMinSamples"`
	AdaptiveThreshold  float64 `json:"adaptiveThreshold"`
}

type materialDocument struct {
	Type            string      `json:"type"`
	Albedo          *colorValue `json:"albedo"`
	Fuzz            float64     `json:"fuzz"`
	RefractiveIndex float64     `json:"refractiveIndex"`
}

type sphereDocument struct {
	Center   vec3Value `json:"center"`
	Radius   float64   `json:"radius"`
	Material string    `json:"material"`
}

// vec3Value decodes a JSON [x, y, z] array
type vec3Value core.Vec3

func (v *vec3Value) UnmarshalJSON(data []byte) error {
	var xyz []float64
	if err := json.Unmarshal(data, &xyz); err != nil {
		return fmt.Errorf("vector must be [x, y, z]: %w", err)
	}
	if len(xyz) != 3 {
		return fmt.Errorf("vector must have 3 components, got %d", len(xyz))
	}
	*v = vec3Value(core.NewVec3(xyz[0], xyz[1], xyz[2]))
	return nil
}

// colorValue decodes either an [r, g, b] array or an SVG color name
type colorValue core.Vec3

func (c *colorValue) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		rgb, err := Color(name)
		if err != nil {
			return err
		}
		*c = colorValue(rgb)
		return nil
	}

	var v vec3Value
	if err := v.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("color must be a name or [r, g, b]: %w", err)
	}
	*c = colorValue(v)
	return nil
}

// Load reads a JSON scene file
func Load(path string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := Decode(f, cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	return s, nil
}

// Decode builds a scene from a JSON document
func Decode(r io.Reader, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	var doc document
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}

	if doc.Camera == nil {
		return nil, errors.New("scene has no camera")
	}
	cameraConfig := applyOverrides(doc.Camera.config(), cameraOverrides)
	if cameraConfig.Width <= 0 || cameraConfig.AspectRatio <= 0 || cameraConfig.VFov <= 0 {
		return nil, fmt.Errorf("invalid camera: width %d, aspect ratio %g, vfov %g",
			cameraConfig.Width, cameraConfig.AspectRatio, cameraConfig.VFov)
	}

	materials := make(map[string]core.Material, len(doc.Materials))
	for name, md := range doc.Materials {
		mat, err := md.build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	s := newScene(cameraConfig, doc.Sampling.config())
	for i, sd := range doc.Spheres {
		mat, ok := materials[sd.Material]
		if !ok {
			return nil, fmt.Errorf("sphere %d: unknown material %q", i, sd.Material)
		}
		if sd.Radius == 0 {
			return nil, fmt.Errorf("sphere %d: radius must be non-zero", i)
		}
		s.Add(geometry.NewSphere(core.Vec3(sd.Center), sd.Radius, mat))
	}

	return s, nil
}

func (cd *cameraDocument) config() geometry.CameraConfig {
	config := geometry.CameraConfig{
		Center:        core.Vec3(cd.LookFrom),
		LookAt:        core.Vec3(cd.LookAt),
		Up:            core.NewVec3(0, 1, 0),
		Width:         cd.Width,
		AspectRatio:   cd.AspectRatio,
		VFov:          cd.VFov,
		Aperture:      cd.Aperture,
		FocusDistance: cd.FocusDistance,
	}
	if cd.Up != nil {
		config.Up = core.Vec3(*cd.Up)
	}
	if config.Width == 0 {
		config.Width = core.DefaultSamplingConfig().Width
	}
	if config.AspectRatio == 0 {
		config.AspectRatio = 16.0 / 9.0
	}
	if config.VFov == 0 {
		config.VFov = 40.0
	}
	return config
}

func (sd samplingDocument) config() core.SamplingConfig {
	config := core.DefaultSamplingConfig()
	if sd.SamplesPerPixel > 0 {
		config.SamplesPerPixel = sd.SamplesPerPixel
	}
	if sd.MaxDepth > 0 {
		config.MaxDepth = sd.MaxDepth
	}
	if sd.AdaptiveMinSamples > 0 {
		config.AdaptiveMinSamples = sd.AdaptiveMinSamples
	}
	if sd.AdaptiveThreshold > 0 {
		config.AdaptiveThreshold = sd.AdaptiveThreshold
	}
	return config
}

func (md materialDocument) build() (core.Material, error) {
	switch md.Type {
	case "lambertian":
		if md.Albedo == nil {
			return nil, errors.New("lambertian material needs an albedo")
		}
		return material.NewLambertian(core.Vec3(*md.Albedo)), nil
	case "metal":
		if md.Albedo == nil {
			return nil, errors.New("metal material needs an albedo")
		}
		return material.NewMetal(core.Vec3(*md.Albedo), md.Fuzz), nil
	case "dielectric":
		if md.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("dielectric refractive index must be positive, got %g", md.RefractiveIndex)
		}
		return material.NewDielectric(md.RefractiveIndex), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", md.Type)
	}
}
