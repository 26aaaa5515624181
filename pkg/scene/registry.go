package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

// ErrUnknownScene is returned when a scene name is not registered
var ErrUnknownScene = errors.New("unknown scene")

// Builder creates a scene, applying an optional camera override
type Builder func(cameraOverrides ...geometry.CameraConfig) *Scene

type builtin struct {
	build       Builder
	displayName string
	description string
}

var builtins = map[string]builtin{
	"default": {
		build:       NewDefaultScene,
		displayName: "Default Scene",
		description: "Diffuse, metal and hollow glass spheres on a yellow ground",
	},
	"spheregrid": {
		build:       NewSphereGridScene,
		displayName: "Sphere Grid",
		description: "Field of random small spheres around three large ones",
	},
	"bubble": {
		build:       NewBubbleScene,
		displayName: "Glass Bubble",
		description: "Hollow glass bubble over diffuse ground, pinhole camera",
	},
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named built-in scene
func New(name string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return b.build(cameraOverrides...), nil
}
