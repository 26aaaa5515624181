package integrator

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the linear radiance arriving along ray from world,
	// following at most depth bounces
	RayColor(ray core.Ray, world core.Shape, sampler core.Sampler, depth int) core.Vec3
}
