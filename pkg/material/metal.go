package material

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo   core.Vec3 // Metal color
	Fuzzness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzzness float64) *Metal {
	// Clamp fuzzness to valid range
	if fuzzness > 1.0 {
		fuzzness = 1.0
	}
	if fuzzness < 0.0 {
		fuzzness = 0.0
	}
	return &Metal{Albedo: albedo, Fuzzness: fuzzness}
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	reflected := rayIn.Direction.Unit().Reflect(hit.Normal)

	// Add fuzziness by perturbing the reflection direction
	if m.Fuzzness > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(m.Fuzzness))
	}

	scattered := core.NewRay(hit.Point, reflected)

	// Rays perturbed below the surface are absorbed
	if scattered.Direction.Dot(hit.Normal) <= 0 {
		return core.ScatterResult{}, false
	}

	return core.ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo,
	}, true
}
