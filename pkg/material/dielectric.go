package material

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Dielectric represents a transparent material like glass. The choice between
// reflection and refraction is deterministic: it reflects only under total
// internal reflection.
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	// Clear glass does not tint
	attenuation := core.NewVec3(1.0, 1.0, 1.0)

	refractionRatio := d.RefractiveIndex
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex // Entering the material from air
	}

	unitDirection := rayIn.Direction.Unit()
	cosTheta := math.Min(hit.Normal.Dot(unitDirection.Negate()), 1.0)

	var direction core.Vec3
	if TotalInternalReflection(cosTheta, refractionRatio) {
		direction = unitDirection.Reflect(hit.Normal)
	} else {
		direction = unitDirection.Refract(hit.Normal, refractionRatio)
	}

	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: attenuation,
	}, true
}

// TotalInternalReflection reports whether Snell's law has no solution for a
// ray at angle acos(cosTheta) to the normal crossing with the given eta ratio
func TotalInternalReflection(cosTheta, refractionRatio float64) bool {
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	return refractionRatio*sinTheta > 1.0
}
