package material

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter implements the Material interface for lambertian scattering.
// Diffuse surfaces never absorb; a direction that cancels the normal to
// near zero is left as is.
func (l *Lambertian) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	// Normal plus a point on the unit sphere is cosine distributed around the normal
	scatterDirection := hit.Normal.Add(core.RandomUnitVector(sampler))

	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, scatterDirection),
		Attenuation: l.Albedo,
	}, true
}
