package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Camera interface for generating rays from normalized image-plane
// coordinates, with (0,0) at the bottom-left
type Camera interface {
	GetRay(s, t float64, sampler Sampler) Ray
}

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Hit returns the nearest intersection with t strictly inside (tMin, tMax)
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
}

// Material interface for objects that can scatter rays
type Material interface {
	// Scatter returns the attenuated outgoing ray, or false when the ray is absorbed
	Scatter(rayIn Ray, hit HitRecord, sampler Sampler) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   Ray  // The scattered ray
	Attenuation Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     Vec3     // Point of intersection
	Normal    Vec3     // Surface normal at intersection, always facing the incoming ray
	T         float64  // Parameter t along the ray
	FrontFace bool     // Whether ray hit the front face
	Material  Material // Material of the hit object, shared and never copied
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width              int     // Image width
	Height             int     // Image height
	SamplesPerPixel    int     // Number of rays per pixel
	MaxDepth           int     // Maximum ray bounce depth
	AdaptiveMinSamples float64 // Minimum samples as percentage of max samples (0.0-1.0)
	AdaptiveThreshold  float64 // Relative error threshold for adaptive convergence (0 disables)
}

// DefaultSamplingConfig returns 384x216 at 100 samples and 50 bounces
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:              384,
		Height:             216,
		SamplesPerPixel:    100,
		MaxDepth:           50,
		AdaptiveMinSamples: 0.15,
		AdaptiveThreshold:  0,
	}
}
