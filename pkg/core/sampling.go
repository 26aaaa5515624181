package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns.
// Implementations are not safe for concurrent use; give each goroutine its own.
type Sampler interface {
	// Float64 returns a uniform value in [0, 1)
	Float64() float64
	// Float64Range returns a uniform value in [lo, hi)
	Float64Range(lo, hi float64) float64
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Float64 returns a random float64 in [0, 1)
func (r *RandomSampler) Float64() float64 {
	return r.random.Float64()
}

// Float64Range returns a random float64 in [lo, hi)
func (r *RandomSampler) Float64Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.random.Float64()
}

// RandomInUnitSphere returns a uniform point inside the unit ball by rejection
// sampling the enclosing cube. Acceptance rate is pi/6 per try.
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		p := NewVec3(
			sampler.Float64Range(-1, 1),
			sampler.Float64Range(-1, 1),
			sampler.Float64Range(-1, 1),
		)
		if p.LengthSquared() < 1 {
			return p
		}
	}
}

// RandomUnitVector returns a point on the unit sphere surface. Added to a
// surface normal it gives a cosine-weighted diffuse direction.
func RandomUnitVector(sampler Sampler) Vec3 {
	a := sampler.Float64Range(0, 2*math.Pi)
	z := sampler.Float64Range(-1, 1)
	r := math.Sqrt(1 - z*z)
	return NewVec3(r*math.Cos(a), r*math.Sin(a), z)
}

// RandomInUnitDisk generates a random point in a unit disk in the z=0 plane (for depth of field)
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1] x [-1,1] square
		p := NewVec3(sampler.Float64Range(-1, 1), sampler.Float64Range(-1, 1), 0)
		// Accept if inside unit disk
		if p.LengthSquared() < 1 {
			return p
		}
	}
}
