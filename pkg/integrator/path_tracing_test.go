package integrator

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// MockMaterial implements core.Material for testing
type MockMaterial struct {
	scatterFn func(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool)
}

func (m *MockMaterial) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return m.scatterFn(rayIn, hit, sampler)
}

// MockShape implements core.Shape for testing
type MockShape struct {
	hitFn func(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool)
}

func (m *MockShape) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	return m.hitFn(ray, tMin, tMax)
}

func expectColor(t *testing.T, expected, actual core.Vec3) {
	t.Helper()
	if actual.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected color %v, got %v", expected, actual)
	}
}

func TestPathTracingDepthZeroIsBlack(t *testing.T) {
	integrator := NewPathTracingIntegrator()
	sampler := core.NewSeededSampler(42)

	called := false
	world := &MockShape{hitFn: func(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
		called = true
		return nil, false
	}}

	directions := []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(1, 0.2, -1),
	}
	for _, dir := range directions {
		color := integrator.RayColor(core.NewRay(core.Vec3{}, dir), world, sampler, 0)
		if color != (core.Vec3{}) {
			t.Errorf("Expected exact black at depth 0, got %v", color)
		}
	}

	if called {
		t.Error("Depth 0 should not query the scene")
	}
}

func TestPathTracingBackgroundGradient(t *testing.T) {
	integrator := NewPathTracingIntegrator()
	empty := geometry.NewShapeList()
	sampler := core.NewSeededSampler(42)

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up is sky blue", core.NewVec3(0, 3, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down is white", core.NewVec3(0, -2, 0), core.NewVec3(1, 1, 1)},
		{"horizon is halfway", core.NewVec3(1, 0, 0), core.NewVec3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color := integrator.RayColor(core.NewRay(core.Vec3{}, tt.direction), empty, sampler, 5)
			expectColor(t, tt.expected, color)
		})
	}
}

func TestPathTracingUsesShadowAcneEpsilon(t *testing.T) {
	integrator := NewPathTracingIntegrator()

	var gotMin, gotMax float64
	world := &MockShape{hitFn: func(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
		gotMin, gotMax = tMin, tMax
		return nil, false
	}}

	integrator.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), world, core.NewSeededSampler(1), 3)

	if gotMin != 0.001 {
		t.Errorf("Expected tMin 0.001, got %f", gotMin)
	}
	if !math.IsInf(gotMax, 1) {
		t.Errorf("Expected tMax +Inf, got %f", gotMax)
	}
}

func TestPathTracingAttenuationMultipliesRecursion(t *testing.T) {
	integrator := NewPathTracingIntegrator()

	// Scatters straight up with a known tint
	mat := &MockMaterial{scatterFn: func(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
		return core.ScatterResult{
			Scattered:   core.NewRay(hit.Point, core.NewVec3(0, 1, 0)),
			Attenuation: core.NewVec3(0.5, 0.25, 1.0),
		}, true
	}}

	// Only the downward camera ray hits
	world := &MockShape{hitFn: func(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
		if ray.Direction.Y >= 0 {
			return nil, false
		}
		return &core.HitRecord{Point: core.Vec3{}, Normal: core.NewVec3(0, 1, 0), T: 1, FrontFace: true, Material: mat}, true
	}}

	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	sampler := core.NewSeededSampler(42)

	// Sky straight up is (0.5, 0.7, 1.0)
	color := integrator.RayColor(ray, world, sampler, 2)
	expectColor(t, core.NewVec3(0.25, 0.175, 1.0), color)

	// With one bounce of budget the scattered ray gets nothing
	color = integrator.RayColor(ray, world, sampler, 1)
	expectColor(t, core.Vec3{}, color)
}

func TestPathTracingAbsorptionIsBlack(t *testing.T) {
	integrator := NewPathTracingIntegrator()
	absorber := &MockMaterial{scatterFn: func(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
		return core.ScatterResult{}, false
	}}
	world := geometry.NewShapeList(geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5, absorber))

	color := integrator.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), world, core.NewSeededSampler(1), 10)
	expectColor(t, core.Vec3{}, color)
}

func TestPathTracingMirrorReflectsSky(t *testing.T) {
	integrator := NewPathTracingIntegrator()
	albedo := core.NewVec3(0.8, 0.6, 0.2)
	world := geometry.NewShapeList(geometry.NewSphere(core.NewVec3(0, -1, 0), 1.0, material.NewMetal(albedo, 0)))

	// Straight down onto the top pole bounces straight up into the sky
	ray := core.NewRay(core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0))
	color := integrator.RayColor(ray, world, core.NewSeededSampler(1), 2)
	expectColor(t, albedo.MultiplyVec(core.NewVec3(0.5, 0.7, 1.0)), color)
}

func TestPathTracingEnclosedFuzzyMetalConvergesToBlack(t *testing.T) {
	integrator := NewPathTracingIntegrator()

	// From inside a closed fuzzy mirror no path can reach the sky
	world := geometry.NewShapeList(geometry.NewSphere(core.Vec3{}, 10, material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 1.0)))
	sampler := core.NewSeededSampler(42)

	var previous float64 = math.Inf(1)
	for _, samples := range []int{10, 100, 1000} {
		var sum core.Vec3
		for i := 0; i < samples; i++ {
			dir := core.RandomUnitVector(sampler)
			sum = sum.Add(integrator.RayColor(core.NewRay(core.Vec3{}, dir), world, sampler, 20))
		}
		average := sum.Divide(float64(samples)).Luminance()
		if average > previous+1e-12 {
			t.Errorf("Average luminance grew from %f to %f at %d samples", previous, average, samples)
		}
		if average > 1e-6 {
			t.Errorf("Expected near-black average at %d samples, got %f", samples, average)
		}
		previous = average
	}
}

func TestPathTracingGlassSphereTransmitsSky(t *testing.T) {
	integrator := NewPathTracingIntegrator()
	world := geometry.NewShapeList(geometry.NewSphere(core.NewVec3(0, 0, -3), 1.0, material.NewDielectric(1.5)))

	// A ray through the center refracts straight through both faces
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	color := integrator.RayColor(ray, world, core.NewSeededSampler(1), 5)
	expectColor(t, integrator.BackgroundGradient(ray), color)
}
