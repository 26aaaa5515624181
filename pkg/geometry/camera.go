package geometry

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
)

// CameraConfig contains all parameters needed to set up the camera
type CameraConfig struct {
	Center        core.Vec3 // Camera position (eye)
	LookAt        core.Vec3 // Point the camera is looking at
	Up            core.Vec3 // Up direction (usually (0,1,0))
	Width         int       // Image width in pixels, height is derived from aspect ratio
	AspectRatio   float64   // Width / Height ratio
	VFov          float64   // Vertical field of view in degrees
	Aperture      float64   // Lens diameter, 0 for a pinhole camera
	FocusDistance float64   // Distance to the focal plane, 0 to focus on LookAt
}

// ImageHeight returns the pixel height implied by Width and AspectRatio
func (c CameraConfig) ImageHeight() int {
	return max(1, int(float64(c.Width)/c.AspectRatio))
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	zero := core.Vec3{}

	if override.Center != zero {
		result.Center = override.Center
	}
	if override.LookAt != zero {
		result.LookAt = override.LookAt
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.AspectRatio != 0 {
		result.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.Aperture != 0 {
		result.Aperture = override.Aperture
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}

	return result
}

// Camera generates rays for rendering. It is immutable after construction
// and safe to share between goroutines.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3
	lensRadius      float64
	config          CameraConfig
}

// NewCamera creates a positionable thin-lens camera
func NewCamera(config CameraConfig) *Camera {
	halfHeight := math.Tan(config.VFov * math.Pi / 180.0 / 2.0)
	halfWidth := config.AspectRatio * halfHeight

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
	}

	// Orthonormal basis: w points backwards, u right, v up
	w := config.Center.Subtract(config.LookAt).Unit()
	u := config.Up.Cross(w).Unit()
	v := w.Cross(u)

	origin := config.Center
	horizontal := u.Multiply(2 * halfWidth * focusDistance)
	vertical := v.Multiply(2 * halfHeight * focusDistance)
	lowerLeftCorner := origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
		config:          config,
	}
}

// GetRay generates a ray for image-plane coordinates (s, t) in [0,1], with the
// origin at the bottom-left. A pinhole camera never consumes samples.
func (c *Camera) GetRay(s, t float64, sampler core.Sampler) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(sampler).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction)
}

// GetCameraForward returns the direction the camera is looking
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}
