package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult describes the first surface seen through a pixel
type InspectResult struct {
	Hit       bool
	HitRecord *core.HitRecord
	Sphere    *geometry.Sphere // nil if the hit shape is not a sphere
}

// centerSampler returns the middle of every range, giving pixel-center rays
type centerSampler struct{}

func (centerSampler) Float64() float64                    { return 0.5 }
func (centerSampler) Float64Range(lo, hi float64) float64 { return lo + 0.5*(hi-lo) }

// inspectPixel casts a ray through the center of a pixel, where y=0 is the top
// row, and reports the first object hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	width, height := sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height
	j := height - 1 - pixelY
	s := (float64(pixelX) + 0.5) / float64(max(1, width-1))
	t := (float64(j) + 0.5) / float64(max(1, height-1))

	// The center sampler puts lens samples at the middle of the aperture
	ray := sceneObj.Camera.GetRay(s, t, centerSampler{})

	hit, isHit := sceneObj.World.Hit(ray, integrator.ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false}
	}

	// ShapeList does not report which shape it hit, so find the one at the same distance
	for _, shape := range sceneObj.World.Shapes {
		if shapeHit, ok := shape.Hit(ray, integrator.ShadowAcneEpsilon, math.Inf(1)); ok && shapeHit.T == hit.T {
			sphere, _ := shape.(*geometry.Sphere)
			return InspectResult{Hit: true, HitRecord: hit, Sphere: sphere}
		}
	}

	return InspectResult{Hit: true, HitRecord: hit}
}

// extractMaterialInfo extracts material properties with type assertions
func (s *Server) extractMaterialInfo(mat core.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts sphere properties
func (s *Server) extractGeometryInfo(sphere *geometry.Sphere) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	if sphere == nil {
		return "unknown", properties
	}

	properties["center"] = [3]float64{sphere.Center.X, sphere.Center.Y, sphere.Center.Z}
	properties["radius"] = sphere.Radius
	if sphere.Radius < 0 {
		properties["hollow"] = true
	}
	return "sphere", properties
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}
	width, err := parseIntParam(query, "width", 400, minWidth, maxWidth)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}

	sceneObj, err := s.createScene(sceneName, width)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if pixelX < 0 || pixelX >= sceneObj.SamplingConfig.Width || pixelY < 0 || pixelY >= sceneObj.SamplingConfig.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := s.extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := s.extractGeometryInfo(result.Sphere)

	hit := result.HitRecord
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:       [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
