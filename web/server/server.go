package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// DefaultTileSize is the tile edge used for web renders
const DefaultTileSize = 64

// Server handles web requests for the sphere tracer
type Server struct {
	port      int
	scenesDir string
	mux       *http.ServeMux
}

// NewServer creates a new web server. JSON scenes are looked up in scenesDir.
func NewServer(port int, scenesDir string) *Server {
	s := &Server{port: port, scenesDir: scenesDir, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)

	return s
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene              string  `json:"scene"`              // Built-in scene name or JSON scene name
	Width              int     `json:"width"`              // Image width, height follows the camera aspect ratio
	MaxSamples         int     `json:"maxSamples"`         // Maximum samples per pixel
	MaxPasses          int     `json:"maxPasses"`          // Maximum number of passes
	MaxDepth           int     `json:"maxDepth"`           // Maximum bounces per path
	AdaptiveMinSamples float64 `json:"adaptiveMinSamples"` // Adaptive sampling minimum, fraction of max samples
	AdaptiveThreshold  float64 `json:"adaptiveThreshold"`  // Adaptive sampling relative error threshold, 0 disables
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and JSON scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.createScene(sceneName, 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.GetSamplingConfig()
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":              config.Width,
			"height":             config.Height,
			"samplesPerPixel":    config.SamplesPerPixel,
			"maxDepth":           config.MaxDepth,
			"adaptiveMinSamples": config.AdaptiveMinSamples,
			"adaptiveThreshold":  config.AdaptiveThreshold,
		},
		"limits": map[string]interface{}{
			"width":              map[string]int{"min": minWidth, "max": maxWidth},
			"maxSamples":         map[string]int{"min": 1, "max": 10000},
			"maxPasses":          map[string]int{"min": 1, "max": 100},
			"maxDepth":           map[string]int{"min": 1, "max": 1000},
			"adaptiveMinSamples": map[string]float64{"min": 0.01, "max": 1.0},
			"adaptiveThreshold":  map[string]float64{"min": 0, "max": 0.5},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

const (
	minWidth = 16
	maxWidth = 2000
)

// parseRenderRequest parses and validates render parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", 50, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", 7, 1, 100); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 50, 1, 1000); err != nil {
		return nil, err
	}
	if req.AdaptiveMinSamples, err = parseFloatParam(query, "adaptiveMinSamples", 0.15, 0.01, 1.0); err != nil {
		return nil, err
	}
	if req.AdaptiveThreshold, err = parseFloatParam(query, "adaptiveThreshold", 0, 0, 0.5); err != nil {
		return nil, err
	}

	if req.Width > 800 && req.MaxSamples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene resolves a built-in scene or a JSON scene in the scenes
// directory. A positive width overrides the scene's camera width.
func (s *Server) createScene(sceneName string, width int) (*scene.Scene, error) {
	override := geometry.CameraConfig{Width: width}

	sceneObj, err := scene.New(sceneName, override)
	if err == nil {
		return sceneObj, nil
	}
	if !errors.Is(err, scene.ErrUnknownScene) || strings.ContainsAny(sceneName, `/\`) {
		return nil, err
	}

	path := filepath.Join(s.scenesDir, sceneName+".json")
	if _, statErr := os.Stat(path); statErr != nil {
		return nil, err
	}
	return scene.Load(path, override)
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
