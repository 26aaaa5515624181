package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// ProgressUpdate is sent via SSE after every completed pass
type ProgressUpdate struct {
	PassNumber     int     `json:"passNumber"`
	TotalPasses    int     `json:"totalPasses"`
	ImageData      string  `json:"imageData"` // Base64 encoded PNG
	ElapsedMs      int64   `json:"elapsedMs"`
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
	PrimitiveCount int     `json:"primitiveCount"`
	IsComplete     bool    `json:"isComplete"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data or plain message
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.ProgressiveRaytracer
}

// handleRender streams a progressive render as Server-Sent Events. Each pass
// arrives as a "progress" event carrying the whole image.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// A single goroutine owns the response writer
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()
	defer func() {
		close(consoleChan)
		<-consoleDone
	}()

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	passChan, errChan := pipeline.Raytracer.RenderProgressive(ctx)

	s.handleRenderingEvents(ctx, sseEventChan, passChan, errChan, pipeline.Scene, req, startTime)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

// writeSSEEvents writes events until the channel is closed or the client leaves
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	flusher, _ := w.(http.Flusher)

	for event := range sseEventChan {
		if ctx.Err() != nil {
			// Client gone: keep draining so senders never block
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards logger output as "console" events
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// setupRenderingPipeline creates and configures the scene and raytracer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.createScene(req.Scene, req.Width)
	if err != nil {
		return nil, err
	}

	sceneObj.SamplingConfig.SamplesPerPixel = req.MaxSamples
	sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	sceneObj.SamplingConfig.AdaptiveMinSamples = req.AdaptiveMinSamples
	sceneObj.SamplingConfig.AdaptiveThreshold = req.AdaptiveThreshold

	config := renderer.ProgressiveConfig{
		TileSize:           DefaultTileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: req.MaxSamples,
		MaxPasses:          req.MaxPasses,
		NumWorkers:         0, // Auto-detect
	}

	width, height := sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height
	return &RenderingPipeline{
		Scene:     sceneObj,
		Raytracer: renderer.NewProgressiveRaytracer(sceneObj, width, height, config, logger),
	}, nil
}

// handleRenderingEvents forwards passes until rendering ends
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan SSEEvent,
	passChan <-chan renderer.PassResult, errChan <-chan error,
	sceneObj *scene.Scene, req *RenderRequest, startTime time.Time) {

	for passResult := range passChan {
		s.handlePassComplete(ctx, sseEventChan, passResult, req, sceneObj, startTime)
	}

	if err := <-errChan; err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// handlePassComplete encodes a finished pass and sends it as a progress event
func (s *Server) handlePassComplete(ctx context.Context, sseEventChan chan SSEEvent, passResult renderer.PassResult, req *RenderRequest, sceneObj *scene.Scene, startTime time.Time) {
	if ctx.Err() != nil {
		return
	}

	imageData, err := s.imageToBase64PNG(passResult.Image)
	if err != nil {
		log.Printf("Error encoding pass %d: %v", passResult.PassNumber, err)
		return
	}

	update := ProgressUpdate{
		PassNumber:     passResult.PassNumber,
		TotalPasses:    req.MaxPasses,
		ImageData:      imageData,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		TotalPixels:    passResult.Stats.TotalPixels,
		TotalSamples:   passResult.Stats.TotalSamples,
		AverageSamples: passResult.Stats.AverageSamples,
		MinSamples:     passResult.Stats.MinSamples,
		MaxSamplesUsed: passResult.Stats.MaxSamplesUsed,
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
		IsComplete:     passResult.IsLast,
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling pass update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "progress", Data: string(data)}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
	}
}
