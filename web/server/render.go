package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

const (
	defaultWidth   = 400
	defaultHeight  = 300
	defaultSamples = 64
	defaultPasses  = 16
)

// SSEEvent represents a Server-Sent Event
type SSEEvent struct {
	Type string
	Data string
}

// handleRender streams a progressive render as Server-Sent Events: one
// "pass" event per completed iteration, "console" events for log output,
// then "complete" or "error".
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeSSE(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	ctx := r.Context()
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()

	consoleChan, logger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	err = s.render(ctx, sseEventChan, req, logger)

	// Rendering has stopped, so nothing logs to consoleChan any more
	close(consoleChan)
	<-consoleDone

	switch {
	case err == nil:
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "complete", Data: "Rendering completed"})
	case errors.Is(err, context.Canceled):
		// Client disconnected
	default:
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", err)})
	}

	close(sseEventChan)
	<-writerDone
}

// render runs the progressive renderer and forwards every pass
func (s *Server) render(ctx context.Context, sseEventChan chan SSEEvent, req *RenderRequest, logger core.Logger) error {
	sceneObj, err := s.loadScene(req.Scene)
	if err != nil {
		return err
	}
	logger.Printf("Loaded scene %q with %d primitives\n", sceneObj.Name, sceneObj.GetPrimitiveCount())
	sceneObj.Camera = orbitCamera(sceneObj.Camera, req.Yaw, req.Pitch)

	settings := renderer.DefaultSettings()
	settings.MaxBounces = req.MaxBounces
	settings.MaxPathsPerPixel = req.MaxSamples
	settings.Subsampling = req.Subsampling
	settings.Refraction = req.Refraction

	pr, err := renderer.NewProgressiveRenderer(sceneObj, req.Width, req.Height, settings, logger)
	if err != nil {
		return err
	}
	defer pr.Close()

	startTime := time.Now()
	view, proj := sceneObj.Camera.Matrices(req.Width, req.Height)
	passChan, errChan := pr.RenderProgressive(ctx, view, proj, req.MaxPasses)

	for passResult := range passChan {
		s.handlePassComplete(ctx, sseEventChan, passResult, req, sceneObj, startTime)
	}
	return <-errChan
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
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				return
			}
			if err := writeSSE(w, event); err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// writeSSE writes a single event and flushes it to the client
func writeSSE(w http.ResponseWriter, event SSEEvent) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// streamConsoleMessages forwards log output until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		if ctx.Err() != nil {
			continue
		}

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

// handlePassComplete encodes the pass image and sends a "pass" event
func (s *Server) handlePassComplete(ctx context.Context, sseEventChan chan SSEEvent, passResult renderer.PassResult, req *RenderRequest, sceneObj *scene.Scene, startTime time.Time) {
	if ctx.Err() != nil {
		return
	}

	imageData, err := s.imageToBase64PNG(passResult.Image)
	if err != nil {
		log.Printf("Error encoding pass %d image: %v", passResult.PassNumber, err)
		return
	}

	update := PassUpdate{
		PassNumber:     passResult.PassNumber,
		TotalPasses:    req.MaxPasses,
		ImageData:      imageData,
		Stats:          newStats(passResult.Stats),
		IsComplete:     passResult.IsLast,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling pass update: %v", err)
		return
	}
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "pass", Data: string(data)})
}

// sendEvent queues an event unless the client is gone
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan SSEEvent, event SSEEvent) {
	select {
	case sseEventChan <- event:
	case <-ctx.Done():
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	defaults := renderer.DefaultSettings()

	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", defaultWidth, minDimension, maxDimension); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", defaultHeight, minDimension, maxDimension); err != nil {
		return nil, err
	}
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", defaultSamples, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", defaultPasses, 1, maxPasses); err != nil {
		return nil, err
	}
	if req.MaxBounces, err = parseIntParam(query, "maxBounces", defaults.MaxBounces, 0, maxBounces); err != nil {
		return nil, err
	}
	if req.Subsampling, err = parseIntParam(query, "subsampling", defaults.Subsampling, 1, maxSubsampling); err != nil {
		return nil, err
	}
	if req.Refraction, err = parseBoolParam(query, "refraction", defaults.Refraction); err != nil {
		return nil, err
	}
	if req.Yaw, req.Pitch, err = parseOrbit(query); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 800*600 && req.MaxSamples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}
	return req, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
