package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// Request limits shared by parameter parsing and /api/scene-config
const (
	minDimension   = 16
	maxDimension   = 2000
	maxSamples     = 10000
	maxPasses      = 10000
	maxBounces     = 64
	maxSubsampling = 8
	maxYaw         = 180 // Degrees either way
	maxPitch       = 89
)

// Server handles web requests for the progressive path tracer
type Server struct {
	port      int
	scenesDir string
	staticDir string
}

// NewServer creates a new web server. YAML scenes are discovered in
// scenesDir and static files are served from staticDir when it is set.
func NewServer(port int, scenesDir, staticDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir, staticDir: staticDir}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene       string  `json:"scene"`       // Built-in scene ID or discovered YAML scene ID
	Width       int     `json:"width"`       // Image width
	Height      int     `json:"height"`      // Image height
	MaxSamples  int     `json:"maxSamples"`  // Paths per pixel budget
	MaxPasses   int     `json:"maxPasses"`   // Maximum number of passes
	MaxBounces  int     `json:"maxBounces"`  // Scatter events per path
	Subsampling int     `json:"subsampling"` // Render at 1/n resolution and upscale
	Refraction  bool    `json:"refraction"`  // Glass/diffuse BSDF tree instead of metal/dielectric
	Yaw         float64 `json:"yaw"`         // Camera orbit about the target's up axis, degrees
	Pitch       float64 `json:"pitch"`       // Camera orbit elevation, degrees
}

// PassUpdate is sent as the data of each "pass" event
type PassUpdate struct {
	PassNumber     int    `json:"passNumber"`
	TotalPasses    int    `json:"totalPasses"`
	ImageData      string `json:"imageData"` // Base64 encoded PNG
	Stats          Stats  `json:"stats"`
	IsComplete     bool   `json:"isComplete"`
	ElapsedMs      int64  `json:"elapsedMs"`
	PrimitiveCount int    `json:"primitiveCount"`
}

// Stats represents render statistics
type Stats struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	TotalPixels     int     `json:"totalPixels"`
	SampleCount     int     `json:"sampleCount"`
	TotalSamples    int     `json:"totalSamples"`
	MaxSamples      int     `json:"maxSamples"`
	LastIterationMs int64   `json:"lastIterationMs"`
	SamplesPerSec   float64 `json:"samplesPerSec"`
	AverageRadiance float64 `json:"averageRadiance"`
}

func newStats(rs renderer.RenderStats) Stats {
	return Stats{
		Width:           rs.Width,
		Height:          rs.Height,
		TotalPixels:     rs.TotalPixels,
		SampleCount:     rs.SampleCount,
		TotalSamples:    rs.TotalSamples,
		MaxSamples:      rs.MaxSamples,
		LastIterationMs: rs.LastIteration.Milliseconds(),
		SamplesPerSec:   rs.SamplesPerSec,
		AverageRadiance: rs.AverageRadiance,
	}
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes followed by the YAML scenes on disk
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the render defaults for a scene with the
// accepted parameter ranges
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.loadScene(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	defaults := renderer.DefaultSettings()
	response := map[string]interface{}{
		"scene":          sceneName,
		"name":           sceneObj.Name,
		"primitiveCount": sceneObj.GetPrimitiveCount(),
		"defaults": map[string]interface{}{
			"width":       defaultWidth,
			"height":      defaultHeight,
			"maxSamples":  defaultSamples,
			"maxPasses":   defaultPasses,
			"maxBounces":  defaults.MaxBounces,
			"subsampling": defaults.Subsampling,
			"refraction":  defaults.Refraction,
			"yaw":         0,
			"pitch":       0,
		},
		"limits": map[string]interface{}{
			"width":       map[string]int{"min": minDimension, "max": maxDimension},
			"height":      map[string]int{"min": minDimension, "max": maxDimension},
			"maxSamples":  map[string]int{"min": 1, "max": maxSamples},
			"maxPasses":   map[string]int{"min": 1, "max": maxPasses},
			"maxBounces":  map[string]int{"min": 0, "max": maxBounces},
			"subsampling": map[string]int{"min": 1, "max": maxSubsampling},
			"yaw":         map[string]int{"min": -maxYaw, "max": maxYaw},
			"pitch":       map[string]int{"min": -maxPitch, "max": maxPitch},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// loadScene resolves a built-in ID or the ID of a YAML or PBRT scene
// discovered in the scenes directory. Arbitrary file paths are rejected.
func (s *Server) loadScene(id string) (*scene.Scene, error) {
	for _, info := range scene.BuiltinScenes() {
		if info.ID == id {
			return scene.Load(id)
		}
	}

	fileScenes, err := scene.ListFileScenes(s.scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range fileScenes {
		if info.ID == id {
			return scene.Load(info.FilePath)
		}
	}
	return nil, fmt.Errorf("unknown scene: %s", id)
}

// parseIntParam parses an integer parameter with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	str := values.Get(key)
	if str == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter: %s", key, str)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, min, max, value)
	}
	return value, nil
}

// parseFloatParam parses a float parameter with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	str := values.Get(key)
	if str == "" {
		return defaultValue, nil
	}

	value, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter: %s", key, str)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("%s must be between %g and %g, got %g", key, min, max, value)
	}
	return value, nil
}

// parseOrbit reads the yaw and pitch, in degrees, that orbit the scene camera
func parseOrbit(values url.Values) (yaw, pitch float64, err error) {
	if yaw, err = parseFloatParam(values, "yaw", 0, -maxYaw, maxYaw); err != nil {
		return 0, 0, err
	}
	if pitch, err = parseFloatParam(values, "pitch", 0, -maxPitch, maxPitch); err != nil {
		return 0, 0, err
	}
	return yaw, pitch, nil
}

// orbitCamera turns the camera about its target. Zero angles leave it
// untouched.
func orbitCamera(camera renderer.Camera, yaw, pitch float64) renderer.Camera {
	if yaw == 0 && pitch == 0 {
		return camera
	}
	return camera.Orbit(mgl64.DegToRad(yaw), mgl64.DegToRad(pitch))
}

// parseBoolParam parses a boolean parameter
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	str := values.Get(key)
	if str == "" {
		return defaultValue, nil
	}

	value, err := strconv.ParseBool(str)
	if err != nil {
		return false, fmt.Errorf("invalid %s parameter: %s", key, str)
	}
	return value, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
