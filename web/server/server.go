package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// Server serves preview renders of the built-in scenes
type Server struct {
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewServer creates a new web server
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	s := &Server{logger: logger, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/scenes", s.handleScenes)
	s.mux.HandleFunc("GET /api/image", s.handleImage)
	s.mux.HandleFunc("GET /api/render", s.handleRender)
	return s
}

// Handler returns the HTTP handler for all endpoints
func (s *Server) Handler() http.Handler {
	return s.mux
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string        `json:"scene"`   // Built-in scene ID
	Width   int           `json:"width"`   // Image width; height follows the camera aspect ratio
	Samples int           `json:"samples"` // Samples per pixel
	Depth   int           `json:"depth"`   // Maximum bounce depth
	Seed    int64         `json:"seed"`
	Format  output.Format `json:"format"`
}

// ProgressUpdate is sent via SSE after each finished scanline
type ProgressUpdate struct {
	RowsDone  int   `json:"rowsDone"`
	TotalRows int   `json:"totalRows"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// CompleteUpdate carries the finished image via SSE
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListBuiltinScenes())
}

// handleImage renders synchronously and responds with the encoded image
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sceneObj, err := createScene(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rt := renderer.NewRaytracer(sceneObj, sceneObj.Width, sceneObj.Height)
	rt.SetSamplingConfig(sceneObj.SamplingConfig)
	rt.SetLogger(s.logger.With("scene", req.Scene))

	buf := output.NewImageBuffer()
	if _, err := rt.Render(r.Context(), buf); err != nil {
		s.logger.Warn("render failed", "scene", req.Scene, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var body bytes.Buffer
	if err := output.Encode(&body, buf.Image(), req.Format); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", contentType(req.Format))
	w.WriteHeader(http.StatusOK)
	w.Write(body.Bytes())
}

// handleRender streams scanline progress, log lines and the finished PNG with SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	send := func(event, data string) {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
	}
	sendJSON := func(event string, v any) {
		data, err := json.Marshal(v)
		if err != nil {
			send("error", err.Error())
			return
		}
		send(event, string(data))
	}

	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		send("error", fmt.Sprintf("Invalid request: %v", err))
		return
	}
	sceneObj, err := createScene(req)
	if err != nil {
		send("error", err.Error())
		return
	}

	// Render runs on this goroutine, so the callbacks below write to w in order
	console := slog.New(NewConsoleHandler(func(msg ConsoleMessage) {
		sendJSON("console", msg)
	}, slog.LevelInfo))

	startTime := time.Now()
	rt := renderer.NewRaytracer(sceneObj, sceneObj.Width, sceneObj.Height)
	rt.SetSamplingConfig(sceneObj.SamplingConfig)
	rt.SetLogger(console)
	rt.SetProgress(func(rowsDone, totalRows int) {
		sendJSON("progress", ProgressUpdate{
			RowsDone:  rowsDone,
			TotalRows: totalRows,
			ElapsedMs: time.Since(startTime).Milliseconds(),
		})
	})

	buf := output.NewImageBuffer()
	stats, err := rt.Render(r.Context(), buf)
	if err != nil {
		s.logger.Warn("render failed", "scene", req.Scene, "error", err)
		send("error", fmt.Sprintf("Render error: %v", err))
		return
	}

	imageData, err := imageToBase64PNG(buf.Image())
	if err != nil {
		send("error", fmt.Sprintf("failed to encode image: %v", err))
		return
	}
	sendJSON("complete", CompleteUpdate{
		ImageData: imageData,
		Stats: Stats{
			TotalPixels:      stats.TotalPixels,
			TotalSamples:     stats.TotalSamples,
			SamplesPerSecond: stats.SamplesPerSecond(),
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

// parseRenderRequest parses and validates query parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 200, 16, 1600); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 20, 1, 1000); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(values, "depth", 50, 0, 200); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(values, "seed", 42, 1, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	req.Format = output.FormatPNG
	if f := values.Get("format"); f != "" {
		if req.Format, err = output.ParseFormat(f); err != nil {
			return nil, err
		}
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

// createScene builds the requested scene with the request's overrides
func createScene(req *RenderRequest) (*scene.Scene, error) {
	s, err := scene.NewSceneByName(req.Scene)
	if err != nil {
		return nil, err
	}
	s.Width = req.Width
	s.Height = scene.ImageHeight(req.Width, s.Camera.AspectRatio())
	s.SamplingConfig.SamplesPerPixel = req.Samples
	s.SamplingConfig.MaxDepth = req.Depth
	s.SamplingConfig.Seed = req.Seed
	return s, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, img, output.FormatPNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func contentType(format output.Format) string {
	switch format {
	case output.FormatPNG:
		return "image/png"
	case output.FormatBMP:
		return "image/bmp"
	case output.FormatTIFF:
		return "image/tiff"
	default:
		return "image/x-portable-pixmap"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
