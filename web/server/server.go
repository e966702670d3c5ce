package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/df07/go-tile-raytracer/pkg/config"
	"github.com/df07/go-tile-raytracer/pkg/framebuffer"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

// Limits for request parameters
const (
	MinImageSize   = 16
	MaxImageSize   = 2000
	MaxSamples     = 10000
	MaxDepth       = 1000
	MinTileSize    = 8
	MaxTileSize    = 512
	DefaultPreview = 256
)

// Server handles web requests for the tile raytracer. It renders one image
// at a time; a request arriving while a render runs is rejected as busy.
type Server struct {
	port     int
	defaults config.Config
	echo     *echo.Echo

	mu        sync.Mutex
	current   *renderer.Scheduler // running or most recent render
	lastScene string
	lastImage *renderer.Image // most recent finished render
}

// NewServer creates a new web server whose renders default to cfg
func NewServer(cfg config.Config) *Server {
	s := &Server{
		port:     cfg.Port,
		defaults: cfg,
		echo:     echo.New(),
	}
	s.echo.HideBanner = true
	s.echo.Use(corsMiddleware)

	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/scenes", s.handleScenes)
	s.echo.GET("/api/render", s.handleRender)
	s.echo.GET("/api/status", s.handleStatus)
	s.echo.GET("/api/preview", s.handlePreview)
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return s.echo.Start(addr)
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET")
		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, scene.ListScenes())
}

// StatusResponse is returned by /api/status
type StatusResponse struct {
	State     string    `json:"state"`
	Scene     string    `json:"scene,omitempty"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	HasImage  bool      `json:"hasImage"`
	Host      *HostInfo `json:"host,omitempty"`
}

// HostInfo describes the machine doing the rendering
type HostInfo struct {
	CPU          string  `json:"cpu"`
	LogicalCores int     `json:"logicalCores"`
	ClockGHz     float64 `json:"clockGHz"`
	MemoryGB     uint64  `json:"memoryGB"`
}

// handleStatus reports the state and tile progress of the current render
func (s *Server) handleStatus(c echo.Context) error {
	s.mu.Lock()
	status := StatusResponse{
		State:    renderer.StateIdle.String(),
		Scene:    s.lastScene,
		HasImage: s.lastImage != nil,
	}
	if s.current != nil {
		status.State = s.current.State().String()
		status.Completed, status.Total = s.current.Progress()
	}
	s.mu.Unlock()

	host, err := getHostInfo()
	if err != nil {
		log.Printf("Host info unavailable: %v", err)
	} else {
		status.Host = host
	}

	return c.JSON(http.StatusOK, status)
}

// getHostInfo reads CPU and memory details
func getHostInfo() (*HostInfo, error) {
	cpuInfo, err := cpu.Info()
	if err != nil {
		return nil, err
	}
	if len(cpuInfo) == 0 {
		return nil, fmt.Errorf("no CPU information available")
	}

	cores, err := cpu.Counts(true)
	if err != nil {
		cores = len(cpuInfo)
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}

	return &HostInfo{
		CPU:          cpuInfo[0].ModelName,
		LogicalCores: cores,
		ClockGHz:     cpuInfo[0].Mhz / 1000,
		MemoryGB:     memInfo.Total / (1024 * 1024 * 1024),
	}, nil
}

// handlePreview returns a PNG thumbnail of the last finished render
func (s *Server) handlePreview(c echo.Context) error {
	s.mu.Lock()
	last := s.lastImage
	s.mu.Unlock()

	if last == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no finished render yet"})
	}

	query := c.QueryParams()
	maxWidth, err := parseIntParam(query, "maxWidth", DefaultPreview, 1, MaxImageSize)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	maxHeight, err := parseIntParam(query, "maxHeight", DefaultPreview, 1, MaxImageSize)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	thumb := framebuffer.Thumbnail(framebuffer.ToNRGBA(last), uint(maxWidth), uint(maxHeight))
	var buf bytes.Buffer
	if err := framebuffer.Encode(&buf, thumb); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
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

// parseInt64Param parses an unbounded 64-bit integer parameter
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := framebuffer.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
