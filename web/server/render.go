package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-tile-raytracer/pkg/config"
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/framebuffer"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "start", "console", "tile", "progress", "complete", "cancelled", "error"
	Data string `json:"data"` // JSON-encoded data
}

// StartUpdate is sent once the render has been accepted
type StartUpdate struct {
	Scene          string `json:"scene"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	TileSize       int    `json:"tileSize"`
	TotalTiles     int    `json:"totalTiles"`
	Workers        int    `json:"workers"`
	PrimitiveCount int    `json:"primitiveCount"`
}

// TileUpdate carries one finished tile, positioned in image coordinates
type TileUpdate struct {
	TileID    int    `json:"tileId"`
	X         int    `json:"x"` // Left edge in the final image
	Y         int    `json:"y"` // Top edge in the final image
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG of just this tile
}

// ProgressUpdate reports how many tiles are done
type ProgressUpdate struct {
	Completed int   `json:"completed"`
	Total     int   `json:"total"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// CompleteUpdate carries the final image
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	Tiles          int     `json:"tiles"`
	TotalTiles     int     `json:"totalTiles"`
	Workers        int     `json:"workers"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:    stats.TotalPixels,
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples(),
		Tiles:          stats.Tiles,
		TotalTiles:     stats.TotalTiles,
		Workers:        stats.Workers,
	}
}

// handleRender starts a tiled render and streams tiles, progress, console
// output and the final image via SSE. Closing the connection cancels the render.
func (s *Server) handleRender(c echo.Context) error {
	req, err := s.parseRenderRequest(c.QueryParams())
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid request: %v", err)})
	}

	consoleChan, webLogger := s.setupConsoleLogging()

	sceneObj, err := s.createScene(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()
	events := make(chan SSEEvent, 100)
	done := make(chan renderer.Result, 1)
	startTime := time.Now()

	callbacks := renderer.Callbacks{
		OnTile: func(buffer *renderer.TileBuffer) {
			s.sendTileUpdate(ctx, events, buffer, req.Height)
		},
		OnProgress: func(completed, total int) {
			sendEvent(ctx, events, "progress", ProgressUpdate{
				Completed: completed,
				Total:     total,
				ElapsedMs: time.Since(startTime).Milliseconds(),
			})
		},
		OnComplete: func(result renderer.Result) {
			if result.Status == renderer.StatusFinished {
				s.recordImage(result.Image)
			}
			done <- result
		},
	}

	scheduler, status, err := s.startRender(ctx, req, sceneObj, webLogger, callbacks)
	if err != nil {
		return c.JSON(status, map[string]string{"error": err.Error()})
	}

	s.setSSEHeaders(c.Response())
	c.Response().WriteHeader(http.StatusOK)

	start := StartUpdate{
		Scene:          req.Scene,
		Width:          req.Width,
		Height:         req.Height,
		TileSize:       req.TileSize,
		TotalTiles:     len(scheduler.Tiles()),
		Workers:        scheduler.NumWorkers(),
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
	}
	if data, err := json.Marshal(start); err == nil {
		if err := writeSSEEvent(c.Response(), SSEEvent{Type: "start", Data: string(data)}); err != nil {
			return nil
		}
	}

	for {
		select {
		case event := <-events:
			if err := writeSSEEvent(c.Response(), event); err != nil {
				return nil
			}

		case msg := <-consoleChan:
			if err := writeSSEEvent(c.Response(), consoleEvent(msg)); err != nil {
				return nil
			}

		case result := <-done:
			// Everything sent before OnComplete goes out before the terminal event
			s.drainEvents(c.Response(), events, consoleChan)
			writeSSEEvent(c.Response(), terminalEvent(result, startTime))
			return nil

		case <-ctx.Done():
			// Client disconnected; the scheduler sees the same context
			return nil
		}
	}
}

// startRender claims the server's single render slot and starts the render.
// It returns an HTTP status with the error when the render cannot start.
func (s *Server) startRender(ctx context.Context, req config.Config, sceneObj *scene.Scene,
	logger core.Logger, callbacks renderer.Callbacks) (*renderer.Scheduler, int, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.State() == renderer.StateRunning {
		return nil, http.StatusConflict, renderer.ErrBusy
	}

	scheduler, err := renderer.NewScheduler(sceneObj, req.Width, req.Height, req.Sampling(), req.Scheduler(), logger)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	if err := scheduler.Start(ctx, callbacks); err != nil {
		return nil, http.StatusConflict, err
	}

	s.current = scheduler
	s.lastScene = req.Scene
	return scheduler, http.StatusOK, nil
}

// recordImage keeps the last finished image for /api/preview
func (s *Server) recordImage(img *renderer.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastImage = img
}

// parseRenderRequest applies query parameters on top of the server defaults
func (s *Server) parseRenderRequest(values url.Values) (config.Config, error) {
	req := s.defaults

	if name := values.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", req.Width, MinImageSize, MaxImageSize); err != nil {
		return req, err
	}
	if req.Height, err = parseIntParam(values, "height", req.Height, MinImageSize, MaxImageSize); err != nil {
		return req, err
	}
	if req.TileSize, err = parseIntParam(values, "tile", req.TileSize, MinTileSize, MaxTileSize); err != nil {
		return req, err
	}
	if req.Samples, err = parseIntParam(values, "samples", req.Samples, 1, MaxSamples); err != nil {
		return req, err
	}
	if req.MaxDepth, err = parseIntParam(values, "depth", req.MaxDepth, 0, MaxDepth); err != nil {
		return req, err
	}
	if req.Seed, err = parseInt64Param(values, "seed", req.Seed); err != nil {
		return req, err
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// createScene builds the requested built-in scene
func (s *Server) createScene(req config.Config) (*scene.Scene, error) {
	opts, err := req.SceneOptions()
	if err != nil {
		return nil, err
	}
	return scene.NewScene(req.Scene, opts)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// sendTileUpdate encodes a finished tile and queues it
func (s *Server) sendTileUpdate(ctx context.Context, events chan<- SSEEvent, buffer *renderer.TileBuffer, height int) {
	tileData, err := imageToBase64PNG(framebuffer.TileToNRGBA(buffer))
	if err != nil {
		log.Printf("Error encoding tile %d: %v", buffer.Tile.ID, err)
		return
	}

	bounds := buffer.Tile.OutputBounds(height)
	sendEvent(ctx, events, "tile", TileUpdate{
		TileID:    buffer.Tile.ID,
		X:         bounds.Min.X,
		Y:         bounds.Min.Y,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		ImageData: tileData,
	})
}

// drainEvents writes whatever is already queued, without waiting
func (s *Server) drainEvents(w *echo.Response, events <-chan SSEEvent, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case event := <-events:
			writeSSEEvent(w, event)
		case msg := <-consoleChan:
			writeSSEEvent(w, consoleEvent(msg))
		default:
			return
		}
	}
}

// sendEvent marshals data and queues it, giving up if the client is gone
func sendEvent(ctx context.Context, events chan<- SSEEvent, eventType string, data interface{}) {
	encoded, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling %s update: %v", eventType, err)
		return
	}

	select {
	case events <- SSEEvent{Type: eventType, Data: string(encoded)}:
	case <-ctx.Done():
	}
}

func consoleEvent(msg ConsoleMessage) SSEEvent {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling console message: %v", err)
		return SSEEvent{Type: "console", Data: "{}"}
	}
	return SSEEvent{Type: "console", Data: string(data)}
}

// terminalEvent turns the render result into the last event of the stream
func terminalEvent(result renderer.Result, startTime time.Time) SSEEvent {
	elapsed := time.Since(startTime).Milliseconds()

	switch result.Status {
	case renderer.StatusFinished:
		imageData, err := imageToBase64PNG(framebuffer.ToNRGBA(result.Image))
		if err != nil {
			return errorEvent(fmt.Sprintf("failed to encode image: %v", err))
		}
		data, err := json.Marshal(CompleteUpdate{
			ImageData: imageData,
			Stats:     newStats(result.Stats),
			ElapsedMs: elapsed,
		})
		if err != nil {
			return errorEvent(err.Error())
		}
		return SSEEvent{Type: "complete", Data: string(data)}

	case renderer.StatusCancelled:
		data, _ := json.Marshal(map[string]interface{}{
			"message":   "Rendering cancelled",
			"completed": result.Stats.Tiles,
			"total":     result.Stats.TotalTiles,
			"elapsedMs": elapsed,
		})
		return SSEEvent{Type: "cancelled", Data: string(data)}

	default:
		return errorEvent(fmt.Sprintf("Rendering %v: %v", result.Status, result.Err))
	}
}

func errorEvent(message string) SSEEvent {
	return SSEEvent{Type: "error", Data: message}
}

// writeSSEEvent writes one event and flushes it to the client
func writeSSEEvent(w *echo.Response, event SSEEvent) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
