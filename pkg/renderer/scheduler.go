package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/integrator"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

var (
	// ErrBusy is returned when a render is requested while one is running
	ErrBusy = errors.New("render already in progress")
	// ErrCancelled is returned by Render when the context preempts it
	ErrCancelled = errors.New("render cancelled")
)

// State is the lifecycle state of a Scheduler
type State int

const (
	StateIdle State = iota
	StateRunning
	StateFinished
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status is the outcome delivered to the completion callback
type Status int

const (
	StatusFinished Status = iota
	StatusCancelled
	StatusBusy
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFinished:
		return "finished"
	case StatusCancelled:
		return "cancelled"
	case StatusBusy:
		return "busy"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the terminal outcome of a render request. Image is set only
// for StatusFinished.
type Result struct {
	Status Status
	Image  *Image
	Stats  RenderStats
	Err    error
}

// ProgressFunc receives (completed, total) tile counts
type ProgressFunc func(completed, total int)

// TileFunc receives each finished tile buffer. The buffer must not be modified.
type TileFunc func(buffer *TileBuffer)

// CompletionFunc receives the terminal result of a render, exactly once
type CompletionFunc func(result Result)

// Callbacks are invoked from a single goroutine per render, in order: any
// number of OnTile/OnProgress pairs, then OnComplete. Nil entries are skipped.
type Callbacks struct {
	OnProgress ProgressFunc
	OnTile     TileFunc
	OnComplete CompletionFunc
}

// Scheduler splits the viewport into tiles, renders them on a worker pool
// and composites the results into one image
type Scheduler struct {
	scene         *scene.Scene
	width, height int
	sampling      SamplingConfig
	config        SchedulerConfig
	numWorkers    int
	tiles         []*Tile
	renderer      *TileRenderer
	logger        core.Logger

	mu        sync.Mutex
	state     State
	completed int
	cancel    context.CancelFunc
	lastImage *Image
}

// NewScheduler validates the configuration and builds the tile grid.
// The scene is preprocessed if that has not happened yet.
func NewScheduler(sc *scene.Scene, width, height int, sampling SamplingConfig, config SchedulerConfig, logger core.Logger) (*Scheduler, error) {
	if sc == nil {
		return nil, fmt.Errorf("nil scene: %w", ErrInvalidConfig)
	}
	if err := sampling.Validate(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	tiles, err := NewTileGrid(width, height, config.TileSize)
	if err != nil {
		return nil, err
	}

	if sc.World() == nil {
		if err := sc.Preprocess(); err != nil {
			return nil, err
		}
	}

	if logger == nil {
		logger = core.NopLogger{}
	}

	numWorkers := config.NumWorkers
	if numWorkers == 0 {
		numWorkers = DefaultWorkerCount()
	}
	numWorkers = min(numWorkers, len(tiles))

	pathTracer := integrator.NewPathTracingIntegrator(sampling.MaxDepth, sc.Background)

	return &Scheduler{
		scene:      sc,
		width:      width,
		height:     height,
		sampling:   sampling,
		config:     config,
		numWorkers: numWorkers,
		tiles:      tiles,
		renderer:   NewTileRenderer(sc.Camera, sc.World(), pathTracer, sampling, width, height),
		logger:     logger,
	}, nil
}

// State returns the current lifecycle state
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Progress returns the completed and total tile counts of the current or
// most recent render
func (s *Scheduler) Progress() (completed, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed, len(s.tiles)
}

// LastImage returns the image of the most recent finished render, or nil
func (s *Scheduler) LastImage() *Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastImage
}

// Tiles returns the tile grid in row-major order
func (s *Scheduler) Tiles() []*Tile {
	return s.tiles
}

// NumWorkers returns the number of workers each render uses
func (s *Scheduler) NumWorkers() int {
	return s.numWorkers
}

// Cancel stops the running render, if any. Tiles already rendering finish;
// the rest are skipped and the render ends as cancelled.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning && s.cancel != nil {
		s.cancel()
	}
}

// Start begins an asynchronous render and returns immediately.
// If a render is already running the request is rejected: Start returns
// ErrBusy and the caller's OnComplete receives a StatusBusy result, while the
// running render carries on untouched.
func (s *Scheduler) Start(ctx context.Context, callbacks Callbacks) error {
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		s.logger.Printf("Render request rejected: %v\n", ErrBusy)
		if callbacks.OnComplete != nil {
			callbacks.OnComplete(Result{Status: StatusBusy, Err: ErrBusy})
		}
		return ErrBusy
	}

	ctx, cancel := context.WithCancel(ctx)
	s.state = StateRunning
	s.completed = 0
	s.cancel = cancel
	s.mu.Unlock()

	go s.run(ctx, cancel, callbacks)
	return nil
}

// Render runs a render to completion and returns the composited image.
// It returns ErrCancelled if ctx is done first and ErrBusy if another render
// is running.
func (s *Scheduler) Render(ctx context.Context, progress ProgressFunc) (*Image, RenderStats, error) {
	done := make(chan Result, 1)
	err := s.Start(ctx, Callbacks{
		OnProgress: progress,
		OnComplete: func(result Result) { done <- result },
	})
	if err != nil {
		return nil, RenderStats{}, err
	}

	result := <-done
	if result.Status != StatusFinished {
		return nil, result.Stats, result.Err
	}
	return result.Image, result.Stats, nil
}

// run dispatches every tile, collects results on this goroutine only, waits
// for all workers and then composites or reports cancellation
func (s *Scheduler) run(ctx context.Context, cancel context.CancelFunc, callbacks Callbacks) {
	defer cancel()

	startTime := time.Now()
	total := len(s.tiles)

	s.logger.Printf("Rendering %dx%d in %d tiles of %d px (%d workers, %d samples, depth %d)...\n",
		s.width, s.height, total, s.config.TileSize, s.numWorkers,
		s.sampling.SamplesPerPixel, s.sampling.MaxDepth)

	pool := NewWorkerPool(s.renderer, s.numWorkers, total)
	pool.Start(ctx)
	for _, tile := range s.tiles {
		pool.SubmitTask(TileTask{Tile: tile, Seed: s.config.Seed + int64(tile.ID)})
	}
	pool.Close()

	buffers := make([]*TileBuffer, total)
	stats := RenderStats{TotalTiles: total, Workers: s.numWorkers}
	var failure error
	skipped := 0

	for i := 0; i < total; i++ {
		result, ok := pool.GetResult()
		if !ok {
			break
		}

		switch {
		case result.Error != nil:
			if failure == nil {
				failure = result.Error
				cancel() // no point rendering the rest
			}
		case result.Skipped:
			skipped++
		default:
			buffers[result.Tile.ID] = result.Buffer
			stats.add(result.Buffer)
			completed := s.markTileComplete()

			if callbacks.OnTile != nil {
				callbacks.OnTile(result.Buffer)
			}
			if callbacks.OnProgress != nil {
				callbacks.OnProgress(completed, total)
			}
		}
	}

	// Barrier: no worker touches anything after this
	pool.Wait()
	stats.Elapsed = time.Since(startTime)

	var result Result
	switch {
	case failure != nil:
		s.logger.Printf("Render failed after %v: %v\n", stats.Elapsed, failure)
		result = Result{Status: StatusFailed, Stats: stats, Err: failure}
		s.finish(StateFailed, nil)
	case skipped > 0 || ctx.Err() != nil:
		s.logger.Printf("Render cancelled after %v (%d/%d tiles)\n", stats.Elapsed, stats.Tiles, total)
		result = Result{Status: StatusCancelled, Stats: stats, Err: fmt.Errorf("%w: %v", ErrCancelled, context.Cause(ctx))}
		s.finish(StateCancelled, nil)
	default:
		img := Composite(s.width, s.height, buffers)
		s.logger.Printf("Render complete\nElapsed time: %v\nPixels: %d\nSamples: %d\n",
			stats.Elapsed, stats.TotalPixels, stats.TotalSamples)
		result = Result{Status: StatusFinished, Image: img, Stats: stats}
		s.finish(StateFinished, img)
	}

	if callbacks.OnComplete != nil {
		callbacks.OnComplete(result)
	}
}

// markTileComplete bumps the shared progress counter
func (s *Scheduler) markTileComplete() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed++
	return s.completed
}

// finish moves to a terminal state before callbacks run, so OnComplete may
// start the next render
func (s *Scheduler) finish(state State, img *Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.cancel = nil
	if img != nil {
		s.lastImage = img
	}
}

// Composite copies tile buffers into a new width x height image in
// row-major tile order. Sample row y lands on output row height-1-y, so the
// top of the view plane becomes row 0 of the image.
func Composite(width, height int, buffers []*TileBuffer) *Image {
	img := NewImage(width, height)

	for _, buffer := range buffers {
		bounds := buffer.Tile.Bounds
		tileWidth := bounds.Dx()

		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			src := buffer.Pix[(y-bounds.Min.Y)*tileWidth : (y-bounds.Min.Y+1)*tileWidth]
			dst := img.Row(height - 1 - y)[bounds.Min.X:bounds.Max.X]
			copy(dst, src)
		}
	}

	return img
}
