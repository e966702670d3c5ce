package renderer

import (
	"context"
	"fmt"
	"sync"

	"github.com/df07/go-tile-raytracer/pkg/core"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile *Tile
	Seed int64 // Seed for the tile's private sampler
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	Tile    *Tile
	Buffer  *TileBuffer // nil when skipped or failed
	Skipped bool        // Cancelled before the tile started
	Error   error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID          int
	renderer    *TileRenderer
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Both queues hold maxTasks entries so submitting and reporting never block.
func NewWorkerPool(renderer *TileRenderer, numWorkers, maxTasks int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, maxTasks),
		resultQueue: make(chan TileResult, maxTasks),
		numWorkers:  numWorkers,
	}

	// Create workers
	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			renderer:    renderer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers. Once ctx is done, tasks that have not started
// are reported as skipped; tiles already rendering run to completion.
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// Close signals that no more tasks will be submitted
func (wp *WorkerPool) Close() {
	close(wp.taskQueue)
}

// Wait blocks until every worker has exited, then closes the result queue
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
	close(wp.resultQueue)
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if ctx.Err() != nil {
			w.resultQueue <- TileResult{Tile: task.Tile, Skipped: true}
			continue
		}
		w.resultQueue <- w.render(task)
	}
}

// render runs one tile, turning a panic into a failed result
func (w *Worker) render(task TileTask) (result TileResult) {
	defer func() {
		if r := recover(); r != nil {
			result = TileResult{
				Tile:  task.Tile,
				Error: fmt.Errorf("worker %d: tile %d: %v", w.ID, task.Tile.ID, r),
			}
		}
	}()

	// Each tile owns its generator, so results do not depend on which worker runs it
	sampler := core.NewSeededSampler(task.Seed)
	buffer := w.renderer.RenderTile(task.Tile, sampler)

	return TileResult{Tile: task.Tile, Buffer: buffer}
}
