package renderer

import (
	"fmt"
	"runtime"
	"sync"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int            // For deterministic ordering
	PixelStats    [][]PixelStats // Shared pixel stats array to write to
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
	startOnce   sync.Once
	stopOnce    sync.Once
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID           int
	tileRenderer *TileRenderer
	taskQueue    chan TileTask
	resultQueue  chan TileResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// queueSize bounds the number of tasks in flight for one pass.
func NewWorkerPool(raytracer *Raytracer, queueSize, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	queueSize = max(1, queueSize)

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, queueSize),
		resultQueue: make(chan TileResult, queueSize),
		numWorkers:  numWorkers,
	}

	// Workers share the read-only raytracer; samplers travel with the tiles
	tileRenderer := NewTileRenderer(raytracer)
	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:           i,
			tileRenderer: tileRenderer,
			taskQueue:    wp.taskQueue,
			resultQueue:  wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for _, worker := range wp.workers {
			wp.wg.Add(1)
			go worker.run(&wp.wg)
		}
	})
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.taskQueue) // No more tasks
		wp.wg.Wait()        // Wait for workers to finish
		close(wp.resultQueue)
	})
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.resultQueue <- w.render(task)
	}
}

// render draws one tile. Tiles have disjoint bounds, so writing straight into
// the shared pixel stats needs no locking.
func (w *Worker) render(task TileTask) (result TileResult) {
	result.TaskID = task.TaskID

	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("worker %d: tile %d panicked: %v", w.ID, task.Tile.ID, r)
		}
	}()

	result.Stats = w.tileRenderer.RenderTileBounds(task.Tile.Bounds, task.PixelStats, task.Tile.Sampler, task.TargetSamples)
	return result
}
