package ensemble

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/df07/go-twostream-rt/pkg/core"
	"github.com/df07/go-twostream-rt/pkg/integrator"
)

// batchTask describes one contiguous block of photons for a worker
type batchTask struct {
	ID     int // For deterministic merge ordering
	Start  int // Global index of the first photon in the batch
	Count  int
	Record int // Photons with global index below this record their paths
}

// batchResult contains the tally from tracing one batch
type batchResult struct {
	ID    int
	Tally *tally
	Err   error
}

// workerPool manages parallel batch tracing
type workerPool struct {
	taskQueue   chan batchTask
	resultQueue chan batchResult
	workers     []*worker
	numWorkers  int
	wg          sync.WaitGroup
}

// worker traces photon batches from the task queue
type worker struct {
	id          int
	engine      *integrator.Engine
	cfg         Config
	tauMax      float64
	taskQueue   chan batchTask
	resultQueue chan batchResult
}

// newWorkerPool creates a pool with queue capacity for maxBatches batches.
// The engine holds no per-photon state, so all workers share one instance.
func newWorkerPool(engine *integrator.Engine, cfg Config, maxBatches int) *workerPool {
	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &workerPool{
		taskQueue:   make(chan batchTask, maxBatches),
		resultQueue: make(chan batchResult, maxBatches),
		numWorkers:  numWorkers,
	}

	tauMax := engine.Atmosphere().TauMax
	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &worker{
			id:          i,
			engine:      engine,
			cfg:         cfg,
			tauMax:      tauMax,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// start begins all workers
func (wp *workerPool) start(ctx context.Context) {
	for _, w := range wp.workers {
		wp.wg.Add(1)
		go w.run(ctx, &wp.wg)
	}
}

// stop shuts down the pool after all submitted tasks have been answered
func (wp *workerPool) stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// submit queues one batch task
func (wp *workerPool) submit(task batchTask) {
	wp.taskQueue <- task
}

// result retrieves a completed batch result
func (wp *workerPool) result() (batchResult, bool) {
	res, ok := <-wp.resultQueue
	return res, ok
}

// run is the main worker loop
func (w *worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Answer remaining tasks without tracing once the run is cancelled
		if err := ctx.Err(); err != nil {
			w.resultQueue <- batchResult{ID: task.ID, Err: err}
			continue
		}

		t, err := w.runBatch(task)
		w.resultQueue <- batchResult{ID: task.ID, Tally: t, Err: err}
	}
}

// runBatch traces one block of photons with a sampler seeded for the batch
func (w *worker) runBatch(task batchTask) (*tally, error) {
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(batchSeed(w.cfg.Seed, task.Start))))
	t := newTally(w.cfg.HistogramBins, w.tauMax)

	for i := 0; i < task.Count; i++ {
		global := task.Start + i
		record := global < task.Record

		traj, err := w.engine.Trace(sampler, integrator.TraceOptions{
			MaxSteps:   w.cfg.MaxSteps,
			RecordPath: record,
		})
		if err != nil {
			return nil, fmt.Errorf("photon %d: %w", global, err)
		}

		t.addTrajectory(traj, record)
	}

	return t, nil
}

// batchSeed derives the sampler seed for the batch starting at photon
// index start. The seed depends only on the base seed and the batch
// position, never on which worker picks the batch up.
func batchSeed(base int64, start int) int64 {
	return base ^ int64((uint64(start)+1)*0x9e3779b97f4a7c15)
}
