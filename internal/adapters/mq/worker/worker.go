// Package worker defines worker contracts for asynchronous chart rendering.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Zato1one/weatherhist/internal/domain/model"
	"github.com/Zato1one/weatherhist/pkg/logger"
	"github.com/Zato1one/weatherhist/pkg/metrics"
)

// Default worker configuration constants.
const (
	metricsUpdateInterval = 5 * time.Second
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job abstracts what workers read off the queue.
// Using the model.RenderJob type for consistency.
type Job = model.RenderJob

// Renderer produces an encoded chart for one metric at the requested size.
// The returned version identifies the dataset generation the chart was
// rendered from.
type Renderer interface {
	RenderChart(ctx context.Context, metric string, width, height int) (data []byte, version string, err error)
}

// Sink stores rendered charts for serving. It reports whether storing the
// chart evicted an older artifact.
type Sink interface {
	StoreChart(ctx context.Context, metric, version string, data []byte) (bool, error)
}

// Queue defines how workers receive render jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes render jobs and stores charts using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining jobs before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing render jobs.
type InMemoryWorker struct {
	queue    Queue
	renderer Renderer
	sink     Sink
	name     string

	// Shared gauge of jobs being processed across the pool
	active *atomic.Int64

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, renderer Renderer, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		renderer: renderer,
		sink:     sink,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			// Process the job
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing render job", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.signalShutdown()

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// signalShutdown closes the shutdown channel exactly once.
func (w *InMemoryWorker) signalShutdown() {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
}

// processJob renders and stores the chart for a single job.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error {
	if w.active != nil {
		w.active.Add(1)
		defer w.active.Add(-1)
	}

	// Track overall processing latency
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	// Time spent waiting in the queue
	if !job.EnqueuedAt.IsZero() {
		queueLatency := time.Since(job.EnqueuedAt).Milliseconds()
		metrics.RecordQueueProcessingLatency(float64(queueLatency))
	}

	// Track render latency per metric
	renderStart := time.Now()
	data, version, err := w.renderer.RenderChart(ctx, job.Metric, job.Width, job.Height)
	renderLatency := time.Since(renderStart).Milliseconds()

	metrics.RecordRenderDuration(job.Metric, float64(renderLatency))

	if err != nil {
		metrics.RecordRenderJobFailed()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "render_error")
		metrics.RecordErrorByType("render_error", "high")
		w.logger.Error(ctx, "render failed for job",
			logger.String("jobID", job.ID),
			logger.String("metric", job.Metric),
			logger.Error(err),
		)
		return fmt.Errorf("failed to render job %s: %w", job.ID, err)
	}

	// Store the chart for serving
	evicted, err := w.sink.StoreChart(ctx, job.Metric, version, data)
	if err != nil {
		metrics.RecordRenderJobFailed()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		metrics.RecordErrorByType("store_error", "high")
		w.logger.Error(ctx, "chart store failed for job",
			logger.String("jobID", job.ID),
			logger.String("metric", job.Metric),
			logger.Error(err),
		)
		return fmt.Errorf("chart store failed for job %s: %w", job.ID, err)
	}

	if evicted {
		metrics.RecordChartCacheEviction()
	}

	metrics.RecordRenderJobProcessed()
	w.logger.Debug(ctx, "chart rendered",
		logger.String("metric", job.Metric),
		logger.String("version", version),
		logger.Int("bytes", len(data)),
	)

	return nil
}

// Pool manages multiple render workers.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	renderer Renderer
	sink     Sink

	// Jobs currently being processed across all workers
	active atomic.Int64

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool. A non-positive workerCount falls back
// to one worker per CPU.
func NewPool(workerCount int, queue Queue, renderer Renderer, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		renderer: renderer,
		sink:     sink,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			renderer,
			sink,
			WithName("render-worker-"+strconv.Itoa(i)),
			WithActivityGauge(&pool.active),
		)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerIdleCount(workerCount)

	return pool
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	// Start metrics updater
	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater starts a background goroutine that updates worker metrics.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics publishes worker activity gauges.
func (p *Pool) updateMetrics() {
	active := int(p.active.Load())
	idle := len(p.workers) - active
	if idle < 0 {
		idle = 0
	}

	metrics.UpdateWorkerCount(len(p.workers))
	metrics.UpdateWorkerActiveCount(active)
	metrics.UpdateWorkerIdleCount(idle)
}

// signalShutdown closes the pool shutdown channel exactly once.
func (p *Pool) signalShutdown() {
	select {
	case <-p.shutdown:
	default:
		close(p.shutdown)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	p.signalShutdown()

	// Signal shutdown to all workers
	for _, worker := range p.workers {
		worker.signalShutdown()
	}

	// Wait for all workers to finish
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	p.signalShutdown()

	// Signal shutdown to all workers
	for _, worker := range p.workers {
		worker.signalShutdown()
	}

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
