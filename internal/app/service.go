// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/Zato1one/weatherhist/internal/adapters/dataset"
	renderqueue "github.com/Zato1one/weatherhist/internal/adapters/mq/queue"
	workerpool "github.com/Zato1one/weatherhist/internal/adapters/mq/worker"
	"github.com/Zato1one/weatherhist/internal/adapters/render"
	"github.com/Zato1one/weatherhist/internal/domain/histogram"
	"github.com/Zato1one/weatherhist/internal/domain/model"
	"github.com/Zato1one/weatherhist/internal/domain/rendercache"
	"github.com/Zato1one/weatherhist/internal/domain/types"
	"github.com/Zato1one/weatherhist/internal/domain/weather"
	"github.com/Zato1one/weatherhist/pkg/logger"
	"github.com/Zato1one/weatherhist/pkg/metrics"
)

// shutdownTimeout bounds the worker pool drain during Stop.
const shutdownTimeout = 30 * time.Second

// renderAdapter adapts the histogram pipeline to the worker pool's
// Renderer and Sink interfaces.
type renderAdapter struct {
	service *Service
}

func (a *renderAdapter) RenderChart(ctx context.Context, metric string, width, height int) ([]byte, string, error) {
	return a.service.renderChart(ctx, metric, width, height)
}

func (a *renderAdapter) StoreChart(ctx context.Context, metric, version string, data []byte) (bool, error) {
	return a.service.storeChart(ctx, metric, version, data)
}

// Service implements the API dependencies for the histogram chart system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       dataset.Store
	binner      histogram.Binner
	renderer    *render.HistogramRenderer
	cache       rendercache.Cache
	renderQueue renderqueue.Queue
	workerPool  *workerpool.Pool
	scheduler   *cron.Cron

	// Configuration
	datasetPath     string
	binCount        int
	chartWidth      int
	chartHeight     int
	chartFormat     string
	workerCount     int
	queueSize       int
	cacheSize       int
	refreshSchedule string
	warmOnStart     bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatasetPath sets the path of the JSON dataset file.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.datasetPath = path
		}
	}
}

// WithBinCount sets the suggested number of histogram bin boundaries.
func WithBinCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.binCount = count
		}
	}
}

// WithChartSize sets the rendered chart dimensions in pixels.
func WithChartSize(width, height int) Option {
	return func(s *Service) {
		if width > 0 && height > 0 {
			s.chartWidth = width
			s.chartHeight = height
		}
	}
}

// WithChartFormat sets the chart encoding, "svg" or "png".
func WithChartFormat(format string) Option {
	return func(s *Service) {
		if format == render.FormatSVG || format == render.FormatPNG {
			s.chartFormat = format
		}
	}
}

// WithWorkerCount sets the number of render workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the render queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithCacheSize sets the number of charts the cache keeps.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithRefreshSchedule sets the cron schedule for periodic dataset
// refreshes. An empty schedule disables them.
func WithRefreshSchedule(schedule string) Option {
	return func(s *Service) {
		s.refreshSchedule = schedule
	}
}

// WithWarmOnStart controls whether every chart is queued for rendering
// as soon as the service starts.
func WithWarmOnStart(warm bool) Option {
	return func(s *Service) {
		s.warmOnStart = warm
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		datasetPath: "data/weather.json",
		binCount:    12, // suggested boundary count; edges land on round values
		chartWidth:  600,
		chartHeight: 360,
		chartFormat: render.FormatSVG,
		workerCount: runtime.NumCPU(),
		queueSize:   64,
		cacheSize:   64,
		warmOnStart: true,
		logger:      nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting chart service...")

	// Initialize components
	s.store = dataset.NewMemoryStore(ctx, dataset.NewFileLoader(s.datasetPath))
	info, err := s.store.Reload(ctx)
	if err != nil {
		return fmt.Errorf("initial dataset load: %w", err)
	}
	s.binner = histogram.NewNiceBinner(
		histogram.WithThresholdCount(s.binCount),
	)
	s.renderer = s.newRenderer(s.chartWidth, s.chartHeight)
	s.cache = rendercache.NewInMemoryCache(
		rendercache.WithMaxEntries(s.cacheSize),
	)
	s.renderQueue = renderqueue.NewInMemoryQueue(
		renderqueue.WithCapacity(s.queueSize),
		renderqueue.WithBufferSize(s.queueSize),
	)

	// Create and start worker pool with the render adapter
	adapter := &renderAdapter{service: s}
	s.workerPool = workerpool.NewPool(s.workerCount, s.renderQueue, adapter, adapter)
	s.workerPool.Start(ctx)

	// Queue one render per metric so the gallery is warm before the
	// first chart request arrives
	if s.warmOnStart {
		warmed := 0
		for _, m := range weather.Metrics() {
			if s.enqueueRender(ctx, m.Key) {
				warmed++
			}
		}
		s.logger.Info(ctx, "queued warmup renders", logger.Int("jobs", warmed))
	}

	// Schedule periodic refreshes
	if s.refreshSchedule != "" {
		s.scheduler = cron.New()
		if _, err := s.scheduler.AddFunc(s.refreshSchedule, s.scheduledRefresh); err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", s.refreshSchedule, err)
		}
		s.scheduler.Start()
	}

	s.started = true
	s.logger.Info(ctx, "chart service started",
		logger.Int("records", info.Records),
		logger.String("version", info.Version),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("cacheSize", s.cacheSize),
		logger.Bool("warmOnStart", s.warmOnStart),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping chart service...")

	// Stop the refresh scheduler and wait for a running refresh
	if s.scheduler != nil {
		<-s.scheduler.Stop().Done()
	}

	// Drain the worker pool; Shutdown closes the queue first
	if s.workerPool != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		if err := s.workerPool.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
		}
		cancel()
	}

	// Close the dataset store
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "chart service stopped",
		logger.Int64("cachedCharts", s.cache.Size()))
}

// MetricInfos lists the charted metrics in gallery order.
func (s *Service) MetricInfos(_ context.Context) []types.MetricInfo {
	ms := weather.Metrics()
	infos := make([]types.MetricInfo, len(ms))
	for i, m := range ms {
		infos[i] = types.MetricInfo{
			Key:       m.Key,
			Title:     m.Title,
			ChartPath: "/charts/" + m.Key + "." + s.chartFormat,
		}
	}
	return infos
}

// HistogramView computes the histogram summary for one metric over the
// current dataset generation.
func (s *Service) HistogramView(ctx context.Context, metric string) (types.HistogramView, error) {
	if !s.isStarted() {
		return types.HistogramView{}, ErrNotStarted
	}
	view, _, err := s.viewForMetric(ctx, metric)
	return view, err
}

// Chart returns the chart artifact for a metric. Cache misses are
// rendered synchronously so the caller always gets a current chart.
func (s *Service) Chart(ctx context.Context, metric string) (rendercache.Artifact, error) {
	if !s.isStarted() {
		return rendercache.Artifact{}, ErrNotStarted
	}
	if _, ok := weather.ByKey(metric); !ok {
		return rendercache.Artifact{}, fmt.Errorf("%q: %w", metric, dataset.ErrUnknownMetric)
	}

	version := s.store.Info(ctx).Version
	if art, ok := s.cache.Get(ctx, rendercache.Key(version, metric, s.chartFormat)); ok {
		metrics.RecordChartCacheHit()
		return art, nil
	}
	metrics.RecordChartCacheMiss()

	data, version, err := s.renderChart(ctx, metric, s.chartWidth, s.chartHeight)
	if err != nil {
		return rendercache.Artifact{}, err
	}
	art, evicted := s.putChart(ctx, metric, version, data)
	if evicted {
		metrics.RecordChartCacheEviction()
	}
	return art, nil
}

// Refresh reloads the dataset and queues a render job per metric. It
// reports the number of loaded records.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	if !s.isStarted() {
		return 0, ErrNotStarted
	}

	info, err := s.store.Reload(ctx)
	if err != nil {
		return 0, fmt.Errorf("reload dataset: %w", err)
	}

	ms := weather.Metrics()
	queued := 0
	for _, m := range ms {
		if s.enqueueRender(ctx, m.Key) {
			queued++
		}
	}
	if queued < len(ms) {
		return info.Records, fmt.Errorf("queued %d of %d render jobs: %w", queued, len(ms), ErrBackpressure)
	}

	s.logger.Info(ctx, "dataset refreshed",
		logger.Int("records", info.Records),
		logger.String("version", info.Version),
		logger.Int("jobs", queued),
	)
	return info.Records, nil
}

// EnqueueRender queues a render job for one metric. Unknown metrics and
// a stopped service are refused.
func (s *Service) EnqueueRender(ctx context.Context, metric string) bool {
	if !s.isStarted() {
		return false
	}
	if _, ok := weather.ByKey(metric); !ok {
		return false
	}
	return s.enqueueRender(ctx, metric)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":              s.started,
		"worker_count":         s.workerCount,
		"queue_capacity":       s.queueSize,
		"chart_cache_capacity": s.cacheSize,
		"chart_format":         s.chartFormat,
		"bin_count":            s.binCount,
	}

	if s.started {
		info := s.store.Info(ctx)
		cacheEntries := s.cache.Size()

		stats["dataset_path"] = s.datasetPath
		stats["dataset_version"] = info.Version
		stats["dataset_records"] = info.Records
		stats["dataset_loaded_at"] = info.LoadedAt.Format(time.RFC3339)
		stats["queue_size"] = s.renderQueue.Len(ctx)
		stats["chart_cache_entries"] = cacheEntries

		// Update metrics
		metrics.UpdateChartCacheEntries(int(cacheEntries))
	}

	return stats
}

// isStarted reports whether Start completed and Stop has not run.
func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// enqueueRender queues one render job. Callers have validated the
// metric and service state.
func (s *Service) enqueueRender(ctx context.Context, metric string) bool {
	job := model.RenderJob{
		ID:         uuid.NewString(),
		Metric:     metric,
		Width:      s.chartWidth,
		Height:     s.chartHeight,
		EnqueuedAt: time.Now(),
	}
	ok := s.renderQueue.Enqueue(ctx, job)
	if !ok {
		s.logger.Warn(ctx, "render job refused",
			logger.String("metric", metric),
			logger.String("job_id", job.ID),
		)
	}
	return ok
}

// scheduledRefresh runs a refresh on the cron schedule.
func (s *Service) scheduledRefresh() {
	ctx := context.Background()
	records, err := s.Refresh(ctx)
	if err != nil {
		s.logger.Warn(ctx, "scheduled refresh failed", logger.Error(err))
		return
	}
	s.logger.Info(ctx, "scheduled refresh completed", logger.Int("records", records))
}

// viewForMetric computes the histogram view and reports the dataset
// version it was computed from.
func (s *Service) viewForMetric(ctx context.Context, metric string) (types.HistogramView, string, error) {
	m, ok := weather.ByKey(metric)
	if !ok {
		return types.HistogramView{}, "", fmt.Errorf("%q: %w", metric, dataset.ErrUnknownMetric)
	}

	version := s.store.Info(ctx).Version
	values, err := s.store.Values(ctx, metric)
	if err != nil {
		return types.HistogramView{}, "", fmt.Errorf("metric %s column: %w", metric, err)
	}
	h, err := s.binner.Bin(ctx, values)
	if err != nil {
		return types.HistogramView{}, "", fmt.Errorf("bin %s: %w", metric, err)
	}
	return viewFromHistogram(m, h), version, nil
}

// renderChart renders one metric's chart and reports the dataset
// version it was rendered from.
func (s *Service) renderChart(ctx context.Context, metric string, width, height int) ([]byte, string, error) {
	view, version, err := s.viewForMetric(ctx, metric)
	if err != nil {
		return nil, "", err
	}

	r := s.renderer
	if w, h := r.Size(); w != width || h != height {
		r = s.newRenderer(width, height)
	}

	var buf bytes.Buffer
	if err := r.Render(ctx, view, &buf); err != nil {
		return nil, "", fmt.Errorf("render %s chart: %w", metric, err)
	}
	return buf.Bytes(), version, nil
}

// storeChart caches a rendered chart under its version qualified key.
// The boolean reports whether an older chart was evicted to make room.
func (s *Service) storeChart(ctx context.Context, metric, version string, data []byte) (bool, error) {
	_, evicted := s.putChart(ctx, metric, version, data)
	return evicted, nil
}

// putChart builds the artifact and stores it in the cache.
func (s *Service) putChart(ctx context.Context, metric, version string, data []byte) (rendercache.Artifact, bool) {
	art := rendercache.Artifact{
		Key:        rendercache.Key(version, metric, s.chartFormat),
		Metric:     metric,
		Format:     s.chartFormat,
		Bytes:      data,
		Version:    version,
		RenderedAt: time.Now(),
	}
	evicted := s.cache.Put(ctx, art)
	metrics.UpdateChartCacheEntries(int(s.cache.Size()))
	return art, evicted
}

// newRenderer builds a renderer for the configured format.
func (s *Service) newRenderer(width, height int) *render.HistogramRenderer {
	opts := []render.Option{render.WithSize(width, height)}
	if s.chartFormat == render.FormatPNG {
		opts = append(opts, render.WithPNG())
	}
	return render.NewHistogramRenderer(opts...)
}

// viewFromHistogram converts the binned histogram to the API shape.
func viewFromHistogram(m weather.Metric, h histogram.Histogram) types.HistogramView {
	bins := make([]types.Bin, len(h.Bins))
	for i, b := range h.Bins {
		bins[i] = types.Bin{X0: b.X0, X1: b.X1, Count: b.Count}
	}
	return types.HistogramView{
		Metric: m.Key,
		Title:  m.Title,
		X0:     h.X0,
		X1:     h.X1,
		Min:    h.Min,
		Max:    h.Max,
		Mean:   h.Mean,
		Total:  h.Total,
		Bins:   bins,
	}
}
