package dataset

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zato1one/weatherhist/internal/domain/model"
	"github.com/Zato1one/weatherhist/internal/domain/weather"
	"github.com/Zato1one/weatherhist/pkg/metrics"
)

// In-memory Store implementation.
//
// A load replaces the whole generation under the write lock, so readers
// observe either the previous or the new records, never a mix. Extracted
// metric columns are cached per generation and rebuilt lazily.

// MemoryStore holds the current dataset generation in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	loader  Loader
	records []weather.Record
	columns map[string][]float64 // metric key -> extracted column, lazy
	info    model.DatasetInfo

	metricsUpdateInterval time.Duration // How often dataset gauges are refreshed

	// Background goroutine management
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewMemoryStore constructs a memory store reading from loader with
// configuration options. The store starts empty; call Reload to load
// the first generation.
func NewMemoryStore(ctx context.Context, loader Loader, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		loader:                loader,
		columns:               make(map[string][]float64),
		metricsUpdateInterval: 5 * time.Second, // default gauge refresh interval
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	// Initialize stop channel and start the background gauge updater
	s.stopChan = make(chan struct{})
	s.startMetricsUpdater(ctx)

	return s
}

// startMetricsUpdater starts a background goroutine that refreshes dataset gauges
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

// updateMetrics refreshes all dataset-related gauges
func (s *MemoryStore) updateMetrics() {
	s.mu.RLock()
	recordCount := len(s.records)
	s.mu.RUnlock()

	metrics.UpdateDatasetRecords(recordCount)
}

// Close gracefully shuts down the background gauge updater
func (s *MemoryStore) Close() error {
	// Signal all goroutines to stop
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Reload implements Store.Reload. The new generation is swapped in
// under the write lock and gets a fresh version id.
func (s *MemoryStore) Reload(ctx context.Context) (model.DatasetInfo, error) {
	start := time.Now()

	records, err := s.loader.Load(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("dataset", "load_failed")
		return model.DatasetInfo{}, err
	}

	info := model.DatasetInfo{
		Path:     s.loader.Source(),
		Records:  len(records),
		Version:  uuid.NewString(),
		LoadedAt: time.Now(),
	}

	s.mu.Lock()
	s.records = records
	s.columns = make(map[string][]float64, len(weather.Metrics()))
	s.info = info
	s.mu.Unlock()

	metrics.RecordDatasetLoadDuration(float64(time.Since(start).Milliseconds()))
	metrics.RecordDatasetReload()
	metrics.UpdateDatasetRecords(len(records))

	return info, nil
}

// Records implements Store.Records. The copy keeps callers isolated
// from later reloads.
func (s *MemoryStore) Records(_ context.Context) []weather.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]weather.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Values implements Store.Values with a per-generation column cache.
func (s *MemoryStore) Values(_ context.Context, key string) ([]float64, error) {
	m, ok := weather.ByKey(key)
	if !ok {
		metrics.RecordErrorByComponent("dataset", "unknown_metric")
		return nil, ErrUnknownMetric
	}

	s.mu.RLock()
	vals, cached := s.columns[key]
	s.mu.RUnlock()
	if cached {
		return vals, nil
	}

	// Extract under the write lock so the column always belongs to the
	// generation it is cached against.
	s.mu.Lock()
	defer s.mu.Unlock()

	if vals, cached := s.columns[key]; cached {
		return vals, nil
	}
	if len(s.records) == 0 {
		return nil, ErrNotLoaded
	}

	vals = weather.Values(s.records, m)
	s.columns[key] = vals
	return vals, nil
}

// Info implements Store.Info.
func (s *MemoryStore) Info(_ context.Context) model.DatasetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
