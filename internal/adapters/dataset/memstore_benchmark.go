package dataset

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Zato1one/weatherhist/internal/domain/weather"
)

// StressResult holds the results of a stress run
type StressResult struct {
	Operation  string
	TotalOps   int64
	TotalTime  time.Duration
	AvgLatency time.Duration
	P50Latency time.Duration
	P95Latency time.Duration
	P99Latency time.Duration
	Throughput float64 // ops/sec
	ErrorCount int64
}

// StressConfig holds configuration for dataset stress testing
type StressConfig struct {
	Records      int // synthetic records per generation
	Readers      int // concurrent reader goroutines
	OpsPerReader int // reads issued by each reader
	ReloadEvery  time.Duration // interval between generation swaps
}

// DefaultStressConfig returns a configuration sized like one year of
// daily observations under moderate read pressure.
func DefaultStressConfig() *StressConfig {
	return &StressConfig{
		Records:      365,
		Readers:      8,
		OpsPerReader: 2000,
		ReloadEvery:  5 * time.Millisecond,
	}
}

// staticLoader serves pre-built records, bypassing the filesystem so
// stress runs measure store behavior rather than disk throughput.
type staticLoader struct {
	records []weather.Record
}

func (l *staticLoader) Load(_ context.Context) ([]weather.Record, error) {
	out := make([]weather.Record, len(l.records))
	copy(out, l.records)
	return out, nil
}

func (l *staticLoader) Source() string {
	return "stress://synthetic"
}

// syntheticRecords builds a deterministic year of varied observations.
func syntheticRecords(count int) []weather.Record {
	records := make([]weather.Record, 0, count)
	for i := 0; i < count; i++ {
		day := float64(i)
		records = append(records, weather.Record{
			Time:           1514782800 + int64(i)*86400,
			MoonPhase:      math.Mod(day/29.53, 1),
			Humidity:       0.55 + 0.35*math.Sin(day/58),
			DewPoint:       30 + 25*math.Sin(day/58-1),
			Pressure:       1013 + 10*math.Sin(day/9),
			WindSpeed:      math.Abs(12 * math.Sin(day/7)),
			WindBearing:    math.Mod(day*37, 360),
			UVIndex:        math.Floor(math.Abs(8 * math.Sin(day/58))),
			TemperatureMin: 40 + 25*math.Sin(day/58-1.2),
			TemperatureMax: 55 + 28*math.Sin(day/58-1.1),
			Date:           fmt.Sprintf("2018-%03d", i+1),
		})
	}
	return records
}

// DatasetStressTest exercises concurrent column reads against periodic
// generation swaps and reports latency percentiles.
func DatasetStressTest(b *testing.B, config *StressConfig) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := &staticLoader{records: syntheticRecords(config.Records)}
	store := NewMemoryStore(ctx, loader)
	defer store.Close()

	if _, err := store.Reload(ctx); err != nil {
		b.Fatalf("initial load: %v", err)
	}

	keys := make([]string, 0)
	for _, m := range weather.Metrics() {
		keys = append(keys, m.Key)
	}

	var (
		latencies   = make([]time.Duration, 0, config.Readers*config.OpsPerReader)
		latenciesMu sync.Mutex
		errorCount  atomic.Int64
		wg          sync.WaitGroup
	)

	// Background reloader swaps generations while readers run
	stopReload := make(chan struct{})
	go func() {
		ticker := time.NewTicker(config.ReloadEvery)
		defer ticker.Stop()
		for {
			select {
			case <-stopReload:
				return
			case <-ticker.C:
				if _, err := store.Reload(ctx); err != nil {
					errorCount.Add(1)
				}
			}
		}
	}()

	start := time.Now()
	for r := 0; r < config.Readers; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			local := make([]time.Duration, 0, config.OpsPerReader)
			for i := 0; i < config.OpsPerReader; i++ {
				key := keys[(r+i)%len(keys)]
				opStart := time.Now()
				if _, err := store.Values(ctx, key); err != nil {
					errorCount.Add(1)
				}
				local = append(local, time.Since(opStart))
			}
			latenciesMu.Lock()
			latencies = append(latencies, local...)
			latenciesMu.Unlock()
		}(r)
	}
	wg.Wait()
	close(stopReload)
	totalTime := time.Since(start)

	result := summarizeStress("Values", latencies, totalTime, errorCount.Load())
	reportStress(b, result)
}

// summarizeStress computes throughput and latency percentiles.
func summarizeStress(operation string, latencies []time.Duration, totalTime time.Duration, errors int64) *StressResult {
	result := &StressResult{
		Operation:  operation,
		TotalOps:   int64(len(latencies)),
		TotalTime:  totalTime,
		ErrorCount: errors,
	}
	if len(latencies) == 0 {
		return result
	}

	sortDurations(latencies)

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	result.AvgLatency = sum / time.Duration(len(latencies))
	result.P50Latency = latencies[len(latencies)*50/100]
	result.P95Latency = latencies[len(latencies)*95/100]
	result.P99Latency = latencies[len(latencies)*99/100]
	result.Throughput = float64(len(latencies)) / totalTime.Seconds()
	return result
}

// sortDurations sorts durations in ascending order
func sortDurations(durations []time.Duration) {
	for i := 1; i < len(durations); i++ {
		for j := i; j > 0 && durations[j] < durations[j-1]; j-- {
			durations[j], durations[j-1] = durations[j-1], durations[j]
		}
	}
}

// reportStress prints the stress summary through the benchmark logger.
func reportStress(b *testing.B, result *StressResult) {
	b.Logf("operation=%s ops=%d time=%s throughput=%.0f/s avg=%s p50=%s p95=%s p99=%s errors=%d",
		result.Operation,
		result.TotalOps,
		result.TotalTime,
		result.Throughput,
		result.AvgLatency,
		result.P50Latency,
		result.P95Latency,
		result.P99Latency,
		result.ErrorCount,
	)
	b.ReportMetric(result.Throughput, "ops/s")
	b.ReportMetric(float64(result.P99Latency.Microseconds()), "p99-µs")
}
