package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Zato1one/weatherhist/internal/adapters/render"
	"github.com/Zato1one/weatherhist/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request honoring ctx
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the endpoint serves the
	// Prometheus registry dump)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// fetchMetricListings retrieves the metric catalog and filters it to the
// requested keys.
func fetchMetricListings(ctx context.Context, config *Config) ([]MetricListing, error) {
	log.Println("📇 Fetching metric catalog...")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/metrics"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != StatusOK {
		body, _ := readResponseBody(resp)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var listings []MetricListing
	if err := unmarshalJSON(body, &listings); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	listings, err = filterListings(listings, config.Metrics)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Catalog lists %d charts", len(listings))
	return listings, nil
}

// filterListings keeps the requested metrics in catalog order.
func filterListings(listings []MetricListing, keys []string) ([]MetricListing, error) {
	if len(keys) == 0 {
		return listings, nil
	}

	wanted := make(map[string]bool, len(keys))
	for _, key := range keys {
		wanted[key] = true
	}

	filtered := make([]MetricListing, 0, len(keys))
	for _, listing := range listings {
		if wanted[listing.Key] {
			filtered = append(filtered, listing)
			delete(wanted, listing.Key)
		}
	}

	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for key := range wanted {
			missing = append(missing, key)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("catalog does not list: %s", strings.Join(missing, ", "))
	}

	return filtered, nil
}

// fetchCharts downloads every listed chart concurrently.
func fetchCharts(ctx context.Context, config *Config, listings []MetricListing, stats *Stats) ([]chartFile, error) {
	log.Printf("📥 Downloading %d charts with %d workers...", len(listings), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage
	charts := make([]chartFile, len(listings))
	var (
		fetched int64
		failed  int64
	)

	// Progress reporting
	var lastReport atomic.Int64
	reportInterval := 1 * time.Second

	// Create worker pool
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					listing := listings[index]
					chart, err := fetchSingleChart(ctx, client, config.BaseURL, listing)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to fetch chart for %s: %v", listing.Key, err)
						}
					} else {
						charts[index] = chart
						atomic.AddInt64(&fetched, 1)
					}

					// Progress reporting
					now := time.Now().UnixNano()
					last := lastReport.Load()
					if now-last >= int64(reportInterval) && lastReport.CompareAndSwap(last, now) {
						done := atomic.LoadInt64(&fetched) + atomic.LoadInt64(&failed)
						log.Printf("📊 Download progress: %d/%d (fetched: %d, failed: %d)",
							done, len(listings), atomic.LoadInt64(&fetched), atomic.LoadInt64(&failed))
					}
				}
			}
		}(i)
	}

	// Send listing indices to workers
	go func() {
		defer close(indexChan)
		for i := range listings {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Filter out failed downloads
	downloaded := make([]chartFile, 0, len(charts))
	for _, chart := range charts {
		if chart.metric != "" { // Empty metric indicates a failed download
			downloaded = append(downloaded, chart)
		}
	}

	// Update stats
	stats.ChartsFetched = len(downloaded)
	stats.ChartsFailed = int(atomic.LoadInt64(&failed))

	if len(downloaded) == 0 {
		return nil, fmt.Errorf("no charts downloaded")
	}

	log.Printf(`✅ Chart download completed:
   Fetched: %d
   Failed: %d
`, len(downloaded), stats.ChartsFailed)

	return downloaded, nil
}

// fetchSingleChart downloads one chart.
func fetchSingleChart(ctx context.Context, client *HTTPClient, baseURL string, listing MetricListing) (chartFile, error) {
	resp, err := client.Get(ctx, baseURL+listing.ChartPath)
	if err != nil {
		return chartFile{}, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != StatusOK {
		body, _ := readResponseBody(resp)
		return chartFile{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return chartFile{}, fmt.Errorf("failed to read response: %w", err)
	}

	return chartFile{
		metric: listing.Key,
		format: chartFormat(listing.ChartPath),
		data:   body,
	}, nil
}

// chartFormat derives the encoding from the chart path extension.
func chartFormat(chartPath string) string {
	ext := strings.TrimPrefix(path.Ext(chartPath), ".")
	if ext == "" {
		return render.FormatSVG
	}
	return ext
}
