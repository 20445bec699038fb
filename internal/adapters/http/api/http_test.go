package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Zato1one/weatherhist/internal/adapters/dataset"
	"github.com/Zato1one/weatherhist/internal/adapters/http/api"
	app "github.com/Zato1one/weatherhist/internal/app"
	"github.com/Zato1one/weatherhist/internal/domain/rendercache"
	"github.com/Zato1one/weatherhist/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		svc := newMockService()
		statsProvider := &mockStatsProvider{
			stats: map[string]interface{}{"dataset_records": 365},
		}
		server := api.NewServer(svc, statsProvider)
		mux := http.NewServeMux()
		server.Register(context.Background(), mux)

		Convey("When requesting the metric catalog", func() {
			req := httptest.NewRequest("GET", "/api/metrics", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return the metric list", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var infos []types.MetricInfo
				err := json.NewDecoder(w.Body).Decode(&infos)
				So(err, ShouldBeNil)
				So(len(infos), ShouldEqual, 2)
				So(infos[0].Key, ShouldEqual, "windSpeed")
			})

			Convey("Then the response should carry a request id", func() {
				So(w.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
			})
		})

		Convey("When requesting a histogram", func() {
			req := httptest.NewRequest("GET", "/api/histograms/humidity", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return the histogram summary", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
			})
		})

		Convey("When requesting a chart", func() {
			req := httptest.NewRequest("GET", "/charts/humidity.svg", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return the SVG document", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "image/svg+xml")
			})
		})

		Convey("When posting a refresh", func() {
			req := httptest.NewRequest("POST", "/api/refresh", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should accept the refresh", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
			})
		})

		Convey("When requesting stats", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return stats", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When requesting the health endpoint", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return OK", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When requesting the dashboard", func() {
			req := httptest.NewRequest("GET", "/dashboard", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return the dashboard page", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `id="refresh-interval"`)
				So(w.Body.String(), ShouldContainSubstring, `id="refresh-control"`)
			})
		})
	})
}

func TestMetricsHandler_HandleListMetrics(t *testing.T) {
	Convey("Given a metric catalog handler", t, func() {
		svc := newMockService()
		handler := api.NewMetricsHandler(svc)

		Convey("When handling a GET request", func() {
			req := httptest.NewRequest("GET", "/api/metrics", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return the catalog in order", func() {
				handler.HandleListMetrics(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var infos []types.MetricInfo
				err := json.NewDecoder(w.Body).Decode(&infos)
				So(err, ShouldBeNil)
				So(len(infos), ShouldEqual, 2)
				So(infos[0].Key, ShouldEqual, "windSpeed")
				So(infos[1].Key, ShouldEqual, "humidity")
				So(infos[1].ChartPath, ShouldEqual, "/charts/humidity.svg")
			})
		})

		Convey("When handling a non-GET request", func() {
			req := httptest.NewRequest("POST", "/api/metrics", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleListMetrics(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestHistogramsHandler_HandleGetHistogram(t *testing.T) {
	Convey("Given a histogram handler", t, func() {
		svc := newMockService()
		handler := api.NewHistogramsHandler(svc)

		Convey("When requesting an existing metric", func() {
			req := httptest.NewRequest("GET", "/api/histograms/humidity", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return the histogram summary", func() {
				handler.HandleGetHistogram(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var view types.HistogramView
				err := json.NewDecoder(w.Body).Decode(&view)
				So(err, ShouldBeNil)
				So(view.Metric, ShouldEqual, "humidity")
				So(view.Total, ShouldEqual, 4)
				So(len(view.Bins), ShouldEqual, 2)
			})
		})

		Convey("When the metric path parameter is empty", func() {
			req := httptest.NewRequest("GET", "/api/histograms/", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandleGetHistogram(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the metric path is nested", func() {
			req := httptest.NewRequest("GET", "/api/histograms/humidity/extra", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandleGetHistogram(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When requesting an unknown metric", func() {
			svc.viewErr = dataset.ErrUnknownMetric
			req := httptest.NewRequest("GET", "/api/histograms/nonexistent", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleGetHistogram(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "not_found")
			})
		})

		Convey("When the histogram computation fails", func() {
			svc.viewErr = fmt.Errorf("store offline")
			req := httptest.NewRequest("GET", "/api/histograms/humidity", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return internal server error", func() {
				handler.HandleGetHistogram(w, req)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "internal_error")
			})
		})

		Convey("When handling a non-GET request", func() {
			req := httptest.NewRequest("DELETE", "/api/histograms/humidity", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleGetHistogram(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestChartsHandler_HandleGetChart(t *testing.T) {
	Convey("Given a charts handler", t, func() {
		svc := newMockService()
		handler := api.NewChartsHandler(svc)

		Convey("When requesting an existing chart", func() {
			req := httptest.NewRequest("GET", "/charts/humidity.svg", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return the chart bytes", func() {
				handler.HandleGetChart(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "image/svg+xml")
				So(w.Body.String(), ShouldEqual, string(svc.artifact.Bytes))
			})

			Convey("Then it should carry a version qualified ETag", func() {
				handler.HandleGetChart(w, req)
				So(w.Header().Get("ETag"), ShouldEqual, `W/"v1/humidity.svg"`)
				So(w.Header().Get("Cache-Control"), ShouldEqual, "no-cache")
			})
		})

		Convey("When revalidating with a matching ETag", func() {
			req := httptest.NewRequest("GET", "/charts/humidity.svg", nil)
			req.Header.Set("If-None-Match", `W/"v1/humidity.svg"`)
			w := httptest.NewRecorder()

			Convey("Then it should return not modified without a body", func() {
				handler.HandleGetChart(w, req)
				So(w.Code, ShouldEqual, http.StatusNotModified)
				So(w.Body.Len(), ShouldEqual, 0)
			})
		})

		Convey("When revalidating with an ETag list", func() {
			req := httptest.NewRequest("GET", "/charts/humidity.svg", nil)
			req.Header.Set("If-None-Match", `W/"stale", W/"v1/humidity.svg"`)
			w := httptest.NewRecorder()

			Convey("Then it should return not modified", func() {
				handler.HandleGetChart(w, req)
				So(w.Code, ShouldEqual, http.StatusNotModified)
			})
		})

		Convey("When revalidating with a stale ETag", func() {
			req := httptest.NewRequest("GET", "/charts/humidity.svg", nil)
			req.Header.Set("If-None-Match", `W/"v0/humidity.svg"`)
			w := httptest.NewRecorder()

			Convey("Then it should return the chart again", func() {
				handler.HandleGetChart(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.Len(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When requesting a format the chart was not rendered in", func() {
			req := httptest.NewRequest("GET", "/charts/humidity.png", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleGetChart(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the chart path has no format suffix", func() {
			req := httptest.NewRequest("GET", "/charts/humidity", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandleGetChart(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the chart path has an empty metric", func() {
			req := httptest.NewRequest("GET", "/charts/.svg", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandleGetChart(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When requesting an unknown metric", func() {
			svc.chartErr = dataset.ErrUnknownMetric
			req := httptest.NewRequest("GET", "/charts/nonexistent.svg", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleGetChart(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the render backend fails", func() {
			svc.chartErr = fmt.Errorf("render backend failure")
			req := httptest.NewRequest("GET", "/charts/humidity.svg", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return internal server error", func() {
				handler.HandleGetChart(w, req)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When handling a non-GET request", func() {
			req := httptest.NewRequest("POST", "/charts/humidity.svg", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleGetChart(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestRefreshHandler_HandleRefresh(t *testing.T) {
	Convey("Given a refresh handler", t, func() {
		svc := newMockService()
		handler := api.NewRefreshHandler(svc)

		Convey("When posting a full refresh", func() {
			req := httptest.NewRequest("POST", "/api/refresh", nil)
			w := httptest.NewRecorder()

			Convey("Then it should accept and report the reload", func() {
				handler.HandleRefresh(w, req)
				So(w.Code, ShouldEqual, http.StatusAccepted)

				var response refreshResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Status, ShouldEqual, "accepted")
				So(response.Records, ShouldEqual, 365)
				So(response.Jobs, ShouldEqual, 2)
			})
		})

		Convey("When the render queue pushes back", func() {
			svc.refreshErr = fmt.Errorf("queued 3 of 8 render jobs: %w", app.ErrBackpressure)
			req := httptest.NewRequest("POST", "/api/refresh", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return too many requests status", func() {
				handler.HandleRefresh(w, req)
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)

				var response errorResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "backpressure")
			})
		})

		Convey("When the dataset reload fails", func() {
			svc.refreshErr = fmt.Errorf("open dataset: no such file")
			req := httptest.NewRequest("POST", "/api/refresh", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return internal server error", func() {
				handler.HandleRefresh(w, req)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When refreshing a single metric", func() {
			req := httptest.NewRequest("POST", "/api/refresh?metric=humidity", nil)
			w := httptest.NewRecorder()

			Convey("Then it should queue exactly one render", func() {
				handler.HandleRefresh(w, req)
				So(w.Code, ShouldEqual, http.StatusAccepted)

				var response refreshResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Status, ShouldEqual, "accepted")
				So(response.Jobs, ShouldEqual, 1)
				So(svc.enqueued, ShouldResemble, []string{"humidity"})
			})
		})

		Convey("When refreshing an unknown metric", func() {
			req := httptest.NewRequest("POST", "/api/refresh?metric=nonexistent", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleRefresh(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(len(svc.enqueued), ShouldEqual, 0)
			})
		})

		Convey("When a single metric render is rejected", func() {
			svc.enqueueOK = false
			req := httptest.NewRequest("POST", "/api/refresh?metric=humidity", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return too many requests status", func() {
				handler.HandleRefresh(w, req)
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			})
		})

		Convey("When handling a non-POST request", func() {
			req := httptest.NewRequest("GET", "/api/refresh", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleRefresh(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]interface{}{
				"dataset_records": 365,
				"queue_size":      3,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return stats", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]interface{}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response["dataset_records"], ShouldEqual, 365)
				So(response["queue_size"], ShouldEqual, 3)
			})
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return OK status", func() {
				handler.HandleHealth(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a handler wrapped with request id middleware", t, func() {
		var handled bool
		wrapped := api.RequestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
			handled = true
			w.WriteHeader(http.StatusOK)
		})

		Convey("When the client supplies a request id", func() {
			req := httptest.NewRequest("GET", "/api/metrics", nil)
			req.Header.Set("X-Request-ID", "abc-123")
			w := httptest.NewRecorder()
			wrapped(w, req)

			Convey("Then the id should be preserved", func() {
				So(handled, ShouldBeTrue)
				So(w.Header().Get("X-Request-ID"), ShouldEqual, "abc-123")
			})
		})

		Convey("When the client supplies no request id", func() {
			req := httptest.NewRequest("GET", "/api/metrics", nil)
			w := httptest.NewRecorder()
			wrapped(w, req)

			Convey("Then a new id should be generated", func() {
				So(handled, ShouldBeTrue)
				So(len(w.Header().Get("X-Request-ID")), ShouldEqual, 36)
			})
		})
	})
}

// mockService implements the Dependencies interface.
type mockService struct {
	infos      []types.MetricInfo
	view       types.HistogramView
	viewErr    error
	artifact   rendercache.Artifact
	chartErr   error
	records    int
	refreshErr error
	enqueueOK  bool
	enqueued   []string
}

func newMockService() *mockService {
	return &mockService{
		infos: []types.MetricInfo{
			{Key: "windSpeed", Title: "WindSpeed", ChartPath: "/charts/windSpeed.svg"},
			{Key: "humidity", Title: "Humidity", ChartPath: "/charts/humidity.svg"},
		},
		view: types.HistogramView{
			Metric: "humidity",
			Title:  "Humidity",
			X0:     0,
			X1:     1,
			Min:    0.1,
			Max:    0.9,
			Mean:   0.5,
			Total:  4,
			Bins: []types.Bin{
				{X0: 0, X1: 0.5, Count: 3},
				{X0: 0.5, X1: 1, Count: 1},
			},
		},
		artifact: rendercache.Artifact{
			Key:        "v1/humidity.svg",
			Metric:     "humidity",
			Format:     "svg",
			Bytes:      []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`),
			Version:    "v1",
			RenderedAt: time.Now(),
		},
		records:   365,
		enqueueOK: true,
	}
}

func (m *mockService) MetricInfos(_ context.Context) []types.MetricInfo {
	return m.infos
}

func (m *mockService) HistogramView(_ context.Context, _ string) (types.HistogramView, error) {
	if m.viewErr != nil {
		return types.HistogramView{}, m.viewErr
	}
	return m.view, nil
}

func (m *mockService) Chart(_ context.Context, _ string) (rendercache.Artifact, error) {
	if m.chartErr != nil {
		return rendercache.Artifact{}, m.chartErr
	}
	return m.artifact, nil
}

func (m *mockService) Refresh(_ context.Context) (int, error) {
	if m.refreshErr != nil {
		return 0, m.refreshErr
	}
	return m.records, nil
}

func (m *mockService) EnqueueRender(_ context.Context, metric string) bool {
	if m.enqueueOK {
		m.enqueued = append(m.enqueued, metric)
	}
	return m.enqueueOK
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

// Local types for testing
type refreshResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
	Jobs    int    `json:"jobs"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
