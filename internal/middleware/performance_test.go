// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestNewPerformanceMonitor_DefaultWindow(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(0)
	if pm.maxMetrics != 1000 {
		t.Errorf("maxMetrics = %d, want 1000", pm.maxMetrics)
	}
}

func TestPerformanceMonitor_SlidingWindow(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(3)
	for i := 1; i <= 5; i++ {
		pm.RecordRequest(&RequestMetrics{Route: "/r", Method: http.MethodGet, DurationMS: float64(i)})
	}

	recent := pm.GetRecentMetrics(10)
	if len(recent) != 3 {
		t.Fatalf("len(recent) = %d, want 3", len(recent))
	}
	if recent[0].DurationMS != 3 || recent[2].DurationMS != 5 {
		t.Errorf("window = %v, want durations 3..5", recent)
	}
	if got := pm.GetRecentMetrics(0); len(got) != 0 {
		t.Errorf("GetRecentMetrics(0) = %v, want empty", got)
	}
}

func TestPerformanceMonitor_GetStats(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(100)
	// Recorded out of order on purpose.
	for _, d := range []float64{7, 3, 10, 1, 5, 2, 9, 4, 8, 6} {
		pm.RecordRequest(&RequestMetrics{Route: "/recommend", Method: http.MethodPost, DurationMS: d, StatusCode: http.StatusOK})
	}
	pm.RecordRequest(&RequestMetrics{Route: "/models", Method: http.MethodGet, DurationMS: 2, StatusCode: http.StatusServiceUnavailable})

	stats := pm.GetStats()
	if len(stats) != 2 {
		t.Fatalf("len(stats) = %d, want 2", len(stats))
	}

	busiest := stats[0]
	if busiest.Endpoint != "POST /recommend" {
		t.Fatalf("stats[0].Endpoint = %q, want POST /recommend", busiest.Endpoint)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"avg", busiest.AvgDuration, 5.5},
		{"p50", busiest.P50Duration, 5},
		{"p95", busiest.P95Duration, 10},
		{"p99", busiest.P99Duration, 10},
		{"min", busiest.MinDuration, 1},
		{"max", busiest.MaxDuration, 10},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if busiest.RequestCount != 10 || busiest.ErrorCount != 0 {
		t.Errorf("counts = %d/%d, want 10/0", busiest.RequestCount, busiest.ErrorCount)
	}
	if stats[1].ErrorCount != 1 {
		t.Errorf("stats[1].ErrorCount = %d, want 1", stats[1].ErrorCount)
	}
}

func TestPercentile_Empty(t *testing.T) {
	t.Parallel()

	if got := percentile(nil, 0.5); got != 0 {
		t.Errorf("percentile(nil) = %v, want 0", got)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(10)
	pm.SetSlowThreshold(0)

	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Post("/api/v1/recommendations/{algorithm}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/pm", nil))

	recent := pm.GetRecentMetrics(1)
	if len(recent) != 1 {
		t.Fatalf("len(recent) = %d, want 1", len(recent))
	}
	got := recent[0]
	if got.Route != "/api/v1/recommendations/{algorithm}" {
		t.Errorf("Route = %q, want the route pattern", got.Route)
	}
	if got.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, want %d", got.StatusCode, http.StatusUnprocessableEntity)
	}
	if got.Timestamp.IsZero() || got.Timestamp.After(time.Now()) {
		t.Errorf("Timestamp = %v, want a past time", got.Timestamp)
	}
}

func TestPerformanceMonitor_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(50)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				pm.RecordRequest(&RequestMetrics{Route: "/r", Method: http.MethodGet, DurationMS: float64(i + j)})
				_ = pm.GetStats()
			}
		}(i)
	}
	wg.Wait()

	if n := len(pm.GetRecentMetrics(1000)); n != 50 {
		t.Errorf("window size = %d, want 50", n)
	}
}
