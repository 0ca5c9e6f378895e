package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.Counter.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.StageTotal == nil || r.CacheRequests == nil || r.HTTPRequestsTotal == nil {
		t.Fatal("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestPipelineStages(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnComposeComplete(ctx, 16, time.Millisecond, nil)
	r.OnComposeComplete(ctx, 0, time.Millisecond, errors.New("mismatch"))
	r.OnUpdateComplete(ctx, time.Millisecond, nil)
	r.OnRenderComplete(ctx, []string{"svg", "png"}, time.Millisecond, nil)

	tests := []struct {
		stage, status string
		want          float64
	}{
		{"compose", "success", 1},
		{"compose", "error", 1},
		{"update", "success", 1},
		{"render", "success", 1},
		{"load", "success", 0},
	}
	for _, tt := range tests {
		got := counterValue(t, r.StageTotal.WithLabelValues(tt.stage, tt.status))
		if got != tt.want {
			t.Errorf("stage %s/%s = %v, want %v", tt.stage, tt.status, got, tt.want)
		}
	}
	if got := counterValue(t, r.RenderFormats.WithLabelValues("png")); got != 1 {
		t.Errorf("render_format_total{png} = %v, want 1", got)
	}
}

func TestCacheHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnCacheHit(ctx, "document")
	r.OnCacheHit(ctx, "document")
	r.OnCacheMiss(ctx, "document")
	r.OnCacheSet(ctx, "update", 512)

	if got := counterValue(t, r.CacheRequests.WithLabelValues("document", "hit")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := counterValue(t, r.CacheRequests.WithLabelValues("document", "miss")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := counterValue(t, r.CacheRequests.WithLabelValues("update", "set")); got != 1 {
		t.Errorf("sets = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	r.OnRequest(ctx, "GET", "/healthz")
	r.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)
	r.OnSessionsChanged(ctx, 3)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`meshview_http_requests_total{method="GET",route="/healthz",status="200"} 1`,
		`meshview_sessions_active 3`,
		`meshview_http_requests_in_flight 0`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
