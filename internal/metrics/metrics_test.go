package metrics

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveGeneration("success")
	m.ObserveGeneration("success")
	m.ObserveGeneration("invalid_config")
	m.ObserveRateLimited()
	m.ObserveUpstream(3 * time.Second)
	m.ObserveHTTP("/api/generate", http.MethodPost, http.StatusOK, 50*time.Millisecond)

	if got := testutil.ToFloat64(m.generations.WithLabelValues("success")); got != 2 {
		t.Errorf("success generations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.generations.WithLabelValues("invalid_config")); got != 1 {
		t.Errorf("invalid_config generations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.rateLimited); got != 1 {
		t.Errorf("rate limited = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/generate", "POST", "200")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}

	expected := `
# HELP mockpaper_rate_limited_total Generation requests denied by the rate limiter.
# TYPE mockpaper_rate_limited_total counter
mockpaper_rate_limited_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "mockpaper_rate_limited_total"); err != nil {
		t.Error(err)
	}
}

func TestTrackKeys(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, WithNamespace("test"))

	keys := 3
	m.TrackKeys(func() int { return keys })

	expected := `
# HELP test_rate_limit_keys Clients currently tracked by the in-memory rate limiter.
# TYPE test_rate_limit_keys gauge
test_rate_limit_keys 3
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_rate_limit_keys"); err != nil {
		t.Error(err)
	}
	keys = 7
	if err := testutil.GatherAndCompare(reg, strings.NewReader(strings.ReplaceAll(expected, " 3\n", " 7\n")), "test_rate_limit_keys"); err != nil {
		t.Error(err)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveGeneration("success")
	m.ObserveRateLimited()
	m.ObserveUpstream(time.Second)
	m.ObserveHTTP("/", "GET", 200, time.Millisecond)
	m.TrackKeys(func() int { return 1 })
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("registering twice on one registry should panic")
		}
	}()
	New(reg)
}
