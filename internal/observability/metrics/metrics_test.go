package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	m := NewHTTPServerMetrics("api", prometheus.NewRegistry())
	handler := m.Middleware("api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnsupportedMediaType)
	}))

	for _, path := range []string{"/v1/summaries", "/v1/unknown/123"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("api", "POST", "/v1/summaries", "415")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("api", "POST", "other", "415")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.requestInFlight))
}

func TestHandlerExposesSummaryMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	httpMetrics := NewHTTPServerMetrics("api", registry)
	summary := NewSummaryMetrics("api", registry)

	summary.ObserveExtraction(3, 1)
	summary.ObservePrompt(120)
	summary.ObserveSummary("", 2*time.Second)
	summary.ObserveSummary("generation_failed", time.Second)

	res := httptest.NewRecorder()
	httpMetrics.Handler().ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, res.Code)

	body := res.Body.String()
	assert.Contains(t, body, `pdfsum_summary_requests_total{kind="generation_failed",service="api",status="error"} 1`)
	assert.Contains(t, body, `pdfsum_extract_skipped_pages_total{service="api"} 1`)
	assert.Contains(t, body, "pdfsum_prompt_chars_bucket")
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string, string) (string, error) {
	return "", errors.New("boom")
}

func TestInstrumentGeneratorRecordsStatus(t *testing.T) {
	summary := NewSummaryMetrics("api", prometheus.NewRegistry())
	gen := summary.InstrumentGenerator("gemini", failingGenerator{})

	_, err := gen.Generate(context.Background(), "m", "p")
	require.Error(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(summary.llmDuration))
}
