package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/pdf-summarizer/internal/core/ports"
)

// SummaryMetrics records pipeline outcomes. It implements ports.SummaryObserver.
type SummaryMetrics struct {
	service string

	summaryTotal    *prometheus.CounterVec
	summaryDuration *prometheus.HistogramVec
	extractPages    prometheus.Histogram
	skippedPages    prometheus.Counter
	promptChars     prometheus.Histogram
	llmDuration     *prometheus.HistogramVec
}

func NewSummaryMetrics(service string, registry prometheus.Registerer) *SummaryMetrics {
	constLabels := prometheus.Labels{"service": service}

	summaryTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "requests_total",
			Help:      "Total summarize pipeline runs by status and error kind.",
		},
		[]string{"service", "status", "kind"},
	)
	summaryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "duration_seconds",
			Help:      "Summarize pipeline duration in seconds by status.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"service", "status"},
	)
	extractPages := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "extract",
			Name:        "pages",
			Help:        "Distribution of page counts per parsed document.",
			Buckets:     []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
			ConstLabels: constLabels,
		},
	)
	skippedPages := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "extract",
			Name:        "skipped_pages_total",
			Help:        "Total pages that yielded no text.",
			ConstLabels: constLabels,
		},
	)
	promptChars := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "prompt",
			Name:        "chars",
			Help:        "Distribution of document characters forwarded to the generator.",
			Buckets:     []float64{100, 500, 1000, 2500, 5000, 10000, 12000, 15000},
			ConstLabels: constLabels,
		},
	)
	llmDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Generation call duration in seconds by provider and status.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"service", "provider", "status"},
	)

	registry.MustRegister(summaryTotal, summaryDuration, extractPages, skippedPages, promptChars, llmDuration)

	return &SummaryMetrics{
		service:         service,
		summaryTotal:    summaryTotal,
		summaryDuration: summaryDuration,
		extractPages:    extractPages,
		skippedPages:    skippedPages,
		promptChars:     promptChars,
		llmDuration:     llmDuration,
	}
}

func (m *SummaryMetrics) ObserveExtraction(pages, skipped int) {
	m.extractPages.Observe(float64(pages))
	if skipped > 0 {
		m.skippedPages.Add(float64(skipped))
	}
}

func (m *SummaryMetrics) ObservePrompt(chars int) {
	m.promptChars.Observe(float64(chars))
}

// ObserveSummary records one pipeline run; an empty kind means success.
func (m *SummaryMetrics) ObserveSummary(kind string, duration time.Duration) {
	status := "success"
	if kind != "" {
		status = "error"
	}
	m.summaryTotal.WithLabelValues(m.service, status, kind).Inc()
	m.summaryDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}

// InstrumentGenerator times every call made through next.
func (m *SummaryMetrics) InstrumentGenerator(provider string, next ports.TextGenerator) ports.TextGenerator {
	return &instrumentedGenerator{metrics: m, provider: provider, next: next}
}

type instrumentedGenerator struct {
	metrics  *SummaryMetrics
	provider string
	next     ports.TextGenerator
}

func (g *instrumentedGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	start := time.Now()
	text, err := g.next.Generate(ctx, model, prompt)

	status := "success"
	if err != nil {
		status = "error"
	}
	g.metrics.llmDuration.WithLabelValues(g.metrics.service, g.provider, status).Observe(time.Since(start).Seconds())
	return text, err
}
