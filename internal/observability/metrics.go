package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// display pipeline.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	PayloadsProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Payload composition metrics.
	ResolverStrategy *prometheus.CounterVec // labels: strategy=fallback chain step or "default"
	ReasoningEntries prometheus.Histogram

	// Contract resolution metrics.
	ContractRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	ContractCache       *prometheus.CounterVec // labels: result={hit,miss}
	ContractAPIDuration prometheus.Histogram
	TaxonomyEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.MessagesConsumed,
		m.PayloadsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ResolverStrategy,
		m.ReasoningEntries,
		m.ContractRequests,
		m.ContractCache,
		m.ContractAPIDuration,
		m.TaxonomyEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "horary_display",
			Name:      "messages_consumed_total",
			Help:      "Total chart records read from the source topic.",
		}),
		PayloadsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "horary_display",
			Name:      "payloads_produced_total",
			Help:      "Total display payloads written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "horary_display",
			Name:      "transform_errors_total",
			Help:      "Total transformation failures.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "horary_display",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "horary_display",
			Name:      "batch_size",
			Help:      "Number of chart records per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "horary_display",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ResolverStrategy: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "horary_display",
			Name:      "resolver_strategy_total",
			Help:      "Location resolutions by winning fallback strategy.",
		}, []string{"strategy"}),
		ReasoningEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "horary_display",
			Name:      "reasoning_entries",
			Help:      "Reasoning lines per display payload.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		ContractRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "horary_display",
			Name:      "contract_requests_total",
			Help:      "Taxonomy contract requests by outcome.",
		}, []string{"outcome"}),
		ContractCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "horary_display",
			Name:      "contract_cache_total",
			Help:      "Contract cache lookups by result.",
		}, []string{"result"}),
		ContractAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "horary_display",
			Name:      "contract_api_duration_seconds",
			Help:      "Taxonomy API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		TaxonomyEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "horary_display",
			Name:      "taxonomy_enabled",
			Help:      "1 when remote contract resolution is enabled, 0 otherwise.",
		}),
	}
}
