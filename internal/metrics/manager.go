package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation outcomes.
const (
	OutcomeLLM      = "llm"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

type Manager struct {
	// counters
	CounterRequests        *prometheus.CounterVec
	CounterRecommendations *prometheus.CounterVec
	CounterDroppedIDs      prometheus.Counter
	CounterCatalogCache    *prometheus.CounterVec

	// historgrams
	HistRequestDuration prometheus.Histogram
	HistLLMDuration     *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("spartan", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("spartan", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "route", "status"})
	counterRecommendations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "recommendations",
		Help:      "Recommendation invocations by outcome (llm, fallback, error)",
	}, []string{"outcome"})
	counterDroppedIDs := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "recommendation_dropped_ids",
		Help:      "Model-returned workout ids missing from the catalog",
	})
	counterCatalogCache := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "catalog_cache",
		Help:      "Catalog cache lookups by result (hit, miss)",
	}, []string{"result"})

	histReqDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		Name:      "request_duration_seconds",
		Help:      "Total duration of requests in seconds",
	})
	histLLMDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		Name:      "llm_duration_seconds",
		Help:      "Duration of language model calls in seconds",
	}, []string{"provider"})

	return &Manager{
		CounterRequests:        counterRequests,
		CounterRecommendations: counterRecommendations,
		CounterDroppedIDs:      counterDroppedIDs,
		CounterCatalogCache:    counterCatalogCache,
		HistRequestDuration:    histReqDuration,
		HistLLMDuration:        histLLMDuration,
	}
}
