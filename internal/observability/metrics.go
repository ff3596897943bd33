package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var Tracer trace.Tracer = otel.Tracer("pyshrink")

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pyshrink_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	})

	FilesAnalyzedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pyshrink_files_analyzed_total",
		Help: "Total number of files analyzed.",
	})

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pyshrink_cache_hits_total",
		Help: "Total number of files served from the result cache.",
	})

	FindingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pyshrink_findings_total",
		Help: "Total number of findings reported, by strategy.",
	}, []string{"strategy"})

	StrategyPanicsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pyshrink_strategy_panics_total",
		Help: "Total number of strategies that failed on a file.",
	}, []string{"strategy"})

	SavedBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pyshrink_saved_bytes",
		Help: "Potentially saved bytes reported by the last run.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pyshrink_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
