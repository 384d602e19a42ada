package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "icemap"

// Metrics holds the Prometheus counters, histograms, and gauges for map
// generation.
type Metrics struct {
	MapRequests      *prometheus.CounterVec   // labels: mode, result={hit,miss,error}
	RenderDuration   *prometheus.HistogramVec // labels: mode
	ArtifactBytes    prometheus.Histogram
	InflightRenders  prometheus.Gauge
	FeaturesRetained prometheus.Counter
	FeaturesDropped  prometheus.Counter

	// Shapefile decoding metrics.
	ShapefileCache          *prometheus.CounterVec // labels: result={hit,miss}
	ShapefileDecodeDuration prometheus.Histogram

	// Artifact event publishing.
	EventsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.MapRequests,
		m.RenderDuration,
		m.ArtifactBytes,
		m.InflightRenders,
		m.FeaturesRetained,
		m.FeaturesDropped,
		m.ShapefileCache,
		m.ShapefileDecodeDuration,
		m.EventsPublished,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		MapRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_requests_total",
			Help:      help("Map requests by mode and cache result."),
		}, []string{"mode", "result"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      help("Duration of a load-preprocess-render-publish cycle."),
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"mode"}),
		ArtifactBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "artifact_bytes",
			Help:      help("Size of generated HTML artifacts."),
			Buckets:   prometheus.ExponentialBuckets(64*1024, 2, 10),
		}),
		InflightRenders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inflight_renders",
			Help:      help("Renders currently in progress."),
		}),
		FeaturesRetained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_retained_total",
			Help:      help("Polygons kept after preprocessing."),
		}),
		FeaturesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_dropped_total",
			Help:      help("Land, unassigned, and missing-data polygons removed by preprocessing."),
		}),
		ShapefileCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shapefile_cache_total",
			Help:      help("Decoded shapefile cache lookups by result."),
		}, []string{"result"}),
		ShapefileDecodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "shapefile_decode_duration_seconds",
			Help:      help("Time spent decoding and reprojecting one shapefile."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_events_total",
			Help:      help("Artifact events published by outcome."),
		}, []string{"outcome"}),
	}
}
