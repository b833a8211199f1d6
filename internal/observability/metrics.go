package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a report
// run. The collectors live in a private registry so the one-shot CLI can dump
// them to a textfile without touching process-global state.
type Metrics struct {
	registry *prometheus.Registry

	RowsRead         *prometheus.CounterVec // labels: region
	IncidentsParsed  *prometheus.CounterVec // labels: region
	RowsDropped      *prometheus.CounterVec // labels: region, reason={timestamp,coordinates,other}
	DaylightSplit    *prometheus.CounterVec // labels: region, period={day,night}
	PointsUnassigned *prometheus.CounterVec // labels: region
	ChartsRendered   *prometheus.CounterVec // labels: region, kind

	StageDuration *prometheus.HistogramVec // labels: stage
	RunTimestamp  prometheus.Gauge
}

// NewMetrics creates all report metrics backed by a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_report",
			Name:      "rows_read_total",
			Help:      "Total CSV rows read per region dataset.",
		}, []string{"region"}),
		IncidentsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_report",
			Name:      "incidents_parsed_total",
			Help:      "Total rows that parsed into usable incidents.",
		}, []string{"region"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_report",
			Name:      "rows_dropped_total",
			Help:      "Rows rejected during parsing by reason.",
		}, []string{"region", "reason"}),
		DaylightSplit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_report",
			Name:      "daylight_split_total",
			Help:      "Incidents classified as day or night.",
		}, []string{"region", "period"}),
		PointsUnassigned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_report",
			Name:      "points_unassigned_total",
			Help:      "Incidents that fell outside every neighborhood polygon.",
		}, []string{"region"}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_report",
			Name:      "charts_rendered_total",
			Help:      "Figures written to the output directory by kind.",
		}, []string{"region", "kind"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crime_report",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each report stage.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		RunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crime_report",
			Name:      "generated_timestamp_seconds",
			Help:      "Unix time the report run finished.",
		}),
	}

	m.registry.MustRegister(
		m.RowsRead,
		m.IncidentsParsed,
		m.RowsDropped,
		m.DaylightSplit,
		m.PointsUnassigned,
		m.ChartsRendered,
		m.StageDuration,
		m.RunTimestamp,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewMetrics()
}

// WriteFile dumps the current metric values to path in the Prometheus text
// exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
