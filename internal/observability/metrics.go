package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// solar wind ETL pipeline.
type Metrics struct {
	FetchesTotal  *prometheus.CounterVec   // labels: product={magnetometer,plasma}, outcome={success,error}
	FetchDuration *prometheus.HistogramVec // labels: product={magnetometer,plasma}
	RowsParsed    *prometheus.CounterVec   // labels: product={magnetometer,plasma}
	ParseErrors   *prometheus.CounterVec   // labels: product={magnetometer,plasma}

	RecordsMerged    prometheus.Histogram
	RecordsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
	CycleDuration    prometheus.Histogram
	PipelineRunning  prometheus.Gauge
	KafkaEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_wind_etl",
			Name:      "fetches_total",
			Help:      "SWPC product fetches by product and outcome.",
		}, []string{"product", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "solar_wind_etl",
			Name:      "fetch_duration_seconds",
			Help:      "SWPC product fetch duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"product"}),
		RowsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_wind_etl",
			Name:      "rows_parsed_total",
			Help:      "Total data rows parsed into measurement records.",
		}, []string{"product"}),
		ParseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_wind_etl",
			Name:      "parse_errors_total",
			Help:      "Total table parse failures.",
		}, []string{"product"}),
		RecordsMerged: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solar_wind_etl",
			Name:      "records_merged",
			Help:      "Merged magnetometer/plasma records per cycle.",
			Buckets:   []float64{1, 10, 50, 100, 250, 500, 1000, 2500},
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_wind_etl",
			Name:      "records_published_total",
			Help:      "Total records written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_wind_etl",
			Name:      "publish_errors_total",
			Help:      "Total sink publish failures.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solar_wind_etl",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of one complete fetch-parse-derive-publish cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "solar_wind_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		KafkaEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "solar_wind_etl",
			Name:      "kafka_enabled",
			Help:      "1 when the Kafka sink is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.FetchesTotal,
		m.FetchDuration,
		m.RowsParsed,
		m.ParseErrors,
		m.RecordsMerged,
		m.RecordsPublished,
		m.PublishErrors,
		m.CycleDuration,
		m.PipelineRunning,
		m.KafkaEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchesTotal:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "solar_wind_etl", Name: "fetches_total"}, []string{"product", "outcome"}),
		FetchDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "solar_wind_etl", Name: "fetch_duration_seconds"}, []string{"product"}),
		RowsParsed:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "solar_wind_etl", Name: "rows_parsed_total"}, []string{"product"}),
		ParseErrors:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "solar_wind_etl", Name: "parse_errors_total"}, []string{"product"}),
		RecordsMerged:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "solar_wind_etl", Name: "records_merged"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "solar_wind_etl", Name: "records_published_total"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "solar_wind_etl", Name: "publish_errors_total"}),
		CycleDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "solar_wind_etl", Name: "cycle_duration_seconds"}),
		PipelineRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "solar_wind_etl", Name: "pipeline_running"}),
		KafkaEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "solar_wind_etl", Name: "kafka_enabled"}),
	}
}
