// Package metrics provides Prometheus instrumentation for LivePlot.
//
// Collectors are registered on a caller-supplied registry rather than the
// global default, so several LivePlot instances (and tests) can coexist in
// one process. The registry is exposed over HTTP at /metrics.
//
// Metrics exposed:
//   - liveplot_producer_ticks_total: Counter of committed samples
//   - liveplot_producer_tick_duration_seconds: Histogram of compute+commit time
//   - liveplot_producer_failures_total: Counter of fatal commit failures
//   - liveplot_store_samples: Gauge of samples currently retained
//   - liveplot_store_last_index: Gauge of the newest committed index
//   - liveplot_series_a_value: Gauge of the latest random-walk value
//   - liveplot_series_b_value: Gauge of the latest sine value
//   - liveplot_snapshots_total: Counter of snapshot reads by consumer
//   - liveplot_stream_clients: Gauge of connected live-feed clients by transport
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ProducerTicks    prometheus.Counter
	TickDuration     prometheus.Histogram
	ProducerFailures prometheus.Counter
	StoreSamples     prometheus.Gauge
	StoreLastIndex   prometheus.Gauge
	SeriesAValue     prometheus.Gauge
	SeriesBValue     prometheus.Gauge
	SnapshotsTotal   *prometheus.CounterVec
	StreamClients    *prometheus.GaugeVec
}

// New creates the LivePlot collectors and registers them on reg.
// A nil reg creates collectors that are not registered anywhere.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ProducerTicks: factory.NewCounter(prometheus.CounterOpts{
			Name: "liveplot_producer_ticks_total",
			Help: "Total number of samples committed by the producer",
		}),

		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "liveplot_producer_tick_duration_seconds",
			Help:    "Time spent computing and committing one sample",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),

		ProducerFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "liveplot_producer_failures_total",
			Help: "Total number of fatal producer commit failures",
		}),

		StoreSamples: factory.NewGauge(prometheus.GaugeOpts{
			Name: "liveplot_store_samples",
			Help: "Number of samples currently retained in the store",
		}),

		StoreLastIndex: factory.NewGauge(prometheus.GaugeOpts{
			Name: "liveplot_store_last_index",
			Help: "Index of the newest committed sample",
		}),

		SeriesAValue: factory.NewGauge(prometheus.GaugeOpts{
			Name: "liveplot_series_a_value",
			Help: "Latest random-walk value",
		}),

		SeriesBValue: factory.NewGauge(prometheus.GaugeOpts{
			Name: "liveplot_series_b_value",
			Help: "Latest sine-wave value",
		}),

		SnapshotsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "liveplot_snapshots_total",
			Help: "Total number of store snapshots taken, by consumer",
		}, []string{"consumer"}),

		StreamClients: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "liveplot_stream_clients",
			Help: "Number of connected live-feed clients, by transport",
		}, []string{"transport"}),
	}
}

// ObserveCommit records one committed sample and the resulting store length.
func (m *Metrics) ObserveCommit(index int64, valueA int, valueB float64, storeLen int, seconds float64) {
	m.ProducerTicks.Inc()
	m.TickDuration.Observe(seconds)
	m.StoreSamples.Set(float64(storeLen))
	m.StoreLastIndex.Set(float64(index))
	m.SeriesAValue.Set(float64(valueA))
	m.SeriesBValue.Set(valueB)
}

func (m *Metrics) RecordProducerFailure() {
	m.ProducerFailures.Inc()
}

func (m *Metrics) RecordSnapshot(consumer string) {
	m.SnapshotsTotal.WithLabelValues(consumer).Inc()
}

func (m *Metrics) StreamConnected(transport string) {
	m.StreamClients.WithLabelValues(transport).Inc()
}

func (m *Metrics) StreamDisconnected(transport string) {
	m.StreamClients.WithLabelValues(transport).Dec()
}
