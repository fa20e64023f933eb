package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome ラベル値
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collector は操作メトリクスをPrometheusに公開する
type Collector struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	results    *prometheus.GaugeVec
}

// NewCollector はCollectorを作成し reg に登録する
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "firestore_probe_operations_total",
			Help: "Store operations issued by the probes, by outcome.",
		}, []string{"test", "op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "firestore_probe_operation_duration_seconds",
			Help:    "Latency of a single store operation.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"test", "op"}),
		results: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "firestore_probe_result",
			Help: "Latest derived statistic per test (availability_pct, loss_pct, throughput_per_second).",
		}, []string{"test", "stat"}),
	}

	reg.MustRegister(c.operations, c.latency, c.results)
	return c
}

// ObserveOperation は1回の操作結果を記録する
func (c *Collector) ObserveOperation(test, op string, ok bool, latency time.Duration) {
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeFailure
	}
	c.operations.WithLabelValues(test, op, outcome).Inc()
	c.latency.WithLabelValues(test, op).Observe(latency.Seconds())
}

// SetResult は算出済みの統計値を設定する
func (c *Collector) SetResult(test, stat string, v float64) {
	c.results.WithLabelValues(test, stat).Set(v)
}
