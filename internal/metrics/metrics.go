package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors updated by payroll runs and the record store.
type Metrics struct {
	PayrollRuns       *prometheus.CounterVec
	PolicyGaps        *prometheus.CounterVec
	StoreOpDuration   *prometheus.HistogramVec
	Employees         prometheus.Gauge
	PayslipsRendered  prometheus.Counter
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance and registers every collector
// with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		PayrollRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "tyche_payroll_runs_total",
			Help: "Total payroll calculations by outcome.",
		}, []string{"status"}),
		PolicyGaps: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "tyche_policy_gaps_total",
			Help: "Calculations rejected because no policy band matched.",
		}, []string{"policy"}),
		StoreOpDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tyche_store_op_duration_seconds",
			Help:    "Duration of employee store operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}), // op: 'load', 'persist', 'create', 'remove'
		Employees: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "tyche_employees",
			Help: "Number of employee records in the store.",
		}),
		PayslipsRendered: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "tyche_payslips_rendered_total",
			Help: "Total number of payslip documents written.",
		}),
		LastSuccessfulRun: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "tyche_last_successful_payroll_run_timestamp",
			Help: "Last time a payroll calculation was stored.",
		}),
	}

	metrics.PayrollRuns.WithLabelValues("success")
	metrics.PayrollRuns.WithLabelValues("failure")

	return metrics
}

// WriteTextfile writes every metric gathered from gth to path in the text
// exposition format, for pickup by a node_exporter textfile collector.
// An empty path is a no-op.
func WriteTextfile(path string, gth prometheus.Gatherer) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, gth); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
