// Package metrics provides Prometheus metrics for the importer and its
// status server:
//   - import_runs_total: Counter of completed and failed import runs
//   - import_records: Gauge of stored medication records
//   - import_exempt_records: Gauge of co-payment exempt records
//   - import_lines_total: Counters of accepted and skipped source lines
//   - import_duration_seconds: Histogram of import run duration
//   - http_request_total / http_request_duration_seconds / http_request_in_flight
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"festbetrag/interfaces"
)

var (
	ImportRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_runs_total",
			Help: "Total import runs by result",
		},
		[]string{"result"},
	)

	ImportRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "import_records",
			Help: "Medication records currently stored",
		},
	)

	ImportExemptRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "import_exempt_records",
			Help: "Stored records flagged co-payment exempt",
		},
	)

	ImportLinesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_lines_total",
			Help: "Source lines by parse outcome",
		},
		[]string{"outcome"},
	)

	ImportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "import_duration_seconds",
			Help:    "Import run duration",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)
)

func init() {
	prometheus.MustRegister(ImportRunsTotal)
	prometheus.MustRegister(ImportRecords)
	prometheus.MustRegister(ImportExemptRecords)
	prometheus.MustRegister(ImportLinesTotal)
	prometheus.MustRegister(ImportDuration)
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
}

// RecordImportRun publishes the counters of a completed import run.
func RecordImportRun(report *interfaces.ImportReport, recordCount, exemptCount int, duration time.Duration) {
	ImportRunsTotal.WithLabelValues("success").Inc()
	ImportRecords.Set(float64(recordCount))
	ImportExemptRecords.Set(float64(exemptCount))
	ImportDuration.Observe(duration.Seconds())

	ImportLinesTotal.WithLabelValues("accepted").Add(float64(report.Accepted))
	ImportLinesTotal.WithLabelValues("group_header").Add(float64(report.GroupHeaders))
	ImportLinesTotal.WithLabelValues("skipped_empty").Add(float64(report.SkippedEmpty))
	ImportLinesTotal.WithLabelValues("skipped_header_footer").Add(float64(report.SkippedHeaderFooter))
	ImportLinesTotal.WithLabelValues("skipped_no_pzn").Add(float64(report.SkippedNoPZN))
	ImportLinesTotal.WithLabelValues("skipped_numeric_tokens").Add(float64(report.SkippedNumericTokens))
	ImportLinesTotal.WithLabelValues("skipped_no_darreichungsform").Add(float64(report.SkippedNoDarreichungsform))
	ImportLinesTotal.WithLabelValues("skipped_no_context").Add(float64(report.SkippedNoContext))
}

// RecordImportFailure counts an import run that aborted with an error.
func RecordImportFailure() {
	ImportRunsTotal.WithLabelValues("failure").Inc()
}
