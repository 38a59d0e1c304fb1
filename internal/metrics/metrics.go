// Package metrics declares the Prometheus collectors the server exposes at
// /metrics, using a plain-vars-plus-registration style.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CalibrationsTotal counts completed calibration runs.
	CalibrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "irt_calibrations_total",
		Help: "Total number of item bank calibration runs completed.",
	})

	// CalibrationDuration observes how long each calibration run takes.
	CalibrationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "irt_calibration_duration_seconds",
		Help:    "Duration of item bank calibration runs.",
		Buckets: prometheus.DefBuckets,
	})

	// CalibrationDroppedRecords counts malformed response records dropped
	// during calibration.
	CalibrationDroppedRecords = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "irt_calibration_dropped_records_total",
		Help: "Total number of malformed response records dropped during calibration.",
	})

	// AbilityEstimatesTotal counts ability estimation calls, labeled by
	// outcome (ok, no_responses, unknown_item, numeric_instability).
	AbilityEstimatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "irt_ability_estimates_total",
		Help: "Total number of ability estimation calls by outcome.",
	}, []string{"outcome"})

	// PassingProbabilityRequestsTotal counts exam probability requests by
	// outcome and computation path (exact/approx).
	PassingProbabilityRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "irt_passing_probability_requests_total",
		Help: "Total number of passing-probability requests by outcome and path.",
	}, []string{"outcome", "path"})
)

// MustRegisterAll registers every collector with the default Prometheus
// registry. Call once at startup.
func MustRegisterAll() {
	prometheus.MustRegister(
		CalibrationsTotal,
		CalibrationDuration,
		CalibrationDroppedRecords,
		AbilityEstimatesTotal,
		PassingProbabilityRequestsTotal,
	)
}

// ObserveCalibration records metrics for one calibration run.
func ObserveCalibration(start time.Time, dropped int) {
	CalibrationsTotal.Inc()
	CalibrationDuration.Observe(time.Since(start).Seconds())
	if dropped > 0 {
		CalibrationDroppedRecords.Add(float64(dropped))
	}
}
