package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ErrorsTotal tracks recorded error reports per type and severity
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultcore_errors_total",
			Help: "Total number of error reports recorded",
		},
		[]string{"type", "severity"},
	)

	// ErrorsResolved tracks reports transitioned to resolved
	ErrorsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faultcore_errors_resolved_total",
			Help: "Total number of error reports resolved",
		},
	)

	// ErrorsUnresolved tracks reports currently open in the ledger
	ErrorsUnresolved = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "faultcore_errors_unresolved",
			Help: "Number of unresolved error reports in the ledger",
		},
	)

	// RecoveryAttempts tracks recovery attempts per strategy and outcome
	RecoveryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultcore_recovery_attempts_total",
			Help: "Total number of recovery attempts",
		},
		[]string{"strategy", "outcome"},
	)

	// CallbackFailures tracks panics recovered inside notification callbacks
	CallbackFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faultcore_callback_failures_total",
			Help: "Total number of notification callbacks that panicked",
		},
	)
)
