package app

import (
	"burnout-chart/internal/shared/metrics"
)

var (
	metricCommandsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubCommand,
			Name:      "runs_total",
		},
		[]string{"command", metrics.FieldErrorCode},
	)

	metricCommandDuration = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubCommand,
			Name:      "run_seconds",
			Buckets:   metrics.DefBuckets,
		},
		[]string{"command", metrics.FieldErrorCode},
	)
)
