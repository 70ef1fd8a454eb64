package charts

import (
	"burnout-chart/internal/shared/metrics"
)

var (
	metricChartRenderedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubChart,
			Name:      "rendered_total",
		},
		[]string{"format", metrics.FieldErrorCode},
	)

	// metricChartSeconds is the width of rendered charts in seconds of traffic.
	metricChartSeconds = metrics.NewHistogram(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubChart,
			Name:      "span_seconds",
			Buckets:   metrics.ExponentialBuckets(60, 4, 6),
		},
	)
)
