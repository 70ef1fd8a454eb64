package aggregators

import (
	"burnout-chart/internal/shared/metrics"
)

// metricBucketsCreatedTotal counts new per-second buckets.
//
// The index label tells which side of a record created the bucket:
//   - "request": first arrival seen in that second (response time minus time-taken)
//   - "response": first response seen in that second
//
// A bucket is created once per run; later records for the same second only update it.
// Buckets added by merging partition results are not counted again.
var (
	metricBucketsCreatedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "buckets_created_total",
		},
		[]string{"index"},
	)

	metricRecordsDiscardedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "records_discarded_total",
		},
		[]string{"reason"},
	)

	metricTimeTakenMs = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "time_taken_ms",
			Buckets:   metrics.ExponentialBuckets(1, 4, 10),
		},
		[]string{"outcome"},
	)
)
