package streams

import (
	"burnout-chart/internal/shared/metrics"
)

var (
	metricQueuePublishedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "queue_published_total",
		},
		[]string{"queue"},
	)
)
