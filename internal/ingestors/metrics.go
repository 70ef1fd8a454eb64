package ingestors

import (
	"burnout-chart/internal/shared/metrics"
)

const (
	lineKindData      = "data"
	lineKindComment   = "comment"
	lineKindDirective = "directive"
	lineKindBlank     = "blank"
)

var (
	metricLogIngestedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "log_ingested_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	// metricLinesReadTotal counts physical lines by kind: data, comment, directive or blank.
	metricLinesReadTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "lines_read_total",
		},
		[]string{"kind"},
	)

	metricMalformedLinesTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "malformed_lines_total",
		},
		[]string{"kind"},
	)
)
