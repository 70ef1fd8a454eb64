package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	FieldErrorCode = "error_code"

	ValueNoError = ""

	Namespace      = "burnout"
	SubIngestion   = "ingestion"
	SubAggregation = "aggregation"
	SubChart       = "chart"
	SubStream      = "stream"
	SubCommand     = "command"
)

// CounterOpts is a type alias for prometheus.CounterOpts.
type CounterOpts = prometheus.CounterOpts

// HistogramOpts is a type alias for prometheus.HistogramOpts.
type HistogramOpts = prometheus.HistogramOpts

// DefBuckets is a re-export of prometheus.DefBuckets.
var DefBuckets = prometheus.DefBuckets

// ExponentialBuckets is a re-export of prometheus.ExponentialBuckets.
var ExponentialBuckets = prometheus.ExponentialBuckets

// NewCounterVec creates a new CounterVec with the given CounterOpts and label names.
// It is automatically registered with the default prometheus registry.
var NewCounterVec = promauto.NewCounterVec

// NewHistogramVec creates a new HistogramVec with the given HistogramOpts and label names.
// It is automatically registered with the default prometheus registry.
var NewHistogramVec = promauto.NewHistogramVec

// NewHistogram creates a new unlabeled Histogram registered with the default registry.
var NewHistogram = promauto.NewHistogram

// WriteToTextfile dumps every metric of the default registry to path in the
// text exposition format, for pickup by a node_exporter textfile collector.
var WriteToTextfile = func(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
