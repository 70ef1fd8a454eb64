package aggregators

import (
	"sort"
	"time"

	"burnout-chart/internal/models"
)

const (
	indexRequest  = "request"
	indexResponse = "response"
)

// TimeSeriesAggregator folds records into per-second DataPoints. Each record is counted
// twice: its arrival on the bucket of its request time, its outcome on the bucket of
// its response time.
//
// An aggregator is owned by a single goroutine. Parallel ingestion gives every worker
// its own aggregator and combines them with Merge once the workers are done.
type TimeSeriesAggregator interface {
	// Ingest applies the filter and updates the buckets. It returns false for discarded records.
	Ingest(record *models.RawRecord) bool
	// Merge sums points into this aggregator. The points are copied, never retained.
	Merge(points []*models.DataPoint)
	// Len is the number of buckets created so far.
	Len() int
	// Finalize returns the buckets ordered by time.
	Finalize() []*models.DataPoint
}

type timeSeriesAggregator struct {
	filter *RecordFilter
	points map[int64]*models.DataPoint
}

func NewTimeSeriesAggregator(filter *RecordFilter) TimeSeriesAggregator {
	return &timeSeriesAggregator{
		filter: filter,
		points: make(map[int64]*models.DataPoint),
	}
}

func (a *timeSeriesAggregator) Ingest(record *models.RawRecord) bool {
	if a.filter != nil {
		if ok, reason := a.filter.Accept(record); !ok {
			metricRecordsDiscardedTotal.WithLabelValues(reason).Inc()
			return false
		}
	}

	reqPoint := a.bucket(record.RequestTime(), indexRequest)
	reqPoint.ReqCount++

	respPoint := a.bucket(record.ResponseTime, indexResponse)
	switch record.Outcome() {
	case models.OutcomeSuccess:
		respPoint.SuccCount++
		respPoint.TotalSuccDura += record.TimeTakenMs
	default:
		respPoint.FailCount++
		respPoint.ErrCodes[record.StatusCode]++
	}

	metricTimeTakenMs.WithLabelValues(record.Outcome().String()).Observe(float64(record.TimeTakenMs))
	return true
}

// bucket returns the DataPoint for the second t falls into, creating it on first use.
func (a *timeSeriesAggregator) bucket(t time.Time, index string) *models.DataPoint {
	t = models.TruncateSecond(t)
	key := t.Unix()
	p, ok := a.points[key]
	if !ok {
		p = models.NewDataPoint(t)
		a.points[key] = p
		metricBucketsCreatedTotal.WithLabelValues(index).Inc()
	}
	return p
}

func (a *timeSeriesAggregator) Merge(points []*models.DataPoint) {
	for _, p := range points {
		if p == nil {
			continue
		}
		key := models.TruncateSecond(p.Time).Unix()
		if existing, ok := a.points[key]; ok {
			existing.Merge(p)
			continue
		}
		a.points[key] = p.Clone()
	}
}

func (a *timeSeriesAggregator) Len() int {
	return len(a.points)
}

func (a *timeSeriesAggregator) Finalize() []*models.DataPoint {
	series := make([]*models.DataPoint, 0, len(a.points))
	for _, p := range a.points {
		series = append(series, p)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Time.Before(series[j].Time)
	})
	return series
}
