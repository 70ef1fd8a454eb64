package charts

import (
	"fmt"
	"time"

	"burnout-chart/internal/models"
)

// ChartSeries holds the parallel arrays plotted by a burnout chart. Index i of every
// slice describes the second BaseTime + Offsets[i].
type ChartSeries struct {
	BaseTime time.Time
	Offsets  []int64 // seconds since BaseTime
	Labels   []string
	Req      []int64
	Succ     []int64
	Fail     []int64
	AvgDura  []*int64 // nil where the second had no successful response
}

// Len is the number of seconds covered.
func (s *ChartSeries) Len() int {
	return len(s.Labels)
}

// Densify returns one DataPoint per second from the earliest to the latest point of
// series, both included. Seconds without data get a zero-valued point. The result
// shares the non-gap points with series.
func Densify(series []*models.DataPoint) []*models.DataPoint {
	if len(series) == 0 {
		return []*models.DataPoint{}
	}

	first, last := series[0].Time, series[0].Time
	bySecond := make(map[int64]*models.DataPoint, len(series))
	for _, p := range series {
		t := models.TruncateSecond(p.Time)
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
		bySecond[t.Unix()] = p
	}
	first = models.TruncateSecond(first)
	last = models.TruncateSecond(last)

	n := int(last.Sub(first)/time.Second) + 1
	dense := make([]*models.DataPoint, 0, n)
	for i := 0; i < n; i++ {
		t := first.Add(time.Duration(i) * time.Second)
		if p, ok := bySecond[t.Unix()]; ok {
			dense = append(dense, p)
			continue
		}
		dense = append(dense, models.NewDataPoint(t))
	}
	return dense
}

// Project splits a dense series into chart arrays. Labels are "mm:ss" offsets from the
// first point; the minutes wrap at 60 like a clock.
func Project(dense []*models.DataPoint) *ChartSeries {
	s := &ChartSeries{
		Offsets: make([]int64, 0, len(dense)),
		Labels:  make([]string, 0, len(dense)),
		Req:     make([]int64, 0, len(dense)),
		Succ:    make([]int64, 0, len(dense)),
		Fail:    make([]int64, 0, len(dense)),
		AvgDura: make([]*int64, 0, len(dense)),
	}
	if len(dense) == 0 {
		return s
	}

	s.BaseTime = dense[0].Time
	for _, p := range dense {
		offset := int64(p.Time.Sub(s.BaseTime) / time.Second)
		s.Offsets = append(s.Offsets, offset)
		s.Labels = append(s.Labels, OffsetLabel(offset))
		s.Req = append(s.Req, p.ReqCount)
		s.Succ = append(s.Succ, p.SuccCount)
		s.Fail = append(s.Fail, p.FailCount)
		if avg, ok := p.AvgSuccDura(); ok {
			s.AvgDura = append(s.AvgDura, &avg)
		} else {
			s.AvgDura = append(s.AvgDura, nil)
		}
	}
	return s
}

// OffsetLabel renders an offset in seconds as "mm:ss".
func OffsetLabel(offset int64) string {
	if offset < 0 {
		offset = -offset
	}
	return fmt.Sprintf("%02d:%02d", (offset/60)%60, offset%60)
}
