// Package timeranges narrows a series to an inclusive time window given on the
// command line, where start and end are usually typed as a time of day only.
package timeranges

import (
	"fmt"
	"time"

	"burnout-chart/internal/models"
)

// TimeRange is an inclusive window. A nil bound is unbounded on that side.
type TimeRange struct {
	Start *time.Time
	End   *time.Time
}

// Resolve anchors start and end to the calendar date of baseDate and derives a
// missing end from start and duration. Bounds on another date keep their time of
// day and move to baseDate in baseDate's location.
func Resolve(baseDate time.Time, start, end *time.Time, duration *time.Duration) TimeRange {
	var r TimeRange
	if start != nil {
		s := anchor(baseDate, *start)
		r.Start = &s
	}
	if end == nil && r.Start != nil && duration != nil {
		e := r.Start.Add(*duration)
		end = &e
	}
	if end != nil {
		e := anchor(baseDate, *end)
		r.End = &e
	}
	return r
}

// ResolveForSeries resolves against the first point of series. An empty series has
// no base date, so the bounds are kept as given.
func ResolveForSeries(series []*models.DataPoint, start, end *time.Time, duration *time.Duration) TimeRange {
	if len(series) == 0 {
		r := TimeRange{Start: start, End: end}
		if end == nil && start != nil && duration != nil {
			e := start.Add(*duration)
			r.End = &e
		}
		return r
	}
	return Resolve(series[0].Time, start, end, duration)
}

func anchor(baseDate, t time.Time) time.Time {
	by, bm, bd := baseDate.Date()
	ty, tm, td := t.Date()
	if by == ty && bm == tm && bd == td {
		return t
	}
	return time.Date(by, bm, bd, t.Hour(), t.Minute(), t.Second(), 0, baseDate.Location())
}

// Contains reports whether t lies inside the window, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// IsUnbounded is true when neither bound is set.
func (r TimeRange) IsUnbounded() bool {
	return r.Start == nil && r.End == nil
}

// Apply keeps the points inside the window. The input is not modified.
func (r TimeRange) Apply(series []*models.DataPoint) []*models.DataPoint {
	filtered := make([]*models.DataPoint, 0, len(series))
	for _, p := range series {
		if r.Contains(p.Time) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s]", formatBound(r.Start), formatBound(r.End))
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "*"
	}
	return t.Format(models.BucketKeyLayout)
}
