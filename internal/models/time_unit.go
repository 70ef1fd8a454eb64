package models

import (
	"fmt"
	"strings"
	"time"
)

// TimeUnit is the width of a rollup bucket.
type TimeUnit string

const (
	UnitHour   TimeUnit = "hour"
	UnitMinute TimeUnit = "minute"
	UnitSecond TimeUnit = "second"
)

// BucketKeyLayout renders bucket keys. Every field is fixed width and zero padded,
// so lexicographic order of keys equals chronological order.
const BucketKeyLayout = "2006-01-02 15:04:05"

// NewTimeUnitFromString accepts the short command line forms (h, m, s) and the full names.
func NewTimeUnitFromString(s string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", string(UnitHour):
		return UnitHour, nil
	case "m", string(UnitMinute):
		return UnitMinute, nil
	case "s", string(UnitSecond):
		return UnitSecond, nil
	}
	return "", fmt.Errorf("invalid time unit: %q", s)
}

func (u TimeUnit) Duration() time.Duration {
	switch u {
	case UnitHour:
		return time.Hour
	case UnitMinute:
		return time.Minute
	case UnitSecond:
		return time.Second
	default:
		panic(fmt.Sprintf("invalid TimeUnit: %q", u))
	}
}

// Truncate floors t to the start of its unit on t's own wall clock, so hour buckets
// follow the local calendar even in zones with a non-whole-hour offset.
func (u TimeUnit) Truncate(t time.Time) time.Time {
	switch u.Duration() {
	case time.Hour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case time.Minute:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	}
	return t.Truncate(time.Second)
}

// BucketKey formats the bucket t falls into, e.g. "2023-04-12 10:00:00" for an hour.
func (u TimeUnit) BucketKey(t time.Time) string {
	return u.Truncate(t).Format(BucketKeyLayout)
}

// TruncateSecond drops the sub-second part of t.
func TruncateSecond(t time.Time) time.Time {
	return UnitSecond.Truncate(t)
}
