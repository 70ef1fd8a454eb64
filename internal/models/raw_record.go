package models

import "time"

// RawRecord is one parsed data line. It only lives between extraction and aggregation.
type RawRecord struct {
	ResponseTime time.Time // when the response was sent, second resolution
	TimeTakenMs  int64
	Method       string
	URIStem      string
	StatusCode   string
}

// RequestTime is the arrival time: response time minus time taken, floored to the second.
func (r *RawRecord) RequestTime() time.Time {
	return TruncateSecond(r.ResponseTime.Add(-time.Duration(r.TimeTakenMs) * time.Millisecond))
}

func (r *RawRecord) Outcome() Outcome {
	return ClassifyStatus(r.StatusCode)
}
