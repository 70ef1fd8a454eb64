package models

import (
	"encoding/json"
	"time"
)

// DataPoint is one time bucket. ReqCount counts arrivals at Time, while the success
// and failure counters count responses sent at Time.
type DataPoint struct {
	Time          time.Time
	ReqCount      int64
	SuccCount     int64
	FailCount     int64
	TotalSuccDura int64
	ErrCodes      map[string]int64
}

func NewDataPoint(t time.Time) *DataPoint {
	return &DataPoint{
		Time:     t,
		ErrCodes: make(map[string]int64),
	}
}

// AvgSuccDura reports the mean successful time-taken in ms, truncated.
// The second result is false when the bucket holds no successes.
func (dp *DataPoint) AvgSuccDura() (int64, bool) {
	if dp.SuccCount <= 0 {
		return 0, false
	}
	return dp.TotalSuccDura / dp.SuccCount, true
}

// Merge adds the counters of other into dp. Time is left untouched.
func (dp *DataPoint) Merge(other *DataPoint) {
	dp.ReqCount += other.ReqCount
	dp.SuccCount += other.SuccCount
	dp.FailCount += other.FailCount
	dp.TotalSuccDura += other.TotalSuccDura
	if len(other.ErrCodes) == 0 {
		return
	}
	if dp.ErrCodes == nil {
		dp.ErrCodes = make(map[string]int64, len(other.ErrCodes))
	}
	for code, count := range other.ErrCodes {
		dp.ErrCodes[code] += count
	}
}

// Clone returns a deep copy.
func (dp *DataPoint) Clone() *DataPoint {
	c := *dp
	c.ErrCodes = make(map[string]int64, len(dp.ErrCodes))
	for code, count := range dp.ErrCodes {
		c.ErrCodes[code] = count
	}
	return &c
}

func (dp *DataPoint) IsZero() bool {
	return dp.ReqCount == 0 && dp.SuccCount == 0 && dp.FailCount == 0 && dp.TotalSuccDura == 0
}

type dataPointJSON struct {
	Time                   time.Time        `json:"time"`
	ReqCount               int64            `json:"reqCount"`
	SuccessCount           int64            `json:"successCount"`
	FailCount              int64            `json:"failCount"`
	TotalSuccessDuration   int64            `json:"totalSuccessDuration"`
	AverageSuccessDuration *int64           `json:"averageSuccessDuration,omitempty"`
	ErrorCodes             map[string]int64 `json:"errorCodes"`
}

func (dp DataPoint) MarshalJSON() ([]byte, error) {
	out := dataPointJSON{
		Time:                 dp.Time,
		ReqCount:             dp.ReqCount,
		SuccessCount:         dp.SuccCount,
		FailCount:            dp.FailCount,
		TotalSuccessDuration: dp.TotalSuccDura,
		ErrorCodes:           dp.ErrCodes,
	}
	if avg, ok := dp.AvgSuccDura(); ok {
		out.AverageSuccessDuration = &avg
	}
	if out.ErrorCodes == nil {
		out.ErrorCodes = map[string]int64{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON ignores averageSuccessDuration; it is always derived from the totals.
func (dp *DataPoint) UnmarshalJSON(data []byte) error {
	var in dataPointJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*dp = DataPoint{
		Time:          in.Time,
		ReqCount:      in.ReqCount,
		SuccCount:     in.SuccessCount,
		FailCount:     in.FailCount,
		TotalSuccDura: in.TotalSuccessDuration,
		ErrCodes:      in.ErrorCodes,
	}
	if dp.ErrCodes == nil {
		dp.ErrCodes = make(map[string]int64)
	}
	return nil
}

// RollupBucket is a coarse bucket produced by rolling up a per-second series.
type RollupBucket struct {
	Key   string
	Point *DataPoint
}
