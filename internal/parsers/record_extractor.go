package parsers

import (
	"math"
	"strconv"
	"strings"
	"time"

	"burnout-chart/internal/models"
)

// logTimeLayout is the layout of the date and time columns joined by a space.
const logTimeLayout = "2006-01-02 15:04:05"

// MaxTimeTakenMs is the largest time-taken that still fits a time.Duration.
const MaxTimeTakenMs = math.MaxInt64 / int64(time.Millisecond)

//go:generate mockgen -source=record_extractor.go -destination=./mocks/record_extractor_mock.go -package=mocks
type RecordExtractor interface {
	// Extract parses one data line. Comment and blank lines must be filtered by the caller.
	// Failures are *MalformedLineError with LineNumber left for the caller to fill.
	Extract(line string, fields FieldIndexMap) (*models.RawRecord, error)
}

type recordExtractor struct {
	location *time.Location
}

// NewRecordExtractor returns an extractor that reads log timestamps as UTC and
// converts them to location. A nil location means time.Local.
func NewRecordExtractor(location *time.Location) RecordExtractor {
	if location == nil {
		location = time.Local
	}
	return &recordExtractor{location: location}
}

func (e *recordExtractor) Extract(line string, fields FieldIndexMap) (*models.RawRecord, error) {
	cols := strings.Split(line, " ")
	if maxIndex := fields.MaxIndex(); len(cols) <= maxIndex {
		return nil, newMalformedLineError(KindTooFewFields, "expected at least %d fields, got %d", maxIndex+1, len(cols))
	}

	stamp := cols[fields.Date] + " " + cols[fields.Time]
	respTime, err := time.ParseInLocation(logTimeLayout, stamp, time.UTC)
	if err != nil {
		return nil, newMalformedLineError(KindBadTimestamp, "invalid date/time %q", stamp)
	}

	status := cols[fields.Status]
	if !isDigits(status) {
		return nil, newMalformedLineError(KindBadStatus, "invalid status %q", status)
	}

	timeTaken, err := strconv.ParseInt(cols[fields.TimeTaken], 10, 64)
	if err != nil || timeTaken < 0 || timeTaken > MaxTimeTakenMs {
		return nil, newMalformedLineError(KindBadTimeTaken, "invalid time-taken %q", cols[fields.TimeTaken])
	}

	return &models.RawRecord{
		ResponseTime: models.TruncateSecond(respTime.In(e.location)),
		TimeTakenMs:  timeTaken,
		Method:       cols[fields.Method],
		URIStem:      cols[fields.URIStem],
		StatusCode:   status,
	}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
