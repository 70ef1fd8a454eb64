package parsers

import (
	"errors"
	"fmt"
)

// ErrMalformedLine is the sentinel every MalformedLineError unwraps to.
var ErrMalformedLine = errors.New("malformed line")

// Malformed line kinds, used as metric labels.
const (
	KindTooFewFields = "too_few_fields"
	KindBadTimestamp = "bad_timestamp"
	KindBadStatus    = "bad_status"
	KindBadTimeTaken = "bad_time_taken"
	KindLineTooLong  = "line_too_long"
)

// MalformedLineError describes a data line that could not be turned into a record.
// It is a per-line warning; ingestion continues past it.
type MalformedLineError struct {
	LineNumber int
	Kind       string
	Reason     string
}

func newMalformedLineError(kind, format string, args ...any) *MalformedLineError {
	return &MalformedLineError{
		Kind:   kind,
		Reason: fmt.Sprintf(format, args...),
	}
}

// NewLineTooLongError reports a line that was dropped unread because it is longer than limit bytes.
func NewLineTooLongError(limit int) *MalformedLineError {
	return newMalformedLineError(KindLineTooLong, "line longer than %d bytes", limit)
}

func (e *MalformedLineError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.LineNumber, ErrMalformedLine, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedLine, e.Reason)
}

func (e *MalformedLineError) Unwrap() error {
	return ErrMalformedLine
}

// AsMalformedLineError extracts a MalformedLineError from the error chain.
func AsMalformedLineError(err error) (*MalformedLineError, bool) {
	var mErr *MalformedLineError
	if errors.As(err, &mErr) {
		return mErr, true
	}
	return nil, false
}
