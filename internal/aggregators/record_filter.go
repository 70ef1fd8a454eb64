package aggregators

import (
	"fmt"
	"regexp"

	"burnout-chart/internal/models"
)

const (
	// AnyMethod disables method filtering.
	AnyMethod = "*"
	// AnyPath matches every non-empty uri stem.
	AnyPath = ".+"
)

// Discard reasons, used as metric labels.
const (
	discardMethod = "method"
	discardPath   = "path"
)

// RecordFilter selects records by exact method and case-insensitive path pattern.
type RecordFilter struct {
	method string
	path   *regexp.Regexp
}

// NewRecordFilter compiles pathPattern. An empty method behaves like AnyMethod and an
// empty pattern like AnyPath. The pattern is searched anywhere in the uri stem.
func NewRecordFilter(method, pathPattern string) (*RecordFilter, error) {
	if method == "" {
		method = AnyMethod
	}
	if pathPattern == "" {
		pathPattern = AnyPath
	}
	re, err := regexp.Compile("(?i)" + pathPattern)
	if err != nil {
		return nil, errInvalidPathPattern(pathPattern, err)
	}
	return &RecordFilter{method: method, path: re}, nil
}

// Accept reports whether r passes both filters. On rejection it also returns the reason.
func (f *RecordFilter) Accept(r *models.RawRecord) (bool, string) {
	if f.method != AnyMethod && r.Method != f.method {
		return false, discardMethod
	}
	if !f.path.MatchString(r.URIStem) {
		return false, discardPath
	}
	return true, ""
}

func (f *RecordFilter) String() string {
	return fmt.Sprintf("method=%s path=%s", f.method, f.path.String())
}
