package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts accepted for --startTime and --endTime. Time-of-day layouts take the
// date from the series being filtered.
var timeArgLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"15:04:05",
	"15:04",
}

// ParseTimeArg parses a time given on the command line in loc. An empty string is no bound.
func ParseTimeArg(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timeArgLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time %q, expected yyyy-MM-dd HH:mm:ss, RFC3339 or HH:mm[:ss]", s)
}

// ParseDurationArg parses hh:mm:ss (or mm:ss) and Go duration syntax such as 90s or 1h30m.
func ParseDurationArg(s string) (*time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.Contains(s, ":") {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("unrecognized duration %q: %w", s, err)
		}
		return &d, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return nil, fmt.Errorf("unrecognized duration %q, expected hh:mm:ss", s)
	}
	var d time.Duration
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("unrecognized duration %q, expected hh:mm:ss", s)
		}
		d = d*60 + time.Duration(n)
	}
	d *= time.Second
	return &d, nil
}
