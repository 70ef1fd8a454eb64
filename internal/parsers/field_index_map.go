package parsers

import "strings"

// FieldsDirective is the W3C extended log header declaring column names.
const FieldsDirective = "#Fields: "

const (
	FieldDate      = "date"
	FieldTime      = "time"
	FieldMethod    = "cs-method"
	FieldURIStem   = "cs-uri-stem"
	FieldStatus    = "sc-status"
	FieldTimeTaken = "time-taken"
)

// FieldIndexMap holds the column index of every field the extractor reads.
type FieldIndexMap struct {
	Date      int
	Time      int
	Method    int
	URIStem   int
	Status    int
	TimeTaken int
}

// recognizedFields is the ordered association between header names and map slots.
var recognizedFields = []struct {
	name string
	slot func(m *FieldIndexMap) *int
}{
	{FieldDate, func(m *FieldIndexMap) *int { return &m.Date }},
	{FieldTime, func(m *FieldIndexMap) *int { return &m.Time }},
	{FieldMethod, func(m *FieldIndexMap) *int { return &m.Method }},
	{FieldURIStem, func(m *FieldIndexMap) *int { return &m.URIStem }},
	{FieldStatus, func(m *FieldIndexMap) *int { return &m.Status }},
	{FieldTimeTaken, func(m *FieldIndexMap) *int { return &m.TimeTaken }},
}

// DefaultFieldIndexMap matches the default IIS field selection.
func DefaultFieldIndexMap() FieldIndexMap {
	return FieldIndexMap{
		Date:      0,
		Time:      1,
		Method:    3,
		URIStem:   4,
		Status:    11,
		TimeTaken: 14,
	}
}

// IsFieldsDirective reports whether line is a "#Fields: " header.
func IsFieldsDirective(line string) bool {
	return strings.HasPrefix(line, FieldsDirective)
}

// ResolveFieldIndexMap builds the map from a header line. Anything that is not a
// fields directive yields the defaults. Unknown names are ignored and missing
// names keep their default index.
func ResolveFieldIndexMap(headerLine string) FieldIndexMap {
	m := DefaultFieldIndexMap()
	if !IsFieldsDirective(headerLine) {
		return m
	}

	names := strings.Split(strings.TrimPrefix(headerLine, FieldsDirective), " ")
	for i, name := range names {
		for _, f := range recognizedFields {
			if f.name == name {
				*f.slot(&m) = i
				break
			}
		}
	}
	return m
}

// Index returns the column of a recognized field name.
func (m FieldIndexMap) Index(name string) (int, bool) {
	for _, f := range recognizedFields {
		if f.name == name {
			return *f.slot(&m), true
		}
	}
	return 0, false
}

// MaxIndex is the highest column a data line must reach.
func (m FieldIndexMap) MaxIndex() int {
	highest := 0
	for _, f := range recognizedFields {
		if idx := *f.slot(&m); idx > highest {
			highest = idx
		}
	}
	return highest
}
