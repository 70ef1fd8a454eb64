package app

import (
	"burnout-chart/internal/models"
	"burnout-chart/internal/parsers"
	"burnout-chart/internal/timeranges"
)

// ParseRequest aggregates one IIS log into a per-second series file.
// An empty LogPath picks the newest u_ex*.log of the working directory and an empty
// OutputPath saves next to the log.
type ParseRequest struct {
	LogPath     string `validate:"required"`
	Method      string `validate:"required,oneof=* GET POST"`
	PathPattern string `validate:"required"`
	OutputPath  string
}

type ParseResponse struct {
	LogPath        string
	OutputPath     string
	LineCount      int
	RecordCount    int
	AcceptedCount  int
	MalformedCount int
	BucketCount    int
	Warnings       []*parsers.MalformedLineError
}

// WindowArgs is the time window as typed on the command line. Start and End accept
// a full timestamp or a time of day; Duration derives End from Start.
type WindowArgs struct {
	Start    string
	End      string
	Duration string
}

type PreviewRequest struct {
	SeriesPath string `validate:"required"`
	Unit       string `validate:"required,oneof=h m s hour minute second"`
	Window     WindowArgs
}

type PreviewResponse struct {
	SeriesPath string
	Window     timeranges.TimeRange
	Buckets    []models.RollupBucket
}

type ChartRequest struct {
	SeriesPath string `validate:"required"`
	Title      string
	OutputPath string
	Window     WindowArgs
}

// ChartResponse describes the rendered chart. OutputPath is empty when nothing matched.
type ChartResponse struct {
	SeriesPath  string
	Window      timeranges.TimeRange
	Title       string
	OutputPath  string
	SecondCount int
}
