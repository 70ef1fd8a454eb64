package ingestors

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"burnout-chart/internal/aggregators"
	"burnout-chart/internal/models"
	"burnout-chart/internal/parsers"
	"burnout-chart/internal/shared/loggers"
	"burnout-chart/internal/shared/metrics"
	"burnout-chart/internal/shared/svcerrors"
	"burnout-chart/internal/streams"
)

const (
	maxLineBytes  = 1024 * 1024
	ctxCheckEvery = 4096

	defaultPartitionLines = 50000
	queueName             = "ingestion"
	utf8BOM               = "\ufeff"
)

// Options tunes how a log is read. Zero values fall back to sequential ingestion.
type Options struct {
	Workers        int // > 1 spreads chunks over that many goroutines
	PartitionLines int // data lines per chunk
	ProgressEvery  int // log progress every N lines, 0 disables
	MaxWarnings    int // malformed lines kept in the result; all are counted
}

// IngestResult is the aggregated series plus what was seen on the way.
type IngestResult struct {
	Series         []*models.DataPoint
	LineCount      int // physical lines, headers and blanks included
	RecordCount    int // data lines parsed into records
	AcceptedCount  int // records that passed the filter
	MalformedCount int
	Warnings       []*parsers.MalformedLineError // ordered by line number
}

//go:generate mockgen -source=ingestion_service.go -destination=./mocks/ingestion_service_mock.go -package=mocks
type IngestionService interface {
	// Ingest reads a W3C extended log from r and aggregates every record passing filter.
	// A nil filter accepts all records. Malformed lines are skipped and reported.
	Ingest(ctx context.Context, r io.Reader, filter *aggregators.RecordFilter) (*IngestResult, error)
}

type ingestionService struct {
	extractor parsers.RecordExtractor
	options   Options
}

func NewIngestionService(extractor parsers.RecordExtractor, options Options) IngestionService {
	if options.Workers < 1 {
		options.Workers = 1
	}
	if options.PartitionLines < 1 {
		options.PartitionLines = defaultPartitionLines
	}
	if options.ProgressEvery < 0 {
		options.ProgressEvery = 0
	}
	if options.MaxWarnings < 0 {
		options.MaxWarnings = 0
	}
	return &ingestionService{
		extractor: extractor,
		options:   options,
	}
}

func (s *ingestionService) Ingest(ctx context.Context, r io.Reader, filter *aggregators.RecordFilter) (*IngestResult, error) {
	logger := loggers.Ctx(ctx)
	if r == nil {
		svcErr := errValidationFailed("log reader is required", nil)
		metricLogIngestedTotal.WithLabelValues(svcErr.Code).Inc()
		return nil, svcErr
	}
	if filter != nil {
		logger.Debug().Msgf("started ingesting log with filter %s, workers=%d", filter, s.options.Workers)
	}
	start := time.Now()

	workers := make([]*partitionWorker, s.options.Workers)
	for i := range workers {
		workers[i] = newPartitionWorker(i, s.extractor, filter, s.options.MaxWarnings)
	}

	var emit func(chunk lineChunk) error
	var queue *streams.PartitionedQueue[lineChunk]
	var wg sync.WaitGroup
	if len(workers) == 1 {
		emit = func(chunk lineChunk) error {
			workers[0].safeProcess(ctx, chunk)
			return nil
		}
	} else {
		queue = streams.NewPartitionedQueue[lineChunk](queueName, len(workers), 1)
		for i, worker := range workers {
			i, worker := i, worker
			wg.Add(1)
			go func() {
				defer wg.Done()
				worker.run(ctx, queue.Partition(i))
			}()
		}
		emit = func(chunk lineChunk) error {
			return queue.Publish(ctx, chunk.index, chunk)
		}
	}

	lineCount, readErr := s.readChunks(ctx, r, emit)
	if queue != nil {
		queue.Close()
		wg.Wait()
	}

	// Workers skip queued chunks once ctx is done, so whatever they hold is partial.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if readErr != nil {
		svcErr := errInternalLogReadFailed(readErr)
		metricLogIngestedTotal.WithLabelValues(svcErr.Code).Inc()
		return nil, svcErr
	}

	result, err := s.merge(workers)
	if err != nil {
		if svcErr, ok := svcerrors.AsServiceError(err); ok {
			metricLogIngestedTotal.WithLabelValues(svcErr.Code).Inc()
		}
		return nil, err
	}
	result.LineCount = lineCount

	metricLogIngestedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	logger.Info().
		Int(loggers.FieldLineCount, result.LineCount).
		Int("record_count", result.RecordCount).
		Int("accepted_count", result.AcceptedCount).
		Int("malformed_count", result.MalformedCount).
		Int(loggers.FieldBucketCount, len(result.Series)).
		Dur(loggers.FieldDuration, time.Since(start)).
		Msg("log ingested")
	return result, nil
}

// readChunks splits r into chunks of data lines and hands each to emit in file order.
// The fields directive is honored until the first data line; later ones are comments.
// Lines over maxLineBytes are passed on as malformed instead of stopping the read.
func (s *ingestionService) readChunks(ctx context.Context, r io.Reader, emit func(chunk lineChunk) error) (int, error) {
	logger := loggers.Ctx(ctx)

	dataLines := metricLinesReadTotal.WithLabelValues(lineKindData)
	commentLines := metricLinesReadTotal.WithLabelValues(lineKindComment)
	directiveLines := metricLinesReadTotal.WithLabelValues(lineKindDirective)
	blankLines := metricLinesReadTotal.WithLabelValues(lineKindBlank)

	reader := newLineReader(r, maxLineBytes)

	fields := parsers.DefaultFieldIndexMap()
	chunk := lineChunk{fields: fields}
	dataStarted := false
	lineNumber := 0

	for {
		line, tooLong, err := reader.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return lineNumber, err
		}

		lineNumber++
		if lineNumber%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return lineNumber, err
			}
		}
		if s.options.ProgressEvery > 0 && lineNumber%s.options.ProgressEvery == 0 {
			logger.Info().Int(loggers.FieldLineCount, lineNumber).Msg("lines read")
		}

		if lineNumber == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}

		switch {
		case tooLong:
			dataLines.Inc()
			chunk.lines = append(chunk.lines, numberedLine{number: lineNumber, tooLong: true})
		case line == "":
			blankLines.Inc()
			continue
		case strings.HasPrefix(line, "#"):
			if !dataStarted && parsers.IsFieldsDirective(line) {
				fields = parsers.ResolveFieldIndexMap(line)
				chunk.fields = fields
				directiveLines.Inc()
			} else {
				commentLines.Inc()
			}
			continue
		default:
			dataStarted = true
			dataLines.Inc()
			chunk.lines = append(chunk.lines, numberedLine{number: lineNumber, text: line})
		}

		if len(chunk.lines) >= s.options.PartitionLines {
			if err := emit(chunk); err != nil {
				return lineNumber, err
			}
			chunk = lineChunk{index: chunk.index + 1, fields: fields}
		}
	}
	if len(chunk.lines) > 0 {
		if err := emit(chunk); err != nil {
			return lineNumber, err
		}
	}
	return lineNumber, nil
}

// merge reduces the per-worker results. Sums are order independent, so the result does
// not depend on how chunks were spread.
func (s *ingestionService) merge(workers []*partitionWorker) (*IngestResult, error) {
	result := &IngestResult{}
	parts := make([]*partitionResult, 0, len(workers))
	for _, w := range workers {
		part := w.finish()
		if part.err != nil {
			return nil, part.err
		}
		parts = append(parts, part)
	}

	if len(parts) == 1 {
		result.Series = parts[0].points
	} else {
		merged := aggregators.NewTimeSeriesAggregator(nil)
		for _, part := range parts {
			merged.Merge(part.points)
		}
		result.Series = merged.Finalize()
	}

	for _, part := range parts {
		result.RecordCount += part.records
		result.AcceptedCount += part.accepted
		result.MalformedCount += part.malformed
		result.Warnings = append(result.Warnings, part.warnings...)
	}
	sort.Slice(result.Warnings, func(i, j int) bool {
		return result.Warnings[i].LineNumber < result.Warnings[j].LineNumber
	})
	if len(result.Warnings) > s.options.MaxWarnings {
		result.Warnings = result.Warnings[:s.options.MaxWarnings]
	}
	return result, nil
}
