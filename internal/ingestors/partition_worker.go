package ingestors

import (
	"context"
	"fmt"
	"runtime/debug"

	"burnout-chart/internal/aggregators"
	"burnout-chart/internal/models"
	"burnout-chart/internal/parsers"
	"burnout-chart/internal/shared/loggers"
	"burnout-chart/internal/shared/svcerrors"
)

const kindUnknown = "unknown"

type numberedLine struct {
	number  int
	text    string
	tooLong bool // dropped by the reader, text is empty
}

// lineChunk is a run of consecutive data lines sharing one field layout.
type lineChunk struct {
	index  int
	fields parsers.FieldIndexMap
	lines  []numberedLine
}

// partitionResult is what a worker hands back once it has seen its last chunk.
type partitionResult struct {
	points    []*models.DataPoint
	records   int
	accepted  int
	malformed int
	warnings  []*parsers.MalformedLineError
	err       error
}

// partitionWorker owns one aggregator. Nothing it builds is shared until finish.
type partitionWorker struct {
	id          int
	extractor   parsers.RecordExtractor
	aggregator  aggregators.TimeSeriesAggregator
	maxWarnings int

	result partitionResult
}

func newPartitionWorker(id int, extractor parsers.RecordExtractor, filter *aggregators.RecordFilter, maxWarnings int) *partitionWorker {
	return &partitionWorker{
		id:          id,
		extractor:   extractor,
		aggregator:  aggregators.NewTimeSeriesAggregator(filter),
		maxWarnings: maxWarnings,
	}
}

// run drains lane until it is closed. Once ctx is done the remaining chunks are
// dropped unprocessed so the producer can finish quickly.
func (w *partitionWorker) run(ctx context.Context, lane <-chan lineChunk) {
	ctx = loggers.Ctx(ctx).With().
		Str(loggers.FieldPartitionId, fmt.Sprintf("%d", w.id)).
		Logger().WithContext(ctx)

	for chunk := range lane {
		if ctx.Err() != nil {
			continue
		}
		w.safeProcess(ctx, chunk)
	}
}

// safeProcess keeps a panic on one chunk from killing the worker, since a dead
// worker would leave its lane full and block the producer.
func (w *partitionWorker) safeProcess(ctx context.Context, chunk lineChunk) {
	defer func() {
		if r := recover(); r != nil {
			loggers.Ctx(ctx).Error().
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Int("chunk", chunk.index).
				Msg("partition worker panic recovered")

			var panicErr error
			if err, ok := r.(error); ok {
				panicErr = err
			} else {
				panicErr = fmt.Errorf("%v", r)
			}
			if w.result.err == nil {
				w.result.err = svcerrors.NewInternalErrorPanic(panicErr)
			}
		}
	}()

	w.process(ctx, chunk)
}

func (w *partitionWorker) process(ctx context.Context, chunk lineChunk) {
	for _, line := range chunk.lines {
		if line.tooLong {
			w.recordMalformed(ctx, line.number, parsers.NewLineTooLongError(maxLineBytes))
			continue
		}
		record, err := w.extractor.Extract(line.text, chunk.fields)
		if err != nil {
			w.recordMalformed(ctx, line.number, err)
			continue
		}
		w.result.records++
		if w.aggregator.Ingest(record) {
			w.result.accepted++
		}
	}
}

func (w *partitionWorker) recordMalformed(ctx context.Context, lineNumber int, err error) {
	var warning parsers.MalformedLineError
	if mErr, ok := parsers.AsMalformedLineError(err); ok {
		warning = *mErr
	} else {
		warning = parsers.MalformedLineError{Kind: kindUnknown, Reason: err.Error()}
	}
	warning.LineNumber = lineNumber

	w.result.malformed++
	metricMalformedLinesTotal.WithLabelValues(warning.Kind).Inc()

	if len(w.result.warnings) < w.maxWarnings {
		w.result.warnings = append(w.result.warnings, &warning)
		loggers.Ctx(ctx).Warn().
			Int(loggers.FieldLineNumber, lineNumber).
			Str("kind", warning.Kind).
			Msgf("skipped malformed line: %s", warning.Reason)
	}
}

// finish hands over the worker's buckets. The worker must not be used afterwards.
func (w *partitionWorker) finish() *partitionResult {
	w.result.points = w.aggregator.Finalize()
	return &w.result
}
