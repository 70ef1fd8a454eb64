package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"burnout-chart/internal/shared/loggers"
	"burnout-chart/internal/shared/svcerrors"
	"burnout-chart/internal/shared/ulid"
)

const (
	commandParse   = "parse"
	commandPreview = "preview"
	commandChart   = "chart"
)

// runCommand wraps one command run the way a request is wrapped by middleware: it
// attaches a run-scoped logger, recovers panics, normalizes errors to ServiceError,
// records metrics and logs completion.
func (app *App) runCommand(ctx context.Context, command string, run func(ctx context.Context) error) (err error) {
	runID := ulid.NewULID()
	ctx = app.appLogger.With().
		Str(loggers.FieldCommand, command).
		Str(loggers.FieldRunID, runID).
		Logger().WithContext(ctx)
	logger := loggers.Ctx(ctx)

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			logger.Error().
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Msgf("command panic recovered: %v", p)

			panicErr, ok := p.(error)
			if !ok {
				panicErr = fmt.Errorf("%v", p)
			}
			err = svcerrors.NewInternalErrorPanic(panicErr)
		}
		err = app.adaptError(ctx, err)

		errorCode := errorCodeOf(err)
		metricCommandsTotal.WithLabelValues(command, errorCode).Inc()
		metricCommandDuration.WithLabelValues(command, errorCode).Observe(time.Since(start).Seconds())

		logger.Info().
			Str(loggers.FieldErrorCode, errorCode).
			Int64(loggers.FieldDuration, time.Since(start).Milliseconds()).
			Msg("command completed")
	}()

	return run(ctx)
}

// adaptError turns err into a ServiceError. Cancellation is returned as is so callers
// can tell an interrupted run from a failed one.
func (app *App) adaptError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		loggers.Ctx(ctx).Warn().Err(err).Msg("command interrupted")
		return err
	}

	svcErr, ok := svcerrors.AsServiceError(err)
	if !ok {
		svcErr = svcerrors.NewInternalErrorUndefined(err)
	}

	logger := loggers.Ctx(ctx)
	if svcErr.IsInternalError() {
		logger.Error().
			Err(svcErr.Cause).
			Str(loggers.FieldErrorCode, svcErr.Code).
			Msg("internal error in command")
	} else {
		logger.Debug().
			Str(loggers.FieldErrorCode, svcErr.Code).
			Str("errorCategory", svcErr.Category).
			Str("errorMessage", svcErr.Message).
			Int("exitCode", svcErr.ExitCode).
			Msg("command rejected")
	}
	return svcErr
}

func errorCodeOf(err error) string {
	if err == nil {
		return ""
	}
	if svcErr, ok := svcerrors.AsServiceError(err); ok {
		return svcErr.Code
	}
	return "interrupted"
}
