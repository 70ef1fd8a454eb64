package app

import (
	"fmt"

	"burnout-chart/internal/shared/svcerrors"
)

const (
	errorCodeValidationFailed = "APP_1000"
	errorCodeLogNotFound      = "APP_1001"
	errorCodeSeriesNotFound   = "APP_1002"
	errorCodeSeriesCorrupt    = "APP_1003"
	errorCodeInvalidTimeZone  = "APP_1004"

	errorCodeInternalOpenLogFailed     = "APP_9000"
	errorCodeInternalSaveSeriesFailed  = "APP_9001"
	errorCodeInternalLoadSeriesFailed  = "APP_9002"
	errorCodeInternalSaveChartFailed   = "APP_9003"
	errorCodeInternalStorageInitFailed = "APP_9004"
)

func errValidationFailed(message string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(errorCodeValidationFailed, message, cause)
}

func errLogNotFound(path string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(errorCodeLogNotFound, fmt.Sprintf("log file %q not found", path), cause)
}

func errSeriesNotFound(path string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewNotFoundError(errorCodeSeriesNotFound, fmt.Sprintf("parsed series %q not found", path), cause)
}

func errSeriesCorrupt(path string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(errorCodeSeriesCorrupt, fmt.Sprintf("%q is not a parsed series", path), cause)
}

func errInvalidTimeZone(name string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(errorCodeInvalidTimeZone, fmt.Sprintf("unknown time zone %q", name), cause)
}

func errInternalOpenLogFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(errorCodeInternalOpenLogFailed, fmt.Errorf("openLog: %w", cause))
}

func errInternalSaveSeriesFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(errorCodeInternalSaveSeriesFailed, fmt.Errorf("saveSeries: %w", cause))
}

func errInternalLoadSeriesFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(errorCodeInternalLoadSeriesFailed, fmt.Errorf("loadSeries: %w", cause))
}

func errInternalSaveChartFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(errorCodeInternalSaveChartFailed, fmt.Errorf("saveChart: %w", cause))
}

func errInternalStorageInitFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(errorCodeInternalStorageInitFailed, fmt.Errorf("storageInit: %w", cause))
}
