package ingestors

import (
	"fmt"

	"burnout-chart/internal/shared/svcerrors"
)

// IngestionService errors
const (
	codeValidationFailed = "ING_1000"

	codeInternalLogReadFailed = "ING_9000"
)

// errValidationFailed returns an error for validation failures.
func errValidationFailed(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeValidationFailed, msg, cause)
}

// errInternalLogReadFailed returns an error when the log cannot be read to the end.
func errInternalLogReadFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalLogReadFailed, fmt.Errorf("logReadFailed: %w", cause))
}
