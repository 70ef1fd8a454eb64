package aggregators

import (
	"fmt"

	"burnout-chart/internal/models"
	"burnout-chart/internal/shared/svcerrors"
)

const (
	codeInvalidPathPattern = "AGG_1000"
	codeInvalidTimeUnit    = "AGG_1001"

	codeInternalBucketRollupFailed = "AGG_9000"
)

// errInvalidPathPattern returns an error when the url path filter does not compile.
func errInvalidPathPattern(pattern string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidPathPattern, fmt.Sprintf("invalid url path pattern: %q", pattern), cause)
}

// errInvalidTimeUnit returns an error for a rollup unit outside hour/minute/second.
func errInvalidTimeUnit(unit models.TimeUnit) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidTimeUnit, fmt.Sprintf("invalid time unit: %q", unit), nil)
}

// errInternalBucketRollupFailed returns an error when a rollup meets an inconsistent series.
func errInternalBucketRollupFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalBucketRollupFailed, fmt.Errorf("bucketRollupFailed: %w", cause))
}
