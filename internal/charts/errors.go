package charts

import (
	"fmt"

	"burnout-chart/internal/shared/svcerrors"
)

const (
	codeInvalidChartFormat = "CHT_1000"
	codeEmptyChartSeries   = "CHT_1001"

	codeInternalChartRenderFailed = "CHT_9000"
)

func errInvalidChartFormat(format string) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeInvalidChartFormat, fmt.Sprintf("unsupported chart format: %q", format), nil)
}

func errEmptyChartSeries() *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeEmptyChartSeries, "chart series is empty", nil)
}

// errInternalChartRenderFailed returns an error when the chart library fails to draw.
func errInternalChartRenderFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalChartRenderFailed, fmt.Errorf("chartRenderFailed: %w", cause))
}
