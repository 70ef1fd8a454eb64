package charts

import (
	"bytes"
	"context"
	"testing"

	"burnout-chart/internal/models"
	"burnout-chart/internal/shared/svcerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChartRenderer_InvalidFormat(t *testing.T) {
	t.Parallel()

	r, err := NewChartRenderer(800, 400, "gif")
	assert.Nil(t, r)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, codeInvalidChartFormat, svcErr.Code)
}

func TestChartRenderer_Render_SVG(t *testing.T) {
	t.Parallel()

	r, err := NewChartRenderer(800, 400, FormatSVG)
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, r.Format())

	series := Project(Densify([]*models.DataPoint{
		pointAt(0, 5, 4, 1, 400),
		pointAt(4, 3, 0, 3, 0),
		pointAt(9, 7, 7, 0, 2100),
	}))

	var buf bytes.Buffer
	err = r.Render(context.Background(), &buf, "Burnout Chart - 10:30:00", series)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Burnout Chart - 10:30:00")
	assert.Contains(t, out, seriesArrival)
	assert.Contains(t, out, seriesAvgDura)
}

func TestChartRenderer_Render_SinglePointWithoutSuccess(t *testing.T) {
	t.Parallel()

	r, err := NewChartRenderer(800, 400, FormatSVG)
	require.NoError(t, err)

	series := Project(Densify([]*models.DataPoint{pointAt(0, 1, 0, 1, 0)}))

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf, "one", series))
	assert.Contains(t, buf.String(), "<svg")
	assert.NotContains(t, buf.String(), seriesAvgDura)
}

func TestChartRenderer_Render_PNG(t *testing.T) {
	t.Parallel()

	r, err := NewChartRenderer(640, 320, FormatPNG)
	require.NoError(t, err)

	series := Project(Densify([]*models.DataPoint{pointAt(0, 1, 1, 0, 5), pointAt(2, 2, 2, 0, 8)}))

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf, "png", series))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestChartRenderer_Render_EmptySeries(t *testing.T) {
	t.Parallel()

	r, err := NewChartRenderer(800, 400, FormatSVG)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(context.Background(), &buf, "empty", Project(nil))
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, codeEmptyChartSeries, svcErr.Code)
	assert.Zero(t, buf.Len())
}

func TestChartRenderer_Render_CancelledContext(t *testing.T) {
	t.Parallel()

	r, err := NewChartRenderer(800, 400, FormatSVG)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = r.Render(ctx, &bytes.Buffer{}, "x", Project(Densify([]*models.DataPoint{pointAt(0, 1, 1, 0, 1)})))
	assert.ErrorIs(t, err, context.Canceled)
}
