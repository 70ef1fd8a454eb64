package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	aggregatormocks "burnout-chart/internal/aggregators/mocks"
	"burnout-chart/internal/charts"
	chartmocks "burnout-chart/internal/charts/mocks"
	ingestormocks "burnout-chart/internal/ingestors/mocks"
	"burnout-chart/internal/models"
	"burnout-chart/internal/shared/configs"
	"burnout-chart/internal/shared/filestorages"
	"burnout-chart/internal/shared/svcerrors"
	"burnout-chart/internal/stores"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const twoLineLog = `#Software: Microsoft Internet Information Services 10.0
#Fields: date time cs-method cs-uri-stem sc-status time-taken
2023-01-01 00:00:01 GET /a 200 500
2023-01-01 00:00:02 GET /b 404 100
`

func testConfig(t *testing.T) *configs.Config {
	t.Helper()
	return &configs.Config{
		Log:         configs.LogConfig{Level: "disabled"},
		FileStorage: configs.FileStorageConfig{RootDir: filepath.Join(t.TempDir(), "charts")},
		Ingestion: configs.IngestionConfig{
			Workers:        1,
			PartitionLines: 100,
			ProgressEvery:  1000,
			MaxWarnings:    10,
			TimeZone:       "UTC",
		},
		Preview: configs.PreviewConfig{Unit: "m"},
		Chart:   configs.ChartConfig{Width: 800, Height: 400, Format: charts.FormatSVG},
	}
}

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	application, err := New(testConfig(t), &stdout)
	require.NoError(t, err)
	application.workDir = t.TempDir()
	return application, &stdout
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// writeSeries parses twoLineLog into dir and returns the series path.
func writeSeries(t *testing.T, application *App) string {
	t.Helper()
	logPath := filepath.Join(application.workDir, "u_ex230101.log")
	writeFile(t, logPath, twoLineLog)
	resp, err := application.Parse(context.Background(), ParseRequest{LogPath: logPath})
	require.NoError(t, err)
	return resp.OutputPath
}

func requireServiceError(t *testing.T, err error, code string) *svcerrors.ServiceError {
	t.Helper()
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError, got %v", err)
	assert.Equal(t, code, svcErr.Code)
	return svcErr
}

func TestNew_ErrInvalidTimeZone(t *testing.T) {
	config := testConfig(t)
	config.Ingestion.TimeZone = "Mars/Olympus_Mons"

	application, err := New(config, io.Discard)
	assert.Nil(t, application)
	requireServiceError(t, err, "APP_1004")
}

func TestApp_Parse_SavesSeriesNextToLog(t *testing.T) {
	application, stdout := newTestApp(t)
	logPath := filepath.Join(application.workDir, "u_ex230101.log")
	writeFile(t, logPath, twoLineLog)

	resp, err := application.Parse(context.Background(), ParseRequest{LogPath: logPath})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(application.workDir, "u_ex230101.json"), resp.OutputPath)
	assert.Equal(t, 4, resp.LineCount)
	assert.Equal(t, 2, resp.RecordCount)
	assert.Equal(t, 3, resp.BucketCount)
	assert.Contains(t, stdout.String(), "Read 4 lines, 2 records, 0 malformed.")
	assert.Contains(t, stdout.String(), "Save parsed data to "+resp.OutputPath)

	series, err := stores.NewSeriesStore(mustStorage(t, application.workDir)).Load(context.Background(), "u_ex230101.json")
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, int64(500), series[1].TotalSuccDura)
	assert.Equal(t, map[string]int64{"404": 1}, series[2].ErrCodes)
}

func mustStorage(t *testing.T, dir string) filestorages.FileStorage {
	t.Helper()
	fileStorage, err := filestorages.NewFileStorage(dir)
	require.NoError(t, err)
	return fileStorage
}

func TestApp_Parse_ExplicitOutputAndFilter(t *testing.T) {
	application, _ := newTestApp(t)
	logPath := filepath.Join(application.workDir, "access.log")
	writeFile(t, logPath, twoLineLog)
	output := filepath.Join(application.workDir, "out", "only-b.json")

	resp, err := application.Parse(context.Background(), ParseRequest{
		LogPath:     logPath,
		Method:      "GET",
		PathPattern: "^/B$",
		OutputPath:  output,
	})
	require.NoError(t, err)

	assert.Equal(t, output, resp.OutputPath)
	assert.Equal(t, 2, resp.RecordCount)
	assert.Equal(t, 1, resp.AcceptedCount)
	assert.FileExists(t, output)
}

func TestApp_Parse_DiscoversNewestLog(t *testing.T) {
	application, _ := newTestApp(t)
	writeFile(t, filepath.Join(application.workDir, "u_ex230101.log"), twoLineLog)
	writeFile(t, filepath.Join(application.workDir, "u_ex230102.log"), twoLineLog)

	resp, err := application.Parse(context.Background(), ParseRequest{})
	require.NoError(t, err)
	assert.Equal(t, "u_ex230102.log", filepath.Base(resp.LogPath))
	assert.FileExists(t, filepath.Join(application.workDir, "u_ex230102.json"))
}

func TestApp_Parse_ErrLogNotFound(t *testing.T) {
	application, _ := newTestApp(t)

	t.Run("missing file", func(t *testing.T) {
		resp, err := application.Parse(context.Background(), ParseRequest{LogPath: filepath.Join(application.workDir, "nope.log")})
		assert.Nil(t, resp)
		svcErr := requireServiceError(t, err, "APP_1001")
		assert.Equal(t, 3, svcErr.ExitCode)
	})

	t.Run("nothing to discover", func(t *testing.T) {
		resp, err := application.Parse(context.Background(), ParseRequest{})
		assert.Nil(t, resp)
		requireServiceError(t, err, "APP_1001")
	})
}

func TestApp_Parse_ErrValidationFailed(t *testing.T) {
	application, _ := newTestApp(t)
	logPath := filepath.Join(application.workDir, "u_ex230101.log")
	writeFile(t, logPath, twoLineLog)

	for _, method := range []string{"G3T", "PUT", "get"} {
		resp, err := application.Parse(context.Background(), ParseRequest{LogPath: logPath, Method: method})
		assert.Nil(t, resp, method)
		svcErr := requireServiceError(t, err, "APP_1000")
		assert.Equal(t, 2, svcErr.ExitCode)
		assert.Contains(t, svcErr.Message, "method")
	}
}

func TestApp_Parse_ErrInvalidPathPattern(t *testing.T) {
	application, _ := newTestApp(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ingestion := ingestormocks.NewMockIngestionService(ctrl)
	application.ingestionService = ingestion // must not be reached

	logPath := filepath.Join(application.workDir, "u_ex230101.log")
	writeFile(t, logPath, twoLineLog)

	_, err := application.Parse(context.Background(), ParseRequest{LogPath: logPath, PathPattern: "("})
	requireServiceError(t, err, "AGG_1000")
}

func TestApp_Parse_PropagatesIngestionError(t *testing.T) {
	application, _ := newTestApp(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ingestion := ingestormocks.NewMockIngestionService(ctrl)
	ingestion.EXPECT().
		Ingest(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, svcerrors.NewInternalError("ING_9000", errors.New("disk gone")))
	application.ingestionService = ingestion

	logPath := filepath.Join(application.workDir, "u_ex230101.log")
	writeFile(t, logPath, twoLineLog)

	_, err := application.Parse(context.Background(), ParseRequest{LogPath: logPath})
	svcErr := requireServiceError(t, err, "ING_9000")
	assert.Equal(t, 1, svcErr.ExitCode)
	assert.NoFileExists(t, filepath.Join(application.workDir, "u_ex230101.json"))
}

func TestApp_Parse_CancelledContext(t *testing.T) {
	application, _ := newTestApp(t)
	logPath := filepath.Join(application.workDir, "u_ex230101.log")
	writeFile(t, logPath, twoLineLog)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := application.Parse(ctx, ParseRequest{LogPath: logPath})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(application.workDir, "u_ex230101.json"))
}

func TestApp_Preview_PrintsRolledUpTable(t *testing.T) {
	application, stdout := newTestApp(t)
	seriesPath := writeSeries(t, application)
	stdout.Reset()

	resp, err := application.Preview(context.Background(), PreviewRequest{SeriesPath: seriesPath})
	require.NoError(t, err)

	require.Len(t, resp.Buckets, 1)
	assert.Equal(t, "2023-01-01 00:00:00", resp.Buckets[0].Key)
	assert.True(t, resp.Window.IsUnbounded())
	assert.Contains(t, stdout.String(), "2023-01-01 00:00:00 |          2 |          1 |          1 |        500 |")
}

func TestApp_Preview_AppliesWindow(t *testing.T) {
	application, _ := newTestApp(t)
	seriesPath := writeSeries(t, application)

	resp, err := application.Preview(context.Background(), PreviewRequest{
		SeriesPath: seriesPath,
		Unit:       "s",
		Window:     WindowArgs{Start: "00:00:01", Duration: "00:00:01"},
	})
	require.NoError(t, err)

	require.Len(t, resp.Buckets, 2)
	assert.Equal(t, "2023-01-01 00:00:01", resp.Buckets[0].Key)
	assert.Equal(t, "2023-01-01 00:00:02", resp.Buckets[1].Key)
	assert.Equal(t, "[2023-01-01 00:00:01, 2023-01-01 00:00:02]", resp.Window.String())
}

func TestApp_Preview_NoDataMatched(t *testing.T) {
	application, stdout := newTestApp(t)
	seriesPath := writeSeries(t, application)
	stdout.Reset()

	resp, err := application.Preview(context.Background(), PreviewRequest{
		SeriesPath: seriesPath,
		Window:     WindowArgs{Start: "10:00"},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Buckets)
	assert.Equal(t, "No data matched.\n", stdout.String())
}

func TestApp_Preview_UsesRolluper(t *testing.T) {
	application, _ := newTestApp(t)
	seriesPath := writeSeries(t, application)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	rolluper := aggregatormocks.NewMockBucketRolluper(ctrl)
	rolluper.EXPECT().
		Rollup(gomock.Len(3), models.UnitHour).
		Return([]models.RollupBucket{}, nil)
	application.bucketRolluper = rolluper

	_, err := application.Preview(context.Background(), PreviewRequest{SeriesPath: seriesPath, Unit: "hour"})
	require.NoError(t, err)
}

func TestApp_Preview_RecoversPanic(t *testing.T) {
	application, _ := newTestApp(t)
	seriesPath := writeSeries(t, application)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	rolluper := aggregatormocks.NewMockBucketRolluper(ctrl)
	rolluper.EXPECT().
		Rollup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(series []*models.DataPoint, unit models.TimeUnit) ([]models.RollupBucket, error) {
			panic("boom")
		})
	application.bucketRolluper = rolluper

	resp, err := application.Preview(context.Background(), PreviewRequest{SeriesPath: seriesPath})
	assert.Nil(t, resp)
	requireServiceError(t, err, "SYS_9000")
}

func TestApp_Preview_DiscoversNewestSeries(t *testing.T) {
	application, _ := newTestApp(t)
	older := filepath.Join(application.workDir, "u_ex230105.json")
	newer := filepath.Join(application.workDir, "u_ex230101.json")
	writeFile(t, older, "[]")
	writeFile(t, newer, "[]")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	resp, err := application.Preview(context.Background(), PreviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, newer, resp.SeriesPath)
}

func TestApp_Preview_Errors(t *testing.T) {
	application, _ := newTestApp(t)
	corrupt := filepath.Join(application.workDir, "corrupt.json")
	writeFile(t, corrupt, "{not json")
	seriesPath := writeSeries(t, application)

	tests := []struct {
		name string
		req  PreviewRequest
		code string
	}{
		{"missing series", PreviewRequest{SeriesPath: filepath.Join(application.workDir, "missing.json")}, "APP_1002"},
		{"corrupt series", PreviewRequest{SeriesPath: corrupt}, "APP_1003"},
		{"bad unit", PreviewRequest{SeriesPath: seriesPath, Unit: "d"}, "APP_1000"},
		{"bad start", PreviewRequest{SeriesPath: seriesPath, Window: WindowArgs{Start: "noon"}}, "APP_1000"},
		{"bad duration", PreviewRequest{SeriesPath: seriesPath, Window: WindowArgs{Start: "00:00", Duration: "-5m"}}, "APP_1000"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp, err := application.Preview(context.Background(), tt.req)
			assert.Nil(t, resp)
			requireServiceError(t, err, tt.code)
		})
	}
}

func TestApp_Chart_DefaultOutputAndTitle(t *testing.T) {
	application, stdout := newTestApp(t)
	seriesPath := writeSeries(t, application)
	application.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	renderer := chartmocks.NewMockChartRenderer(ctrl)
	renderer.EXPECT().
		Render(gomock.Any(), gomock.Any(), "Burnout Chart - 00:00:00", gomock.Any()).
		DoAndReturn(func(ctx context.Context, w io.Writer, title string, series *charts.ChartSeries) error {
			assert.Equal(t, 3, series.Len())
			_, err := io.WriteString(w, "<svg/>")
			return err
		})
	renderer.EXPECT().Format().Return(charts.FormatSVG)
	application.chartRenderer = renderer

	resp, err := application.Chart(context.Background(), ChartRequest{SeriesPath: seriesPath})
	require.NoError(t, err)

	expected := filepath.Join(application.config.FileStorage.RootDir, "20240506070809.svg")
	assert.Equal(t, expected, resp.OutputPath)
	assert.Equal(t, 3, resp.SecondCount)
	data, err := os.ReadFile(expected)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
	assert.Contains(t, stdout.String(), "Save chart to "+expected)
}

func TestApp_Chart_RendersSVGToExplicitPath(t *testing.T) {
	application, _ := newTestApp(t)
	seriesPath := writeSeries(t, application)
	output := filepath.Join(application.workDir, "charts", "burnout.svg")

	resp, err := application.Chart(context.Background(), ChartRequest{
		SeriesPath: seriesPath,
		Title:      "Checkout burnout",
		OutputPath: output,
		Window:     WindowArgs{Start: "00:00:01", End: "00:00:02"},
	})
	require.NoError(t, err)

	assert.Equal(t, output, resp.OutputPath)
	assert.Equal(t, 2, resp.SecondCount)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), "Checkout burnout")
}

func TestApp_Chart_NoDataMatched(t *testing.T) {
	application, stdout := newTestApp(t)
	seriesPath := writeSeries(t, application)
	stdout.Reset()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	application.chartRenderer = chartmocks.NewMockChartRenderer(ctrl) // no calls expected

	resp, err := application.Chart(context.Background(), ChartRequest{
		SeriesPath: seriesPath,
		Window:     WindowArgs{Start: "23:00:00", End: "23:59:59"},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.OutputPath)
	assert.Equal(t, "No data matched.\n", stdout.String())
}

func TestApp_Chart_PropagatesRenderError(t *testing.T) {
	application, _ := newTestApp(t)
	seriesPath := writeSeries(t, application)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	renderer := chartmocks.NewMockChartRenderer(ctrl)
	renderer.EXPECT().
		Render(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(svcerrors.NewInternalError("CHT_9000", errors.New("font missing")))
	application.chartRenderer = renderer

	resp, err := application.Chart(context.Background(), ChartRequest{SeriesPath: seriesPath})
	assert.Nil(t, resp)
	requireServiceError(t, err, "CHT_9000")
}

func TestApp_UnknownErrorBecomesInternal(t *testing.T) {
	application, _ := newTestApp(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ingestion := ingestormocks.NewMockIngestionService(ctrl)
	ingestion.EXPECT().
		Ingest(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("plain error"))
	application.ingestionService = ingestion

	logPath := filepath.Join(application.workDir, "u_ex230101.log")
	writeFile(t, logPath, twoLineLog)

	_, err := application.Parse(context.Background(), ParseRequest{LogPath: logPath})
	svcErr := requireServiceError(t, err, "SYS_9001")
	assert.True(t, svcErr.IsInternalError())
}

func TestApp_Close_WritesMetricsTextfile(t *testing.T) {
	application, _ := newTestApp(t)
	writeSeries(t, application)

	textfile := filepath.Join(t.TempDir(), "burnout.prom")
	application.config.Metrics.Textfile = textfile
	require.NoError(t, application.Close())

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), fmt.Sprintf("burnout_command_runs_total{command=%q", commandParse))
}

func TestApp_Close_NoTextfileConfigured(t *testing.T) {
	application, _ := newTestApp(t)
	assert.NoError(t, application.Close())
}
