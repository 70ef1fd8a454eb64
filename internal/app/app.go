package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"burnout-chart/internal/aggregators"
	"burnout-chart/internal/charts"
	"burnout-chart/internal/consoles"
	"burnout-chart/internal/ingestors"
	"burnout-chart/internal/models"
	"burnout-chart/internal/parsers"
	"burnout-chart/internal/shared/configs"
	"burnout-chart/internal/shared/filestorages"
	"burnout-chart/internal/shared/loggers"
	"burnout-chart/internal/shared/metrics"
	"burnout-chart/internal/shared/validators"
	"burnout-chart/internal/stores"
	"burnout-chart/internal/timeranges"
)

const (
	chartKeyLayout   = "20060102150405"
	chartTitlePrefix = "Burnout Chart - "
	chartTitleLayout = "15:04:05"
)

// App holds all application dependencies and runs the commands.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	validate  *validators.Validate
	location  *time.Location
	stdout    io.Writer
	workDir   string
	now       func() time.Time

	ingestionService ingestors.IngestionService
	bucketRolluper   aggregators.BucketRolluper
	chartRenderer    charts.ChartRenderer
	chartStorage     filestorages.FileStorage
	previewTable     *consoles.PreviewTable
	openSeriesStore  func(path string) (stores.SeriesStore, string, error)
}

// New creates and initializes a new App instance. Command output goes to stdout.
func New(config *configs.Config, stdout io.Writer) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "burnout-chart").
		Logger()

	location := time.Local
	if config.Ingestion.TimeZone != "" {
		location, err = time.LoadLocation(config.Ingestion.TimeZone)
		if err != nil {
			return nil, errInvalidTimeZone(config.Ingestion.TimeZone, err)
		}
	}

	// Charts without an explicit output land under the storage root
	chartStorage, err := filestorages.NewFileStorage(config.FileStorage.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	chartRenderer, err := charts.NewChartRenderer(config.Chart.Width, config.Chart.Height, config.Chart.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chart renderer: %w", err)
	}

	// Initialize ingestion service
	recordExtractor := parsers.NewRecordExtractor(location)
	ingestionService := ingestors.NewIngestionService(recordExtractor, ingestors.Options{
		Workers:        config.Ingestion.Workers,
		PartitionLines: config.Ingestion.PartitionLines,
		ProgressEvery:  config.Ingestion.ProgressEvery,
		MaxWarnings:    config.Ingestion.MaxWarnings,
	})

	return &App{
		config:           config,
		appLogger:        appLogger,
		validate:         validators.New(),
		location:         location,
		stdout:           stdout,
		workDir:          ".",
		now:              time.Now,
		ingestionService: ingestionService,
		bucketRolluper:   aggregators.NewBucketRolluper(),
		chartRenderer:    chartRenderer,
		chartStorage:     chartStorage,
		previewTable:     consoles.NewPreviewTable(),
		openSeriesStore:  seriesStoreForPath,
	}, nil
}

func seriesStoreForPath(path string) (stores.SeriesStore, string, error) {
	fileStorage, key, err := filestorages.ForPath(path)
	if err != nil {
		return nil, "", err
	}
	return stores.NewSeriesStore(fileStorage), key, nil
}

// Close exports the collected metrics when a textfile is configured.
func (app *App) Close() error {
	if app.config.Metrics.Textfile == "" {
		return nil
	}
	if err := metrics.WriteToTextfile(app.config.Metrics.Textfile); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	app.appLogger.Debug().Str(loggers.FieldFile, app.config.Metrics.Textfile).Msg("metrics written")
	return nil
}

// Parse reads an IIS log, aggregates it per second and saves the series as JSON.
func (app *App) Parse(ctx context.Context, req ParseRequest) (*ParseResponse, error) {
	var resp *ParseResponse
	err := app.runCommand(ctx, commandParse, func(ctx context.Context) error {
		var err error
		resp, err = app.parse(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (app *App) parse(ctx context.Context, req ParseRequest) (*ParseResponse, error) {
	logger := loggers.Ctx(ctx)

	if req.LogPath == "" {
		logPath, err := newestLogFile(app.workDir)
		if err != nil {
			return nil, errLogNotFound(logFilePattern, err)
		}
		req.LogPath = logPath
	}
	if req.Method == "" {
		req.Method = aggregators.AnyMethod
	}
	if req.PathPattern == "" {
		req.PathPattern = aggregators.AnyPath
	}
	if err := app.validate.Struct(&req); err != nil {
		return nil, errValidationFailed(validators.Describe(err), err)
	}

	// Fail on a bad pattern before reading anything
	filter, err := aggregators.NewRecordFilter(req.Method, req.PathPattern)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(req.LogPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errLogNotFound(req.LogPath, err)
		}
		return nil, errInternalOpenLogFailed(err)
	}
	defer file.Close()

	logger.Info().Str(loggers.FieldFile, req.LogPath).Msgf("parsing log with filter %s", filter)
	result, err := app.ingestionService.Ingest(ctx, file, filter)
	if err != nil {
		return nil, err
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = seriesPathFor(req.LogPath)
	}
	putResult, err := app.saveSeries(ctx, outputPath, result.Series)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(app.stdout, "Read %d lines, %d records, %d malformed.\n",
		result.LineCount, result.RecordCount, result.MalformedCount)
	fmt.Fprintf(app.stdout, "Save parsed data to %s\n", putResult.FullPath)

	return &ParseResponse{
		LogPath:        req.LogPath,
		OutputPath:     putResult.FullPath,
		LineCount:      result.LineCount,
		RecordCount:    result.RecordCount,
		AcceptedCount:  result.AcceptedCount,
		MalformedCount: result.MalformedCount,
		BucketCount:    len(result.Series),
		Warnings:       result.Warnings,
	}, nil
}

// Preview prints a rolled-up table of a parsed series.
func (app *App) Preview(ctx context.Context, req PreviewRequest) (*PreviewResponse, error) {
	var resp *PreviewResponse
	err := app.runCommand(ctx, commandPreview, func(ctx context.Context) error {
		var err error
		resp, err = app.preview(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (app *App) preview(ctx context.Context, req PreviewRequest) (*PreviewResponse, error) {
	seriesPath, err := app.resolveSeriesPath(req.SeriesPath)
	if err != nil {
		return nil, err
	}
	req.SeriesPath = seriesPath
	if req.Unit == "" {
		req.Unit = app.config.Preview.Unit
	}
	if err := app.validate.Struct(&req); err != nil {
		return nil, errValidationFailed(validators.Describe(err), err)
	}
	unit, err := models.NewTimeUnitFromString(req.Unit)
	if err != nil {
		return nil, errValidationFailed(err.Error(), err)
	}

	series, err := app.loadSeries(ctx, req.SeriesPath)
	if err != nil {
		return nil, err
	}
	window, err := app.resolveWindow(series, req.Window)
	if err != nil {
		return nil, err
	}
	filtered := window.Apply(series)

	buckets, err := app.bucketRolluper.Rollup(filtered, unit)
	if err != nil {
		return nil, err
	}

	loggers.Ctx(ctx).Debug().
		Int(loggers.FieldBucketCount, len(buckets)).
		Msgf("previewing %s per %s within %s", req.SeriesPath, unit, window)
	if err := app.previewTable.Write(app.stdout, buckets); err != nil {
		return nil, fmt.Errorf("failed to print preview: %w", err)
	}

	return &PreviewResponse{
		SeriesPath: req.SeriesPath,
		Window:     window,
		Buckets:    buckets,
	}, nil
}

// Chart renders a parsed series as a burnout chart image.
func (app *App) Chart(ctx context.Context, req ChartRequest) (*ChartResponse, error) {
	var resp *ChartResponse
	err := app.runCommand(ctx, commandChart, func(ctx context.Context) error {
		var err error
		resp, err = app.chart(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (app *App) chart(ctx context.Context, req ChartRequest) (*ChartResponse, error) {
	seriesPath, err := app.resolveSeriesPath(req.SeriesPath)
	if err != nil {
		return nil, err
	}
	req.SeriesPath = seriesPath
	if err := app.validate.Struct(&req); err != nil {
		return nil, errValidationFailed(validators.Describe(err), err)
	}

	series, err := app.loadSeries(ctx, req.SeriesPath)
	if err != nil {
		return nil, err
	}
	window, err := app.resolveWindow(series, req.Window)
	if err != nil {
		return nil, err
	}
	filtered := window.Apply(series)

	resp := &ChartResponse{SeriesPath: req.SeriesPath, Window: window}
	if len(filtered) == 0 {
		fmt.Fprintln(app.stdout, consoles.NoDataMatched)
		return resp, nil
	}

	chartSeries := charts.Project(charts.Densify(filtered))
	title := req.Title
	if title == "" {
		title = chartTitlePrefix + filtered[0].Time.Format(chartTitleLayout)
	}

	var buf bytes.Buffer
	if err := app.chartRenderer.Render(ctx, &buf, title, chartSeries); err != nil {
		return nil, err
	}

	fileStorage, key := app.chartStorage, app.now().Format(chartKeyLayout)+"."+app.chartRenderer.Format()
	if req.OutputPath != "" {
		fileStorage, key, err = filestorages.ForPath(req.OutputPath)
		if err != nil {
			return nil, errInternalStorageInitFailed(err)
		}
	}
	putResult, err := fileStorage.Put(ctx, key, &buf, filestorages.PutOptions{AllowOverwrite: true})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errInternalSaveChartFailed(err)
	}

	fmt.Fprintf(app.stdout, "Save chart to %s\n", putResult.FullPath)
	resp.Title = title
	resp.OutputPath = putResult.FullPath
	resp.SecondCount = chartSeries.Len()
	return resp, nil
}

func (app *App) resolveSeriesPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	newest, err := newestSeriesFile(app.workDir)
	if err != nil {
		return "", errSeriesNotFound(seriesFilePattern, err)
	}
	return newest, nil
}

// resolveWindow parses the window arguments and anchors them to the series' date.
func (app *App) resolveWindow(series []*models.DataPoint, args WindowArgs) (timeranges.TimeRange, error) {
	start, err := ParseTimeArg(args.Start, app.location)
	if err != nil {
		return timeranges.TimeRange{}, errValidationFailed("startTime: "+err.Error(), err)
	}
	end, err := ParseTimeArg(args.End, app.location)
	if err != nil {
		return timeranges.TimeRange{}, errValidationFailed("endTime: "+err.Error(), err)
	}
	duration, err := ParseDurationArg(args.Duration)
	if err != nil {
		return timeranges.TimeRange{}, errValidationFailed("dura: "+err.Error(), err)
	}
	if duration != nil && *duration <= 0 {
		return timeranges.TimeRange{}, errValidationFailed("dura: must be positive", nil)
	}
	return timeranges.ResolveForSeries(series, start, end, duration), nil
}

func (app *App) saveSeries(ctx context.Context, path string, series []*models.DataPoint) (*filestorages.PutResult, error) {
	seriesStore, key, err := app.openSeriesStore(path)
	if err != nil {
		return nil, errInternalStorageInitFailed(err)
	}
	putResult, err := seriesStore.Save(ctx, key, series)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errInternalSaveSeriesFailed(err)
	}
	return putResult, nil
}

func (app *App) loadSeries(ctx context.Context, path string) ([]*models.DataPoint, error) {
	seriesStore, key, err := app.openSeriesStore(path)
	if err != nil {
		return nil, errInternalStorageInitFailed(err)
	}
	series, err := seriesStore.Load(ctx, key)
	switch {
	case err == nil:
		return series, nil
	case errors.Is(err, stores.ErrSeriesNotFound):
		return nil, errSeriesNotFound(path, err)
	case errors.Is(err, stores.ErrSeriesCorrupt):
		return nil, errSeriesCorrupt(path, err)
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		return nil, errInternalLoadSeriesFailed(err)
	}
}
