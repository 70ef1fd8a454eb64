package charts

import (
	"context"
	"fmt"
	"io"
	"math"

	"burnout-chart/internal/models"
	"burnout-chart/internal/shared/metrics"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

const (
	seriesArrival = "Arrival (rps)"
	seriesSucc    = "Succ (rps)"
	seriesFail    = "Fail (rps)"
	seriesAvgDura = "Avg Dura (ms)"
)

//go:generate mockgen -source=chart_renderer.go -destination=./mocks/chart_renderer_mock.go -package=mocks
type ChartRenderer interface {
	// Render draws series to w. The series must hold at least one second.
	Render(ctx context.Context, w io.Writer, title string, series *ChartSeries) error
	// Format is the image format written by Render, "svg" or "png".
	Format() string
}

type chartRenderer struct {
	width    int
	height   int
	format   string
	provider chart.RendererProvider
}

func NewChartRenderer(width, height int, format string) (ChartRenderer, error) {
	var provider chart.RendererProvider
	switch format {
	case FormatSVG:
		provider = chart.SVG
	case FormatPNG:
		provider = chart.PNG
	default:
		return nil, errInvalidChartFormat(format)
	}
	return &chartRenderer{
		width:    width,
		height:   height,
		format:   format,
		provider: provider,
	}, nil
}

func (r *chartRenderer) Format() string {
	return r.format
}

func (r *chartRenderer) Render(ctx context.Context, w io.Writer, title string, series *ChartSeries) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if series == nil || series.Len() == 0 {
		return errEmptyChartSeries()
	}

	graph := r.build(title, series)
	if err := graph.Render(r.provider, w); err != nil {
		svcErr := errInternalChartRenderFailed(err)
		metricChartRenderedTotal.WithLabelValues(r.format, svcErr.Code).Inc()
		return svcErr
	}

	metricChartRenderedTotal.WithLabelValues(r.format, metrics.ValueNoError).Inc()
	metricChartSeconds.Observe(float64(series.Len()))
	return nil
}

func (r *chartRenderer) build(title string, series *ChartSeries) *chart.Chart {
	xs := make([]float64, series.Len())
	var maxCount int64
	for i, offset := range series.Offsets {
		xs[i] = float64(offset)
		maxCount = max(maxCount, series.Req[i], series.Succ[i], series.Fail[i])
	}

	var avgXs, avgYs []float64
	var maxAvg int64
	for i, avg := range series.AvgDura {
		if avg == nil {
			continue
		}
		avgXs = append(avgXs, xs[i])
		avgYs = append(avgYs, float64(*avg))
		maxAvg = max(maxAvg, *avg)
	}

	graph := &chart.Chart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name: "Elapsed (mm:ss) since " + series.BaseTime.Format(models.BucketKeyLayout),
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: math.Max(1, xs[len(xs)-1]),
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return OffsetLabel(int64(f))
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name:  "Requests per second",
			Range: &chart.ContinuousRange{Min: 0, Max: axisMax(maxCount)},
		},
		Series: []chart.Series{
			lineSeries(seriesArrival, chart.ColorOrange, xs, series.Req),
			lineSeries(seriesSucc, chart.ColorGreen, xs, series.Succ),
			lineSeries(seriesFail, chart.ColorRed, xs, series.Fail),
		},
	}

	if len(avgXs) > 0 {
		graph.YAxisSecondary = chart.YAxis{
			Name:  "Avg duration (ms)",
			Range: &chart.ContinuousRange{Min: 0, Max: axisMax(maxAvg)},
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    seriesAvgDura,
			Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1},
			YAxis:   chart.YAxisSecondary,
			XValues: avgXs,
			YValues: avgYs,
		})
	}

	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph
}

func lineSeries(name string, color drawing.Color, xs []float64, values []int64) chart.ContinuousSeries {
	ys := make([]float64, len(values))
	for i, v := range values {
		ys[i] = float64(v)
	}
	return chart.ContinuousSeries{
		Name:    name,
		Style:   chart.Style{StrokeColor: color, StrokeWidth: 1},
		XValues: xs,
		YValues: ys,
	}
}

// axisMax leaves some headroom above the highest value and never collapses to zero.
func axisMax(highest int64) float64 {
	if highest <= 0 {
		return 1
	}
	return math.Ceil(float64(highest) * 1.1)
}

func (r *chartRenderer) String() string {
	return fmt.Sprintf("%s %dx%d", r.format, r.width, r.height)
}
