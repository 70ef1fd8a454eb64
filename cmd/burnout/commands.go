package main

import (
	"context"

	"burnout-chart/internal/app"

	"github.com/spf13/pflag"
)

// commandRunner runs a command with its single optional positional argument.
type commandRunner func(ctx context.Context, application *app.App, arg string) error

// commands register their flags on the given set and return the runner bound to them.
var commands = map[string]func(flags *pflag.FlagSet) commandRunner{
	"parse":   parseCommand,
	"preview": previewCommand,
	"chart":   chartCommand,
}

func parseCommand(flags *pflag.FlagSet) commandRunner {
	var req app.ParseRequest
	flags.StringVarP(&req.Method, "method", "m", "*", "HTTP method to keep: GET, POST or * for all")
	flags.StringVarP(&req.PathPattern, "urlPath", "p", ".+", "case-insensitive regular expression on the URL path")
	flags.StringVarP(&req.OutputPath, "output", "o", "", "series file, defaults to the log path with a .json extension")

	return func(ctx context.Context, application *app.App, arg string) error {
		req.LogPath = arg
		_, err := application.Parse(ctx, req)
		return err
	}
}

func windowFlags(flags *pflag.FlagSet, window *app.WindowArgs) {
	flags.StringVarP(&window.Start, "startTime", "s", "", "window start, yyyy-MM-dd HH:mm:ss or HH:mm[:ss]")
	flags.StringVarP(&window.End, "endTime", "e", "", "window end, inclusive")
	flags.StringVarP(&window.Duration, "dura", "d", "", "window length from the start when no end is given, hh:mm:ss or 90s")
}

func previewCommand(flags *pflag.FlagSet) commandRunner {
	var req app.PreviewRequest
	flags.StringVarP(&req.Unit, "unit", "u", "", "bucket unit h, m or s; defaults to preview.unit")
	windowFlags(flags, &req.Window)

	return func(ctx context.Context, application *app.App, arg string) error {
		req.SeriesPath = arg
		_, err := application.Preview(ctx, req)
		return err
	}
}

func chartCommand(flags *pflag.FlagSet) commandRunner {
	var req app.ChartRequest
	flags.StringVarP(&req.Title, "title", "t", "", `chart title, defaults to "Burnout Chart - <first time>"`)
	flags.StringVarP(&req.OutputPath, "output", "o", "", "image path, defaults to <file_storage.root_dir>/<yyyyMMddHHmmss>.<format>")
	windowFlags(flags, &req.Window)

	return func(ctx context.Context, application *app.App, arg string) error {
		req.SeriesPath = arg
		_, err := application.Chart(ctx, req)
		return err
	}
}
