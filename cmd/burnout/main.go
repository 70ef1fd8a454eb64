package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"burnout-chart/internal/app"
	"burnout-chart/internal/shared/configs"
	"burnout-chart/internal/shared/svcerrors"

	"github.com/spf13/pflag"
)

const usage = `Usage: burnout [-c config.yml] [--log-level level] <command> [options]

Commands:
  parse   [logPath]   aggregate an IIS log into a per-second series (.json)
  preview [jsonPath]  print the series rolled up per hour, minute or second
  chart   [jsonPath]  render the series as a burnout chart

Run "burnout <command> --help" for the options of a command.
`

const exitCodeUsage = 2

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type globalOptions struct {
	configPath string
	logLevel   string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts globalOptions
	global := pflag.NewFlagSet("burnout", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	global.StringVarP(&opts.configPath, "config", "c", "", "YAML config file; defaults and BURNOUT_* variables apply without one")
	global.StringVar(&opts.logLevel, "log-level", "", "overrides log.level (debug, info, warn, error, disabled)")

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return exitCodeUsage
	}
	if global.NArg() == 0 {
		fmt.Fprint(stderr, usage)
		return exitCodeUsage
	}

	command, ok := commands[global.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", global.Arg(0), usage)
		return exitCodeUsage
	}

	flags := pflag.NewFlagSet("burnout "+global.Arg(0), pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.AddFlagSet(global)
	bind := command(flags)
	if err := flags.Parse(global.Args()[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return exitCodeUsage
	}
	if flags.NArg() > 1 {
		fmt.Fprintf(stderr, "unexpected arguments %v\n", flags.Args()[1:])
		return exitCodeUsage
	}

	cfg, err := configs.LoadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return exitCodeUsage
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	application, err := app.New(cfg, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize app: %v\n", err)
		return svcerrors.ExitCodeOf(err)
	}

	err = bind(ctx, application, flags.Arg(0))
	if closeErr := application.Close(); closeErr != nil {
		fmt.Fprintf(stderr, "%v\n", closeErr)
	}
	if err != nil {
		printError(stderr, err)
	}
	return svcerrors.ExitCodeOf(err)
}

func printError(stderr io.Writer, err error) {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, "Interrupted.")
		return
	}
	if svcErr, ok := svcerrors.AsServiceError(err); ok {
		fmt.Fprintf(stderr, "%s: %s\n", svcErr.Code, svcErr.Message)
		return
	}
	fmt.Fprintf(stderr, "%v\n", err)
}
