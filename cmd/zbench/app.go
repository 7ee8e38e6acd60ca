package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/zbench/bench"
	"github.com/arloliu/zbench/config"
	"github.com/arloliu/zbench/engine"
	"github.com/arloliu/zbench/errs"
	"github.com/arloliu/zbench/report"
	"github.com/arloliu/zbench/sweep"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	registry *engine.Registry

	// persistent flag values
	configPath    string
	minDuration   time.Duration
	maxIterations int
	engines       []string
	parallel      int
	logLevel      string
	logFormat     string

	cfg    config.Config
	logger *slog.Logger
}

func newApp(stdout, stderr io.Writer, registry *engine.Registry) *app {
	return &app{
		stdout:   stdout,
		stderr:   stderr,
		registry: registry,
		cfg:      config.Default(),
		logger:   slog.New(slog.DiscardHandler),
	}
}

// execute runs the command line args and returns the process exit code.
func (a *app) execute(ctx context.Context, args []string) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		printError(a.stderr, err)
		return 1
	}

	return 0
}

// setup resolves the configuration: defaults, then the config file, then
// explicitly set flags.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("min-duration") {
		cfg.MinDuration = a.minDuration
	}
	if flags.Changed("max-iterations") {
		cfg.MaxIterations = a.maxIterations
	}
	if flags.Changed("engines") {
		cfg.Engines = a.engines
	}
	if flags.Changed("parallel") {
		cfg.Parallelism = a.parallel
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = cfg.NewLogger(a.stderr)

	return nil
}

// selection returns the registry restricted to the configured engines.
func (a *app) selection() (*engine.Registry, error) {
	return a.registry.Select(a.cfg.Engines...)
}

func (a *app) newDriver(registry *engine.Registry) (*sweep.Driver, error) {
	runner, err := bench.NewRunner(a.cfg.RunnerOptions()...)
	if err != nil {
		return nil, err
	}

	return sweep.NewDriver(registry, runner,
		sweep.WithLogger(a.logger),
		sweep.WithParallelism(a.cfg.Parallelism),
	)
}

// emit writes the report to stdout and its failures to stderr.
func (a *app) emit(r *report.Report) error {
	if err := report.Write(a.stdout, r); err != nil {
		return err
	}

	return report.WriteFailures(a.stderr, r)
}

func parseLevel(s string) (int, error) {
	level, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errs.ErrInvalidLevel, s)
	}

	return level, nil
}
