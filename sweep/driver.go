// Package sweep drives benchmark runs across engines and levels.
//
// A Driver enumerates configurations in registry order, measures each one
// with a bench.Runner and collects the samples into a report.Report.
// Engine failures are recorded and skipped; every other error aborts the
// sweep.
//
// A Driver performs exactly one sweep. Create a new Driver per sweep.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/zbench/bench"
	"github.com/arloliu/zbench/corpus"
	"github.com/arloliu/zbench/engine"
	"github.com/arloliu/zbench/errs"
	"github.com/arloliu/zbench/format"
	"github.com/arloliu/zbench/internal/options"
	"github.com/arloliu/zbench/report"
)

// Driver runs one sweep.
type Driver struct {
	registry    *engine.Registry
	runner      *bench.Runner
	logger      *slog.Logger
	parallelism int

	mu        sync.Mutex
	state     State
	total     int
	completed atomic.Int64
	current   atomic.Int64
}

// NewDriver creates a Driver sweeping the engines of registry.
func NewDriver(registry *engine.Registry, runner *bench.Runner, opts ...Option) (*Driver, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, errs.ErrNoEngines
	}
	if runner == nil {
		return nil, fmt.Errorf("%w: nil runner", errs.ErrInvalidOption)
	}

	d := &Driver{
		registry:    registry,
		runner:      runner,
		logger:      slog.New(slog.DiscardHandler),
		parallelism: 1,
	}
	d.current.Store(-1)
	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	return d, nil
}

// State returns the current lifecycle stage.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state
}

// Progress returns how many configurations finished, successfully or not,
// out of the total of the running sweep.
func (d *Driver) Progress() (completed, total int) {
	d.mu.Lock()
	total = d.total
	d.mu.Unlock()

	return int(d.completed.Load()), total
}

// Current returns the enumeration index of the configuration being
// measured. With parallelism above 1 it is the most recently started one.
// ok is false outside StateRunning.
func (d *Driver) Current() (index int, ok bool) {
	if d.State() != StateRunning {
		return 0, false
	}

	index = int(d.current.Load())

	return index, index >= 0
}

// DeflateAll measures compression at level for every engine.
func (d *Driver) DeflateAll(ctx context.Context, src corpus.Source, level int) (*report.Report, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}

	return d.execute(ctx, src, d.configurations(format.ModeCompress, level))
}

// InflateAll measures decompression for every engine.
//
// level is only used to compress a raw corpus before decompressing it.
func (d *Driver) InflateAll(ctx context.Context, src corpus.Source, level int) (*report.Report, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}

	return d.execute(ctx, src, d.configurations(format.ModeDecompress, level))
}

// Levels measures compression for every engine at every level.
//
// Rows are ordered engine first, then level in the given order.
func (d *Driver) Levels(ctx context.Context, src corpus.Source, levels []int) (*report.Report, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: no levels", errs.ErrInvalidOption)
	}
	for _, level := range levels {
		if err := checkLevel(level); err != nil {
			return nil, err
		}
	}

	cfgs := make([]bench.Configuration, 0, d.registry.Len()*len(levels))
	for _, h := range d.registry.Handles() {
		for _, level := range levels {
			cfgs = append(cfgs, bench.Configuration{Engine: h, Level: level, Mode: format.ModeCompress})
		}
	}

	return d.execute(ctx, src, cfgs)
}

// Run measures an explicit list of configurations in order.
func (d *Driver) Run(ctx context.Context, src corpus.Source, cfgs []bench.Configuration) (*report.Report, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("%w: no configurations", errs.ErrInvalidOption)
	}
	for _, cfg := range cfgs {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return d.execute(ctx, src, cfgs)
}

func checkLevel(level int) error {
	if !format.ValidLevel(level) {
		return fmt.Errorf("%w: %d (supported %d-%d)", errs.ErrInvalidLevel, level, format.MinLevel, format.MaxLevel)
	}

	return nil
}

func (d *Driver) configurations(mode format.Mode, level int) []bench.Configuration {
	handles := d.registry.Handles()
	cfgs := make([]bench.Configuration, len(handles))
	for i, h := range handles {
		cfgs[i] = bench.Configuration{Engine: h, Level: level, Mode: mode}
	}

	return cfgs
}

// transition moves the driver from one state to the next.
func (d *Driver) transition(from, to State) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != from {
		if d.state == StateDone || from == StateIdle {
			return errs.ErrSweepFinished
		}

		return fmt.Errorf("%w: driver is %s, expected %s", errs.ErrInvalidOption, d.state, from)
	}
	d.state = to

	return nil
}

func (d *Driver) finish() {
	d.mu.Lock()
	d.state = StateDone
	d.mu.Unlock()
}

// outcome is the result slot of one configuration.
type outcome struct {
	sample bench.Sample
	err    error
}

func (d *Driver) execute(ctx context.Context, src corpus.Source, cfgs []bench.Configuration) (*report.Report, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", errs.ErrUnsupportedSource)
	}
	if err := d.transition(StateIdle, StateLoading); err != nil {
		return nil, err
	}
	defer d.finish()

	c, err := load(src)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("corpus loaded",
		"path", c.Path(),
		"kind", c.Kind().String(),
		"bytes", c.Len(),
	)

	d.mu.Lock()
	d.total = len(cfgs)
	d.mu.Unlock()

	if err := d.transition(StateLoading, StateRunning); err != nil {
		return nil, err
	}

	results := make([]outcome, len(cfgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.parallelism)

	for i, cfg := range cfgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			d.current.Store(int64(i))
			d.logger.Debug("running configuration",
				"engine", cfg.Engine.Name,
				"mode", cfg.Mode.String(),
				"level", cfg.Level,
			)

			s, err := d.runner.Run(gctx, cfg, c)
			d.completed.Add(1)

			if err != nil {
				if !errors.Is(err, errs.ErrEngine) {
					return err
				}

				d.logger.Warn("engine failed, skipping",
					"engine", cfg.Engine.Name,
					"mode", cfg.Mode.String(),
					"level", cfg.Level,
					"error", err,
				)
				results[i].err = err

				return nil
			}

			d.logger.Info("configuration measured",
				"engine", cfg.Engine.Name,
				"mode", cfg.Mode.String(),
				"level", cfg.Level,
				"iterations", s.Iterations,
				"elapsed", s.Elapsed,
				"mbps", report.FormatThroughput(s.Throughput()),
			)
			results[i].sample = s

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemble(cfgs, results), nil
}

func load(src corpus.Source) (*corpus.Corpus, error) {
	c, err := src.Load()
	if err != nil {
		if errors.Is(err, errs.ErrCorpusLoad) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", errs.ErrUnreadableCorpus, err)
	}
	if c == nil || c.Len() == 0 {
		return nil, errs.ErrEmptyCorpus
	}

	return c, nil
}

// assemble builds the report in enumeration order.
func assemble(cfgs []bench.Configuration, results []outcome) *report.Report {
	label := labeler(cfgs)
	r := &report.Report{}

	for i, cfg := range cfgs {
		if err := results[i].err; err != nil {
			r.AddFailure(report.Failure{
				Engine: cfg.Engine.Name,
				Level:  cfg.Level,
				Mode:   cfg.Mode,
				Err:    err,
			})

			continue
		}
		r.Add(label(cfg), results[i].sample)
	}

	return r
}

// labeler returns the row label function for cfgs: the engine name,
// qualified by mode and level only when those vary across the sweep.
func labeler(cfgs []bench.Configuration) func(bench.Configuration) string {
	var mixedLevel, mixedMode bool
	for _, cfg := range cfgs[1:] {
		mixedLevel = mixedLevel || cfg.Level != cfgs[0].Level
		mixedMode = mixedMode || cfg.Mode != cfgs[0].Mode
	}

	return func(cfg bench.Configuration) string {
		label := cfg.Engine.Name
		if mixedMode {
			label += " " + cfg.Mode.String()
		}
		if mixedLevel {
			label += fmt.Sprintf(" level %d", cfg.Level)
		}

		return label
	}
}
