package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/arloliu/zbench/corpus"
	"github.com/arloliu/zbench/errs"
	"github.com/arloliu/zbench/format"
	"github.com/arloliu/zbench/internal/hash"
	"github.com/arloliu/zbench/internal/options"
)

// Runner defaults.
const (
	DefaultMinDuration   = time.Second
	DefaultMaxIterations = 10_000
)

// minElapsed keeps throughput finite when the clock did not advance.
const minElapsed = time.Nanosecond

// Runner measures the throughput of a single Configuration.
//
// A Runner holds no per-run state and may be shared by concurrent sweeps.
type Runner struct {
	minDuration   time.Duration
	maxIterations int
}

// RunnerOption configures a Runner.
type RunnerOption = options.Option[*Runner]

// WithMinDuration sets the wall-clock floor of the timed loop.
func WithMinDuration(d time.Duration) RunnerOption {
	return options.New(func(r *Runner) error {
		if d <= 0 {
			return fmt.Errorf("%w: min duration must be positive, got %s", errs.ErrInvalidOption, d)
		}
		r.minDuration = d

		return nil
	})
}

// WithMaxIterations bounds the number of timed calls.
func WithMaxIterations(n int) RunnerOption {
	return options.New(func(r *Runner) error {
		if n < 1 {
			return fmt.Errorf("%w: max iterations must be at least 1, got %d", errs.ErrInvalidOption, n)
		}
		r.maxIterations = n

		return nil
	})
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) (*Runner, error) {
	r := &Runner{
		minDuration:   DefaultMinDuration,
		maxIterations: DefaultMaxIterations,
	}
	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// MinDuration returns the configured wall-clock floor.
func (r *Runner) MinDuration() time.Duration {
	return r.minDuration
}

// MaxIterations returns the configured iteration bound.
func (r *Runner) MaxIterations() int {
	return r.maxIterations
}

// op is one timed engine call. It returns the size of its output.
type op func() (int, error)

// Run measures cfg against c.
//
// Steps, all but the last untimed:
//  1. validate cfg
//  2. prepare the operation input (compress a raw corpus once for decompression)
//  3. round-trip sanity check
//  4. one warm-up call
//  5. timed loop until MinDuration has accumulated or MaxIterations is reached
//
// Engine failures are returned immediately, wrapped with cfg; they wrap
// errs.ErrEngine. Context cancellation is checked between timed calls.
func (r *Runner) Run(ctx context.Context, cfg Configuration, c *corpus.Corpus) (Sample, error) {
	if err := cfg.Validate(); err != nil {
		return Sample{}, err
	}
	if c == nil || c.Len() == 0 {
		return Sample{}, errs.ErrEmptyCorpus
	}

	var (
		call           op
		bytesPerCall   int
		compressedSize int
		err            error
	)

	switch cfg.Mode {
	case format.ModeCompress:
		call, bytesPerCall, compressedSize, err = prepareCompress(cfg, c)
	case format.ModeDecompress:
		call, bytesPerCall, compressedSize, err = prepareDecompress(cfg, c)
	}
	if err != nil {
		return Sample{}, fmt.Errorf("%s: %w", cfg, err)
	}

	// Warm-up.
	if _, err := call(); err != nil {
		return Sample{}, fmt.Errorf("%s: warm-up: %w", cfg, err)
	}

	iterations, elapsed, err := r.timeLoop(ctx, call, expectedOutput(cfg.Mode, bytesPerCall))
	if err != nil {
		return Sample{}, fmt.Errorf("%s: %w", cfg, err)
	}

	return Sample{
		Engine:         cfg.Engine.Name,
		Mode:           cfg.Mode,
		Level:          cfg.Level,
		Iterations:     iterations,
		Elapsed:        elapsed,
		BytesPerCall:   bytesPerCall,
		CompressedSize: compressedSize,
	}, nil
}

// expectedOutput returns the exact output size every timed call must
// produce, or -1 when the size may vary.
func expectedOutput(mode format.Mode, bytesPerCall int) int {
	if mode == format.ModeDecompress {
		return bytesPerCall
	}

	return -1
}

func (r *Runner) timeLoop(ctx context.Context, call op, want int) (int, time.Duration, error) {
	var (
		iterations int
		elapsed    time.Duration
	)

	for iterations < r.maxIterations && elapsed < r.minDuration {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		start := time.Now()
		n, err := call()
		elapsed += time.Since(start)

		if err != nil {
			return 0, 0, err
		}
		if n <= 0 || (want >= 0 && n != want) {
			return 0, 0, fmt.Errorf("%w: got %d bytes, want %d", errs.ErrShortOutput, n, want)
		}
		iterations++
	}

	if elapsed < minElapsed {
		elapsed = minElapsed
	}

	return iterations, elapsed, nil
}

func prepareCompress(cfg Configuration, c *corpus.Corpus) (op, int, int, error) {
	if c.Kind() != corpus.KindRaw {
		return nil, 0, 0, fmt.Errorf("%w: compression needs a raw corpus, got %s", errs.ErrInvalidOption, c.Kind())
	}

	e := guard(cfg.Engine.Engine)
	input := c.Bytes()

	compressed, err := e.Compress(input, cfg.Level)
	if err != nil {
		return nil, 0, 0, err
	}
	if err := checkRoundTrip(e.Decompress, compressed, c.Verify); err != nil {
		return nil, 0, 0, err
	}

	call := func() (int, error) {
		out, err := e.Compress(input, cfg.Level)
		return len(out), err
	}

	return call, len(input), len(compressed), nil
}

func prepareDecompress(cfg Configuration, c *corpus.Corpus) (op, int, int, error) {
	e := guard(cfg.Engine.Engine)

	var (
		stream []byte
		size   int
	)

	switch c.Kind() {
	case corpus.KindRaw:
		compressed, err := e.Compress(c.Bytes(), cfg.Level)
		if err != nil {
			return nil, 0, 0, err
		}
		if err := checkRoundTrip(e.Decompress, compressed, c.Verify); err != nil {
			return nil, 0, 0, err
		}
		stream, size = compressed, c.Len()

	case corpus.KindZlib:
		stream = c.Bytes()
		decoded, err := e.Decompress(stream)
		if err != nil {
			return nil, 0, 0, err
		}
		if len(decoded) == 0 {
			return nil, 0, 0, fmt.Errorf("%w: corpus decodes to zero bytes", errs.ErrShortOutput)
		}

		// Recompress what was decoded and check it decodes back to the same bytes.
		sum := hash.Sum(decoded)
		match := func(data []byte) bool { return len(data) == len(decoded) && hash.Sum(data) == sum }

		recompressed, err := e.Compress(decoded, cfg.Level)
		if err != nil {
			return nil, 0, 0, err
		}
		if err := checkRoundTrip(e.Decompress, recompressed, match); err != nil {
			return nil, 0, 0, err
		}
		size = len(decoded)

	default:
		return nil, 0, 0, fmt.Errorf("%w: unknown corpus kind %s", errs.ErrInvalidOption, c.Kind())
	}

	call := func() (int, error) {
		out, err := e.Decompress(stream)
		return len(out), err
	}

	return call, size, len(stream), nil
}

func checkRoundTrip(decompress func([]byte) ([]byte, error), compressed []byte, match func([]byte) bool) error {
	decoded, err := decompress(compressed)
	if err != nil {
		return err
	}
	if !match(decoded) {
		return fmt.Errorf("%w: decompressed %d bytes do not match the original", errs.ErrRoundTrip, len(decoded))
	}

	return nil
}
