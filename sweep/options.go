package sweep

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/zbench/errs"
	"github.com/arloliu/zbench/internal/options"
)

// Option configures a Driver.
type Option = options.Option[*Driver]

// WithLogger sets the logger for per-configuration diagnostics.
//
// The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return options.New(func(d *Driver) error {
		if logger == nil {
			return fmt.Errorf("%w: nil logger", errs.ErrInvalidOption)
		}
		d.logger = logger

		return nil
	})
}

// WithParallelism sets how many configurations are measured at once.
//
// The default is 1. Values above 1 trade measurement isolation for
// wall-clock time; report order is unaffected.
func WithParallelism(n int) Option {
	return options.New(func(d *Driver) error {
		if n < 1 {
			return fmt.Errorf("%w: parallelism must be at least 1, got %d", errs.ErrInvalidOption, n)
		}
		d.parallelism = n

		return nil
	})
}
