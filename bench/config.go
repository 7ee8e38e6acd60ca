package bench

import (
	"fmt"

	"github.com/arloliu/zbench/engine"
	"github.com/arloliu/zbench/errs"
	"github.com/arloliu/zbench/format"
)

// Configuration is one (engine, level, mode) tuple to measure.
type Configuration struct {
	Engine engine.Handle
	Level  int
	Mode   format.Mode
}

// Validate checks the mode, the engine handle and the level.
//
// The level is checked in both modes: decompression of a raw corpus
// compresses it at Level first.
func (c Configuration) Validate() error {
	if c.Mode != format.ModeCompress && c.Mode != format.ModeDecompress {
		return fmt.Errorf("%w: %d", errs.ErrInvalidMode, c.Mode)
	}
	if c.Engine.Engine == nil || c.Engine.Name == "" {
		return fmt.Errorf("%w: configuration has no engine", errs.ErrInvalidOption)
	}
	if !format.ValidLevel(c.Level) {
		return fmt.Errorf("%w: %d (supported %d-%d)", errs.ErrInvalidLevel, c.Level, format.MinLevel, format.MaxLevel)
	}

	return nil
}

func (c Configuration) String() string {
	return fmt.Sprintf("%s/%s/level=%d", c.Engine.Name, c.Mode, c.Level)
}
