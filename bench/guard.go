package bench

import (
	"errors"
	"fmt"

	"github.com/arloliu/zbench/engine"
	"github.com/arloliu/zbench/errs"
)

// guarded makes every failure of the wrapped engine an errs.ErrEngine,
// including plain errors and panics.
type guarded struct {
	e engine.Engine
}

var _ engine.Engine = guarded{}

func guard(e engine.Engine) guarded {
	return guarded{e: e}
}

func (g guarded) Compress(data []byte, level int) (out []byte, err error) {
	defer recoverEngine(&out, &err)

	out, err = g.e.Compress(data, level)

	return out, asEngineError(err)
}

func (g guarded) Decompress(data []byte) (out []byte, err error) {
	defer recoverEngine(&out, &err)

	out, err = g.e.Decompress(data)

	return out, asEngineError(err)
}

func asEngineError(err error) error {
	if err == nil || errors.Is(err, errs.ErrEngine) {
		return err
	}

	return fmt.Errorf("%w: %w", errs.ErrEngine, err)
}

func recoverEngine(out *[]byte, err *error) {
	if p := recover(); p != nil {
		*out = nil
		*err = fmt.Errorf("%w: panic: %v", errs.ErrEngine, p)
	}
}
