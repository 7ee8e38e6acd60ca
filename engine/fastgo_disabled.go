//go:build !fastgo

package engine

import (
	"fmt"

	"github.com/arloliu/zbench/errs"
	"github.com/arloliu/zbench/format"
)

func newFastgoEngine() (Engine, error) {
	return nil, fmt.Errorf("%w: %s (build with -tags fastgo)", errs.ErrEngineUnavailable, format.EngineFastgo)
}
