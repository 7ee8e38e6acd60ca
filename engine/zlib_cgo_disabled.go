//go:build !cgo || !zlibcgo

package engine

import (
	"fmt"

	"github.com/arloliu/zbench/errs"
	"github.com/arloliu/zbench/format"
)

func newCgoEngine() (Engine, error) {
	return nil, fmt.Errorf("%w: %s (build with CGO_ENABLED=1 -tags zlibcgo)", errs.ErrEngineUnavailable, format.EngineCgo)
}
