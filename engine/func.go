package engine

import (
	"fmt"

	"github.com/arloliu/zbench/errs"
)

// Func adapts a pair of functions into an Engine.
//
// A nil function makes the corresponding operation fail with errs.ErrEngine.
type Func struct {
	CompressFunc   func(data []byte, level int) ([]byte, error)
	DecompressFunc func(data []byte) ([]byte, error)
}

var _ Engine = Func{}

// Compress calls CompressFunc.
func (f Func) Compress(data []byte, level int) ([]byte, error) {
	if f.CompressFunc == nil {
		return nil, fmt.Errorf("%w: compress not implemented", errs.ErrEngine)
	}

	return f.CompressFunc(data, level)
}

// Decompress calls DecompressFunc.
func (f Func) Decompress(data []byte) ([]byte, error) {
	if f.DecompressFunc == nil {
		return nil, fmt.Errorf("%w: decompress not implemented", errs.ErrEngine)
	}

	return f.DecompressFunc(data)
}
