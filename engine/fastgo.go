//go:build fastgo

package engine

import (
	"io"

	"github.com/intel/fastgo/compress/flate"

	"github.com/arloliu/zbench/format"
)

// FastgoEngine drives Intel's github.com/intel/fastgo/compress/flate.
//
// fastgo only provides raw DEFLATE; the zlib framing is added and checked
// by frameCompress and frameDecompress.
type FastgoEngine struct{}

var _ Engine = (*FastgoEngine)(nil)

// NewFastgoEngine creates a new fastgo engine.
func NewFastgoEngine() FastgoEngine {
	return FastgoEngine{}
}

func newFastgoEngine() (Engine, error) {
	return NewFastgoEngine(), nil
}

func newFastgoWriter(w io.Writer, level int) (io.WriteCloser, error) {
	return flate.NewWriter(w, level)
}

func newFastgoReader(r io.Reader) io.ReadCloser {
	return flate.NewReader(r)
}

// Compress compresses data with fastgo flate at the given level.
func (e FastgoEngine) Compress(data []byte, level int) ([]byte, error) {
	name := format.EngineFastgo.String()
	if err := checkLevel(name, level); err != nil {
		return nil, err
	}

	out, err := frameCompress(data, level, newFastgoWriter)
	if err != nil {
		return nil, compressError(name, err)
	}

	return out, nil
}

// Decompress decompresses a zlib stream with fastgo flate.
func (e FastgoEngine) Decompress(data []byte) ([]byte, error) {
	out, err := frameDecompress(data, newFastgoReader)
	if err != nil {
		return nil, decompressError(format.EngineFastgo.String(), err)
	}

	return out, nil
}
