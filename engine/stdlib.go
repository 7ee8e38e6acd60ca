package engine

import (
	"bytes"
	"compress/zlib"

	"github.com/arloliu/zbench/format"
	"github.com/arloliu/zbench/internal/buffer"
)

// StdlibEngine drives the Go standard library compress/zlib.
type StdlibEngine struct{}

var _ Engine = (*StdlibEngine)(nil)

// NewStdlibEngine creates a new standard library zlib engine.
func NewStdlibEngine() StdlibEngine {
	return StdlibEngine{}
}

// Compress compresses data with compress/zlib at the given level.
func (e StdlibEngine) Compress(data []byte, level int) ([]byte, error) {
	name := format.EngineStdlib.String()
	if err := checkLevel(name, level); err != nil {
		return nil, err
	}

	out := buffer.New(CompressBound(len(data)))
	w, err := zlib.NewWriterLevel(out, level)
	if err != nil {
		return nil, compressError(name, err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, compressError(name, err)
	}
	if err := w.Close(); err != nil {
		return nil, compressError(name, err)
	}

	return out.Bytes(), nil
}

// Decompress decompresses a zlib stream with compress/zlib.
//
// The Adler-32 trailer is verified by the reader, so truncated or
// corrupted streams are rejected.
func (e StdlibEngine) Decompress(data []byte) ([]byte, error) {
	name := format.EngineStdlib.String()

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, decompressError(name, err)
	}
	defer r.Close()

	out := buffer.New(decompressHint(len(data)))
	if _, err := out.ReadFrom(r); err != nil {
		return nil, decompressError(name, err)
	}

	return out.Bytes(), nil
}
