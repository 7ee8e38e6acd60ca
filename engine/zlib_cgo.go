//go:build cgo && zlibcgo

package engine

import (
	"bytes"

	"github.com/4kills/go-zlib"

	"github.com/arloliu/zbench/format"
	"github.com/arloliu/zbench/internal/buffer"
)

// CgoEngine drives the system libz through github.com/4kills/go-zlib.
type CgoEngine struct{}

var _ Engine = (*CgoEngine)(nil)

// NewCgoEngine creates a new libz engine.
func NewCgoEngine() CgoEngine {
	return CgoEngine{}
}

func newCgoEngine() (Engine, error) {
	return NewCgoEngine(), nil
}

// Compress compresses data with libz deflate at the given level.
func (e CgoEngine) Compress(data []byte, level int) ([]byte, error) {
	name := format.EngineCgo.String()
	if err := checkLevel(name, level); err != nil {
		return nil, err
	}

	out := buffer.New(CompressBound(len(data)))
	w, err := zlib.NewWriterLevel(out, level)
	if err != nil {
		return nil, compressError(name, err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, compressError(name, err)
	}
	if err := w.Close(); err != nil {
		return nil, compressError(name, err)
	}

	return out.Bytes(), nil
}

// Decompress decompresses a zlib stream with libz inflate.
func (e CgoEngine) Decompress(data []byte) ([]byte, error) {
	name := format.EngineCgo.String()

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
