package engine

import (
	"bytes"

	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/zbench/format"
	"github.com/arloliu/zbench/internal/buffer"
)

// KlauspostEngine drives github.com/klauspost/compress/zlib.
//
// A fresh writer and reader are created per call. klauspost writers are
// designed for reuse through Reset, but pooling them here would give this
// engine an allocation advantage the other engines do not get.
type KlauspostEngine struct{}

var _ Engine = (*KlauspostEngine)(nil)

// NewKlauspostEngine creates a new klauspost zlib engine.
func NewKlauspostEngine() KlauspostEngine {
	return KlauspostEngine{}
}

// Compress compresses data with klauspost/compress/zlib at the given level.
func (e KlauspostEngine) Compress(data []byte, level int) ([]byte, error) {
	name := format.EngineKlauspost.String()
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

// Decompress decompresses a zlib stream with klauspost/compress/zlib.
func (e KlauspostEngine) Decompress(data []byte) ([]byte, error) {
	name := format.EngineKlauspost.String()

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
