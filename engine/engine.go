package engine

import (
	"fmt"

	"github.com/arloliu/zbench/errs"
	"github.com/arloliu/zbench/format"
)

// Compressor compresses a whole buffer into a zlib stream.
type Compressor interface {
	// Compress compresses data at the given level and returns the zlib stream.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	//
	// Error conditions:
	//   - errs.ErrUnsupportedLevel if level is outside [format.MinLevel, format.MaxLevel]
	//   - errs.ErrEngine if the underlying library reports an error
	Compress(data []byte, level int) ([]byte, error)
}

// Decompressor decompresses a whole zlib stream.
type Decompressor interface {
	// Decompress decompresses a zlib stream and returns the original bytes.
	//
	// Error conditions:
	//   - errs.ErrMalformedStream if data is corrupted, truncated or not zlib
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Decompress(data []byte) ([]byte, error)
}

// Engine combines both compression and decompression.
type Engine interface {
	Compressor
	Decompressor
}

// Handle identifies one engine in a registry.
type Handle struct {
	// Type is the engine type, zero for custom engines.
	Type format.EngineType
	// Name is the display name used verbatim in reports.
	Name string
	// Engine is the adapter implementing the engine.
	Engine Engine
}

// CreateEngine creates the Engine for the specified engine type.
//
// Returns:
//   - Engine: adapter for the specified type
//   - error: errs.ErrEngineUnavailable if the engine is not built into this
//     binary, errs.ErrUnknownEngine for an invalid type
func CreateEngine(engineType format.EngineType) (Engine, error) {
	switch engineType {
	case format.EngineStdlib:
		return NewStdlibEngine(), nil
	case format.EngineKlauspost:
		return NewKlauspostEngine(), nil
	case format.EngineFastgo:
		return newFastgoEngine()
	case format.EngineCgo:
		return newCgoEngine()
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownEngine, engineType)
	}
}

// NewHandle creates the Handle for a built-in engine type.
func NewHandle(engineType format.EngineType) (Handle, error) {
	e, err := CreateEngine(engineType)
	if err != nil {
		return Handle{}, err
	}

	return Handle{Type: engineType, Name: engineType.String(), Engine: e}, nil
}

// MustHandle is like NewHandle but panics on error.
// It is intended for engines that are always available.
func MustHandle(engineType format.EngineType) Handle {
	h, err := NewHandle(engineType)
	if err != nil {
		panic(err)
	}

	return h
}

// CustomHandle creates a Handle for an engine outside the built-in set.
func CustomHandle(name string, e Engine) Handle {
	return Handle{Name: name, Engine: e}
}

// CompressBound returns the worst-case zlib stream size for n input bytes,
// matching zlib's compressBound.
func CompressBound(n int) int {
	return n + (n >> 12) + (n >> 14) + (n >> 25) + 13
}

// decompressHint returns the initial output capacity for decompressing
// n compressed bytes.
func decompressHint(n int) int {
	const maxHint = 256 * 1024 * 1024

	if n > maxHint/4 {
		return maxHint
	}

	return n * 4
}

func checkLevel(name string, level int) error {
	if !format.ValidLevel(level) {
		return fmt.Errorf("%s: %w: %d", name, errs.ErrUnsupportedLevel, level)
	}

	return nil
}

func compressError(name string, err error) error {
	return fmt.Errorf("%s compress: %w: %w", name, errs.ErrEngine, err)
}

func decompressError(name string, err error) error {
	return fmt.Errorf("%s decompress: %w: %w", name, errs.ErrMalformedStream, err)
}
