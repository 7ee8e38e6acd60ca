// Package engine provides the DEFLATE/zlib engines benchmarked by zbench.
//
// Every engine is driven through the same two whole-buffer operations:
//
//	type Compressor interface {
//	    Compress(data []byte, level int) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Engine interface {
//	    Compressor
//	    Decompressor
//	}
//
// All engines produce and consume zlib streams (RFC 1950), so data
// compressed by one engine can be decompressed by any other.
//
// # Supported Engines
//
// **zlib-go** (format.EngineStdlib)
//
// The Go standard library compress/zlib. Always available; it is also the
// reference engine used to prepare inflate corpora.
//
// **zlib-klauspost** (format.EngineKlauspost)
//
// github.com/klauspost/compress/zlib, an optimized pure Go implementation
// with the same API as the standard library. Always available.
//
// **flate-fastgo** (format.EngineFastgo)
//
// Intel's github.com/intel/fastgo/compress/flate. fastgo only ships raw
// DEFLATE, so the adapter writes the zlib header and Adler-32 trailer
// itself. Built with the fastgo build tag:
//
//	go get github.com/intel/fastgo@latest
//	go build -tags fastgo ./...
//
// **zlib-og** (format.EngineCgo)
//
// The system libz through github.com/4kills/go-zlib. Requires cgo and the
// zlib development headers. Built with the zlibcgo build tag:
//
//	CGO_ENABLED=1 go build -tags zlibcgo ./...
//
// Engines whose build tag is not set are absent from DefaultRegistry and
// CreateEngine returns errs.ErrEngineUnavailable for them.
//
// # Memory Management
//
// Each call allocates its own output buffer: compression pre-sizes it with
// CompressBound, decompression starts at four times the input and grows.
// Engines never pool or retain buffers or encoder state between calls, so
// every engine pays the same setup cost per call and measurements stay
// comparable across engines.
//
// # Thread Safety
//
// Engines are stateless values and safe for concurrent use.
//
// # Error Handling
//
// All errors wrap errs.ErrEngine:
//   - errs.ErrUnsupportedLevel: level outside [format.MinLevel, format.MaxLevel]
//   - errs.ErrMalformedStream: corrupt, truncated or non-zlib input
//
// # Custom Engines
//
// Func adapts a pair of functions into an Engine, and CustomHandle
// registers it under any name:
//
//	flaky := engine.Func{
//	    CompressFunc:   func(data []byte, level int) ([]byte, error) { return nil, errs.ErrEngine },
//	    DecompressFunc: func(data []byte) ([]byte, error) { return nil, errs.ErrEngine },
//	}
//	reg, _ := engine.NewRegistry(engine.MustHandle(format.EngineStdlib), engine.CustomHandle("flaky", flaky))
package engine
