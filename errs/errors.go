// Package errs defines the error kinds shared by zbench packages.
//
// Every error returned by zbench wraps exactly one of the three kind
// sentinels, so callers can classify failures with errors.Is:
//
//	ErrCorpusLoad     corpus missing, unreadable or empty (fatal)
//	ErrEngine         an engine rejected input or failed the round-trip check (recoverable)
//	ErrConfiguration  invalid level, unknown engine or invalid option (fatal)
package errs

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	ErrCorpusLoad    = errors.New("corpus load failure")
	ErrEngine        = errors.New("engine failure")
	ErrConfiguration = errors.New("configuration error")
)

// Corpus errors.
var (
	ErrEmptyCorpus       = fmt.Errorf("%w: corpus is empty", ErrCorpusLoad)
	ErrUnreadableCorpus  = fmt.Errorf("%w: corpus cannot be read", ErrCorpusLoad)
	ErrCorruptContainer  = fmt.Errorf("%w: corpus container cannot be decoded", ErrCorpusLoad)
	ErrUnsupportedSource = fmt.Errorf("%w: unsupported corpus source", ErrCorpusLoad)
)

// Engine errors.
var (
	ErrUnsupportedLevel = fmt.Errorf("%w: unsupported compression level", ErrEngine)
	ErrMalformedStream  = fmt.Errorf("%w: malformed or truncated stream", ErrEngine)
	ErrRoundTrip        = fmt.Errorf("%w: round-trip mismatch", ErrEngine)
	ErrShortOutput      = fmt.Errorf("%w: unexpected output size", ErrEngine)
)

// Configuration errors.
var (
	ErrInvalidLevel      = fmt.Errorf("%w: compression level out of range", ErrConfiguration)
	ErrUnknownEngine     = fmt.Errorf("%w: unknown engine", ErrConfiguration)
	ErrDuplicateEngine   = fmt.Errorf("%w: duplicate engine name", ErrConfiguration)
	ErrEngineUnavailable = fmt.Errorf("%w: engine not built into this binary", ErrConfiguration)
	ErrNoEngines         = fmt.Errorf("%w: no engines selected", ErrConfiguration)
	ErrInvalidOption     = fmt.Errorf("%w: invalid option", ErrConfiguration)
	ErrInvalidMode       = fmt.Errorf("%w: invalid mode", ErrConfiguration)
	ErrSweepFinished     = fmt.Errorf("%w: sweep already finished", ErrConfiguration)
)

// Component names the component an error originates from: "corpus",
// "engine", "config", or "zbench" when err carries no known kind.
func Component(err error) string {
	switch {
	case errors.Is(err, ErrCorpusLoad):
		return "corpus"
	case errors.Is(err, ErrConfiguration):
		return "config"
	case errors.Is(err, ErrEngine):
		return "engine"
	default:
		return "zbench"
	}
}
