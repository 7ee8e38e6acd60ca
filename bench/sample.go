package bench

import (
	"time"

	"github.com/arloliu/zbench/format"
)

// bytesPerMB is a decimal megabyte.
const bytesPerMB = 1_000_000

// Sample is the measurement of one Configuration against a corpus.
type Sample struct {
	// Engine is the engine display name.
	Engine string
	Mode   format.Mode
	Level  int

	// Iterations is the number of timed calls.
	Iterations int
	// Elapsed is the accumulated wall-clock time of the timed calls.
	Elapsed time.Duration

	// BytesPerCall is the uncompressed size processed by one call: the
	// input size when compressing, the output size when decompressing.
	BytesPerCall int
	// CompressedSize is the size of the zlib stream involved.
	CompressedSize int
}

// Throughput returns the processed uncompressed bytes per second in
// decimal megabytes.
//
// Returns 0 for a sample without iterations or elapsed time.
func (s Sample) Throughput() float64 {
	if s.Iterations <= 0 || s.Elapsed <= 0 {
		return 0
	}

	total := float64(s.Iterations) * float64(s.BytesPerCall)

	return total / (s.Elapsed.Seconds() * bytesPerMB)
}

// CompressionRatio returns compressed size / uncompressed size.
func (s Sample) CompressionRatio() float64 {
	if s.BytesPerCall == 0 {
		return 0
	}

	return float64(s.CompressedSize) / float64(s.BytesPerCall)
}

// PerCall returns the mean duration of one timed call.
func (s Sample) PerCall() time.Duration {
	if s.Iterations <= 0 {
		return 0
	}

	return s.Elapsed / time.Duration(s.Iterations)
}
