package hash

import "github.com/cespare/xxhash/v2"

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Equal reports whether a and b have the same length and xxHash64.
func Equal(a, b []byte) bool {
	return len(a) == len(b) && Sum(a) == Sum(b)
}
