//go:build cgo && gozstd

package corpus

import "github.com/valyala/gozstd"

// zstdDecode decodes a Zstandard frame with the reference C library.
func zstdDecode(data []byte) ([]byte, error) {
	return gozstd.Decompress(nil, data)
}

func zstdEncode(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}
