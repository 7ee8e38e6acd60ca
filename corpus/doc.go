// Package corpus loads the input buffer every benchmark runs against.
//
// A Corpus is loaded once per process and never mutated afterwards; the
// same bytes are lent read-only to every engine call of a sweep.
//
// # Kinds
//
//   - KindRaw: uncompressed input, used by compression sweeps and by
//     decompression sweeps that first compress the corpus per engine
//   - KindZlib: an existing zlib stream, used by decompression sweeps
//
// # Containers
//
// Corpus files may be stored compressed. The container is detected from
// the file extension and removed on load, before the corpus is handed to
// any engine:
//
//	.zst   Zstandard frame (klauspost/compress/zstd, or valyala/gozstd with -tags gozstd)
//	.s2    S2 or Snappy stream (klauspost/compress/s2)
//	.lz4   LZ4 frame (pierrec/lz4/v4)
//
// Any other extension is read as is.
package corpus
