package engine

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/adler32"
	"io"

	"github.com/arloliu/zbench/internal/buffer"
)

// RFC 1950 framing constants.
const (
	zlibHeaderSize  = 2
	zlibTrailerSize = 4
	zlibDeflate     = 8
	zlibMaxCINFO    = 7
	zlibFlagDict    = 0x20
)

var (
	errZlibHeader  = errors.New("zlib: invalid header")
	errZlibDict    = errors.New("zlib: preset dictionary not supported")
	errZlibTrailer = errors.New("zlib: missing checksum trailer")
	errZlibSum     = errors.New("zlib: checksum mismatch")
)

// flateWriterFunc creates a raw DEFLATE writer at the given level.
type flateWriterFunc func(w io.Writer, level int) (io.WriteCloser, error)

// flateReaderFunc creates a raw DEFLATE reader.
type flateReaderFunc func(r io.Reader) io.ReadCloser

// appendZlibHeader appends the two byte zlib header for a 32KiB window.
// The FLEVEL bits follow the same mapping as compress/zlib.
func appendZlibHeader(dst []byte, level int) []byte {
	const cmf = 0x78

	var flg byte
	switch level {
	case 0, 1:
		flg = 0 << 6
	case 2, 3, 4, 5:
		flg = 1 << 6
	case 6, -1:
		flg = 2 << 6
	default:
		flg = 3 << 6
	}
	flg += byte(31 - (uint16(cmf)<<8+uint16(flg))%31)

	return append(dst, cmf, flg)
}

// parseZlibHeader validates the zlib header at the start of data.
func parseZlibHeader(data []byte) error {
	if len(data) < zlibHeaderSize {
		return errZlibHeader
	}

	cmf, flg := data[0], data[1]
	if cmf&0x0f != zlibDeflate || cmf>>4 > zlibMaxCINFO || (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		return errZlibHeader
	}
	if flg&zlibFlagDict != 0 {
		return errZlibDict
	}

	return nil
}

// frameCompress compresses data with a raw DEFLATE writer and wraps the
// result in a zlib header and Adler-32 trailer.
func frameCompress(data []byte, level int, newWriter flateWriterFunc) ([]byte, error) {
	out := buffer.New(CompressBound(len(data)))
	out.B = appendZlibHeader(out.B, level)

	w, err := newWriter(out, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	out.Grow(zlibTrailerSize)
	out.B = binary.BigEndian.AppendUint32(out.B, adler32.Checksum(data))

	return out.Bytes(), nil
}

// frameDecompress strips the zlib framing, inflates the DEFLATE payload
// and verifies the Adler-32 trailer.
//
// The payload reader is given a bytes.Reader, which implements
// io.ByteReader, so the inflater consumes exactly the DEFLATE stream and
// the trailer is left unread.
func frameDecompress(data []byte, newReader flateReaderFunc) ([]byte, error) {
	if err := parseZlibHeader(data); err != nil {
		return nil, err
	}

	src := bytes.NewReader(data[zlibHeaderSize:])
	r := newReader(src)
	defer r.Close()

	out := buffer.New(decompressHint(len(data)))
	if _, err := out.ReadFrom(r); err != nil {
		return nil, err
	}

	var trailer [zlibTrailerSize]byte
	if _, err := io.ReadFull(src, trailer[:]); err != nil {
		return nil, errZlibTrailer
	}
	if binary.BigEndian.Uint32(trailer[:]) != adler32.Checksum(out.Bytes()) {
		return nil, errZlibSum
	}

	return out.Bytes(), nil
}
