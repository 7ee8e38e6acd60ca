package corpus

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/s2"
	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/zbench/internal/buffer"
)

// Container is the storage compression wrapped around a corpus file.
type Container uint8

const (
	ContainerNone Container = 0x1 // ContainerNone is a plain file.
	ContainerZstd Container = 0x2 // ContainerZstd is a Zstandard frame.
	ContainerS2   Container = 0x3 // ContainerS2 is an S2 or Snappy stream.
	ContainerLZ4  Container = 0x4 // ContainerLZ4 is an LZ4 frame.
)

func (c Container) String() string {
	switch c {
	case ContainerNone:
		return "None"
	case ContainerZstd:
		return "Zstd"
	case ContainerS2:
		return "S2"
	case ContainerLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// DetectContainer returns the container implied by the extension of path.
func DetectContainer(path string) Container {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return ContainerZstd
	case ".s2", ".sz":
		return ContainerS2
	case ".lz4":
		return ContainerLZ4
	default:
		return ContainerNone
	}
}

func decodeContainer(c Container, data []byte) ([]byte, error) {
	switch c {
	case ContainerZstd:
		return zstdDecode(data)
	case ContainerS2:
		return s2Decode(data)
	case ContainerLZ4:
		return lz4Decode(data)
	default:
		return data, nil
	}
}

func encodeContainer(c Container, data []byte) ([]byte, error) {
	switch c {
	case ContainerZstd:
		return zstdEncode(data)
	case ContainerS2:
		return s2Encode(data)
	case ContainerLZ4:
		return lz4Encode(data)
	default:
		return data, nil
	}
}

// s2Decode decodes an S2 stream. The reader also accepts Snappy framed
// streams.
func s2Decode(data []byte) ([]byte, error) {
	out := buffer.New(len(data) * 2)
	if _, err := out.ReadFrom(s2.NewReader(bytes.NewReader(data))); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

func s2Encode(data []byte) ([]byte, error) {
	out := buffer.New(s2.MaxEncodedLen(len(data)))
	w := s2.NewWriter(out)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

func lz4Decode(data []byte) ([]byte, error) {
	out := buffer.New(len(data) * 4)
	if _, err := out.ReadFrom(lz4.NewReader(bytes.NewReader(data))); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

func lz4Encode(data []byte) ([]byte, error) {
	out := buffer.New(lz4.CompressBlockBound(len(data)))
	w := lz4.NewWriter(out)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
