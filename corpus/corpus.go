package corpus

import (
	"fmt"
	"os"

	"github.com/arloliu/zbench/errs"
	"github.com/arloliu/zbench/internal/hash"
)

// Kind describes what the corpus bytes are.
type Kind uint8

const (
	KindRaw  Kind = 0x1 // KindRaw is uncompressed input.
	KindZlib Kind = 0x2 // KindZlib is a zlib stream.
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindZlib:
		return "zlib"
	default:
		return "Unknown"
	}
}

// Source produces a corpus. It is called once per sweep.
type Source interface {
	Load() (*Corpus, error)
}

// Corpus is an immutable, non-empty input buffer.
type Corpus struct {
	data []byte
	kind Kind
	path string
	sum  uint64
}

var _ Source = (*Corpus)(nil)

// New creates a corpus from an in-memory copy of data.
//
// Returns errs.ErrEmptyCorpus if data is empty.
func New(data []byte, kind Kind) (*Corpus, error) {
	if len(data) == 0 {
		return nil, errs.ErrEmptyCorpus
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	return newCorpus(buf, kind, ""), nil
}

// newCorpus takes ownership of data, which must be non-empty.
func newCorpus(data []byte, kind Kind, path string) *Corpus {
	return &Corpus{
		data: data,
		kind: kind,
		path: path,
		sum:  hash.Sum(data),
	}
}

// Load reads the corpus file at path and removes its storage container.
//
// Error conditions:
//   - errs.ErrUnreadableCorpus if the file is missing or unreadable
//   - errs.ErrCorruptContainer if the container cannot be decoded
//   - errs.ErrEmptyCorpus if the file, or its decoded content, is empty
func Load(path string, kind Kind) (*Corpus, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrUnreadableCorpus, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrEmptyCorpus, path)
	}

	container := DetectContainer(path)
	data, err := decodeContainer(container, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s: %w", errs.ErrCorruptContainer, path, container, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s (after %s decoding)", errs.ErrEmptyCorpus, path, container)
	}

	return newCorpus(data, kind, path), nil
}

// Save writes data to path, wrapped in the container implied by the
// file extension.
func Save(path string, data []byte) error {
	encoded, err := encodeContainer(DetectContainer(path), data)
	if err != nil {
		return fmt.Errorf("corpus: encode %s: %w", path, err)
	}

	return os.WriteFile(path, encoded, 0o644)
}

// Load returns c itself, so an in-memory corpus can be used as a Source.
func (c *Corpus) Load() (*Corpus, error) {
	if c == nil || len(c.data) == 0 {
		return nil, errs.ErrEmptyCorpus
	}

	return c, nil
}

// Bytes returns the corpus content.
//
// The slice is shared by every caller and must not be modified.
func (c *Corpus) Bytes() []byte {
	return c.data
}

// Len returns the corpus size in bytes.
func (c *Corpus) Len() int {
	return len(c.data)
}

// Kind returns the corpus kind.
func (c *Corpus) Kind() Kind {
	return c.kind
}

// Path returns the file the corpus was loaded from, empty for in-memory corpora.
func (c *Corpus) Path() string {
	return c.path
}

// Checksum returns the xxHash64 of the corpus content.
func (c *Corpus) Checksum() uint64 {
	return c.sum
}

// Verify reports whether data has the same length and checksum as the corpus.
func (c *Corpus) Verify(data []byte) bool {
	return len(data) == len(c.data) && hash.Sum(data) == c.sum
}

// File is a Source that loads a corpus file.
type File struct {
	Path string
	Kind Kind
}

var _ Source = File{}

// Load implements Source.
func (f File) Load() (*Corpus, error) {
	if f.Path == "" {
		return nil, fmt.Errorf("%w: empty path", errs.ErrUnsupportedSource)
	}

	return Load(f.Path, f.Kind)
}
