// Package buffer provides the growable output buffer engines write into.
//
// A Buffer is owned by exactly one engine call. It is never pooled: the
// returned bytes belong to the caller and must not alias another call's
// output.
package buffer

import (
	"errors"
	"io"
)

// minGrow is the smallest growth step for small buffers.
const minGrow = 16 * 1024

// Buffer is an append-only byte buffer that implements io.Writer and
// io.ReaderFrom.
type Buffer struct {
	// B is the underlying byte slice.
	B []byte
}

// New creates an empty Buffer with the given initial capacity.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}

	return &Buffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the written bytes.
func (b *Buffer) Bytes() []byte {
	return b.B
}

// Len returns the number of written bytes.
func (b *Buffer) Len() int {
	return len(b.B)
}

// Cap returns the capacity of the buffer.
func (b *Buffer) Cap() int {
	return cap(b.B)
}

// Grow ensures the buffer can hold n more bytes without reallocating.
//
// Small buffers grow by at least minGrow, larger ones by 25% of their
// capacity, whichever is larger than n.
func (b *Buffer) Grow(n int) {
	if cap(b.B)-len(b.B) >= n {
		return
	}

	growBy := minGrow
	if cap(b.B) > 4*minGrow {
		growBy = cap(b.B) / 4
	}
	if growBy < n {
		growBy = n
	}

	grown := make([]byte, len(b.B), len(b.B)+growBy)
	copy(grown, b.B)
	b.B = grown
}

// Write appends data to the buffer.
func (b *Buffer) Write(data []byte) (int, error) {
	b.Grow(len(data))
	b.B = append(b.B, data...)

	return len(data), nil
}

// ReadFrom reads r until EOF, appending to the buffer.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		if cap(b.B) == len(b.B) {
			b.Grow(minGrow)
		}

		n, err := r.Read(b.B[len(b.B):cap(b.B)])
		if n < 0 {
			return total, errors.New("buffer: reader returned negative count")
		}
		b.B = b.B[:len(b.B)+n]
		total += int64(n)

		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
