// Package buf provides the growable byte buffer that backs all inode
// content: raw file bytes for regular files and packed entry records for
// directories. A Buf owns its storage; the zero value is an empty buffer
// ready for use.
package buf

import "errors"

var (
	// ErrTooLarge is returned when an operation would grow the buffer
	// past its configured limit.
	ErrTooLarge = errors.New("buf: buffer limit exceeded")
	// ErrOutOfRange is returned for removals outside the buffer bounds.
	ErrOutOfRange = errors.New("buf: range out of bounds")
)

// minCap is the smallest backing allocation.
const minCap = 64

// Buf is a dynamically growable byte sequence.
type Buf struct {
	data  []byte
	limit int // maximum size in bytes; 0 means unlimited
}

// SetLimit caps the buffer size at n bytes. A limit of 0 removes the cap.
// The limit only constrains future growth; it does not shrink the buffer.
func (b *Buf) SetLimit(n int) {
	b.limit = n
}

// Data returns the buffer contents. The slice aliases the buffer's storage
// and is invalidated by any mutating call.
func (b *Buf) Data() []byte {
	return b.data
}

// Len returns the current size in bytes.
func (b *Buf) Len() int {
	return len(b.data)
}

// Resize sets the buffer size to n bytes. Growing zero-fills the new bytes;
// shrinking keeps the prefix and releases nothing.
func (b *Buf) Resize(n int) error {
	if n < 0 {
		return ErrOutOfRange
	}
	if b.limit > 0 && n > b.limit {
		return ErrTooLarge
	}
	if n <= len(b.data) {
		b.data = b.data[:n]
		return nil
	}
	if n <= cap(b.data) {
		// Reslicing may expose stale bytes from an earlier shrink or
		// removal; zero them.
		old := len(b.data)
		b.data = b.data[:n]
		clear(b.data[old:])
		return nil
	}
	grown := make([]byte, n, growCap(cap(b.data), n))
	copy(grown, b.data)
	b.data = grown
	return nil
}

// Append adds p to the end of the buffer.
func (b *Buf) Append(p []byte) error {
	old := len(b.data)
	if err := b.Resize(old + len(p)); err != nil {
		return err
	}
	copy(b.data[old:], p)
	return nil
}

// Remove deletes n bytes starting at pos, shifting the tail down.
func (b *Buf) Remove(pos, n int) error {
	if pos < 0 || n < 0 || pos+n > len(b.data) {
		return ErrOutOfRange
	}
	copy(b.data[pos:], b.data[pos+n:])
	b.data = b.data[:len(b.data)-n]
	return nil
}

// Clear empties the buffer, keeping its storage for reuse.
func (b *Buf) Clear() {
	b.data = b.data[:0]
}

// Release empties the buffer and drops its storage.
func (b *Buf) Release() {
	b.data = nil
}

func growCap(cur, need int) int {
	c := cur * 2
	if c < minCap {
		c = minCap
	}
	if c < need {
		c = need
	}
	return c
}
