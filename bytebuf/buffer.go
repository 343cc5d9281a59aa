// Package bytebuf implements the byte-accumulation and exact-length-read
// abstraction shared by the generator and parser halves of package cbor.
//
// A Buffer is an append-oriented accumulator on the write side, and an
// asynchronous "wait for N bytes" byte source on the read side. Callers that
// already hold the full input (the common case) get synchronous reads for
// free; callers feeding bytes incrementally (package cborstream) get queued
// waits that are served in FIFO order as bytes arrive.
package bytebuf

import (
	"encoding/binary"
	"math"

	"github.com/creachadair/cbor/errs"
)

// A Buffer accumulates written bytes and serves length-bounded reads against
// them. It is not safe for concurrent use; the codec's concurrency model is
// single-threaded cooperative.
type Buffer struct {
	data   []byte
	offset int

	// closed reports that no further bytes will ever be fed into the
	// buffer. A read that cannot be satisfied fails immediately instead of
	// queuing, which is how one-shot decodes over a fully-buffered input
	// turn "not enough bytes" into a synchronous Truncation error.
	closed  bool
	waiters []waiter
}

type waiter struct {
	n  int
	cb func([]byte, error)
}

// New returns an empty, open Buffer for accumulating output on the write
// side (the Generator's use case).
func New() *Buffer {
	return &Buffer{}
}

// FromBytes returns a Buffer preloaded with data and marked closed: it
// represents the entire remaining input, so a read past the end of data
// fails immediately rather than waiting for more bytes that will never
// arrive. This is how Decode wraps a raw byte slice.
func FromBytes(data []byte) *Buffer {
	return &Buffer{data: data, closed: true}
}

// Len reports the number of unread bytes currently buffered.
func (b *Buffer) Len() int { return len(b.data) - b.offset }

// Bytes flattens the buffer's accumulated (unread) bytes into a single
// contiguous slice. It does not consume them.
func (b *Buffer) Bytes() []byte {
	return b.data[b.offset:]
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(v byte) error {
	b.append([]byte{v})
	return nil
}

// WriteUint16 appends v as two big-endian bytes.
func (b *Buffer) WriteUint16(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	b.append(buf[:])
}

// WriteUint32 appends v as four big-endian bytes.
func (b *Buffer) WriteUint32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	b.append(buf[:])
}

// WriteFloat64 appends v as eight big-endian IEEE-754 bytes.
func (b *Buffer) WriteFloat64(v float64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	b.append(buf[:])
}

// WriteLengthPrefixedString appends a four-byte big-endian length prefix
// followed by the UTF-8 bytes of s. This is a generic buffer convenience;
// the CBOR item-length prefixes that package cbor emits for Text/Bytes use
// their own variable-width framing and do not call this method.
func (b *Buffer) WriteLengthPrefixedString(s string) {
	b.WriteUint32(uint32(len(s)))
	b.append([]byte(s))
}

// Append appends a raw byte sequence verbatim.
func (b *Buffer) Append(p []byte) {
	b.append(p)
}

func (b *Buffer) append(p []byte) {
	b.data = append(b.data, p...)
	b.drain()
}

// Wait requests the next n bytes from the buffer. If no other wait is pending
// and n bytes are already available, cb is invoked synchronously with them.
// Otherwise the request is queued and served, in FIFO order with any other
// pending waits, once enough bytes have been fed in. If the buffer is closed
// and cannot satisfy the request, cb is invoked immediately with a
// Truncation error.
func (b *Buffer) Wait(n int, cb func([]byte, error)) {
	if n < 0 {
		cb(nil, errs.WithUsage("negative read length"))
		return
	}
	if len(b.waiters) == 0 && b.Len() >= n {
		start := b.offset
		b.offset += n
		cb(b.data[start:b.offset], nil)
		return
	}
	if b.closed {
		cb(nil, errs.WithTruncation("unexpected end of input"))
		return
	}
	b.waiters = append(b.waiters, waiter{n: n, cb: cb})
}

// Feed appends data arriving from an external byte source and services any
// pending waits it newly satisfies, in FIFO order.
func (b *Buffer) Feed(data []byte) {
	b.data = append(b.data, data...)
	b.drain()
}

// Close marks the buffer as having received all of its input. Any wait that
// remains pending and cannot be satisfied is failed with a Truncation error;
// future reads that cannot be satisfied fail immediately instead of queuing.
func (b *Buffer) Close() {
	b.closed = true
	pending := b.waiters
	b.waiters = nil
	for _, w := range pending {
		if b.Len() >= w.n {
			start := b.offset
			b.offset += w.n
			w.cb(b.data[start:b.offset], nil)
		} else {
			w.cb(nil, errs.WithTruncation("unexpected end of input"))
		}
	}
}

// drain serves queued waits, in order, for as long as the front of the
// queue can be satisfied. It stops at the first unsatisfiable wait: waits
// are FIFO and a later, smaller request must not jump the queue.
func (b *Buffer) drain() {
	for len(b.waiters) > 0 {
		w := b.waiters[0]
		if b.Len() < w.n {
			return
		}
		b.waiters = b.waiters[1:]
		start := b.offset
		b.offset += w.n
		w.cb(b.data[start:b.offset], nil)
	}
}
