// Package cborstream layers incremental byte delivery over package cbor's
// Decoder: it accepts asynchronous byte chunks, feeds them into a
// bytebuf.Buffer, and repeatedly asks the Decoder for the next top-level
// item, invoking a registered callback for each decoded item or error.
//
// The adapter runs entirely on the caller's goroutine — matching the
// codec's single-threaded cooperative model — so
// callbacks fire synchronously inside Write, never from a background
// worker.
package cborstream

import (
	"io"

	"github.com/creachadair/cbor"
	"github.com/creachadair/cbor/bytebuf"
	"github.com/creachadair/cbor/errs"
)

// Adapter is a write-sink that decodes a sequence of top-level CBOR items
// out of whatever bytes are written to it. It is not safe for concurrent
// use.
type Adapter struct {
	dec     *cbor.Decoder
	buf     *bytebuf.Buffer
	onMsg   func(cbor.Item, *uint64)
	onErr   func(error)
	stopped bool
	pending bool // a decode is suspended waiting for more bytes
}

// New returns an Adapter using dec's semantic tag registry. If dec is nil,
// a default Decoder is used.
func New(dec *cbor.Decoder) *Adapter {
	if dec == nil {
		dec = cbor.NewDecoder()
	}
	return &Adapter{dec: dec, buf: bytebuf.New()}
}

// OnMessage registers the callback invoked for each successfully decoded
// top-level item. unknownTag is non-nil when the item was delivered as the
// inner value of a tag with no registered TagDecoder.
func (a *Adapter) OnMessage(fn func(item cbor.Item, unknownTag *uint64)) { a.onMsg = fn }

// OnError registers the callback invoked when a decode fails. After an
// error, the Adapter stops advancing: no further Write calls attempt to
// decode.
func (a *Adapter) OnError(fn func(error)) { a.onErr = fn }

// Write feeds p into the adapter and decodes as many top-level items as p
// completes, invoking the registered callbacks synchronously for each. It
// always reports (len(p), nil): decode failures surface via OnError, not as
// a Write error, matching io.Writer's contract so an Adapter can sit behind
// io.Copy.
func (a *Adapter) Write(p []byte) (int, error) {
	if a.stopped {
		return len(p), nil
	}
	a.buf.Feed(p)
	a.advance()
	return len(p), nil
}

// Close signals that no further bytes are coming. An item left mid-decode
// fires OnError with a Truncation error.
func (a *Adapter) Close() {
	a.buf.Close()
	a.advance()
}

// advance decodes as many complete top-level items as are currently
// buffered, stopping as soon as a decode suspends waiting for more bytes
// (or an error stops the adapter for good). A suspended decode resumes from
// the buffer's own queued wait when more bytes arrive; no new decode starts
// until it completes.
func (a *Adapter) advance() {
	for !a.stopped && !a.pending && a.buf.Len() > 0 {
		a.pending = true
		a.dec.Unpack(a.buf, 0, func(err error, v cbor.Item, tag *uint64) {
			a.pending = false
			if err != nil {
				a.stopped = true
				if a.onErr != nil {
					a.onErr(err)
				}
				return
			}
			if a.onMsg != nil {
				a.onMsg(v, tag)
			}
		})
	}
}

// DecodeOne is the one-shot convenience decoder: it reads r until the first
// top-level item is decoded (or an error, or end of stream) and returns
// that outcome, discarding any further bytes in r.
func DecodeOne(r io.Reader) (cbor.Item, error) {
	a := New(nil)

	var (
		result Item
		got    bool
	)
	a.OnMessage(func(v cbor.Item, _ *uint64) {
		if !got {
			result = Item{Value: v}
			got = true
		}
	})
	a.OnError(func(err error) {
		if !got {
			result = Item{Err: err}
			got = true
		}
	})

	chunk := make([]byte, 4096)
	for !got {
		n, err := r.Read(chunk)
		if n > 0 {
			a.Write(chunk[:n])
			if got {
				break
			}
		}
		if err != nil {
			if err == io.EOF {
				a.Close()
				if !got {
					return nil, errs.WithTruncation("end of file")
				}
				break
			}
			return nil, err
		}
	}
	return result.Value, result.Err
}

// Item is an internal result slot used by DecodeOne to carry either a
// decoded value or an error out of the synchronous callback.
type Item struct {
	Value cbor.Item
	Err   error
}
