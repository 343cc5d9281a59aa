package cbor

import (
	"io"
	"reflect"
	"regexp"
	"time"

	"github.com/creachadair/cbor/bytebuf"
	"github.com/creachadair/cbor/errs"
)

// installDefaults registers the built-in semantic type encoders in the
// dispatch order named by spec: Array, Date, Bytes, BufferStream, RegExp,
// Simple.
func (e *Encoder) installDefaults() {
	e.AddSemanticType("array", TypeEncoder{Match: isArrayLike, Encode: encodeArray})
	e.AddSemanticType("date", TypeEncoder{Match: isTime, Encode: encodeDate})
	e.AddSemanticType("bytes", TypeEncoder{Match: isByteSlice, Encode: encodeBytes})
	e.AddSemanticType("bufferstream", TypeEncoder{Match: isBufferStream, Encode: encodeBufferStream})
	e.AddSemanticType("regexp", TypeEncoder{Match: isRegexp, Encode: encodeRegexp})
	e.AddSemanticType("simple", TypeEncoder{Match: isSimple, Encode: encodeSimple})
}

// asBytesLike reports whether v is a raw byte payload -- either a plain
// []byte or the library's own Bytes Item -- and returns its bytes.
func asBytesLike(v any) ([]byte, bool) {
	switch t := v.(type) {
	case []byte:
		return t, true
	case Bytes:
		return []byte(t), true
	}
	return nil, false
}

func isArrayLike(v any) bool {
	if _, ok := asBytesLike(v); ok {
		return false // handled by the Bytes encoder instead
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func encodeArray(e *Encoder, buf *bytebuf.Buffer, v any) error {
	val := reflect.ValueOf(v)
	if err := packInt(buf, uint64(val.Len()), mtArray); err != nil {
		return err
	}
	for i := 0; i < val.Len(); i++ {
		if err := e.pack(val.Index(i).Interface(), buf); err != nil {
			return err
		}
	}
	return nil
}

func isTime(v any) bool {
	_, ok := v.(time.Time)
	return ok
}

// encodeDate frames a time.Time under the Date tag shortcut (prefix byte
// 0xeb in this codec's scheme, equivalent to Tagged{TagDate, seconds}),
// recursively packing the UNIX epoch seconds as a number.
func encodeDate(e *Encoder, buf *bytebuf.Buffer, v any) error {
	t := v.(time.Time)
	if err := packInt(buf, TagDate, mtTagged); err != nil {
		return err
	}
	return e.pack(float64(t.Unix()), buf)
}

func isByteSlice(v any) bool {
	_, ok := asBytesLike(v)
	return ok
}

func encodeBytes(e *Encoder, buf *bytebuf.Buffer, v any) error {
	data, _ := asBytesLike(v)
	return e.packRawBytes(buf, data)
}

// packRawBytes frames a raw byte payload under major type 2, optionally
// compressing it first (see compress.go) when the Encoder was built with
// WithCompression and the payload is large enough to be worth it.
func (e *Encoder) packRawBytes(buf *bytebuf.Buffer, data []byte) error {
	if e.compression != nil && len(data) >= e.compression.threshold {
		compressed, err := e.compression.compress(data)
		if err == nil && len(compressed) < len(data) {
			if err := packInt(buf, TagZstdBytes, mtTagged); err != nil {
				return err
			}
			return e.packPlainBytes(buf, compressed)
		}
	}
	return e.packPlainBytes(buf, data)
}

func (e *Encoder) packPlainBytes(buf *bytebuf.Buffer, data []byte) error {
	if err := packInt(buf, uint64(len(data)), mtBytes); err != nil {
		return err
	}
	buf.Append(data)
	return nil
}

func isBufferStream(v any) bool {
	switch v.(type) {
	case io.Reader, *bytebuf.Buffer:
		return true
	}
	return false
}

// encodeBufferStream flattens a stream-like source and encodes it
// identically to Bytes, per spec.
func encodeBufferStream(e *Encoder, buf *bytebuf.Buffer, v any) error {
	var data []byte
	switch t := v.(type) {
	case *bytebuf.Buffer:
		data = t.Bytes()
	case io.Reader:
		var err error
		data, err = io.ReadAll(t)
		if err != nil {
			return errs.WithType("reading buffer stream: " + err.Error())
		}
	}
	return e.packRawBytes(buf, data)
}

func isRegexp(v any) bool {
	_, ok := v.(*regexp.Regexp)
	return ok
}

// encodeRegexp frames a *regexp.Regexp under the RegExp tag shortcut
// (prefix byte 0xf7, equivalent to Tagged{TagRegexp, source}).
func encodeRegexp(e *Encoder, buf *bytebuf.Buffer, v any) error {
	r := v.(*regexp.Regexp)
	if err := packInt(buf, TagRegexp, mtTagged); err != nil {
		return err
	}
	return e.packText(buf, r.String())
}

func isSimple(v any) bool {
	_, ok := v.(Simple)
	return ok
}

func encodeSimple(e *Encoder, buf *bytebuf.Buffer, v any) error {
	return packInt(buf, uint64(v.(Simple)), mtSimple)
}
