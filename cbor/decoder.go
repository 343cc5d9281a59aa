package cbor

import (
	"encoding/binary"
	"math"

	"github.com/creachadair/cbor/bytebuf"
	"github.com/creachadair/cbor/errs"
)

// maxContainerElements bounds the element count of an Array or Map read
// directly off the wire. An attacker-controlled count otherwise lets a
// handful of header bytes claim an arbitrarily large allocation; this cap
// turns that into an ordinary Range error instead. It is deliberately far
// above any realistic legitimate payload.
const maxContainerElements = 1 << 20

// Decoder reconstructs Item values from framed CBOR bytes. The zero value
// is not usable; construct one with NewDecoder so the default tag registry
// (11 Date, 15 URI, 23 RegExp, plus the internal zstd-bytes tag) is in
// place.
type Decoder struct {
	tagRegistry []tagRegistryEntry
}

// NewDecoder returns a Decoder with the default tag registry installed.
func NewDecoder() *Decoder {
	d := &Decoder{}
	d.installDefaultTags()
	return d
}

// Unpack decodes a single top-level item from source, which must be either
// a raw []byte (offset selects the starting position) or a *bytebuf.Buffer.
// cb receives the decoded Item, or an error; for an item tagged with a
// number that has no registered TagDecoder, cb's third argument carries
// that tag number alongside the passed-through inner Item.
func (d *Decoder) Unpack(source any, offset int, cb func(err error, value Item, unknownTag *uint64)) {
	if cb == nil {
		return
	}
	buf, err := asBuffer(source, offset)
	if err != nil {
		cb(err, nil, nil)
		return
	}
	d.unpack(buf, false, cb)
}

// Decode is a synchronous convenience over Unpack for callers holding the
// complete input (or a Buffer that will never need to suspend).
func (d *Decoder) Decode(source any, offset int) (Item, *uint64, error) {
	var (
		item Item
		tag  *uint64
		err  error
	)
	d.Unpack(source, offset, func(e error, v Item, t *uint64) {
		item, tag, err = v, t, e
	})
	return item, tag, err
}

// Unpack is the package-level one-shot convenience: a default Decoder
// decoding a single item from source.
func Unpack(source any, offset int, cb func(err error, value Item, unknownTag *uint64)) {
	NewDecoder().Unpack(source, offset, cb)
}

// Decode is the package-level synchronous convenience: a default Decoder
// decoding a single item from source.
func Decode(source any, offset int) (Item, *uint64, error) {
	return NewDecoder().Decode(source, offset)
}

func asBuffer(source any, offset int) (*bytebuf.Buffer, error) {
	switch t := source.(type) {
	case []byte:
		if offset < 0 || offset > len(t) {
			return nil, errs.WithUsage("offset out of range")
		}
		return bytebuf.FromBytes(t[offset:]), nil
	case *bytebuf.Buffer:
		return t, nil
	default:
		return nil, errs.WithUsage("source must be []byte or *bytebuf.Buffer")
	}
}

// unpack is the decode loop (_unpack in spec terms). tagged is true exactly
// when this call is decoding the item immediately inside a Tagged item; it
// enforces the depth-one tag nesting invariant and is reset for each
// element of an Array or Map.
func (d *Decoder) unpack(buf *bytebuf.Buffer, tagged bool, cb func(error, Item, *uint64)) {
	buf.Wait(1, func(b []byte, err error) {
		if err != nil {
			cb(err, nil, nil)
			return
		}
		initial := b[0]
		mt := initial >> 5
		ai := initial & 0x1f
		d.afterInitial(buf, mt, ai, tagged, cb)
	})
}

func (d *Decoder) afterInitial(buf *bytebuf.Buffer, mt, ai byte, tagged bool, cb func(error, Item, *uint64)) {
	additionalBytes := int(ai) - aiUint8
	if additionalBytes < 0 {
		if mt == mtSimple {
			d.decodeSimpleOrFloat(ai, nil, cb)
			return
		}
		d.dispatch(buf, mt, uint64(ai), tagged, cb)
		return
	}
	n := 1 << additionalBytes
	buf.Wait(n, func(bs []byte, err error) {
		if err != nil {
			cb(err, nil, nil)
			return
		}
		if mt == mtSimple {
			d.decodeSimpleOrFloat(ai, bs, cb)
			return
		}
		d.dispatch(buf, mt, decodeBEUint(bs), tagged, cb)
	})
}

// decodeBEUint interprets a 1-, 2-, 4-, or 8-byte big-endian byte string as
// an unsigned integer, combining the high and low 32-bit halves for the
// 8-byte case per spec ("high*2^32 + low").
func decodeBEUint(bs []byte) uint64 {
	switch len(bs) {
	case 1:
		return uint64(bs[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(bs))
	case 4:
		return uint64(binary.BigEndian.Uint32(bs))
	case 8:
		high := binary.BigEndian.Uint32(bs[:4])
		low := binary.BigEndian.Uint32(bs[4:])
		return uint64(high)*(1<<32) + uint64(low)
	}
	return 0
}

func (d *Decoder) decodeSimpleOrFloat(ai byte, payload []byte, cb func(error, Item, *uint64)) {
	switch {
	case ai <= aiSimpleMax:
		cb(nil, Simple(ai), nil)
	case ai == aiBoolFalse:
		cb(nil, Bool(false), nil)
	case ai == aiBoolTrue:
		cb(nil, Bool(true), nil)
	case ai == aiNull:
		cb(nil, Null{}, nil)
	case ai == aiUndefined:
		cb(nil, Undefined{}, nil)
	case ai == aiSimpleByte:
		cb(nil, Simple(payload[0]), nil)
	case ai == aiFloat16:
		cb(nil, Float(decodeHalf(binary.BigEndian.Uint16(payload))), nil)
	case ai == aiFloat32:
		bits := binary.BigEndian.Uint32(payload)
		cb(nil, Float(float64(math.Float32frombits(bits))), nil)
	case ai == aiFloat64:
		bits := binary.BigEndian.Uint64(payload)
		cb(nil, Float(math.Float64frombits(bits)), nil)
	default:
		cb(errs.WithFraming("invalid additional information byte"), nil, nil)
	}
}

func (d *Decoder) dispatch(buf *bytebuf.Buffer, mt byte, num uint64, tagged bool, cb func(error, Item, *uint64)) {
	switch mt {
	case mtUnsigned:
		cb(nil, Unsigned(num), nil)

	case mtNegative:
		cb(nil, Negative(-1-int64(num)), nil)

	case mtBytes:
		buf.Wait(int(num), func(bs []byte, err error) {
			if err != nil {
				cb(err, nil, nil)
				return
			}
			cb(nil, Bytes(append([]byte{}, bs...)), nil)
		})

	case mtText:
		buf.Wait(int(num), func(bs []byte, err error) {
			if err != nil {
				cb(err, nil, nil)
				return
			}
			cb(nil, Text(string(bs)), nil)
		})

	case mtArray:
		if num > maxContainerElements {
			cb(errs.WithRange("array length too large"), nil, nil)
			return
		}
		d.decodeArray(buf, int(num), nil, cb)

	case mtMap:
		if num > maxContainerElements {
			cb(errs.WithRange("map length too large"), nil, nil)
			return
		}
		d.decodeMap(buf, int(num), nil, cb)

	case mtTagged:
		if tagged {
			cb(errs.WithProtocol("tag must not follow a tag"), nil, nil)
			return
		}
		tag := num
		d.unpack(buf, true, func(err error, inner Item, _ *uint64) {
			if err != nil {
				cb(err, nil, nil)
				return
			}
			d.applyTag(tag, inner, cb)
		})

	default:
		cb(errs.WithFraming("invalid major type"), nil, nil)
	}
}

func (d *Decoder) decodeArray(buf *bytebuf.Buffer, remaining int, acc Array, cb func(error, Item, *uint64)) {
	if remaining == 0 {
		cb(nil, acc, nil)
		return
	}
	d.unpack(buf, false, func(err error, v Item, _ *uint64) {
		if err != nil {
			cb(err, nil, nil)
			return
		}
		d.decodeArray(buf, remaining-1, append(acc, v), cb)
	})
}

func (d *Decoder) decodeMap(buf *bytebuf.Buffer, remaining int, acc Map, cb func(error, Item, *uint64)) {
	if remaining == 0 {
		cb(nil, acc, nil)
		return
	}
	d.unpack(buf, false, func(err error, key Item, _ *uint64) {
		if err != nil {
			cb(err, nil, nil)
			return
		}
		d.unpack(buf, false, func(err error, val Item, _ *uint64) {
			if err != nil {
				cb(err, nil, nil)
				return
			}
			d.decodeMap(buf, remaining-1, append(acc, MapEntry{Key: key, Value: val}), cb)
		})
	})
}

func (d *Decoder) applyTag(tag uint64, inner Item, cb func(error, Item, *uint64)) {
	dec, ok := d.lookupTag(tag)
	if !ok {
		t := tag
		cb(nil, inner, &t)
		return
	}
	out, err := dec(inner)
	if err != nil {
		cb(err, nil, nil)
		return
	}
	cb(nil, out, nil)
}
