// Package cbor implements a compact self-describing binary codec over a
// stream of typed data items.
//
// The wire framing implemented here is a non-canonical scheme: it uses the
// same major-type/additional-information shape as RFC 7049 but different
// width-escape thresholds (0x1c-0x1f rather than 24-27) and different prefix
// bytes for booleans, null, undefined, and floats. Treat this package as its
// own ground truth for bit-exact compatibility; it does not interoperate
// with an RFC 7049 CBOR implementation. See framing.go for the framing table.
package cbor

import "github.com/creachadair/cbor/errs"

// Item is the in-memory representation of a single decoded data item. The
// concrete type of an Item identifies its CBOR major type; see the variant
// list below. Items produced by Decode are immutable from the codec's
// perspective and fully owned by the caller once returned.
type Item interface {
	// itemVariant is unexported so Item can only be implemented by the
	// variant types in this package.
	itemVariant()
}

// Unsigned is a non-negative integer item (major type 0).
type Unsigned uint64

func (Unsigned) itemVariant() {}

// Negative is a negative integer item (major type 1). The stored value is
// the actual (negative) integer, not the wire operand: Negative(-1) decodes
// from a wire operand of 0, Negative(-n-1) from operand n.
type Negative int64

func (Negative) itemVariant() {}

// Bytes is a raw byte-sequence item (major type 2).
type Bytes []byte

func (Bytes) itemVariant() {}

// Text is a UTF-8 string item (major type 3). UTF-8 well-formedness is not
// enforced on decode.
type Text string

func (Text) itemVariant() {}

// Array is an ordered sequence of items (major type 4).
type Array []Item

func (Array) itemVariant() {}

// MapEntry is one key/value pair of a Map, in the order it was written.
type MapEntry struct {
	Key   Item
	Value Item
}

// Map is an ordered sequence of key/value pairs (major type 5). Duplicate
// keys are permitted; ToGoMap resolves them last-write-wins.
type Map []MapEntry

func (Map) itemVariant() {}

// ToGoMap reconstructs m into a Go map keyed by each key's Item value, for
// callers that want direct lookup instead of ordered pairs. Keys must be
// comparable: a Bytes, Array or Map key makes ToGoMap panic.
// Duplicate keys resolve last-write-wins, per spec: later entries overwrite
// earlier ones with the same key.
func (m Map) ToGoMap() map[Item]Item {
	out := make(map[Item]Item, len(m))
	for _, e := range m {
		out[e.Key] = e.Value
	}
	return out
}

// Simple is an unallocated/simple-value wrapper carrying an integer in
// [0, 255] (major type 6 in this codec's custom scheme; see framing.go).
type Simple uint8

func (Simple) itemVariant() {}

// NewSimple validates v and returns it as a Simple. Simple values must lie
// in [0, 255]; values outside that range fail with a Range error (this
// matters for callers who construct a Simple from a wider-than-byte integer,
// since the Go type itself cannot represent an out-of-range value directly).
func NewSimple(v int) (Simple, error) {
	if v < 0 || v > 255 {
		return 0, errs.WithRange("simple value out of range")
	}
	return Simple(v), nil
}

// Tagged is a numeric tag together with the single inner item it annotates
// (major type 7). Decode enforces that a Tagged's Value is never itself a
// Tagged: tag nesting depth is at most one.
type Tagged struct {
	Tag   uint64
	Value Item
}

func (Tagged) itemVariant() {}

// Bool is a boolean item.
type Bool bool

func (Bool) itemVariant() {}

// Null is the null sentinel item. There is exactly one value of this type.
type Null struct{}

func (Null) itemVariant() {}

// Undefined is the "absent" sentinel item. There is exactly one value of
// this type.
type Undefined struct{}

func (Undefined) itemVariant() {}

// Float is an IEEE-754 floating point item, decoded from half-, single-, or
// double-precision wire representations and always represented in full
// double precision in memory.
type Float float64

func (Float) itemVariant() {}
