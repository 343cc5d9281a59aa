package cbor

// Major types, per this codec's non-canonical scheme (see package doc).
const (
	mtUnsigned = 0
	mtNegative = 1
	mtBytes    = 2
	mtText     = 3
	mtArray    = 4
	mtMap      = 5
	mtSimple   = 6 // also carries Bool/Null/Undefined/Float, keyed by ai
	mtTagged   = 7
)

// Additional-information width escapes. ai in [0, aiMax1] carries the
// operand inline; aiUint8/16/32/64 select how many trailing bytes (in
// ascending powers of two) carry the operand.
const (
	aiMax1   = 0x1b
	aiUint8  = 0x1c
	aiUint16 = 0x1d
	aiUint32 = 0x1e
	aiUint64 = 0x1f
)

// Distinctive prefix bytes for the primitive space under major type 6, and
// for tag shortcuts. These do not follow RFC 7049.
const (
	prefixFalse   = 0xd8
	prefixTrue    = 0xd9
	prefixNull    = 0xda
	prefixUndef   = 0xdb
	prefixFloat64 = 0xdf
	prefixDate    = 0xeb // tag 11 shortcut: inner is UNIX seconds as a number
	prefixRegexp  = 0xf7 // tag 23 shortcut: inner is pattern source as text
)

// Additional-information values in the simple/float space (major type 6).
const (
	aiSimpleMax  = 23 // ai 0..23: Simple(ai), no payload
	aiBoolFalse  = 24
	aiBoolTrue   = 25
	aiNull       = 26
	aiUndefined  = 27
	aiSimpleByte = 28 // 1 payload byte: Simple(byte)
	aiFloat16    = 29
	aiFloat32    = 30
	aiFloat64    = 31
)

// Default tag numbers recognized by the built-in tag-decode registry.
const (
	TagDate   = 11
	TagURI    = 15
	TagRegexp = 23
)

// maxInt31 is the largest operand the integer framing table in this codec
// can carry; encoding a larger value fails with a Range error.
const maxInt31 = 0x7fffffff
