package cbor_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/creachadair/cbor"
	"github.com/creachadair/cbor/errs"
)

func TestDecodeScenarios(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want cbor.Item
	}{
		{"zero", "00", cbor.Unsigned(0)},
		{"255", "1cff", cbor.Unsigned(255)},
		{"neg1", "20", cbor.Negative(-1)},
		{"text-a", "6161", cbor.Text("a")},
		{"array", "820102", cbor.Array{cbor.Unsigned(1), cbor.Unsigned(2)}},
		{"map", "a1616101", cbor.Map{{Key: cbor.Text("a"), Value: cbor.Unsigned(1)}}},
		{"true", "d9", cbor.Bool(true)},
		{"false", "d8", cbor.Bool(false)},
		{"null", "da", cbor.Null{}},
		{"undefined", "db", cbor.Undefined{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			item, _, err := cbor.Decode(hexBytes(t, test.hex), 0)
			require.NoError(t, err)
			require.Equal(t, test.want, item)
		})
	}
}

// wireFloat16 builds the wire encoding of a major-type-6 (simple/float)
// half-precision float: initial byte (6<<5)|29, followed by the big-endian
// bit pattern.
func wireFloat16(bits uint16) []byte {
	return []byte{0xdd, byte(bits >> 8), byte(bits)}
}

func TestDecodeHalfPrecisionTable(t *testing.T) {
	tests := []struct {
		bits uint16
		want float64
	}{
		{0x3c00, 1.0},
		{0xc000, -2.0},
		{0x7bff, 65504},
		{0x0400, 6.103515625e-5},
		{0x0000, 0},
	}
	for _, test := range tests {
		item, _, err := cbor.Decode(wireFloat16(test.bits), 0)
		require.NoErrorf(t, err, "bits=%#x", test.bits)
		f, ok := item.(cbor.Float)
		require.True(t, ok)
		require.Equal(t, test.want, float64(f))
	}
}

func TestDecodeHalfPrecisionSpecials(t *testing.T) {
	item, _, err := cbor.Decode(wireFloat16(0x8000), 0)
	require.NoError(t, err)
	f := float64(item.(cbor.Float))
	require.Equal(t, 0.0, f)
	require.True(t, math.Signbit(f))

	item, _, err = cbor.Decode(wireFloat16(0x7c00), 0)
	require.NoError(t, err)
	require.True(t, math.IsInf(float64(item.(cbor.Float)), 1))

	item, _, err = cbor.Decode(wireFloat16(0xfc00), 0)
	require.NoError(t, err)
	require.True(t, math.IsInf(float64(item.(cbor.Float)), -1))

	for _, bits := range []uint16{0x7c01, 0x7dff, 0xfc01, 0xfe00} {
		item, _, err := cbor.Decode(wireFloat16(bits), 0)
		require.NoErrorf(t, err, "bits=%#x", bits)
		require.Truef(t, math.IsNaN(float64(item.(cbor.Float))), "bits=%#x", bits)
	}
}

func TestDecodeTagDepth(t *testing.T) {
	// Tag 100 (mt7, ai28: one operand byte) wrapping tag 101 wrapping an
	// Unsigned(5) -- a tag must not directly wrap another tag.
	wire := []byte{0xfc, 0x64, 0xfc, 0x65, 0x05}
	_, _, err := cbor.Decode(wire, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.Protocol), "error: %v", err)
}

func TestDecodeTagInsideArrayResetsDepth(t *testing.T) {
	// Tag 100 wrapping an Array of 1 element, that element being tag 101
	// wrapping an Unsigned: the tagged-ness of the array's own framing must
	// not leak into its element.
	wire := []byte{0xfc, 0x64, 0x81, 0xfc, 0x65, 0x05}
	item, _, err := cbor.Decode(wire, 0)
	require.NoError(t, err)
	arr, ok := item.(cbor.Array)
	require.True(t, ok)
	require.Len(t, arr, 1)
	require.Equal(t, cbor.Unsigned(5), arr[0])
}

func TestDecodeUnknownTagPassthrough(t *testing.T) {
	wire := []byte{0xfc, 0x64, 0x05} // tag 100, inner Unsigned(5)
	item, tag, err := cbor.Decode(wire, 0)
	require.NoError(t, err)
	require.NotNil(t, tag)
	require.Equal(t, uint64(100), *tag)
	require.Equal(t, cbor.Unsigned(5), item)
}

func TestDecodeTruncatedBytesPayload(t *testing.T) {
	truncated := []byte{0x44} // mt2 (Bytes), length 4, payload missing entirely
	_, _, err := cbor.Decode(truncated, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.Truncation))
}

func TestDecodeTruncatedLengthOperand(t *testing.T) {
	truncated := []byte{0x1d, 0x01} // mt0, ai29 (2-byte operand), only 1 byte present
	_, _, err := cbor.Decode(truncated, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.Truncation))
}

func TestDecodeBytesRoundTrip(t *testing.T) {
	for _, data := range [][]byte{
		{},
		{0x00},
		[]byte("round trip me"),
		make([]byte, 300),
	} {
		packed, err := cbor.Pack(data)
		require.NoError(t, err)
		item, _, err := cbor.Decode(packed, 0)
		require.NoError(t, err)
		require.Equal(t, cbor.Bytes(data), item)
	}
}

func TestAddSemanticTagReplaces(t *testing.T) {
	d := cbor.NewDecoder()
	called := false
	prev, existed := d.AddSemanticTag(cbor.TagDate, func(inner cbor.Item) (cbor.Item, error) {
		called = true
		return inner, nil
	})
	require.True(t, existed)
	require.NotNil(t, prev)

	wire := []byte{0xeb, 0x00} // tag 11 (Date), inner Unsigned(0)
	item, _, err := d.Decode(wire, 0)
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, cbor.Unsigned(0), item)
}

func TestDecodeArrayLengthTooLarge(t *testing.T) {
	// mt4 (array), ai=30 (4-byte length), length = 0x7fffffff elements.
	wire := []byte{0x9e, 0x7f, 0xff, 0xff, 0xff}
	_, _, err := cbor.Decode(wire, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.Range))
}

func TestDecodeIntegerRoundTripAcrossFramingTiers(t *testing.T) {
	for _, n := range []int64{0, 1, 23, 24, 255, 256, 65535, 65536, 1<<31 - 1, -1, -24, -256, -65536, -(1 << 31)} {
		packed, err := cbor.Pack(n)
		require.NoErrorf(t, err, "Pack(%d)", n)
		item, _, err := cbor.Decode(packed, 0)
		require.NoErrorf(t, err, "Decode(Pack(%d))", n)
		if n >= 0 {
			require.Equal(t, cbor.Unsigned(n), item)
		} else {
			require.Equal(t, cbor.Negative(n), item)
		}
	}
}
