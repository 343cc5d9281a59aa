package cbor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Internal test (package cbor, not cbor_test) because dateItem is
// unexported: decodeDateTag's result can only be type-asserted from inside
// the package.

func TestDecodeDateTagFromText(t *testing.T) {
	d := NewDecoder()
	packed, err := NewEncoder().Pack(Tagged{Tag: TagDate, Value: Text("2020-01-02T03:04:05Z")})
	require.NoError(t, err)

	item, _, err := d.Decode(packed, 0)
	require.NoError(t, err)

	got, ok := item.(dateItem)
	require.True(t, ok)
	require.True(t, got.Time.Equal(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestDecodeDateTagFromUnsigned(t *testing.T) {
	d := NewDecoder()
	packed, err := NewEncoder().Pack(Tagged{Tag: TagDate, Value: Unsigned(1000)})
	require.NoError(t, err)

	item, _, err := d.Decode(packed, 0)
	require.NoError(t, err)

	got, ok := item.(dateItem)
	require.True(t, ok)
	require.Equal(t, int64(1000000), got.Time.UnixMilli())
}

func TestDecodeDateTagWrongInnerType(t *testing.T) {
	d := NewDecoder()
	packed, err := NewEncoder().Pack(Tagged{Tag: TagDate, Value: Bool(true)})
	require.NoError(t, err)

	_, _, err = d.Decode(packed, 0)
	require.Error(t, err)
}
