package bytebuf_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/creachadair/cbor/bytebuf"
	"github.com/creachadair/cbor/errs"
)

func TestWaitSynchronousWhenDataPresent(t *testing.T) {
	b := bytebuf.New()
	b.Append([]byte("hello"))

	var got []byte
	called := false
	b.Wait(5, func(data []byte, err error) {
		called = true
		got = data
		require.NoError(t, err)
	})
	require.True(t, called, "Wait should serve synchronously once enough bytes are present")
	require.Equal(t, []byte("hello"), got)
}

func TestWaitQueuesUntilFed(t *testing.T) {
	b := bytebuf.New()

	var got []byte
	called := false
	b.Wait(5, func(data []byte, err error) {
		called = true
		got = data
		require.NoError(t, err)
	})
	require.False(t, called, "Wait must queue when not enough bytes are buffered yet")

	b.Feed([]byte("hel"))
	require.False(t, called, "partial feed must not satisfy the wait")

	b.Feed([]byte("lo"))
	require.True(t, called)
	require.Equal(t, []byte("hello"), got)
}

func TestWaitFIFOOrdering(t *testing.T) {
	b := bytebuf.New()

	var order []int
	b.Wait(2, func(data []byte, err error) { order = append(order, 1) })
	b.Wait(3, func(data []byte, err error) { order = append(order, 2) })
	b.Wait(1, func(data []byte, err error) { order = append(order, 3) })

	// Feeding exactly enough for the first two waiters, but not the third,
	// must not let the third (smaller) request jump ahead of the second.
	b.Feed([]byte{1, 2, 3, 4, 5})
	require.Equal(t, []int{1, 2}, order)

	b.Feed([]byte{6})
	require.Equal(t, []int{1, 2, 3}, order)
}

func TestFromBytesClosedTruncation(t *testing.T) {
	b := bytebuf.FromBytes([]byte{1, 2, 3})

	called := false
	b.Wait(3, func(data []byte, err error) {
		called = true
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3}, data)
	})
	require.True(t, called)

	// The buffer is now exhausted and closed: a further request must fail
	// immediately rather than queue forever.
	called = false
	var gotErr error
	b.Wait(1, func(data []byte, err error) {
		called = true
		gotErr = err
	})
	require.True(t, called)
	require.True(t, errors.Is(gotErr, errs.Truncation))
}

func TestCloseFailsPendingWaiters(t *testing.T) {
	b := bytebuf.New()
	b.Feed([]byte{1, 2})

	var gotErr error
	called := false
	b.Wait(5, func(data []byte, err error) {
		called = true
		gotErr = err
	})
	require.False(t, called)

	b.Close()
	require.True(t, called)
	require.True(t, errors.Is(gotErr, errs.Truncation))
}

func TestCloseServesSatisfiableWaiters(t *testing.T) {
	b := bytebuf.New()

	// An unsatisfiable wait at the front keeps the second one queued even
	// once its three bytes have arrived.
	b.Wait(5, func(data []byte, err error) {})
	var got []byte
	called := false
	b.Wait(3, func(data []byte, err error) {
		called = true
		got = data
		require.NoError(t, err)
	})
	b.Feed([]byte{1, 2, 3})
	require.False(t, called)

	b.Close()
	require.True(t, called)
	require.Equal(t, []byte{1, 2, 3}, got)
}

func TestWaitNegativeLength(t *testing.T) {
	b := bytebuf.New()
	var gotErr error
	b.Wait(-1, func(data []byte, err error) { gotErr = err })
	require.True(t, errors.Is(gotErr, errs.Usage))
}

func TestLenAndBytes(t *testing.T) {
	b := bytebuf.New()
	b.Append([]byte("abc"))
	require.Equal(t, 3, b.Len())
	require.Equal(t, []byte("abc"), b.Bytes())

	b.Wait(1, func(data []byte, err error) {})
	require.Equal(t, 2, b.Len())
	require.Equal(t, []byte("bc"), b.Bytes())
}
