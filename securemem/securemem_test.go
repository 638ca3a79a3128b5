package securemem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIsZeroed(t *testing.T) {
	b := New(128)
	defer b.Close()
	require.Equal(t, 128, b.Len())
	require.Equal(t, make([]byte, 128), b.Bytes())
}

func TestFromBytesZeroesSource(t *testing.T) {
	src := []byte("top secret key material")
	want := string(src)
	b := FromBytes(src)
	defer b.Close()
	require.Equal(t, want, string(b.Bytes()))
	require.Equal(t, make([]byte, len(want)), src)
}

func TestWipe(t *testing.T) {
	b := FromBytes([]byte{1, 2, 3})
	defer b.Close()
	b.Wipe()
	require.Equal(t, []byte{0, 0, 0}, b.Bytes())
}

func TestCloseReleasesOnce(t *testing.T) {
	b := FromBytes([]byte{9, 9, 9, 9})
	require.NoError(t, b.Close())
	require.Nil(t, b.Bytes())
	require.Equal(t, 0, b.Len())
	require.False(t, b.Locked())
	require.NoError(t, b.Close())
}

func TestZeroSize(t *testing.T) {
	b := New(0)
	require.NotNil(t, b.Bytes())
	require.Equal(t, 0, b.Len())
	require.NoError(t, b.Close())

	e := FromBytes(nil)
	require.Equal(t, 0, e.Len())
	require.NoError(t, e.Close())
}

func TestNegativeSizePanics(t *testing.T) {
	require.Panics(t, func() { New(-1) })
}
