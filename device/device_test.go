package device

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sparsego"
	"github.com/hupe1980/sparsego/resource"
)

func newStore(t *testing.T, opts ...sparsego.Option) *sparsego.Store {
	t.Helper()

	store, err := sparsego.New(opts...)
	require.NoError(t, err)
	return store
}

func TestDevice_CursorReadWrite(t *testing.T) {
	store := newStore(t, sparsego.WithQuantumSize(8), sparsego.WithTableCapacity(2))
	dev := Open(store, ReadWrite)

	// Spans three quanta; the device loops over the clamped store calls.
	data := bytes.Repeat([]byte{0xAB}, 20)
	n, err := dev.Write(data)
	require.NoError(t, err)
	require.Equal(t, 20, n)
	require.Equal(t, int64(20), store.Len())

	pos, err := dev.Seek(0, io.SeekStart)
	require.NoError(t, err)
	require.Equal(t, int64(0), pos)

	buf := make([]byte, 20)
	n, err = dev.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 20, n)
	require.Equal(t, data, buf)

	// Cursor sits at the end now.
	n, err = dev.Read(buf)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 0, n)
}

func TestDevice_SequentialWritesAdvanceCursor(t *testing.T) {
	store := newStore(t, sparsego.WithQuantumSize(8), sparsego.WithTableCapacity(2))
	dev := Open(store, ReadWrite)

	_, err := dev.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = dev.Write([]byte("def"))
	require.NoError(t, err)

	_, err = dev.Seek(0, io.SeekStart)
	require.NoError(t, err)

	buf := make([]byte, 6)
	n, err := dev.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, []byte("abcdef"), buf)
}

func TestDevice_PReadPWrite(t *testing.T) {
	store := newStore(t, sparsego.WithQuantumSize(8), sparsego.WithTableCapacity(2))
	dev := Open(store, ReadWrite)

	n, err := dev.PWrite([]byte("xyz"), 5)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	// Positioned IO leaves the cursor alone.
	pos, err := dev.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	require.Equal(t, int64(0), pos)

	buf := make([]byte, 3)
	n, err = dev.PRead(buf, 5)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte("xyz"), buf)
}

func TestDevice_TruncatingOpen(t *testing.T) {
	store := newStore(t, sparsego.WithQuantumSize(8), sparsego.WithTableCapacity(2))

	_, err := store.Write([]byte("stale"), 0)
	require.NoError(t, err)

	Open(store, WriteOnly)
	require.Equal(t, int64(0), store.Len())
}

func TestDevice_AccessModes(t *testing.T) {
	store := newStore(t, sparsego.WithQuantumSize(8), sparsego.WithTableCapacity(2))

	ro := Open(store, ReadOnly)
	_, err := ro.Write([]byte("nope"))
	require.ErrorIs(t, err, ErrReadOnly)
	_, err = ro.PWrite([]byte("nope"), 0)
	require.ErrorIs(t, err, ErrReadOnly)

	wo := Open(store, WriteOnly)
	_, err = wo.Read(make([]byte, 1))
	require.ErrorIs(t, err, ErrWriteOnly)
	_, err = wo.PRead(make([]byte, 1), 0)
	require.ErrorIs(t, err, ErrWriteOnly)
}

func TestDevice_HoleReadsAsEOF(t *testing.T) {
	store := newStore(t, sparsego.WithQuantumSize(8), sparsego.WithTableCapacity(2))
	dev := Open(store, ReadWrite)

	// Data in the second quantum only; the cursor starts over a hole.
	_, err := dev.PWrite([]byte("late"), 8)
	require.NoError(t, err)

	n, err := dev.Read(make([]byte, 4))
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 0, n)

	// SeekData skips the hole to the backed region.
	pos, err := dev.SeekData()
	require.NoError(t, err)
	require.Equal(t, int64(8), pos)

	buf := make([]byte, 4)
	n, err = dev.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte("late"), buf)

	// Nothing backed after the data.
	_, err = dev.SeekData()
	require.ErrorIs(t, err, io.EOF)
}

func TestDevice_Seek(t *testing.T) {
	store := newStore(t, sparsego.WithQuantumSize(8), sparsego.WithTableCapacity(2))
	dev := Open(store, ReadWrite)

	_, err := dev.Write([]byte("0123456789"))
	require.NoError(t, err)

	pos, err := dev.Seek(-4, io.SeekEnd)
	require.NoError(t, err)
	require.Equal(t, int64(6), pos)

	buf := make([]byte, 4)
	n, err := dev.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte("6789"), buf)

	_, err = dev.Seek(-1, io.SeekStart)
	require.ErrorIs(t, err, ErrInvalidSeek)

	_, err = dev.Seek(0, 42)
	require.ErrorIs(t, err, ErrInvalidSeek)
}

func TestDevice_OutOfMemoryMidLoop(t *testing.T) {
	// Budget fits the chain bookkeeping and the first quantum, not the
	// second, so the device write loop stops partway through.
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 128})

	store := newStore(t,
		sparsego.WithQuantumSize(64),
		sparsego.WithTableCapacity(2),
		sparsego.WithController(ctrl),
	)
	dev := Open(store, ReadWrite)

	n, err := dev.Write(bytes.Repeat([]byte{1}, 100))
	require.ErrorIs(t, err, sparsego.ErrOutOfMemory)
	require.Equal(t, 64, n)
	require.Equal(t, int64(64), store.Len())
}

func TestDevice_ThrottledCopy(t *testing.T) {
	ctrl := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})

	store := newStore(t,
		sparsego.WithQuantumSize(8),
		sparsego.WithTableCapacity(2),
		sparsego.WithController(ctrl),
	)
	dev := Open(store, ReadWrite)

	data := bytes.Repeat([]byte{7}, 64)
	n, err := dev.Write(data)
	require.NoError(t, err)
	require.Equal(t, 64, n)

	_, err = dev.Seek(0, io.SeekStart)
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, err = dev.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 64, n)
	require.Equal(t, data, buf)
}
