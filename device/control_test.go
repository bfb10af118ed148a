package device

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sparsego"
)

func TestControl_ConfigQueries(t *testing.T) {
	store, err := sparsego.New(
		sparsego.WithQuantumSize(4000),
		sparsego.WithTableCapacity(1000),
	)
	require.NoError(t, err)

	dev := Open(store, ReadWrite)

	out, err := dev.Control(GetQuantumSize)
	require.NoError(t, err)
	require.Len(t, out, 4)
	require.Equal(t, uint32(4000), binary.LittleEndian.Uint32(out))

	out, err = dev.Control(GetTableCapacity)
	require.NoError(t, err)
	require.Equal(t, uint32(1000), binary.LittleEndian.Uint32(out))
}

func TestControl_RejectsForeignMagic(t *testing.T) {
	store, err := sparsego.New()
	require.NoError(t, err)

	dev := Open(store, ReadWrite)

	// Same number, wrong type tag.
	cmd := ctlRead<<ctlDirShift | 0x61<<ctlTypeShift | 4<<ctlSizeShift | 5
	_, err = dev.Control(cmd)
	require.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestControl_RejectsOutOfRangeNumber(t *testing.T) {
	store, err := sparsego.New()
	require.NoError(t, err)

	dev := Open(store, ReadWrite)

	_, err = dev.Control(ctlR(7, 4))
	require.ErrorIs(t, err, ErrUnsupportedOperation)

	_, err = dev.Control(ctlR(255, 4))
	require.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestControl_RejectsUndefinedNumberInRange(t *testing.T) {
	store, err := sparsego.New()
	require.NoError(t, err)

	dev := Open(store, ReadWrite)

	// Numbers 0-4 carry the right magic and are within the maximum,
	// but no query is defined for them.
	for nr := uint32(0); nr <= 4; nr++ {
		_, err := dev.Control(ctlR(nr, 4))
		require.ErrorIs(t, err, ErrUnsupportedOperation)
	}
}

func TestControl_SelectorEncoding(t *testing.T) {
	// Pins the reference bit layout: number 5, magic 0x60, size 4,
	// direction read.
	require.Equal(t, uint32(2)<<30|uint32(4)<<16|uint32(0x60)<<8|5, GetQuantumSize)
	require.Equal(t, uint32(2)<<30|uint32(4)<<16|uint32(0x60)<<8|6, GetTableCapacity)
}
