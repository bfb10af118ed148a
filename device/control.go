package device

import (
	"encoding/binary"
	"errors"
)

// ErrUnsupportedOperation is returned by Control for a selector whose
// magic does not match, whose number is out of range, or that is
// otherwise undefined. It never reaches the store.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// Control selectors use the classic ioctl bit layout: number in bits
// 0-7, magic type in bits 8-15, payload size in bits 16-29, direction
// in bits 30-31.
const (
	ctlNrBits   = 8
	ctlTypeBits = 8

	ctlNrShift   = 0
	ctlTypeShift = ctlNrShift + ctlNrBits
	ctlSizeShift = ctlTypeShift + ctlTypeBits
	ctlDirShift  = 30

	ctlRead uint32 = 2
)

// Magic is the type tag embedded in every selector this device accepts.
const Magic = 0x60 // '`'

const maxNr = 6

func ctlR(nr, size uint32) uint32 {
	return ctlRead<<ctlDirShift | Magic<<ctlTypeShift | size<<ctlSizeShift | nr<<ctlNrShift
}

// The defined read-only configuration queries. Both return a 4-byte
// little-endian value.
var (
	// GetQuantumSize queries the store's quantum size.
	GetQuantumSize = ctlR(5, 4)

	// GetTableCapacity queries the store's table capacity.
	GetTableCapacity = ctlR(6, 4)
)

func ctlType(cmd uint32) uint32 {
	return (cmd >> ctlTypeShift) & (1<<ctlTypeBits - 1)
}

func ctlNr(cmd uint32) uint32 {
	return (cmd >> ctlNrShift) & (1<<ctlNrBits - 1)
}

// Control executes a read-only configuration query and returns its
// encoded result. Selectors with a foreign type tag or a number above
// the defined maximum fail with ErrUnsupportedOperation, as do numbers
// in range with no query defined.
func (d *Device) Control(cmd uint32) ([]byte, error) {
	if ctlType(cmd) != Magic {
		return nil, ErrUnsupportedOperation
	}
	if ctlNr(cmd) > maxNr {
		return nil, ErrUnsupportedOperation
	}

	switch cmd {
	case GetQuantumSize:
		return le32(d.store.QuantumSize()), nil
	case GetTableCapacity:
		return le32(d.store.TableCapacity()), nil
	default:
		return nil, ErrUnsupportedOperation
	}
}

func le32(v uint32) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, v)
	return out
}
