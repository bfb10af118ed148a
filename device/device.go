// Package device provides the host-side glue around a sparsego store:
// open-mode handling, a position cursor with standard io interfaces,
// and the numeric control-query surface.
//
// The store itself has no cursor and clamps every call at a quantum
// boundary; Device performs the repeated-call loop a read or write
// syscall handler would.
package device

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/hupe1980/sparsego"
	"github.com/hupe1980/sparsego/resource"
)

var (
	// ErrReadOnly is returned when writing through a read-only device.
	ErrReadOnly = errors.New("device is read-only")

	// ErrWriteOnly is returned when reading through a write-only device.
	ErrWriteOnly = errors.New("device is write-only")

	// ErrInvalidSeek is returned for a seek to a negative position.
	ErrInvalidSeek = errors.New("invalid seek offset")
)

// Flag is the access mode a device is opened with.
type Flag int

const (
	// ReadWrite allows both directions.
	ReadWrite Flag = iota

	// ReadOnly rejects writes.
	ReadOnly

	// WriteOnly rejects reads and truncates the store on open.
	WriteOnly
)

// Device wraps a store with a position cursor and an access mode.
// Multiple devices may be open on the same store; each has its own
// cursor, while the store serializes the underlying operations.
type Device struct {
	mu    sync.Mutex
	store *sparsego.Store
	flag  Flag
	pos   int64
	ctrl  *resource.Controller
}

// Open creates a device over store. Opening write-only empties the
// store, the way a truncating open of a char device would.
//
// Bulk copies are throttled through the store's resource controller
// when one is attached and configured with an IO limit.
func Open(store *sparsego.Store, flag Flag) *Device {
	if flag == WriteOnly {
		store.Trim()
	}

	return &Device{
		store: store,
		flag:  flag,
		ctrl:  store.Controller(),
	}
}

// Read implements io.Reader. It issues repeated clamped store reads at
// increasing offsets until p is full or the store produces no more
// bytes. A read that produces nothing — end of stream or a sparse
// hole at the cursor — returns io.EOF, which is what a zero-byte read
// means to the caller of a read syscall.
func (d *Device) Read(p []byte) (int, error) {
	if d.flag == WriteOnly {
		return 0, ErrWriteOnly
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.readAt(p, d.pos)
	d.pos += int64(n)
	return n, err
}

// PRead reads from the given offset without moving the cursor, the
// pread analog. Like Read, it returns io.EOF when nothing could be
// produced.
func (d *Device) PRead(p []byte, off int64) (int, error) {
	if d.flag == WriteOnly {
		return 0, ErrWriteOnly
	}
	return d.readAt(p, off)
}

func (d *Device) readAt(p []byte, off int64) (int, error) {
	total := 0
	for total < len(p) {
		n, err := d.store.Read(p[total:], off+int64(total))
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
		if err := d.ctrl.AcquireIO(context.Background(), n); err != nil {
			return total, err
		}
		total += n
	}

	if total == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return total, nil
}

// Write implements io.Writer. It issues repeated clamped store writes
// at increasing offsets until p is consumed or the store reports an
// error.
func (d *Device) Write(p []byte) (int, error) {
	if d.flag == ReadOnly {
		return 0, ErrReadOnly
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.writeAt(p, d.pos)
	d.pos += int64(n)
	return n, err
}

// PWrite writes at the given offset without moving the cursor, the
// pwrite analog.
func (d *Device) PWrite(p []byte, off int64) (int, error) {
	if d.flag == ReadOnly {
		return 0, ErrReadOnly
	}
	return d.writeAt(p, off)
}

func (d *Device) writeAt(p []byte, off int64) (int, error) {
	total := 0
	for total < len(p) {
		n, err := d.store.Write(p[total:], off+int64(total))
		total += n
		if err != nil {
			return total, err
		}
		if err := d.ctrl.AcquireIO(context.Background(), n); err != nil {
			return total, err
		}
	}
	return total, nil
}

// Seek implements io.Seeker. io.SeekEnd is relative to the store's
// logical length.
func (d *Device) Seek(offset int64, whence int) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = d.pos + offset
	case io.SeekEnd:
		pos = d.store.Len() + offset
	default:
		return 0, ErrInvalidSeek
	}

	if pos < 0 {
		return 0, ErrInvalidSeek
	}

	d.pos = pos
	return pos, nil
}

// SeekData moves the cursor to the next offset at or after the current
// position that is backed by an allocated quantum, skipping sparse
// holes. Returns io.EOF when no backed byte remains.
func (d *Device) SeekData() (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pos, ok := d.store.NextData(d.pos)
	if !ok {
		return d.pos, io.EOF
	}

	d.pos = pos
	return pos, nil
}
