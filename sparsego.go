package sparsego

import (
	"math"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/sparsego/resource"
	"github.com/hupe1980/sparsego/segment"
)

// Store is a sparse random-access byte store. It holds exactly one
// logical byte stream whose backing memory grows on demand, one
// quantum at a time.
//
// All operations are safe for concurrent use: a single coarse lock
// guards the whole instance for the full duration of each operation.
// Distinct stores share nothing.
type Store struct {
	mu sync.Mutex

	chain    *segment.Chain
	size     int64
	occupied *roaring64.Bitmap // global indices of allocated quanta

	quantum  uint32
	capacity uint32
	ctrl     *resource.Controller

	logger  *Logger
	metrics MetricsCollector
}

// New creates an empty store. The sizing parameters default to
// DefaultQuantumSize and DefaultTableCapacity and are immutable for
// the lifetime of the store.
func New(opts ...Option) (*Store, error) {
	o := applyOptions(opts)

	if o.quantumSize == 0 {
		return nil, &ErrInvalidQuantumSize{Size: o.quantumSize}
	}
	if o.tableCapacity == 0 {
		return nil, &ErrInvalidTableCapacity{Capacity: o.tableCapacity}
	}
	if uint64(o.quantumSize)*uint64(o.tableCapacity) > math.MaxInt64 {
		return nil, ErrInvalidGeometry
	}

	return &Store{
		chain:    segment.NewChain(int(o.quantumSize), int(o.tableCapacity), o.controller),
		occupied: roaring64.NewBitmap(),
		quantum:  o.quantumSize,
		capacity: o.tableCapacity,
		ctrl:     o.controller,
		logger:   o.logger,
		metrics:  o.metricsCollector,
	}, nil
}

// Read copies bytes from the stream at off into p and returns how many
// were produced. A single call never crosses a quantum boundary, so
// the count may be less than len(p); issue further calls at off+n to
// continue.
//
// Reading at or past the logical length produces zero bytes, as does
// reading a quantum that was never written (a sparse hole). Neither is
// an error.
func (s *Store) Read(p []byte, off int64) (int, error) {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.read(p, off)

	s.metrics.RecordRead(n, time.Since(start))
	s.logger.LogRead(off, n)
	return n, nil
}

func (s *Store) read(p []byte, off int64) int {
	if off < 0 || off >= s.size || len(p) == 0 {
		return 0
	}

	item, slot, qpos := s.locate(off)

	q := s.chain.ReadQuantum(item, slot)
	if q == nil {
		return 0
	}

	// Read only up to the end of this quantum.
	count := len(p)
	if rem := int(s.quantum) - qpos; count > rem {
		count = rem
	}

	copy(p[:count], q[qpos:qpos+count])
	return count
}

// Write copies p into the stream at off, allocating the segment table
// chain, slot array, and quantum as needed, and returns how many bytes
// were stored. A single call never crosses a quantum boundary, so the
// count may be less than len(p).
//
// Write fails with ErrOutOfMemory when the resource budget is
// exhausted; the logical length is left unchanged and tables linked
// before the failure stay linked for later reuse.
func (s *Store) Write(p []byte, off int64) (int, error) {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.write(p, off)

	s.metrics.RecordWrite(n, time.Since(start), err)
	s.logger.LogWrite(off, n, err)
	return n, err
}

func (s *Store) write(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if len(p) == 0 {
		return 0, nil
	}

	item, slot, qpos := s.locate(off)

	q, err := s.chain.WriteQuantum(item, slot)
	if err != nil {
		return 0, translateError(err)
	}

	// Write only up to the end of this quantum.
	count := len(p)
	if rem := int(s.quantum) - qpos; count > rem {
		count = rem
	}

	copy(q[qpos:qpos+count], p[:count])
	s.occupied.Add(uint64(item)*uint64(s.capacity) + uint64(slot))

	if end := off + int64(count); end > s.size {
		s.size = end
	}
	return count, nil
}

// locate decomposes a logical offset into the table index, the slot
// index within that table, and the byte offset within the quantum.
func (s *Store) locate(off int64) (item, slot, qpos int) {
	itemSize := int64(s.quantum) * int64(s.capacity)
	rest := off % itemSize
	return int(off / itemSize), int(rest / int64(s.quantum)), int(rest % int64(s.quantum))
}

// Trim releases every segment table and quantum buffer and resets the
// logical length to zero, returning the store to its freshly created
// state with the original sizing parameters. Idempotent; cannot fail.
func (s *Store) Trim() {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.chain.Release()
	s.occupied = roaring64.NewBitmap()
	s.size = 0

	s.metrics.RecordTrim(time.Since(start))
	s.logger.LogTrim()
}

// Len returns the logical length: the highest offset+1 ever written,
// or zero after creation or Trim.
func (s *Store) Len() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// QuantumSize returns the configured quantum size in bytes.
func (s *Store) QuantumSize() uint32 { return s.quantum }

// TableCapacity returns the configured number of slots per segment table.
func (s *Store) TableCapacity() uint32 { return s.capacity }

// Controller returns the resource controller attached to the store, or
// nil when allocation is unlimited.
func (s *Store) Controller() *resource.Controller { return s.ctrl }
