// Package segment implements the chained segment-table layout backing
// a sparse byte store.
//
// Storage is a singly-linked sequence of fixed-capacity tables whose
// fixed-size quantum buffers are allocated lazily on first write. The
// chain is represented as an arena of table records linked by record
// index rather than by pointer, which keeps ownership tree-shaped and
// release trivially safe while preserving the walk semantics of a
// pointer-chained list.
package segment

import (
	"errors"

	"github.com/hupe1980/sparsego/resource"
)

// ErrOutOfMemory is returned when the allocation budget is exhausted
// partway through a walk or a buffer allocation. Tables linked before
// the failure stay linked; a later attempt reuses them.
var ErrOutOfMemory = errors.New("allocation budget exhausted")

const none = -1

// Nominal budget charges. The slot array and quantum charges track the
// real buffer sizes; the record charge approximates the per-table
// bookkeeping so that exhaustion can strike mid-walk.
const (
	recordBytes  = 24
	slotPtrBytes = 8
)

// table is one link of the chain: an optional slot array of optional
// quantum buffers plus the index of the next record.
type table struct {
	slots [][]byte
	next  int
}

// Chain is the ordered list of tables reachable from the head record.
// It owns every table and quantum below it. Not safe for concurrent
// use; the owning store serializes access.
type Chain struct {
	quantum  int
	capacity int
	ctrl     *resource.Controller

	records []table
	head    int
	quanta  int
	charged int64
}

// NewChain creates an empty chain with the given quantum size and
// table capacity. ctrl may be nil for an unlimited budget.
func NewChain(quantum, capacity int, ctrl *resource.Controller) *Chain {
	return &Chain{
		quantum:  quantum,
		capacity: capacity,
		ctrl:     ctrl,
		head:     none,
	}
}

func (c *Chain) alloc() (int, error) {
	if !c.ctrl.TryAcquire(recordBytes) {
		return none, ErrOutOfMemory
	}
	c.charged += recordBytes
	c.records = append(c.records, table{next: none})
	return len(c.records) - 1, nil
}

// walk follows the chain from the head, allocating the head and every
// missing link up to and including idx. On failure the tables already
// linked remain linked; there is no rollback.
func (c *Chain) walk(idx int) (int, error) {
	if c.head == none {
		r, err := c.alloc()
		if err != nil {
			return none, err
		}
		c.head = r
	}

	cur := c.head
	for ; idx > 0; idx-- {
		if c.records[cur].next == none {
			r, err := c.alloc()
			if err != nil {
				return none, err
			}
			c.records[cur].next = r
		}
		cur = c.records[cur].next
	}
	return cur, nil
}

// lookup is the non-allocating walk used by the read path. It stops at
// the first missing link.
func (c *Chain) lookup(idx int) int {
	cur := c.head
	for cur != none && idx > 0 {
		cur = c.records[cur].next
		idx--
	}
	return cur
}

// ReadQuantum returns the quantum at (idx, slot), or nil when the
// table, its slot array, or the quantum itself was never allocated.
// Never allocates.
func (c *Chain) ReadQuantum(idx, slot int) []byte {
	r := c.lookup(idx)
	if r == none {
		return nil
	}
	t := &c.records[r]
	if t.slots == nil {
		return nil
	}
	return t.slots[slot]
}

// WriteQuantum returns the quantum at (idx, slot), allocating the
// chain up to idx, the table's slot array, and a zeroed quantum as
// needed. Each allocation is charged to the budget; a failed charge
// returns ErrOutOfMemory and leaves everything allocated so far in
// place.
func (c *Chain) WriteQuantum(idx, slot int) ([]byte, error) {
	r, err := c.walk(idx)
	if err != nil {
		return nil, err
	}

	t := &c.records[r]
	if t.slots == nil {
		bytes := int64(c.capacity) * slotPtrBytes
		if !c.ctrl.TryAcquire(bytes) {
			return nil, ErrOutOfMemory
		}
		c.charged += bytes
		t.slots = make([][]byte, c.capacity)
	}

	if t.slots[slot] == nil {
		if !c.ctrl.TryAcquire(int64(c.quantum)) {
			return nil, ErrOutOfMemory
		}
		c.charged += int64(c.quantum)
		t.slots[slot] = make([]byte, c.quantum)
		c.quanta++
	}

	return t.slots[slot], nil
}

// Release frees every table and quantum and returns the charged budget
// to the controller. Safe to call on an empty chain.
func (c *Chain) Release() {
	c.ctrl.Release(c.charged)
	c.charged = 0
	c.records = nil
	c.head = none
	c.quanta = 0
}

// Tables returns the number of allocated table records, including
// tables linked in by a walk that never received data.
func (c *Chain) Tables() int { return len(c.records) }

// Quanta returns the number of allocated quantum buffers.
func (c *Chain) Quanta() int { return c.quanta }
