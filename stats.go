package sparsego

// Stats is a snapshot of a store's allocation state.
type Stats struct {
	// Tables is the number of allocated segment tables, including
	// tables linked in by a walk that never received data.
	Tables int

	// Quanta is the number of allocated quantum buffers.
	Quanta uint64

	// ResidentBytes is the payload memory held by allocated quanta.
	ResidentBytes int64

	// LogicalLength is the current readable extent.
	LogicalLength int64
}

// Stats returns a snapshot of the store's allocation state.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Tables:        s.chain.Tables(),
		Quanta:        s.occupied.GetCardinality(),
		ResidentBytes: int64(s.chain.Quanta()) * int64(s.quantum),
		LogicalLength: s.size,
	}
}

// NextData returns the smallest offset at or after off that is backed
// by an allocated quantum, skipping sparse holes the way SEEK_DATA
// does. The second result is false when no backed byte exists at or
// after off.
func (s *Store) NextData(off int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if off < 0 {
		off = 0
	}

	q := uint64(off) / uint64(s.quantum)

	it := s.occupied.Iterator()
	it.AdvanceIfNeeded(q)
	if !it.HasNext() {
		return 0, false
	}

	g := it.Next()
	if g == q {
		return off, true
	}
	return int64(g) * int64(s.quantum), true
}
