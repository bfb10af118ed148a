// Package sparsego provides a sparse, quantum-granular in-memory byte
// store for Go.
//
// A Store exposes one logical byte stream that can be read and written
// at arbitrary offsets while allocating backing memory only for the
// regions actually written. Storage is a chain of fixed-capacity
// segment tables whose fixed-size quantum buffers are allocated lazily
// on first write and released in one call.
//
// # Quick Start
//
//	store, _ := sparsego.New()
//	store.Write([]byte("hello"), 0)
//
//	buf := make([]byte, 5)
//	n, _ := store.Read(buf, 0)
//
// # Semantics
//
// A single read or write never crosses a quantum boundary; the result
// count is clamped and the caller issues repeated calls to continue.
// The device package wraps a Store with a position cursor and standard
// io interfaces that perform that loop.
//
// Reading at or past the logical length returns zero bytes. So does
// reading a sparse hole — an offset inside the logical length whose
// quantum was never written. Holes are reported as "nothing available
// here", never as zero-filled bytes.
//
// # Resource Budget
//
// An optional resource.Controller caps the memory used by backing
// buffers. When the budget is exhausted mid-operation, Write fails
// with ErrOutOfMemory; tables already linked into the chain stay
// linked and are reused by later writes.
//
// # Key Features
//
//   - Lazy two-level allocation (segment tables, quantum buffers)
//   - One coarse lock per store; instances are fully independent
//   - Roaring-bitmap occupancy stats and SEEK_DATA-style hole skipping
//   - Optional memory budget and device-level IO throttling
package sparsego
