// Package arena provides a bulk allocator for the working memory of compiled
// patterns and k-mer profiles.
//
// An Arena hands out zeroed, fixed-length sub-slices carved from a small
// number of large backing buffers (one per element type). All slices handed
// out by an Arena share its lifetime: after Release they must not be used.
// Release must happen exactly once per owner; repeated calls are no-ops.
//
// An Arena is not safe for concurrent use.
package arena

// DefaultChunk is the default backing-buffer size, in elements, for each
// element type.
const DefaultChunk = 4096

// Arena is a typed bump allocator.
type Arena struct {
	chunk int

	u64    []uint64
	u64Off int
	i64    []int64
	i64Off int
	u16    []uint16
	u16Off int

	heapBytes int
	released  bool
}

// New creates an arena whose backing buffers grow in chunks of at least
// chunk elements. A non-positive chunk selects DefaultChunk.
func New(chunk int) *Arena {
	if chunk <= 0 {
		chunk = DefaultChunk
	}
	return &Arena{chunk: chunk}
}

// Uint64s returns a zeroed slice of n uint64 values carved from the arena.
// Panics if the arena has been released.
func (a *Arena) Uint64s(n int) []uint64 {
	a.check()
	if len(a.u64)-a.u64Off < n {
		a.u64 = make([]uint64, a.grow(n))
		a.u64Off = 0
		a.heapBytes += 8 * len(a.u64)
	}
	s := a.u64[a.u64Off : a.u64Off+n : a.u64Off+n]
	a.u64Off += n
	return s
}

// Int64s returns a zeroed slice of n int64 values carved from the arena.
// Panics if the arena has been released.
func (a *Arena) Int64s(n int) []int64 {
	a.check()
	if len(a.i64)-a.i64Off < n {
		a.i64 = make([]int64, a.grow(n))
		a.i64Off = 0
		a.heapBytes += 8 * len(a.i64)
	}
	s := a.i64[a.i64Off : a.i64Off+n : a.i64Off+n]
	a.i64Off += n
	return s
}

// Uint16s returns a zeroed slice of n uint16 values carved from the arena.
// Panics if the arena has been released.
func (a *Arena) Uint16s(n int) []uint16 {
	a.check()
	if len(a.u16)-a.u16Off < n {
		a.u16 = make([]uint16, a.grow(n))
		a.u16Off = 0
		a.heapBytes += 2 * len(a.u16)
	}
	s := a.u16[a.u16Off : a.u16Off+n : a.u16Off+n]
	a.u16Off += n
	return s
}

// Release drops every backing buffer. Slices previously handed out are
// invalid afterwards. Calling Release more than once is a no-op.
func (a *Arena) Release() {
	if a.released {
		return
	}
	a.released = true
	a.u64, a.i64, a.u16 = nil, nil, nil
	a.u64Off, a.i64Off, a.u16Off = 0, 0, 0
	a.heapBytes = 0
}

// Released reports whether Release has been called.
func (a *Arena) Released() bool {
	return a.released
}

// HeapBytes returns the number of bytes held by the arena's backing buffers.
func (a *Arena) HeapBytes() int {
	return a.heapBytes
}

func (a *Arena) grow(n int) int {
	if n > a.chunk {
		return n
	}
	return a.chunk
}

func (a *Arena) check() {
	if a.released {
		panic("arena: allocation after Release")
	}
}
