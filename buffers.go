package molvis

import (
	"fmt"
	"sync"
)

// XYZArena hands out interleaved coordinate buffers and takes them back.
// It stands in for the off-heap arrays of the native columnar engine: every
// buffer acquired from it must be released exactly once, on every exit path,
// or the memory is leaked for the lifetime of the arena. Callers are expected
// to release with defer right after acquiring.
//
// The arena is safe for concurrent use, although the pipeline itself only
// ever uses it sequentially.
type XYZArena struct {
	mu          sync.Mutex
	free        [][]float64
	outstanding int
}

// NewXYZArena returns an empty arena.
func NewXYZArena() *XYZArena {
	return new(XYZArena)
}

// Get returns a zeroed buffer of length n. Buffers are recycled when a
// released one is large enough, so repeated wraps of same-sized frames do
// not allocate.
func (A *XYZArena) Get(n int) []float64 {
	A.mu.Lock()
	defer A.mu.Unlock()
	A.outstanding++
	for i, b := range A.free {
		if cap(b) >= n {
			A.free = append(A.free[:i], A.free[i+1:]...)
			b = b[:n]
			for j := range b {
				b[j] = 0
			}
			return b
		}
	}
	return make([]float64, n)
}

// Put releases a buffer back to the arena. Releasing nil is a no-op, so a
// deferred Put remains correct when the acquisition itself failed.
func (A *XYZArena) Put(buf []float64) {
	if buf == nil {
		return
	}
	A.mu.Lock()
	defer A.mu.Unlock()
	if A.outstanding == 0 {
		panic(fmt.Sprintf("molvis: buffer of length %d released twice, or into the wrong arena", len(buf)))
	}
	A.outstanding--
	A.free = append(A.free, buf)
}

// Outstanding returns the number of buffers currently acquired and not yet
// released. A pipeline that wraps coordinates and leaves this above zero has
// leaked native memory.
func (A *XYZArena) Outstanding() int {
	A.mu.Lock()
	defer A.mu.Unlock()
	return A.outstanding
}
