// Package striped64 provides contention-adaptive 64-bit accumulators.
//
// A striped accumulator starts as a single CAS-updated word. When
// concurrent writers start failing their CAS attempts, it lazily
// builds a power-of-two table of cache-line padded cells and routes
// each goroutine to its own cell through a per-goroutine probe hash,
// doubling the table under sustained pressure up to the number of
// CPUs. Writers never block; readers sum the base word and every
// cell into a weakly-consistent snapshot.
//
// Use Adder / FloatAdder for sums and Accumulator / FloatAccumulator
// for arbitrary associative reductions. All types are written far
// more cheaply than they are read and should be preferred over a
// single atomic word only in write-heavy, contended workloads.
package striped64

import (
	"math/bits"
	"runtime"
	"sync/atomic"
)

// ncpu bounds the cell table length: the table never grows past the
// next power of two at or above it. Captured once at package init,
// matching the lifetime of any accumulator constructed afterwards.
var ncpu = runtime.NumCPU()

// striped64 holds the representation and mechanics shared by all
// accumulator flavors: a base word for the uncontended fast path, a
// lazily initialized cell table, and the spin flag guarding the
// table's structural transitions.
type striped64 struct {
	_ noCopy

	// cells is nil until the first base CAS failure, then always a
	// power-of-two table.
	cells atomic.Pointer[cellTable]

	// base is used when no contention has been observed, and as the
	// fallback while the table is being initialized or grown by
	// another goroutine.
	base atomic.Int64

	// cellsBusy is a 0/1 spin flag over table initialization, growth
	// and slot attachment. It is never held across a user combiner
	// call, and contenders that fail to acquire it take another
	// productive path instead of waiting.
	cellsBusy atomic.Uint32
}

func (s *striped64) casBase(old, new int64) bool {
	return s.base.CompareAndSwap(old, new)
}

func (s *striped64) casCellsBusy() bool {
	return s.cellsBusy.CompareAndSwap(0, 1)
}

// accumulateInt64 is the slow-path writer, entered after a CAS
// failure on base or on the caller's probed cell. An unseeded probe is
// seeded once before the loop; each pass of the retry loop then
// handles exactly one case: attaching a new cell, CASing an existing
// one, growing or initializing the table, or falling back to base
// while someone else holds the flag.
// wasUncontended is false iff the caller already saw its cell CAS
// fail; together with the local collide latch it makes growth
// require two unresolved collisions after a rehash.
func (s *striped64) accumulateInt64(p *probe, x int64, fn func(int64, int64) int64, wasUncontended bool) {
	if p.h == 0 {
		p.seed()
		// The fresh probe must be re-read against the current table.
		wasUncontended = true
	}
	collide := false // true if last slot was nonempty
	for {
		if t := s.cells.Load(); t != nil {
			n := len(t.slots)
			if a := t.slots[(n-1)&int(p.h)].Load(); a == nil {
				if s.cellsBusy.Load() == 0 {
					r := newCell(x) // optimistically create
					if s.cellsBusy.Load() == 0 && s.casCellsBusy() {
						created := false
						// Recheck under the flag: the table may have
						// been swapped or the slot taken meanwhile.
						if rs := s.cells.Load(); rs == t {
							if j := (len(rs.slots) - 1) & int(p.h); rs.slots[j].Load() == nil {
								rs.slots[j].Store(r)
								created = true
							}
						}
						s.cellsBusy.Store(0)
						if created {
							return
						}
						continue // slot is now non-empty
					}
				}
				collide = false
			} else if !wasUncontended { // CAS already known to fail
				wasUncontended = true // continue after rehash
			} else if v := a.v.Load(); a.cas(v, combineInt64(fn, v, x)) {
				return
			} else if n >= ncpu || s.cells.Load() != t {
				collide = false // at max size or stale
			} else if !collide {
				collide = true
			} else if s.cellsBusy.Load() == 0 && s.casCellsBusy() {
				if s.cells.Load() == t { // expand table unless stale
					rs := newCellTable(n << 1)
					for i := range t.slots {
						rs.slots[i].Store(t.slots[i].Load())
					}
					s.cells.Store(rs)
				}
				s.cellsBusy.Store(0)
				collide = false
				continue // retry with expanded table
			}
			p.advance()
		} else if s.cellsBusy.Load() == 0 && s.cells.Load() == nil && s.casCellsBusy() {
			initialized := false
			if s.cells.Load() == nil { // initialize table
				rs := newCellTable(2)
				rs.slots[p.h&1].Store(newCell(x))
				s.cells.Store(rs)
				initialized = true
			}
			s.cellsBusy.Store(0)
			if initialized {
				return
			}
		} else if v := s.base.Load(); s.casBase(v, combineInt64(fn, v, x)) {
			return // fall back on using base
		}
	}
}

func combineInt64(fn func(int64, int64) int64, v, x int64) int64 {
	if fn == nil {
		return v + x
	}
	return fn(v, x)
}

// sumInt64 returns base plus every attached cell. The loads are not
// coordinated, so the result is a best-effort snapshot; concurrent
// updates may or may not be reflected.
func (s *striped64) sumInt64() int64 {
	sum := s.base.Load()
	if t := s.cells.Load(); t != nil {
		for i := range t.slots {
			if a := t.slots[i].Load(); a != nil {
				sum += a.v.Load()
			}
		}
	}
	return sum
}

// resetInt64 stores id into base and every cell. The stores are not
// atomic across cells; callers that need an exact result must
// quiesce writers first.
func (s *striped64) resetInt64(id int64) {
	s.base.Store(id)
	if t := s.cells.Load(); t != nil {
		for i := range t.slots {
			if a := t.slots[i].Load(); a != nil {
				a.v.Store(id)
			}
		}
	}
}

// sumThenResetInt64 swaps id into each field as it is read, so
// updates that land after a field was visited stay in place for the
// next sum rather than being lost.
func (s *striped64) sumThenResetInt64(id int64) int64 {
	sum := s.base.Swap(id)
	if t := s.cells.Load(); t != nil {
		for i := range t.slots {
			if a := t.slots[i].Load(); a != nil {
				sum += a.v.Swap(id)
			}
		}
	}
	return sum
}

// foldInt64 folds base and every cell with fn.
func (s *striped64) foldInt64(fn func(int64, int64) int64) int64 {
	r := s.base.Load()
	if t := s.cells.Load(); t != nil {
		for i := range t.slots {
			if a := t.slots[i].Load(); a != nil {
				r = fn(r, a.v.Load())
			}
		}
	}
	return r
}

// foldThenResetInt64 folds like foldInt64 while swapping id back into
// each visited field.
func (s *striped64) foldThenResetInt64(fn func(int64, int64) int64, id int64) int64 {
	r := s.base.Swap(id)
	if t := s.cells.Load(); t != nil {
		for i := range t.slots {
			if a := t.slots[i].Load(); a != nil {
				r = fn(r, a.v.Swap(id))
			}
		}
	}
	return r
}

// nextPowOf2 calculates the smallest power of 2 that is greater than or equal to n.
// Compatible with both 32-bit and 64-bit systems.
func nextPowOf2(n int) int {
	if n <= 0 {
		return 1
	}

	if bits.UintSize == 32 {
		v := uint32(n)
		v--
		v |= v >> 1
		v |= v >> 2
		v |= v >> 4
		v |= v >> 8
		v |= v >> 16
		v++
		return int(v)
	}

	v := uint64(n)
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return int(v)
}

// tableCap is the length the cell table can reach: the next power of
// two at or above ncpu, but never below the initial length of 2.
func tableCap() int {
	return max(2, nextPowOf2(ncpu))
}

// noCopy may be embedded into structs which must not be copied
// after the first use.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
