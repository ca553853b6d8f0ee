package striped64

import "math"

// The float64 flavor stores the bit pattern of a double in the same
// int64 cells and injects bits<->float conversions around every
// combine. The conversions land in too many places to share the loop
// with accumulateInt64 without putting an indirect call on the hot
// path, so the two are maintained by copy and adapt.

func floatBits(d float64) int64 {
	return int64(math.Float64bits(d))
}

func floatFromBits(v int64) float64 {
	return math.Float64frombits(uint64(v))
}

func combineFloat64(fn func(float64, float64) float64, v int64, x float64) int64 {
	if fn == nil {
		return floatBits(floatFromBits(v) + x)
	}
	return floatBits(fn(floatFromBits(v), x))
}

// accumulateFloat64 is accumulateInt64 for double-precision values.
// See accumulateInt64 for the branch structure.
func (s *striped64) accumulateFloat64(p *probe, x float64, fn func(float64, float64) float64, wasUncontended bool) {
	if p.h == 0 {
		p.seed()
		wasUncontended = true
	}
	collide := false // true if last slot was nonempty
	for {
		if t := s.cells.Load(); t != nil {
			n := len(t.slots)
			if a := t.slots[(n-1)&int(p.h)].Load(); a == nil {
				if s.cellsBusy.Load() == 0 {
					r := newCell(floatBits(x)) // optimistically create
					if s.cellsBusy.Load() == 0 && s.casCellsBusy() {
						created := false
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
			} else if v := a.v.Load(); a.cas(v, combineFloat64(fn, v, x)) {
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
				rs.slots[p.h&1].Store(newCell(floatBits(x)))
				s.cells.Store(rs)
				initialized = true
			}
			s.cellsBusy.Store(0)
			if initialized {
				return
			}
		} else if v := s.base.Load(); s.casBase(v, combineFloat64(fn, v, x)) {
			return // fall back on using base
		}
	}
}

// sumFloat64 adds base and cells in floating point; the order of the
// additions is the table order, so the result carries the usual
// non-associative rounding of concurrent FP sums.
func (s *striped64) sumFloat64() float64 {
	sum := floatFromBits(s.base.Load())
	if t := s.cells.Load(); t != nil {
		for i := range t.slots {
			if a := t.slots[i].Load(); a != nil {
				sum += floatFromBits(a.v.Load())
			}
		}
	}
	return sum
}

func (s *striped64) sumThenResetFloat64(id float64) float64 {
	b := floatBits(id)
	sum := floatFromBits(s.base.Swap(b))
	if t := s.cells.Load(); t != nil {
		for i := range t.slots {
			if a := t.slots[i].Load(); a != nil {
				sum += floatFromBits(a.v.Swap(b))
			}
		}
	}
	return sum
}

func (s *striped64) foldFloat64(fn func(float64, float64) float64) float64 {
	r := floatFromBits(s.base.Load())
	if t := s.cells.Load(); t != nil {
		for i := range t.slots {
			if a := t.slots[i].Load(); a != nil {
				r = fn(r, floatFromBits(a.v.Load()))
			}
		}
	}
	return r
}

func (s *striped64) foldThenResetFloat64(fn func(float64, float64) float64, id float64) float64 {
	b := floatBits(id)
	r := floatFromBits(s.base.Swap(b))
	if t := s.cells.Load(); t != nil {
		for i := range t.slots {
			if a := t.slots[i].Load(); a != nil {
				r = fn(r, floatFromBits(a.v.Swap(b)))
			}
		}
	}
	return r
}
