package striped64

// An Accumulator maintains an int64 value updated through a
// user-supplied combiner, striped the same way Adder stripes a sum.
// The combiner must be associative and free of side effects; if it
// is also commutative the accumulated value is independent of the
// interleaving, otherwise Get returns the fold of the supplied
// values in some unspecified order.
//
// A freshly attached cell holds the supplied value directly, so the
// identity must satisfy fn(identity, x) == x for every x (e.g.
// math.MinInt64 for max, 0 for bitwise-or).
//
// An Accumulator must not be copied after first use.
type Accumulator struct {
	striped64
	fn       func(int64, int64) int64
	identity int64
}

// NewAccumulator returns an accumulator applying fn, with the given
// identity as the initial and post-Reset value. Panics if fn is nil.
func NewAccumulator(fn func(int64, int64) int64, identity int64) *Accumulator {
	if fn == nil {
		panic("striped64: nil combiner")
	}
	a := &Accumulator{fn: fn, identity: identity}
	a.base.Store(identity)
	return a
}

// Accumulate folds x into the current value.
func (a *Accumulator) Accumulate(x int64) {
	t := a.cells.Load()
	if t == nil {
		b := a.base.Load()
		// Skip the CAS when the combiner leaves the value unchanged.
		if r := a.fn(b, x); r == b || a.casBase(b, r) {
			return
		}
	}
	p := getProbe()
	uncontended := true
	if t != nil {
		if c := t.slots[(len(t.slots)-1)&int(p.h)].Load(); c != nil {
			v := c.v.Load()
			r := a.fn(v, x)
			if uncontended = r == v || c.cas(v, r); uncontended {
				putProbe(p)
				return
			}
		}
	}
	a.accumulateInt64(p, x, a.fn, uncontended)
	putProbe(p)
}

// Get folds base and every cell with the combiner and returns the
// result. Weakly consistent under concurrent Accumulate calls.
func (a *Accumulator) Get() int64 {
	return a.foldInt64(a.fn)
}

// Reset restores the identity everywhere. Effective only if no
// goroutine is concurrently updating.
func (a *Accumulator) Reset() {
	a.resetInt64(a.identity)
}

// GetThenReset folds like Get while restoring the identity into each
// field it has read.
func (a *Accumulator) GetThenReset() int64 {
	return a.foldThenResetInt64(a.fn, a.identity)
}

// A FloatAccumulator is the float64 counterpart of Accumulator,
// storing double bit patterns in the cells. The same identity
// requirement applies (e.g. math.Inf(-1) for max).
//
// A FloatAccumulator must not be copied after first use.
type FloatAccumulator struct {
	striped64
	fn       func(float64, float64) float64
	identity float64
}

// NewFloatAccumulator returns a float accumulator applying fn, with
// the given identity as the initial and post-Reset value. Panics if
// fn is nil.
func NewFloatAccumulator(fn func(float64, float64) float64, identity float64) *FloatAccumulator {
	if fn == nil {
		panic("striped64: nil combiner")
	}
	a := &FloatAccumulator{fn: fn, identity: identity}
	a.base.Store(floatBits(identity))
	return a
}

// Accumulate folds x into the current value.
func (a *FloatAccumulator) Accumulate(x float64) {
	t := a.cells.Load()
	if t == nil {
		b := a.base.Load()
		if r := floatBits(a.fn(floatFromBits(b), x)); r == b || a.casBase(b, r) {
			return
		}
	}
	p := getProbe()
	uncontended := true
	if t != nil {
		if c := t.slots[(len(t.slots)-1)&int(p.h)].Load(); c != nil {
			v := c.v.Load()
			r := floatBits(a.fn(floatFromBits(v), x))
			if uncontended = r == v || c.cas(v, r); uncontended {
				putProbe(p)
				return
			}
		}
	}
	a.accumulateFloat64(p, x, a.fn, uncontended)
	putProbe(p)
}

// Get folds base and every cell with the combiner and returns the
// result. Weakly consistent under concurrent Accumulate calls.
func (a *FloatAccumulator) Get() float64 {
	return a.foldFloat64(a.fn)
}

// Reset restores the identity everywhere. Effective only if no
// goroutine is concurrently updating.
func (a *FloatAccumulator) Reset() {
	a.resetInt64(floatBits(a.identity))
}

// GetThenReset folds like Get while restoring the identity into each
// field it has read.
func (a *FloatAccumulator) GetThenReset() float64 {
	return a.foldThenResetFloat64(a.fn, a.identity)
}
