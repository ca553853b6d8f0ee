package striped64

// A FloatAdder is the float64 counterpart of Adder. Each cell stores
// the bit pattern of a double; updates convert, combine and CAS the
// raw bits.
//
// Because floating-point addition is not associative, the value
// returned by Sum depends on the order goroutines landed in cells
// and may differ between runs by rounding, even for an identical
// multiset of inputs.
//
// The zero value is ready to use. A FloatAdder must not be copied
// after first use.
type FloatAdder struct {
	striped64
}

// Add adds x to the sum.
func (a *FloatAdder) Add(x float64) {
	t := a.cells.Load()
	if t == nil {
		b := a.base.Load()
		if a.casBase(b, floatBits(floatFromBits(b)+x)) {
			return
		}
	}
	p := getProbe()
	uncontended := true
	if t != nil {
		if c := t.slots[(len(t.slots)-1)&int(p.h)].Load(); c != nil {
			v := c.v.Load()
			if uncontended = c.cas(v, floatBits(floatFromBits(v)+x)); uncontended {
				putProbe(p)
				return
			}
		}
	}
	a.accumulateFloat64(p, x, nil, uncontended)
	putProbe(p)
}

// Sum returns the current sum.
func (a *FloatAdder) Sum() float64 {
	return a.sumFloat64()
}

// Reset sets the sum to zero. Effective only if no goroutine is
// concurrently updating.
func (a *FloatAdder) Reset() {
	a.resetInt64(0) // 0.0 and the zero bit pattern coincide
}

// SumThenReset returns the current sum and zeroes the state it read.
func (a *FloatAdder) SumThenReset() float64 {
	return a.sumThenResetFloat64(0)
}

// Stats returns a snapshot of the adder's striping state.
func (a *FloatAdder) Stats() *AdderStats {
	return a.stats()
}
