package striped64

import (
	"encoding/json"
	"strconv"
)

// An Adder maintains an int64 sum that many goroutines can update
// concurrently with throughput that scales with the number of CPUs.
// It should be preferred over a single atomic word when the value is
// written far more often than it is read, e.g. for counters gathered
// by a metrics collector.
//
// The zero value is ready to use. An Adder must not be copied after
// first use.
//
// Sum, Reset and SumThenReset observe the striped state without
// coordination: in the presence of concurrent Adds they return (or
// clear) a weakly-consistent snapshot, never a torn word. A total is
// exact once writers have quiesced.
type Adder struct {
	striped64
}

// Add adds x to the sum.
func (a *Adder) Add(x int64) {
	t := a.cells.Load()
	if t == nil {
		b := a.base.Load()
		if a.casBase(b, b+x) {
			return
		}
	}
	p := getProbe()
	uncontended := true
	if t != nil {
		if c := t.slots[(len(t.slots)-1)&int(p.h)].Load(); c != nil {
			v := c.v.Load()
			if uncontended = c.cas(v, v+x); uncontended {
				putProbe(p)
				return
			}
		}
	}
	a.accumulateInt64(p, x, nil, uncontended)
	putProbe(p)
}

// Inc adds 1 to the sum.
func (a *Adder) Inc() {
	a.Add(1)
}

// Dec subtracts 1 from the sum.
func (a *Adder) Dec() {
	a.Add(-1)
}

// Sum returns the current sum.
func (a *Adder) Sum() int64 {
	return a.sumInt64()
}

// Reset sets the sum to zero. Effective only if no goroutine is
// concurrently updating; see the type comment.
func (a *Adder) Reset() {
	a.resetInt64(0)
}

// SumThenReset returns the current sum and zeroes the state it read.
// Updates that race with the sweep remain counted toward the next
// sum rather than being lost.
func (a *Adder) SumThenReset() int64 {
	return a.sumThenResetInt64(0)
}

// String implements expvar.Var.
func (a *Adder) String() string {
	return strconv.FormatInt(a.Sum(), 10)
}

// MarshalJSON JSON serialization
func (a *Adder) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Sum())
}

// Stats returns a snapshot of the adder's striping state.
func (a *Adder) Stats() *AdderStats {
	return a.stats()
}
