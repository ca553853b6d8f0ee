package striped64

import (
	"sync/atomic"
	"unsafe"
)

// cell is a padded 64-bit accumulator word, updated only via CAS.
// Cells live in an array, so without the padding neighboring cells
// would share a cache line and every CAS would invalidate its
// neighbors' lines.
type cell struct {
	v atomic.Int64
	//lint:ignore U1000 prevents false sharing
	pad [(CacheLineSize - unsafe.Sizeof(struct {
		v atomic.Int64
	}{})%CacheLineSize) % CacheLineSize]byte
}

func newCell(v int64) *cell {
	c := &cell{}
	c.v.Store(v)
	return c
}

func (c *cell) cas(old, new int64) bool {
	return c.v.CompareAndSwap(old, new)
}

// cellTable is a power-of-two array of lazily attached cells. The
// table pointer and each slot are published with atomic stores, so
// readers walk a consistent snapshot without acquiring cellsBusy.
// A slot keeps its cell for the lifetime of the accumulator; growth
// copies the pointers into the wider table.
type cellTable struct {
	slots []atomic.Pointer[cell]
}

func newCellTable(n int) *cellTable {
	return &cellTable{slots: make([]atomic.Pointer[cell], n)}
}
