package striped64

import (
	"math/rand/v2"
	"sync"
	"unsafe"
)

// probePool caches probe tokens across goroutines. sync.Pool keeps
// per-P free lists, so a token tends to return to the goroutine that
// is running on the same OS thread; exact identity is irrelevant, the
// probe only needs best-effort affinity between consecutive updates.
var probePool sync.Pool

// probe carries the per-goroutine hash that selects a cell slot.
// h == 0 means not yet seeded; seeding is deferred until a CAS on the
// base word has actually failed once.
type probe struct {
	h uint32
	//lint:ignore U1000 prevents false sharing
	pad [(CacheLineSize - unsafe.Sizeof(struct {
		h uint32
	}{})%CacheLineSize) % CacheLineSize]byte
}

func getProbe() *probe {
	if p, ok := probePool.Get().(*probe); ok {
		return p
	}
	return &probe{}
}

func putProbe(p *probe) {
	probePool.Put(p)
}

// seed initializes p with a nonzero value. rand/v2's global source is
// sharded per P, so seeding does not contend between goroutines.
func (p *probe) seed() {
	h := rand.Uint32()
	if h == 0 {
		h = 1
	}
	p.h = h
}

// advance applies one Marsaglia xorshift step and stores the result.
// The 13/17/5 shift triple has full period over nonzero 32-bit
// states, so a seeded probe can never collapse to zero and colliding
// goroutines spread across the whole table.
func (p *probe) advance() uint32 {
	h := p.h
	h ^= h << 13
	h ^= h >> 17
	h ^= h << 5
	p.h = h
	return h
}
