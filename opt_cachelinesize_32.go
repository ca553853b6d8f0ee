//go:build striped_opt_cachelinesize_32

package striped64

// CacheLineSize is forced to 32 bytes by the
// striped_opt_cachelinesize_32 build tag.
const CacheLineSize uintptr = 32
