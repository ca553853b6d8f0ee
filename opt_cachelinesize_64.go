//go:build striped_opt_cachelinesize_64

package striped64

// CacheLineSize is forced to 64 bytes by the
// striped_opt_cachelinesize_64 build tag.
const CacheLineSize uintptr = 64
