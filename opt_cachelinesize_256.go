//go:build striped_opt_cachelinesize_256

package striped64

// CacheLineSize is forced to 256 bytes by the
// striped_opt_cachelinesize_256 build tag.
const CacheLineSize uintptr = 256
