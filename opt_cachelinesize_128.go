//go:build striped_opt_cachelinesize_128

package striped64

// CacheLineSize is forced to 128 bytes by the
// striped_opt_cachelinesize_128 build tag. Useful on architectures
// with adjacent-line prefetch where 64-byte padding still lets two
// cells interfere.
const CacheLineSize uintptr = 128
