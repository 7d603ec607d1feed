package pool

import "sync"

// offsetSlicePool holds scratch slices for offset tables decoded from a block.
var offsetSlicePool = sync.Pool{
	New: func() any { return &[]int{} },
}

// GetOffsetSlice retrieves and resizes an int slice from the pool.
//
// The returned slice has length size and unspecified contents. If the pooled
// slice has insufficient capacity, a new slice is allocated. The caller must
// call the returned cleanup function once it no longer uses the slice.
//
// Example:
//
//	offsets, cleanup := pool.GetOffsetSlice(count + 1)
//	defer cleanup()
func GetOffsetSlice(size int) ([]int, func()) {
	ptr, _ := offsetSlicePool.Get().(*[]int)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { offsetSlicePool.Put(ptr) }
}
