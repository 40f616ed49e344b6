package pool

import "sync"

var int64SlicePool = sync.Pool{
	New: func() any { return &[]int64{} },
}

// GetInt64Slice returns a zeroed int64 slice of length size from the pool.
//
// The caller must invoke the returned cleanup function, typically with defer,
// once the slice is no longer referenced.
//
// Example:
//
//	counts, release := pool.GetInt64Slice(k)
//	defer release()
func GetInt64Slice(size int) ([]int64, func()) {
	ptr, _ := int64SlicePool.Get().(*[]int64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int64, size)
	} else {
		slice = slice[:size]
		clear(slice)
	}
	*ptr = slice

	return slice, func() { int64SlicePool.Put(ptr) }
}
