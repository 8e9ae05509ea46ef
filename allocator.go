package zipflow

import "sync"

// Allocator supplies buffers for the chunks a Stream emits.
// Allocate must return a slice of exactly size bytes.
type Allocator interface {
	Allocate(size int) []byte
}

// Releaser is implemented by allocators that can reuse a buffer once its
// consumer is done with it.
type Releaser interface {
	Release(buf []byte)
}

// AllocatorFunc adapts a function to the Allocator interface.
type AllocatorFunc func(size int) []byte

// Allocate calls f(size).
func (f AllocatorFunc) Allocate(size int) []byte { return f(size) }

// HeapAllocator allocates a fresh buffer for every chunk.
type HeapAllocator struct{}

// Allocate returns make([]byte, size).
func (HeapAllocator) Allocate(size int) []byte { return make([]byte, size) }

// PoolAllocator recycles released buffers through a sync.Pool.
type PoolAllocator struct {
	pool sync.Pool
}

// NewPoolAllocator creates an empty PoolAllocator.
func NewPoolAllocator() *PoolAllocator {
	return &PoolAllocator{}
}

// Allocate returns a pooled buffer when one of sufficient capacity is
// available and a new one otherwise.
func (p *PoolAllocator) Allocate(size int) []byte {
	if v, ok := p.pool.Get().(*[]byte); ok && cap(*v) >= size {
		return (*v)[:size]
	}
	return make([]byte, size)
}

// Release returns buf to the pool. buf must not be used afterwards.
func (p *PoolAllocator) Release(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	buf = buf[:cap(buf)]
	p.pool.Put(&buf)
}
