// Package pool provides typed object pooling on top of sync.Pool.
//
// Example usage:
//
//	buffers := pool.New(
//	    func() *Scratch { return &Scratch{data: make([]float64, 0, 64)} },
//	    func(s *Scratch) { s.data = s.data[:0] },
//	)
//	s := buffers.Get()
//	defer buffers.Put(s)
package pool

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// Pool is a generic object pool with type safety. It wraps sync.Pool with
// statistics and an optional reset function. The pool is safe for
// concurrent use.
type Pool[T any] struct {
	pool    sync.Pool
	reset   func(T)
	discard func(T) bool
	stats   struct {
		allocated int64
		inUse     int64
		gets      int64
	}
}

// New creates a typed pool. new is called when the pool is empty; reset,
// if not nil, cleans an object before it is returned to the pool.
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool, allocating one if it is empty
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	atomic.AddInt64(&p.stats.gets, 1)
	return p.pool.Get().(T)
}

// Put returns an object to the pool. Objects rejected by the pool's discard
// function are dropped instead.
func (p *Pool[T]) Put(obj T) {
	atomic.AddInt64(&p.stats.inUse, -1)
	if p.discard != nil && p.discard(obj) {
		return
	}
	if p.reset != nil {
		p.reset(obj)
	}
	p.pool.Put(obj)
}

// Stats returns the number of objects allocated, currently checked out,
// served from the pool (hits) and allocated on Get (misses)
func (p *Pool[T]) Stats() (allocated, inUse, hits, misses int64) {
	allocated = atomic.LoadInt64(&p.stats.allocated)
	inUse = atomic.LoadInt64(&p.stats.inUse)
	gets := atomic.LoadInt64(&p.stats.gets)
	misses = allocated
	if misses > gets {
		misses = gets
	}
	return allocated, inUse, gets - misses, misses
}

// NewBufferPool returns a pool of bytes.Buffers with the given initial
// capacity. Buffers grown past maxSize are not kept.
func NewBufferPool(initial, maxSize int) *Pool[*bytes.Buffer] {
	p := New(
		func() *bytes.Buffer { return bytes.NewBuffer(make([]byte, 0, initial)) },
		func(b *bytes.Buffer) { b.Reset() },
	)
	p.discard = func(b *bytes.Buffer) bool { return b.Cap() > maxSize }
	return p
}
