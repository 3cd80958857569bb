package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type scratch struct {
	data []float64
}

func TestPoolReset(t *testing.T) {
	p := New(
		func() *scratch { return &scratch{data: make([]float64, 0, 4)} },
		func(s *scratch) { s.data = s.data[:0] },
	)

	s := p.Get()
	s.data = append(s.data, 1, 4, 0.5, -3)
	p.Put(s)

	s = p.Get()
	assert.Empty(t, s.data)
	p.Put(s)
}

func TestPoolStats(t *testing.T) {
	p := New(func() *scratch { return &scratch{} }, nil)

	a := p.Get()
	b := p.Get()
	allocated, inUse, hits, misses := p.Stats()
	assert.Equal(t, int64(2), allocated)
	assert.Equal(t, int64(2), inUse)
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(2), misses)

	p.Put(a)
	p.Put(b)
	_, inUse, _, _ = p.Stats()
	assert.Equal(t, int64(0), inUse)
}

func TestPoolConcurrent(t *testing.T) {
	p := New(func() *scratch { return &scratch{} }, func(s *scratch) { s.data = nil })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s := p.Get()
				s.data = append(s.data, float64(j))
				p.Put(s)
			}
		}()
	}
	wg.Wait()

	_, inUse, _, _ := p.Stats()
	assert.Equal(t, int64(0), inUse)
}

func TestBufferPool(t *testing.T) {
	p := NewBufferPool(16, 64)

	buf := p.Get()
	buf.WriteString("a,b")
	p.Put(buf)

	buf = p.Get()
	assert.Equal(t, 0, buf.Len())
	p.Put(buf)

	big := p.Get()
	big.Grow(1024)
	p.Put(big)
	assert.NotSame(t, big, p.Get())
}
