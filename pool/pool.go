// Package pool provides a generic object pool for natively allocated objects.
package pool

import (
	"runtime"
	"sync"
)

// ReuseMemory may be switched off to make use-after-release bugs easier to spot.
var ReuseMemory = true

type Pool[T any] struct {
	sync.Pool
	ResetFunc func(*T)
}

// NewPool returns a pool that allocates with allocFunc, calls resetFunc on Put
// and lets the GC call freeFunc on objects dropped by the pool.
func NewPool[T any](
	allocFunc func() *T,
	resetFunc func(*T),
	freeFunc func(*T),
) *Pool[T] {
	return &Pool[T]{
		Pool: sync.Pool{
			New: func() any {
				v := allocFunc()
				if freeFunc != nil {
					runtime.SetFinalizer(v, func(v *T) {
						freeFunc(v)
					})
				}
				return v
			},
		},
		ResetFunc: resetFunc,
	}
}

func (p *Pool[T]) Get() *T {
	return p.Pool.Get().(*T)
}

func (p *Pool[T]) Put(items ...*T) {
	if !ReuseMemory {
		return
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		if p.ResetFunc != nil {
			p.ResetFunc(item)
		}
		p.Pool.Put(item)
	}
}
