package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type item struct {
	value int
}

func TestPoolResetsOnPut(t *testing.T) {
	allocs := 0
	p := NewPool(
		func() *item { allocs++; return &item{} },
		func(i *item) { i.value = 0 },
		nil,
	)

	it := p.Get()
	require.NotNil(t, it)
	it.value = 42
	p.Put(it, nil)

	it = p.Get()
	require.Zero(t, it.value)
	require.GreaterOrEqual(t, allocs, 1)
}
