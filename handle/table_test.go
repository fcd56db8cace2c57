package handle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	table := NewTable[string]()

	h := table.Register(ctx, KindSurface, OwnerDecoder, "frame-0")
	require.False(t, h.IsNil())
	require.Equal(t, KindSurface, h.Kind())
	require.Equal(t, OwnerDecoder, h.Owner())

	v, err := table.Resolve(ctx, h)
	require.NoError(t, err)
	require.Equal(t, "frame-0", v)

	_, err = table.Resolve(ctx, h, KindRGB)
	require.ErrorAs(t, err, &ErrUnexpectedKind{})

	v, ok := table.Revoke(ctx, h)
	require.True(t, ok)
	require.Equal(t, "frame-0", v)

	_, err = table.Resolve(ctx, h)
	require.ErrorAs(t, err, &ErrStaleHandle{})

	_, ok = table.Revoke(ctx, h)
	require.False(t, ok)
}

func TestTableNilHandle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	table := NewTable[int]()

	require.True(t, Nil.IsNil())
	_, err := table.Resolve(ctx, Nil)
	require.ErrorIs(t, err, ErrNilHandle)
}

func TestTableRevokeKind(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	table := NewTable[int]()

	rgb0 := table.Register(ctx, KindRGB, OwnerAdapter, 0)
	rgb1 := table.Register(ctx, KindRGB, OwnerAdapter, 1)
	surf := table.Register(ctx, KindSurface, OwnerDecoder, 2)
	require.NotEqual(t, rgb0, rgb1)

	require.Equal(t, 2, table.RevokeKind(ctx, KindRGB))
	require.Equal(t, 1, table.Len(ctx))

	_, err := table.Resolve(ctx, rgb1)
	require.Error(t, err)
	v, err := table.Resolve(ctx, surf)
	require.NoError(t, err)
	require.Equal(t, 2, v)

	found, ok := table.Find(ctx, KindSurface, func(v int) bool { return v == 2 })
	require.True(t, ok)
	require.Equal(t, surf, found)
}
