package surfacequeue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/rocvideodecode/backend"
	"github.com/xaionaro-go/rocvideodecode/surface"
	"github.com/xaionaro-go/rocvideodecode/types"
)

func testSurface(width, height uint32, pts int64) *surface.Surface {
	info := types.NewOutputSurfaceInfo(width, height, width, height, types.SurfaceFormatNV12, 8, types.MemoryTypeHostCopied)
	return surface.New(info, pts)
}

func emitAll(surfaces ...*surface.Surface) func(emit EmitFunc) error {
	return func(emit EmitFunc) error {
		for _, s := range surfaces {
			if err := emit(context.Background(), s); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestQueueGetRelease(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	q := New()

	_, ok := q.OutputSurfaceInfo(ctx)
	require.False(t, ok)

	n, err := q.Decode(ctx, emitAll(testSurface(4, 4, 0), testSurface(4, 4, 1)))
	require.NoError(t, err)
	require.Equal(t, 2, n)

	info, ok := q.OutputSurfaceInfo(ctx)
	require.True(t, ok)
	require.Equal(t, uint32(4), info.OutputWidth)

	s, err := q.GetFrame(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), s.PTS)
	require.Equal(t, 1, q.NumReady(ctx))
	require.Equal(t, 1, q.NumHandedOut(ctx))

	require.NoError(t, q.ReleaseFrame(ctx, 0))
	require.ErrorAs(t, q.ReleaseFrame(ctx, 0), &backend.ErrNoSuchFrame{})

	s, err = q.GetFrame(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), s.PTS)

	s, err = q.GetFrame(ctx)
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestQueueReconfigureCallsFlushCallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	q := New()

	var drained []int64
	require.NoError(t, q.SetReconfigParams(ctx, &backend.ReconfigParams{
		FlushMode: types.ReconfigFlushModeNone,
		FlushCallback: func(ctx context.Context, src backend.FrameSource) (uint32, error) {
			var count uint32
			for {
				s, err := src.GetFrame(ctx)
				if err != nil {
					return count, err
				}
				if s == nil {
					return count, nil
				}
				drained = append(drained, s.PTS)
				if err := src.ReleaseFrame(ctx, s.PTS); err != nil {
					return count, err
				}
				count++
			}
		},
	}))

	n, err := q.Decode(ctx, emitAll(testSurface(4, 4, 0)))
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = q.Decode(ctx, emitAll(testSurface(4, 4, 1), testSurface(8, 8, 2), testSurface(8, 8, 3)))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []int64{0, 1}, drained)
	require.Equal(t, uint32(2), q.NumOfFlushedFrames(ctx))

	info, ok := q.OutputSurfaceInfo(ctx)
	require.True(t, ok)
	require.Equal(t, uint32(8), info.OutputWidth)

	require.NoError(t, q.SetReconfigParams(ctx, nil))
	require.Zero(t, q.NumOfFlushedFrames(ctx))
}

func TestQueueReconfigureWithoutCallbackDrops(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	q := New()

	_, err := q.Decode(ctx, emitAll(testSurface(4, 4, 0), testSurface(4, 4, 1), testSurface(2, 2, 2)))
	require.NoError(t, err)
	require.Equal(t, uint32(2), q.NumOfFlushedFrames(ctx))
	require.Equal(t, 1, q.NumReady(ctx))
}

func TestQueueClosed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	q := New()
	require.NoError(t, q.Close(ctx))

	_, err := q.Decode(ctx, emitAll(testSurface(4, 4, 0)))
	require.ErrorIs(t, err, backend.ErrClosed)
	_, err = q.GetFrame(ctx)
	require.ErrorIs(t, err, backend.ErrClosed)
}
