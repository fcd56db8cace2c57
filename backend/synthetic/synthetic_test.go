package synthetic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/rocvideodecode/backend"
	"github.com/xaionaro-go/rocvideodecode/types"
)

func nv12(width, height uint16) []byte {
	return Encode(Picture{Width: width, Height: height, SurfaceFormat: types.SurfaceFormatNV12})
}

func TestDecodeProducesAlignedSurfaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d, err := New(ctx, Config{MemType: types.MemoryTypeHostCopied})
	require.NoError(t, err)
	defer d.Close(ctx)

	n, err := d.DecodeFrame(ctx, backend.Packet{Data: nv12(64, 36), PTS: 3})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	info, ok := d.OutputSurfaceInfo(ctx)
	require.True(t, ok)
	require.Equal(t, uint32(64), info.OutputWidth)
	require.Equal(t, uint32(36), info.OutputHeight)
	require.Equal(t, uint32(256), info.OutputPitch)
	require.Equal(t, uint32(48), info.OutputVStride)
	require.Equal(t, uint64(256*(48+24)), info.OutputSurfaceSizeInBytes)

	s, err := d.GetFrame(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Equal(t, int64(3), s.PTS)
	require.Len(t, s.Data, int(info.OutputSurfaceSizeInBytes))
	require.Equal(t, byte(Sample(5, 2, 3, 0, false)>>8), s.Data[2*256+5])
	require.NoError(t, d.ReleaseFrame(ctx, 3))
}

func TestDecodeDelayAndEndOfStream(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d, err := New(ctx, Config{MemType: types.MemoryTypeHostCopied, Delay: 2})
	require.NoError(t, err)
	defer d.Close(ctx)

	total := 0
	for pts := int64(0); pts < 4; pts++ {
		n, err := d.DecodeFrame(ctx, backend.Packet{Data: nv12(16, 16), PTS: pts})
		require.NoError(t, err)
		total += n
	}
	require.Equal(t, 2, total)

	n, err := d.DecodeFrame(ctx, backend.Packet{EndOfStream: true})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, uint64(4), d.DecodedFrames())
}

func TestResolutionChangeFlushesHeldFrames(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d, err := New(ctx, Config{MemType: types.MemoryTypeHostCopied, Delay: 1})
	require.NoError(t, err)
	defer d.Close(ctx)

	_, err = d.DecodeFrame(ctx, backend.Packet{Data: nv12(16, 16), PTS: 0})
	require.NoError(t, err)
	_, err = d.DecodeFrame(ctx, backend.Packet{Data: nv12(16, 16), PTS: 1})
	require.NoError(t, err)

	n, err := d.DecodeFrame(ctx, backend.Packet{Data: nv12(32, 32), PTS: 2})
	require.NoError(t, err)
	require.Zero(t, n)
	require.Equal(t, uint32(2), d.NumOfFlushedFrames(ctx))

	info, ok := d.OutputSurfaceInfo(ctx)
	require.True(t, ok)
	require.Equal(t, uint32(32), info.OutputWidth)
}

func TestCropAndLimits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d, err := New(ctx, Config{
		MemType:   types.MemoryTypeHostCopied,
		CropRect:  types.Rect{Left: 2, Top: 2, Right: 10, Bottom: 6},
		MaxWidth:  64,
		MaxHeight: 64,
	})
	require.NoError(t, err)
	defer d.Close(ctx)

	_, err = d.DecodeFrame(ctx, backend.Packet{Data: nv12(16, 16), PTS: 0})
	require.NoError(t, err)
	info, ok := d.OutputSurfaceInfo(ctx)
	require.True(t, ok)
	require.Equal(t, types.Dim{Width: 8, Height: 4}, info.Dim())

	s, err := d.GetFrame(ctx)
	require.NoError(t, err)
	require.Equal(t, byte(Sample(2, 2, 0, 0, false)>>8), s.Data[0])

	_, err = d.DecodeFrame(ctx, backend.Packet{Data: nv12(128, 16), PTS: 1})
	require.Error(t, err)
}

func TestNotMapped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d, err := New(ctx, Config{MemType: types.MemoryTypeNotMapped})
	require.NoError(t, err)
	defer d.Close(ctx)

	_, err = d.DecodeFrame(ctx, backend.Packet{Data: nv12(16, 16), PTS: 0})
	require.NoError(t, err)
	s, err := d.GetFrame(ctx)
	require.NoError(t, err)
	require.Nil(t, s.Data)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	_, err := parse([]byte{1, 2, 3})
	require.Error(t, err)
	_, err = parse([]byte("XXXXxxxxxx"))
	require.Error(t, err)

	pic, err := parse(Encode(Picture{Width: 2, Height: 2, SurfaceFormat: types.SurfaceFormatP016}))
	require.NoError(t, err)
	require.Equal(t, uint8(10), pic.BitDepth)
}
