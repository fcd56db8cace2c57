package libav

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/rocvideodecode/surface"
	"github.com/xaionaro-go/rocvideodecode/types"
)

func TestLayout(t *testing.T) {
	t.Parallel()
	d := &Decoder{Config: Config{MemType: types.MemoryTypeHostCopied}.withDefaults()}

	info, offX, offY, err := d.layout(1920, 1080, types.SurfaceFormatNV12)
	require.NoError(t, err)
	require.Zero(t, offX)
	require.Zero(t, offY)
	require.Equal(t, uint32(2048), info.OutputPitch)
	require.Equal(t, uint32(1088), info.OutputVStride)
	require.Equal(t, uint64(2048*(1088+544)), info.OutputSurfaceSizeInBytes)

	d.Config.CropRect = types.Rect{Left: 2, Top: 4, Right: 66, Bottom: 36}
	info, offX, offY, err = d.layout(1920, 1080, types.SurfaceFormatP016)
	require.NoError(t, err)
	require.Equal(t, uint32(2), offX)
	require.Equal(t, uint32(4), offY)
	require.Equal(t, uint32(64), info.OutputWidth)
	require.Equal(t, uint32(32), info.OutputHeight)
	require.Equal(t, uint32(16), info.BitDepth)

	d.Config.CropRect = types.Rect{Left: 1, Top: 0, Right: 8, Bottom: 8}
	_, _, _, err = d.layout(16, 16, types.SurfaceFormatNV12)
	require.Error(t, err)
	_, _, _, err = d.layout(16, 16, types.SurfaceFormatYUV444)
	require.NoError(t, err)

	d.Config.CropRect = types.Rect{Left: 0, Top: 0, Right: 32, Bottom: 8}
	_, _, _, err = d.layout(16, 16, types.SurfaceFormatNV12)
	require.Error(t, err)
}

func TestCopyPlanesNV12(t *testing.T) {
	t.Parallel()
	const width, height = 4, 4
	packed := make([]byte, width*height+width*height/2)
	for idx := range packed {
		packed[idx] = byte(idx)
	}

	info := types.NewOutputSurfaceInfo(2, 2, 8, 2, types.SurfaceFormatNV12, 8, types.MemoryTypeHostCopied)
	s := surface.New(info, 0)
	require.NoError(t, copyPlanes(s, packed, width, height, 2, 2))

	visible, err := surface.Pack(info, s.Data)
	require.NoError(t, err)
	require.Equal(t, []byte{
		10, 11,
		14, 15,
		16 + 4 + 2, 16 + 4 + 3,
	}, visible)
}

func TestCopyPlanesYUV444(t *testing.T) {
	t.Parallel()
	const width, height = 2, 2
	packed := make([]byte, 3*width*height)
	for idx := range packed {
		packed[idx] = byte(idx)
	}

	info := types.NewOutputSurfaceInfo(2, 2, 4, 2, types.SurfaceFormatYUV444, 8, types.MemoryTypeHostCopied)
	s := surface.New(info, 0)
	require.NoError(t, copyPlanes(s, packed, width, height, 0, 0))

	visible, err := surface.Pack(info, s.Data)
	require.NoError(t, err)
	require.Equal(t, packed, visible)

	require.Error(t, copyPlanes(s, packed[:5], width, height, 0, 0))
}
