package surface

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/rocvideodecode/types"
)

func TestPlanesNV12(t *testing.T) {
	info := types.NewOutputSurfaceInfo(6, 4, 8, 4, types.SurfaceFormatNV12, 8, types.MemoryTypeHostCopied)
	require.Equal(t, uint64(8*(4+2)), info.OutputSurfaceSizeInBytes)
	require.Equal(t, uint64(6*(4+2)), info.VisibleSize())

	planes := Planes(info)
	require.Len(t, planes, 2)
	require.Equal(t, Plane{Offset: 0, Pitch: 8, RowSize: 6, Height: 4}, planes[0])
	require.Equal(t, Plane{Offset: 32, Pitch: 8, RowSize: 6, Height: 2}, planes[1])
}

func TestPlanesYUV444(t *testing.T) {
	info := types.NewOutputSurfaceInfo(4, 2, 8, 2, types.SurfaceFormatYUV444_16Bit, 10, types.MemoryTypeHostCopied)
	planes := Planes(info)
	require.Len(t, planes, 3)
	require.Equal(t, uint32(2), info.BytesPerPixel)
	require.Equal(t, uint32(8), planes[2].RowSize)
	require.Equal(t, uint64(0), planes[0].Offset)
	require.Equal(t, uint64(16), planes[1].Offset)
	require.Equal(t, uint64(32), planes[2].Offset)
	require.Equal(t, uint64(48), info.OutputSurfaceSizeInBytes)
}

func TestPackStripsPadding(t *testing.T) {
	info := types.NewOutputSurfaceInfo(2, 2, 4, 2, types.SurfaceFormatNV12, 8, types.MemoryTypeHostCopied)
	data := []byte{
		1, 2, 0xff, 0xff,
		3, 4, 0xff, 0xff,
		5, 6, 0xff, 0xff,
	}
	packed, err := Pack(info, data)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, packed)

	_, err = Pack(info, data[:4])
	require.Error(t, err)
}

func TestNewNotMapped(t *testing.T) {
	info := types.NewOutputSurfaceInfo(2, 2, 2, 2, types.SurfaceFormatNV12, 8, types.MemoryTypeNotMapped)
	require.Nil(t, New(info, 7).Data)
}
