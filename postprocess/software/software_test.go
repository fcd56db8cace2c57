package software

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/rocvideodecode/types"
)

func flatSurface(
	format types.SurfaceFormat,
	width, height, pitch uint32,
	y, u, v uint16,
) (types.OutputSurfaceInfo, []byte) {
	bitDepth := uint32(8)
	if format.BytesPerPixel() == 2 {
		bitDepth = 16
	}
	info := types.NewOutputSurfaceInfo(width, height, pitch, height, format, bitDepth, types.MemoryTypeHostCopied)
	data := make([]byte, info.OutputSurfaceSizeInBytes)
	put := func(offset uint64, value uint16) {
		if info.BytesPerPixel == 2 {
			binary.LittleEndian.PutUint16(data[offset:], value)
			return
		}
		data[offset] = byte(value)
	}
	bpp := uint64(info.BytesPerPixel)
	planes := planeGeometries(info)
	for planeIdx, plane := range planes {
		for row := range plane.height {
			for col := range plane.width {
				base := plane.offset + uint64(row)*plane.pitch + uint64(col*plane.comps)*bpp
				switch {
				case planeIdx == 0:
					put(base, y)
				case plane.comps == 2:
					put(base, u)
					put(base+bpp, v)
				case planeIdx == 1:
					put(base, u)
				default:
					put(base, v)
				}
			}
		}
	}
	return info, data
}

func TestColorConvertSizesAndValues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := New()

	info, src := flatSurface(types.SurfaceFormatNV12, 4, 2, 16, 81, 90, 240)
	for _, format := range []types.OutputFormat{
		types.OutputFormatRGB, types.OutputFormatBGR,
		types.OutputFormatRGBA, types.OutputFormatBGRA,
		types.OutputFormatRGB48, types.OutputFormatBGRA64,
	} {
		format := format
		t.Run(format.String(), func(t *testing.T) {
			t.Parallel()
			size := format.ImageSize(info.OutputWidth, info.OutputHeight)
			require.Equal(t, uint64(4*2)*uint64(format.BytesPerPixel()), size)
			dst := make([]byte, size)
			require.NoError(t, p.ColorConvert(ctx, info, src, format, dst))

			channel := func(idx int) float64 {
				if format.Is16Bit() {
					return float64(binary.LittleEndian.Uint16(dst[idx*2:])) / 0xffff
				}
				return float64(dst[idx]) / 0xff
			}
			red, blue := channel(0), channel(2)
			if format.IsBGROrder() {
				red, blue = blue, red
			}
			require.InDelta(t, 1, red, 0.01)
			require.InDelta(t, 0, channel(1), 0.01)
			require.InDelta(t, 0, blue, 0.01)
			if format.NumChannels() == 4 {
				require.InDelta(t, 1, channel(3), 0.0001)
			}
		})
	}
}

func TestColorConvertLimitedRange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := New()

	for _, tt := range []struct {
		name string
		y    uint16
		want byte
	}{
		{name: "black", y: 16, want: 0},
		{name: "white", y: 235, want: 255},
	} {
		info, src := flatSurface(types.SurfaceFormatYUV444, 2, 2, 2, tt.y, 128, 128)
		dst := make([]byte, types.OutputFormatRGB.ImageSize(2, 2))
		require.NoError(t, p.ColorConvert(ctx, info, src, types.OutputFormatRGB, dst), tt.name)
		for _, b := range dst {
			require.Equal(t, tt.want, b, tt.name)
		}
	}
}

func TestColorConvertErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := New()
	info, src := flatSurface(types.SurfaceFormatNV12, 4, 2, 4, 16, 128, 128)

	require.Error(t, p.ColorConvert(ctx, info, src, types.OutputFormatNative, make([]byte, 100)))
	require.Error(t, p.ColorConvert(ctx, info, src, types.OutputFormatRGB, make([]byte, 3)))
	require.Error(t, p.ColorConvert(ctx, info, src[:5], types.OutputFormatRGB, make([]byte, 100)))

	notMapped := info
	notMapped.MemType = types.MemoryTypeNotMapped
	require.Error(t, p.ColorConvert(ctx, notMapped, src, types.OutputFormatRGB, make([]byte, 100)))
}

func TestResizeFlatPlanes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := New()

	for _, format := range []types.SurfaceFormat{
		types.SurfaceFormatNV12,
		types.SurfaceFormatP016,
		types.SurfaceFormatYUV444,
		types.SurfaceFormatYUV444_16Bit,
	} {
		format := format
		t.Run(format.String(), func(t *testing.T) {
			t.Parallel()
			pitch := 8 * format.BytesPerPixel() * 2
			info, src := flatSurface(format, 8, 4, pitch, 100, 60, 200)

			target := types.Dim{Width: 3, Height: 6}
			dstInfo, err := p.Resize(ctx, info, src, target, make([]byte, 1))
			require.Error(t, err, "too small destination")

			dst := make([]byte, 1024)
			dstInfo, err = p.Resize(ctx, info, src, target, dst)
			require.NoError(t, err)
			if format.IsChromaSubsampled() {
				require.Equal(t, types.Dim{Width: 4, Height: 6}, dstInfo.Dim())
			} else {
				require.Equal(t, target, dstInfo.Dim())
			}
			require.Equal(t, dstInfo.OutputWidth*format.BytesPerPixel(), dstInfo.OutputPitch)

			_, expected := flatSurface(format, dstInfo.OutputWidth, dstInfo.OutputHeight, dstInfo.OutputPitch, 100, 60, 200)
			actual := dst[:dstInfo.OutputSurfaceSizeInBytes]
			if format.BytesPerPixel() == 2 {
				require.Equal(t, expected, actual)
				return
			}
			require.Len(t, actual, len(expected))
			for idx := range expected {
				require.InDelta(t, expected[idx], actual[idx], 1, "byte #%d", idx)
			}
		})
	}
}

func TestResize16BitKeepsLowBits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := New()

	for _, format := range []types.SurfaceFormat{
		types.SurfaceFormatP016,
		types.SurfaceFormatYUV444_16Bit,
	} {
		t.Run(format.String(), func(t *testing.T) {
			t.Parallel()
			info := types.NewOutputSurfaceInfo(8, 4, 16, 4, format, 16, types.MemoryTypeHostCopied)
			src := make([]byte, info.OutputSurfaceSizeInBytes)
			planes := planeGeometries(info)
			for planeIdx, plane := range planes {
				for row := range plane.height {
					for col := range plane.width * plane.comps {
						offset := plane.offset + uint64(row)*plane.pitch + uint64(col)*2
						binary.LittleEndian.PutUint16(src[offset:], uint16(1000*(planeIdx+1)+col%plane.comps))
					}
				}
			}

			dst := make([]byte, 1024)
			dstInfo, err := p.Resize(ctx, info, src, types.Dim{Width: 4, Height: 2}, dst)
			require.NoError(t, err)

			for planeIdx, plane := range planeGeometries(dstInfo) {
				for row := range plane.height {
					for col := range plane.width * plane.comps {
						offset := plane.offset + uint64(row)*plane.pitch + uint64(col)*2
						v := binary.LittleEndian.Uint16(dst[offset:])
						require.Equal(t, uint16(1000*(planeIdx+1)+col%plane.comps), v,
							"plane %d row %d col %d", planeIdx, row, col)
					}
				}
			}
		})
	}
}
