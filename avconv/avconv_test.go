package avconv

import (
	"math"
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/rocvideodecode/types"
)

func TestCodecIDRoundTrip(t *testing.T) {
	t.Parallel()
	for codec := types.VideoCodec(0); codec < types.EndOfVideoCodec; codec++ {
		id := CodecID(codec)
		require.NotEqual(t, astiav.CodecIDNone, id, codec.String())
		back, ok := VideoCodecFromCodecID(id)
		require.True(t, ok)
		require.Equal(t, codec, back)
	}
	_, ok := VideoCodecFromCodecID(astiav.CodecIDAac)
	require.False(t, ok)
}

func TestSurfaceFormat(t *testing.T) {
	t.Parallel()
	format, ok := SurfaceFormat(astiav.PixelFormatNv12)
	require.True(t, ok)
	require.Equal(t, types.SurfaceFormatNV12, format)

	_, ok = SurfaceFormat(astiav.PixelFormatYuv420P)
	require.False(t, ok)
	require.Equal(t, types.SurfaceFormatNV12, ConversionTarget(astiav.PixelFormatYuv420P))
	require.Equal(t, types.SurfaceFormatP016, ConversionTarget(astiav.PixelFormatP010Le))
}

func TestRescaleToClockRate(t *testing.T) {
	t.Parallel()
	require.Equal(t, int64(1000), RescaleToClockRate(90000, astiav.NewRational(1, 90000), 1000))
	require.Equal(t, int64(0), RescaleToClockRate(math.MinInt64, astiav.NewRational(1, 90000), 1000))
	require.Equal(t, int64(5), RescaleToClockRate(5, astiav.NewRational(0, 1), 1000))
}
