package rocvideodecode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/rocvideodecode/backend/synthetic"
	"github.com/xaionaro-go/rocvideodecode/decoder"
	"github.com/xaionaro-go/rocvideodecode/types"
)

func TestNewDecoderSynthetic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d, err := NewDecoder(ctx, Config{
		Config: decoder.Config{
			DeviceID: 1,
			MemType:  types.MemoryTypeHostCopied,
		},
		Backend: BackendTypeSynthetic,
	})
	require.NoError(t, err)
	defer d.Close(ctx)

	require.Equal(t, 1, d.DeviceInfo(ctx).DeviceID)
	n, err := d.DecodeFrame(ctx, &types.PacketData{
		Bitstream: synthetic.Encode(synthetic.Picture{Width: 16, Height: 8, SurfaceFormat: types.SurfaceFormatNV12}),
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestBackendTypeFromString(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		in      string
		want    BackendType
		wantErr bool
	}{
		{in: "libav", want: BackendTypeLibav},
		{in: " Synthetic ", want: BackendTypeSynthetic},
		{in: "undefined", wantErr: true},
		{in: "cuda", wantErr: true},
	} {
		got, err := BackendTypeFromString(tc.in)
		if tc.wantErr {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got)
	}

	_, err := NewDecoder(context.Background(), Config{Backend: EndOfBackendType})
	require.Error(t, err)
}
