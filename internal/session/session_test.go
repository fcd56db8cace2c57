package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/rocvideodecode"
	"github.com/xaionaro-go/rocvideodecode/decoder"
	"github.com/xaionaro-go/rocvideodecode/types"
	"go.uber.org/atomic"
)

func syntheticConfig() Config {
	return Config{
		Decoder: rocvideodecode.Config{
			Config: decoder.Config{
				MemType:         types.MemoryTypeHostCopied,
				OverheadSupport: true,
			},
			Backend: rocvideodecode.BackendTypeSynthetic,
		},
		SyntheticFrames: 6,
		SyntheticDim:    types.Dim{Width: 32, Height: 16},
	}
}

func TestRunSynthetic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	for _, tc := range []struct {
		name      string
		rgb       types.OutputFormat
		resize    types.Dim
		frameSize int
	}{
		{name: "native", frameSize: 32*16 + 32*8},
		{name: "resized", resize: types.Dim{Width: 16, Height: 8}, frameSize: 16*8 + 16*4},
		{name: "rgb", rgb: types.OutputFormatRGB, frameSize: 32 * 16 * 3},
		{name: "rgb_resized", rgb: types.OutputFormatBGRA, resize: types.Dim{Width: 16, Height: 8}, frameSize: 32 * 16 * 4},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := syntheticConfig()
			cfg.OutputFile = filepath.Join(dir, tc.name+".out")
			cfg.RGBFormat = tc.rgb
			cfg.Resize = tc.resize
			cfg.CalcMD5 = true
			var counter atomic.Uint64
			cfg.FramesCounter = &counter

			result, err := Run(ctx, cfg)
			require.NoError(t, err)
			require.Equal(t, uint64(6), result.Frames)
			require.Equal(t, uint64(6), counter.Load())
			require.Len(t, result.MD5, 16)
			require.Equal(t, "synthetic", result.DeviceInfo.DeviceName)
			require.GreaterOrEqual(t, result.Elapsed, result.Overhead)

			b, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			require.Len(t, b, 6*tc.frameSize)
		})
	}
}

func TestRunSyntheticMD5IsDeterministic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := syntheticConfig()
	cfg.CalcMD5 = true

	first, err := Run(ctx, cfg)
	require.NoError(t, err)
	second, err := Run(ctx, cfg)
	require.NoError(t, err)
	require.Equal(t, first.MD5, second.MD5)

	cfg.SyntheticFrames = 5
	third, err := Run(ctx, cfg)
	require.NoError(t, err)
	require.NotEqual(t, first.MD5, third.MD5)
}

func TestRunSyntheticResolutionChanges(t *testing.T) {
	t.Parallel()
	cfg := syntheticConfig()
	cfg.SyntheticResizeEvery = 2
	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, uint64(6), result.Frames)
	// every frame is fetched right after decoding, nothing is left to flush
	require.Zero(t, result.FlushedFrames)
}

func TestRunErrors(t *testing.T) {
	t.Parallel()
	cfg := syntheticConfig()
	cfg.SyntheticDim = types.Dim{}
	_, err := Run(context.Background(), cfg)
	require.Error(t, err)

	cfg = syntheticConfig()
	cfg.Decoder.Backend = rocvideodecode.BackendTypeLibav
	cfg.Input = ""
	_, err = Run(context.Background(), cfg)
	require.Error(t, err)
}

func TestResultFPS(t *testing.T) {
	t.Parallel()
	require.Zero(t, Result{Frames: 10}.FPS())
	require.InDelta(t, 10.0, Result{Frames: 10, Elapsed: 2e9, Overhead: 1e9}.FPS(), 1e-9)
}
