package framefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/rocvideodecode/types"
)

func TestWriteSurfaceAppendsVisibleRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yuv")

	info := types.NewOutputSurfaceInfo(2, 2, 4, 2, types.SurfaceFormatNV12, 8, types.MemoryTypeHostCopied)
	frame := []byte{
		1, 2, 0, 0,
		3, 4, 0, 0,
		5, 6, 0, 0,
	}

	w := NewWriter()
	require.NoError(t, w.WriteSurface(ctx, path, info, frame))
	require.NoError(t, w.WriteSurface(ctx, path, info, frame))
	require.Equal(t, uint64(2), w.FramesWritten(ctx, path))
	require.NoError(t, w.Close(ctx))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 1, 2, 3, 4, 5, 6}, b)
}

func TestWriteTensorAlternatingFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	first := filepath.Join(dir, "first.rgb")
	second := filepath.Join(dir, "second.rgb")

	tensor := make([]byte, types.OutputFormatRGB.ImageSize(2, 1)+10)
	for idx := range tensor {
		tensor[idx] = byte(idx)
	}

	w := NewWriter()
	for range 3 {
		require.NoError(t, w.WriteTensor(ctx, first, tensor, 2, 1, types.OutputFormatRGB))
		require.NoError(t, w.WriteTensor(ctx, second, tensor, 2, 1, types.OutputFormatRGB))
	}
	require.Equal(t, []string{first, second}, w.Paths(ctx))
	require.Equal(t, uint64(3), w.FramesWritten(ctx, second))
	require.NoError(t, w.Close(ctx))
	require.Empty(t, w.Paths(ctx))

	expected := append(append(append([]byte{}, tensor[:6]...), tensor[:6]...), tensor[:6]...)
	for _, path := range []string{first, second} {
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, expected, b)
	}

	require.Error(t, w.WriteTensor(ctx, first, tensor[:2], 2, 1, types.OutputFormatRGB))
	require.Error(t, w.WriteTensor(ctx, first, tensor, 2, 1, types.OutputFormatNative))
}

func TestWriteTruncatesOnlyOnFirstOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.rgb")
	require.NoError(t, os.WriteFile(path, []byte("stale content"), 0o644))

	tensor := []byte{1, 2, 3, 4, 5, 6}
	w := NewWriter()
	require.NoError(t, w.WriteTensor(ctx, path, tensor, 2, 1, types.OutputFormatRGB))
	require.NoError(t, w.Close(ctx))
	require.NoError(t, w.WriteTensor(ctx, path, tensor, 2, 1, types.OutputFormatRGB))
	require.NoError(t, w.Close(ctx))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, append(append([]byte{}, tensor...), tensor...), b)
}

func TestWriteNotMapped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	info := types.NewOutputSurfaceInfo(2, 2, 2, 2, types.SurfaceFormatNV12, 8, types.MemoryTypeNotMapped)
	w := NewWriter()
	require.Error(t, w.WriteSurface(ctx, filepath.Join(t.TempDir(), "x"), info, nil))
	require.NoError(t, w.Close(ctx))
}
