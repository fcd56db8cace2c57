package decoder

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/rocvideodecode/handle"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/types"
)

// SaveFrameToFile appends the visible part of a decoded or resized frame to
// the file. Consecutive calls with the same path append to the same file.
func (d *Decoder) SaveFrameToFile(
	ctx context.Context,
	outputFileName string,
	h handle.Handle,
	info types.OutputSurfaceInfo,
) (_err error) {
	logger.Tracef(ctx, "SaveFrameToFile: '%s' %s", outputFileName, h)
	defer func() { logger.Tracef(ctx, "/SaveFrameToFile: '%s' %s: %v", outputFileName, h, _err) }()
	if d.IsClosed() {
		return ErrClosed
	}

	fb, err := d.resolve(ctx, h, handle.KindSurface, handle.KindResized)
	if err != nil {
		return fmt.Errorf("unable to resolve the frame: %w", err)
	}
	return d.fileWriter.WriteSurface(ctx, outputFileName, info, fb.Data)
}

// SaveTensorToFile appends a packed RGB image to the file. Zero width or
// height are taken from info.
func (d *Decoder) SaveTensorToFile(
	ctx context.Context,
	outputFileName string,
	h handle.Handle,
	width, height uint32,
	format types.OutputFormat,
	info types.OutputSurfaceInfo,
) (_err error) {
	logger.Tracef(ctx, "SaveTensorToFile: '%s' %s %dx%d:%s", outputFileName, h, width, height, format)
	defer func() { logger.Tracef(ctx, "/SaveTensorToFile: '%s' %s: %v", outputFileName, h, _err) }()
	if d.IsClosed() {
		return ErrClosed
	}

	fb, err := d.resolve(ctx, h, handle.KindRGB)
	if err != nil {
		return fmt.Errorf("unable to resolve the tensor: %w", err)
	}
	if width == 0 {
		width = info.OutputWidth
	}
	if height == 0 {
		height = info.OutputHeight
	}
	if fb.Format != format {
		logger.Warnf(ctx, "the tensor is %s, but saving it as %s", fb.Format, format)
	}
	return d.fileWriter.WriteTensor(ctx, outputFileName, fb.Data, width, height, format)
}
