// Package software is a pure-Go post-processor for host memory surfaces.
package software

import (
	"context"
	"fmt"

	"github.com/anthonynsimon/bild/transform"
	"github.com/nfnt/resize"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/postprocess"
	"github.com/xaionaro-go/rocvideodecode/types"
)

type PostProcessor struct {
	// ResampleFilter is used for 8-bit planes.
	ResampleFilter transform.ResampleFilter
	// ResampleFilter16 is used for 16-bit planes.
	ResampleFilter16 resize.InterpolationFunction

	// ColorStandard selects the YUV->RGB matrix.
	ColorStandard ColorStandard
}

var _ postprocess.PostProcessor = (*PostProcessor)(nil)

func New() *PostProcessor {
	return &PostProcessor{
		ResampleFilter:   transform.Linear,
		ResampleFilter16: resize.Bilinear,
		ColorStandard:    ColorStandardBT601,
	}
}

func (p *PostProcessor) String() string {
	return fmt.Sprintf("SoftwarePostProcessor(%s)", p.ColorStandard)
}

func checkSource(info types.OutputSurfaceInfo, src []byte) error {
	if !info.MemType.IsMapped() {
		return fmt.Errorf("the surface is not mapped")
	}
	if err := info.Validate(); err != nil {
		return fmt.Errorf("invalid surface info: %w", err)
	}
	if uint64(len(src)) < info.OutputSurfaceSizeInBytes {
		return fmt.Errorf("the source buffer is too small: %d < %d", len(src), info.OutputSurfaceSizeInBytes)
	}
	return nil
}

func (p *PostProcessor) ColorConvert(
	ctx context.Context,
	srcInfo types.OutputSurfaceInfo,
	src []byte,
	format types.OutputFormat,
	dst []byte,
) (_err error) {
	logger.Tracef(ctx, "ColorConvert: %s -> %s", srcInfo, format)
	defer func() { logger.Tracef(ctx, "/ColorConvert: %s -> %s: %v", srcInfo, format, _err) }()

	if !format.IsRGB() {
		return fmt.Errorf("%s is not an RGB format", format)
	}
	if err := checkSource(srcInfo, src); err != nil {
		return err
	}
	dstSize := format.ImageSize(srcInfo.OutputWidth, srcInfo.OutputHeight)
	if uint64(len(dst)) < dstSize {
		return fmt.Errorf("the destination buffer is too small: %d < %d", len(dst), dstSize)
	}

	reader := newYUVReader(srcInfo, src)
	writer := newRGBWriter(format, srcInfo.OutputWidth)
	matrix := p.ColorStandard.matrix()
	for y := range srcInfo.OutputHeight {
		for x := range srcInfo.OutputWidth {
			yy, u, v := reader.At(x, y)
			r, g, b := matrix.toRGB(yy, u, v)
			writer.Set(dst, x, y, r, g, b)
		}
	}
	return nil
}

func (p *PostProcessor) Resize(
	ctx context.Context,
	srcInfo types.OutputSurfaceInfo,
	src []byte,
	dim types.Dim,
	dst []byte,
) (_ret types.OutputSurfaceInfo, _err error) {
	logger.Tracef(ctx, "Resize: %s -> %s", srcInfo, dim)
	defer func() { logger.Tracef(ctx, "/Resize: %s -> %s: %v", srcInfo, dim, _err) }()

	if dim.IsZero() {
		return types.OutputSurfaceInfo{}, fmt.Errorf("invalid target size %s", dim)
	}
	if err := checkSource(srcInfo, src); err != nil {
		return types.OutputSurfaceInfo{}, err
	}
	dstInfo := postprocess.ResizedSurfaceInfo(srcInfo, dim)
	if uint64(len(dst)) < dstInfo.OutputSurfaceSizeInBytes {
		return types.OutputSurfaceInfo{}, fmt.Errorf("the destination buffer is too small: %d < %d", len(dst), dstInfo.OutputSurfaceSizeInBytes)
	}

	if err := p.resizePlanes(srcInfo, src, dstInfo, dst); err != nil {
		return types.OutputSurfaceInfo{}, err
	}
	return dstInfo, nil
}
