// Package postprocess defines the color conversion and resizing service the
// decoder adapter delegates to.
package postprocess

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/rocvideodecode/types"
)

type PostProcessor interface {
	fmt.Stringer

	// ColorConvert converts a YUV surface into a packed RGB image of
	// format.ImageSize(width, height) bytes written to dst.
	ColorConvert(
		ctx context.Context,
		srcInfo types.OutputSurfaceInfo,
		src []byte,
		format types.OutputFormat,
		dst []byte,
	) error

	// Resize scales a YUV surface into dst, laid out as described by
	// ResizedSurfaceInfo(srcInfo, dim), and returns that description.
	Resize(
		ctx context.Context,
		srcInfo types.OutputSurfaceInfo,
		src []byte,
		dim types.Dim,
		dst []byte,
	) (types.OutputSurfaceInfo, error)
}

// ResizedSurfaceInfo describes the tightly packed surface a resize to dim
// produces. Dimensions of 4:2:0 surfaces are rounded up to even numbers.
func ResizedSurfaceInfo(
	srcInfo types.OutputSurfaceInfo,
	dim types.Dim,
) types.OutputSurfaceInfo {
	width, height := dim.Width, dim.Height
	if srcInfo.SurfaceFormat.IsChromaSubsampled() {
		width = (width + 1) &^ 1
		height = (height + 1) &^ 1
	}
	return types.NewOutputSurfaceInfo(
		width, height,
		width*srcInfo.BytesPerPixel,
		height,
		srcInfo.SurfaceFormat,
		srcInfo.BitDepth,
		srcInfo.MemType,
	)
}
