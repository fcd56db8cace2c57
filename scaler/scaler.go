// Package scaler converts libav frames between pixel formats and resolutions.
package scaler

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/rocvideodecode/types"
)

type Scaler interface {
	fmt.Stringer
	Close(context.Context) error
	ScaleFrame(ctx context.Context, src *astiav.Frame, dst *astiav.Frame) error
	Source() Format
	Destination() Format
}

// Format is the geometry and pixel format on one side of a scaler.
type Format struct {
	Dim         types.Dim
	PixelFormat astiav.PixelFormat
}

func (f Format) String() string {
	return fmt.Sprintf("%s:%s", f.Dim, f.PixelFormat)
}

// FrameFormat returns the format of the frame.
func FrameFormat(f *astiav.Frame) Format {
	return Format{
		Dim: types.Dim{
			Width:  uint32(f.Width()),
			Height: uint32(f.Height()),
		},
		PixelFormat: f.PixelFormat(),
	}
}
