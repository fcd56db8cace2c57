package types

import (
	"fmt"
)

type SurfaceFormat int

const (
	// SurfaceFormatNV12 is 8-bit semi-planar YUV 4:2:0.
	SurfaceFormatNV12 = SurfaceFormat(iota)
	// SurfaceFormatP016 is 16-bit semi-planar YUV 4:2:0 (10/12-bit content in the MSBs).
	SurfaceFormatP016
	// SurfaceFormatYUV444 is 8-bit planar YUV 4:4:4.
	SurfaceFormatYUV444
	// SurfaceFormatYUV444_16Bit is 16-bit planar YUV 4:4:4.
	SurfaceFormatYUV444_16Bit
	EndOfSurfaceFormat
)

func (f SurfaceFormat) String() string {
	switch f {
	case SurfaceFormatNV12:
		return "nv12"
	case SurfaceFormatP016:
		return "p016"
	case SurfaceFormatYUV444:
		return "yuv444"
	case SurfaceFormatYUV444_16Bit:
		return "yuv444_16bit"
	}
	return fmt.Sprintf("unknown_%d", int(f))
}

func (f SurfaceFormat) BytesPerPixel() uint32 {
	switch f {
	case SurfaceFormatP016, SurfaceFormatYUV444_16Bit:
		return 2
	}
	return 1
}

// NumChromaPlanes returns the number of planes following the luma plane.
func (f SurfaceFormat) NumChromaPlanes() uint32 {
	switch f {
	case SurfaceFormatYUV444, SurfaceFormatYUV444_16Bit:
		return 2
	}
	return 1
}

// IsChromaSubsampled reports whether chroma has half the luma resolution.
func (f SurfaceFormat) IsChromaSubsampled() bool {
	switch f {
	case SurfaceFormatYUV444, SurfaceFormatYUV444_16Bit:
		return false
	}
	return true
}

// ChromaHeight returns the height of each chroma plane for the given luma height.
func (f SurfaceFormat) ChromaHeight(lumaHeight uint32) uint32 {
	if !f.IsChromaSubsampled() {
		return lumaHeight
	}
	return (lumaHeight + 1) >> 1
}
