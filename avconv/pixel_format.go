package avconv

import (
	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/rocvideodecode/types"
)

var pixelFormats = map[types.SurfaceFormat]astiav.PixelFormat{
	types.SurfaceFormatNV12:         astiav.PixelFormatNv12,
	types.SurfaceFormatP016:         astiav.PixelFormatP016Le,
	types.SurfaceFormatYUV444:       astiav.PixelFormatYuv444P,
	types.SurfaceFormatYUV444_16Bit: astiav.PixelFormatYuv444P16Le,
}

func PixelFormat(format types.SurfaceFormat) astiav.PixelFormat {
	if pixFmt, ok := pixelFormats[format]; ok {
		return pixFmt
	}
	return astiav.PixelFormatNone
}

// SurfaceFormat returns the surface format a frame of the given pixel format
// can be copied into without conversion.
func SurfaceFormat(pixFmt astiav.PixelFormat) (types.SurfaceFormat, bool) {
	for format, candidate := range pixelFormats {
		if candidate == pixFmt {
			return format, true
		}
	}
	return types.EndOfSurfaceFormat, false
}

// ConversionTarget is the surface format frames of pixFmt are converted to.
func ConversionTarget(pixFmt astiav.PixelFormat) types.SurfaceFormat {
	switch pixFmt {
	case astiav.PixelFormatP010Le, astiav.PixelFormatYuv420P10Le, astiav.PixelFormatYuv420P12Le:
		return types.SurfaceFormatP016
	case astiav.PixelFormatYuv444P10Le, astiav.PixelFormatYuv444P12Le:
		return types.SurfaceFormatYUV444_16Bit
	case astiav.PixelFormatYuvj444P:
		return types.SurfaceFormatYUV444
	}
	return types.SurfaceFormatNV12
}
