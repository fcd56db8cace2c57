package types

import (
	"fmt"
)

// OutputFormat selects the color conversion applied when fetching a frame.
type OutputFormat int

const (
	OutputFormatNative = OutputFormat(iota)
	OutputFormatBGR
	OutputFormatBGR48
	OutputFormatRGB
	OutputFormatRGB48
	OutputFormatBGRA
	OutputFormatBGRA64
	OutputFormatRGBA
	OutputFormatRGBA64
	EndOfOutputFormat
)

func (f OutputFormat) String() string {
	switch f {
	case OutputFormatNative:
		return "native"
	case OutputFormatBGR:
		return "bgr"
	case OutputFormatBGR48:
		return "bgr48"
	case OutputFormatRGB:
		return "rgb"
	case OutputFormatRGB48:
		return "rgb48"
	case OutputFormatBGRA:
		return "bgra"
	case OutputFormatBGRA64:
		return "bgra64"
	case OutputFormatRGBA:
		return "rgba"
	case OutputFormatRGBA64:
		return "rgba64"
	}
	return fmt.Sprintf("unknown_%d", int(f))
}

// BytesPerPixel returns zero for Native and for unknown formats.
func (f OutputFormat) BytesPerPixel() uint32 {
	switch f {
	case OutputFormatBGR, OutputFormatRGB:
		return 3
	case OutputFormatBGR48, OutputFormatRGB48:
		return 6
	case OutputFormatBGRA, OutputFormatRGBA:
		return 4
	case OutputFormatBGRA64, OutputFormatRGBA64:
		return 8
	}
	return 0
}

func (f OutputFormat) NumChannels() uint32 {
	switch f {
	case OutputFormatBGR, OutputFormatRGB, OutputFormatBGR48, OutputFormatRGB48:
		return 3
	case OutputFormatBGRA, OutputFormatRGBA, OutputFormatBGRA64, OutputFormatRGBA64:
		return 4
	}
	return 0
}

func (f OutputFormat) Is16Bit() bool {
	switch f {
	case OutputFormatBGR48, OutputFormatRGB48, OutputFormatBGRA64, OutputFormatRGBA64:
		return true
	}
	return false
}

// IsBGROrder reports whether blue is stored first.
func (f OutputFormat) IsBGROrder() bool {
	switch f {
	case OutputFormatBGR, OutputFormatBGR48, OutputFormatBGRA, OutputFormatBGRA64:
		return true
	}
	return false
}

func (f OutputFormat) IsRGB() bool {
	return f.BytesPerPixel() != 0
}

// ImageSize returns the size of a packed image of this format. The width is
// aligned to 2, as decoded surfaces always are.
func (f OutputFormat) ImageSize(width, height uint32) uint64 {
	alignedWidth := (width + 1) &^ 1
	return uint64(alignedWidth) * uint64(height) * uint64(f.BytesPerPixel())
}

func OutputFormatFromString(s string) (OutputFormat, error) {
	return parseEnum(s, EndOfOutputFormat, "output format")
}

func (f *OutputFormat) Set(s string) error {
	v, err := OutputFormatFromString(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f *OutputFormat) Type() string {
	return "format"
}
