package types

import (
	"fmt"
)

// OutputSurfaceInfo describes the layout of a decoded (or resized) surface.
type OutputSurfaceInfo struct {
	OutputWidth              uint32
	OutputHeight             uint32
	OutputPitch              uint32 // in bytes
	OutputVStride            uint32 // in rows, the luma plane height including padding
	BytesPerPixel            uint32
	BitDepth                 uint32
	NumChromaPlanes          uint32
	OutputSurfaceSizeInBytes uint64
	SurfaceFormat            SurfaceFormat
	MemType                  OutputSurfaceMemoryType
}

// NewOutputSurfaceInfo fills in the derived fields for a surface of the given
// geometry.
func NewOutputSurfaceInfo(
	width, height, pitch, vStride uint32,
	format SurfaceFormat,
	bitDepth uint32,
	memType OutputSurfaceMemoryType,
) OutputSurfaceInfo {
	info := OutputSurfaceInfo{
		OutputWidth:     width,
		OutputHeight:    height,
		OutputPitch:     pitch,
		OutputVStride:   vStride,
		BytesPerPixel:   format.BytesPerPixel(),
		BitDepth:        bitDepth,
		NumChromaPlanes: format.NumChromaPlanes(),
		SurfaceFormat:   format,
		MemType:         memType,
	}
	info.OutputSurfaceSizeInBytes = uint64(pitch) * uint64(vStride+info.ChromaVStride()*info.NumChromaPlanes)
	return info
}

// ChromaVStride is the number of rows reserved for each chroma plane.
func (info OutputSurfaceInfo) ChromaVStride() uint32 {
	return info.SurfaceFormat.ChromaHeight(info.OutputVStride)
}

// ChromaHeight is the number of visible rows in each chroma plane.
func (info OutputSurfaceInfo) ChromaHeight() uint32 {
	return info.SurfaceFormat.ChromaHeight(info.OutputHeight)
}

// RowSize is the number of meaningful bytes in each row.
func (info OutputSurfaceInfo) RowSize() uint32 {
	return info.OutputWidth * info.BytesPerPixel
}

// VisibleSize is the size of the surface with all padding removed.
func (info OutputSurfaceInfo) VisibleSize() uint64 {
	rows := uint64(info.OutputHeight) + uint64(info.ChromaHeight())*uint64(info.NumChromaPlanes)
	return uint64(info.RowSize()) * rows
}

func (info OutputSurfaceInfo) Dim() Dim {
	return Dim{Width: info.OutputWidth, Height: info.OutputHeight}
}

func (info OutputSurfaceInfo) Validate() error {
	if info.OutputWidth == 0 || info.OutputHeight == 0 {
		return fmt.Errorf("empty surface %dx%d", info.OutputWidth, info.OutputHeight)
	}
	if info.OutputPitch < info.RowSize() {
		return fmt.Errorf("pitch %d is less than the row size %d", info.OutputPitch, info.RowSize())
	}
	if info.OutputVStride < info.OutputHeight {
		return fmt.Errorf("vertical stride %d is less than the height %d", info.OutputVStride, info.OutputHeight)
	}
	return nil
}

func (info OutputSurfaceInfo) String() string {
	return fmt.Sprintf(
		"%dx%d:%s(pitch:%d, vstride:%d, bit_depth:%d, mem:%s)",
		info.OutputWidth, info.OutputHeight, info.SurfaceFormat,
		info.OutputPitch, info.OutputVStride, info.BitDepth, info.MemType,
	)
}
