// Package surface describes decoded frames living in host memory and how to
// walk their planes.
package surface

import (
	"fmt"

	"github.com/xaionaro-go/rocvideodecode/types"
)

// Surface is a decoded frame. Data is nil when the decoder does not map
// surfaces (types.MemoryTypeNotMapped).
type Surface struct {
	Info types.OutputSurfaceInfo
	PTS  int64
	Data []byte
}

func New(info types.OutputSurfaceInfo, pts int64) *Surface {
	s := &Surface{
		Info: info,
		PTS:  pts,
	}
	if info.MemType.IsMapped() {
		s.Data = make([]byte, info.OutputSurfaceSizeInBytes)
	}
	return s
}

func (s *Surface) String() string {
	return fmt.Sprintf("Surface(pts:%d, %s)", s.PTS, s.Info)
}

// Plane describes one plane of a surface inside its buffer.
type Plane struct {
	Offset  uint64
	Pitch   uint32
	RowSize uint32
	Height  uint32
}

// Planes returns the luma plane followed by the chroma planes.
func Planes(info types.OutputSurfaceInfo) []Plane {
	planes := make([]Plane, 0, 1+info.NumChromaPlanes)
	planes = append(planes, Plane{
		Offset:  0,
		Pitch:   info.OutputPitch,
		RowSize: info.RowSize(),
		Height:  info.OutputHeight,
	})
	offset := uint64(info.OutputPitch) * uint64(info.OutputVStride)
	for range info.NumChromaPlanes {
		planes = append(planes, Plane{
			Offset:  offset,
			Pitch:   info.OutputPitch,
			RowSize: info.RowSize(),
			Height:  info.ChromaHeight(),
		})
		offset += uint64(info.OutputPitch) * uint64(info.ChromaVStride())
	}
	return planes
}

// ForEachVisibleRow calls fn for every row of every plane, with the padding
// stripped.
func ForEachVisibleRow(
	info types.OutputSurfaceInfo,
	data []byte,
	fn func(row []byte) error,
) error {
	if err := info.Validate(); err != nil {
		return fmt.Errorf("invalid surface info: %w", err)
	}
	if uint64(len(data)) < info.OutputSurfaceSizeInBytes {
		return fmt.Errorf("the surface buffer is too small: %d < %d", len(data), info.OutputSurfaceSizeInBytes)
	}
	for _, plane := range Planes(info) {
		for y := range plane.Height {
			start := plane.Offset + uint64(y)*uint64(plane.Pitch)
			if err := fn(data[start : start+uint64(plane.RowSize)]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Pack returns a copy of the surface with all padding removed.
func Pack(info types.OutputSurfaceInfo, data []byte) ([]byte, error) {
	result := make([]byte, 0, info.VisibleSize())
	err := ForEachVisibleRow(info, data, func(row []byte) error {
		result = append(result, row...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
