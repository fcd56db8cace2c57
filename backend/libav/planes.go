package libav

import (
	"fmt"

	"github.com/xaionaro-go/rocvideodecode/surface"
	"github.com/xaionaro-go/rocvideodecode/types"
)

// packedPlane is a plane as av_image_copy_to_buffer lays it out with
// alignment 1.
type packedPlane struct {
	rowSize uint32
	rows    uint32
	// bytesPerSample is the size of one horizontal position of the plane
	// (both chroma samples for interleaved chroma).
	bytesPerSample uint32
	subsampled     bool
}

func packedPlanes(format types.SurfaceFormat, width, height uint32) []packedPlane {
	bpp := format.BytesPerPixel()
	luma := packedPlane{rowSize: width * bpp, rows: height, bytesPerSample: bpp}
	if format.IsChromaSubsampled() {
		cw, ch := (width+1)/2, (height+1)/2
		return []packedPlane{luma, {rowSize: cw * 2 * bpp, rows: ch, bytesPerSample: 2 * bpp, subsampled: true}}
	}
	planes := []packedPlane{luma}
	for range format.NumChromaPlanes() {
		planes = append(planes, luma)
	}
	return planes
}

// copyPlanes copies the packed image (of the full, uncropped picture) into
// the surface, starting at (offX, offY).
func copyPlanes(
	s *surface.Surface,
	packed []byte,
	width, height uint32,
	offX, offY uint32,
) error {
	src := packedPlanes(s.Info.SurfaceFormat, width, height)
	dst := surface.Planes(s.Info)
	if len(src) != len(dst) {
		return fmt.Errorf("internal error: %d source planes, %d surface planes", len(src), len(dst))
	}

	srcOffset := uint64(0)
	for idx, plane := range src {
		x, y := offX, offY
		if plane.subsampled {
			x, y = offX/2, offY/2
		}
		rowBytes := dst[idx].RowSize
		if plane.subsampled {
			rowBytes = min((s.Info.OutputWidth+1)/2*plane.bytesPerSample, dst[idx].Pitch)
		}
		for row := range dst[idx].Height {
			start := srcOffset + uint64(y+row)*uint64(plane.rowSize) + uint64(x*plane.bytesPerSample)
			end := start + uint64(rowBytes)
			if end > uint64(len(packed)) {
				return fmt.Errorf("the image buffer is too short: %d < %d", len(packed), end)
			}
			dstStart := dst[idx].Offset + uint64(row)*uint64(dst[idx].Pitch)
			copy(s.Data[dstStart:dstStart+uint64(rowBytes)], packed[start:end])
		}
		srcOffset += uint64(plane.rowSize) * uint64(plane.rows)
	}
	return nil
}
