package software

import (
	"encoding/binary"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/transform"
	"github.com/nfnt/resize"
	"github.com/xaionaro-go/rocvideodecode/types"
)

// planeGeometry is a plane seen as an image of samples with comps components
// each (2 for interleaved UV).
type planeGeometry struct {
	offset uint64
	pitch  uint64
	width  int
	height int
	comps  int
}

func planeGeometries(info types.OutputSurfaceInfo) []planeGeometry {
	pitch := uint64(info.OutputPitch)
	result := []planeGeometry{{
		offset: 0,
		pitch:  pitch,
		width:  int(info.OutputWidth),
		height: int(info.OutputHeight),
		comps:  1,
	}}
	offset := pitch * uint64(info.OutputVStride)
	chromaSize := pitch * uint64(info.ChromaVStride())
	if info.SurfaceFormat.IsChromaSubsampled() {
		return append(result, planeGeometry{
			offset: offset,
			pitch:  pitch,
			width:  int(info.OutputWidth+1) / 2,
			height: int(info.ChromaHeight()),
			comps:  2,
		})
	}
	for range info.NumChromaPlanes {
		result = append(result, planeGeometry{
			offset: offset,
			pitch:  pitch,
			width:  int(info.OutputWidth),
			height: int(info.OutputHeight),
			comps:  1,
		})
		offset += chromaSize
	}
	return result
}

func (p *PostProcessor) resizePlanes(
	srcInfo types.OutputSurfaceInfo,
	src []byte,
	dstInfo types.OutputSurfaceInfo,
	dst []byte,
) error {
	srcPlanes := planeGeometries(srcInfo)
	dstPlanes := planeGeometries(dstInfo)
	for idx := range srcPlanes {
		if srcInfo.BytesPerPixel == 2 {
			p.resizePlane16(srcPlanes[idx], src, dstPlanes[idx], dst)
			continue
		}
		p.resizePlane8(srcPlanes[idx], src, dstPlanes[idx], dst)
	}
	return nil
}

func (p *PostProcessor) resizePlane8(
	srcPlane planeGeometry,
	src []byte,
	dstPlane planeGeometry,
	dst []byte,
) {
	var img image.Image
	switch srcPlane.comps {
	case 1:
		img = &image.Gray{
			Pix:    src[srcPlane.offset:],
			Stride: int(srcPlane.pitch),
			Rect:   image.Rect(0, 0, srcPlane.width, srcPlane.height),
		}
	default:
		uv := image.NewNRGBA(image.Rect(0, 0, srcPlane.width, srcPlane.height))
		for y := range srcPlane.height {
			row := src[srcPlane.offset+uint64(y)*srcPlane.pitch:]
			for x := range srcPlane.width {
				uv.SetNRGBA(x, y, color.NRGBA{R: row[2*x], G: row[2*x+1], A: 0xff})
			}
		}
		img = uv
	}

	resized := transform.Resize(img, dstPlane.width, dstPlane.height, p.ResampleFilter)
	for y := range dstPlane.height {
		row := dst[dstPlane.offset+uint64(y)*dstPlane.pitch:]
		for x := range dstPlane.width {
			px := resized.RGBAAt(x, y)
			if dstPlane.comps == 1 {
				row[x] = px.R
				continue
			}
			row[2*x] = px.R
			row[2*x+1] = px.G
		}
	}
}

// resizePlane16 resamples a 16-bit plane at full precision: luma and 4:4:4
// chroma as image.Gray16, interleaved UV as the R and G of an image.RGBA64.
func (p *PostProcessor) resizePlane16(
	srcPlane planeGeometry,
	src []byte,
	dstPlane planeGeometry,
	dst []byte,
) {
	at := func(x, y, comp int) uint16 {
		offset := srcPlane.offset + uint64(y)*srcPlane.pitch + uint64((x*srcPlane.comps+comp)*2)
		return binary.LittleEndian.Uint16(src[offset:])
	}
	bounds := image.Rect(0, 0, srcPlane.width, srcPlane.height)
	var img image.Image
	switch srcPlane.comps {
	case 1:
		gray := image.NewGray16(bounds)
		for y := range srcPlane.height {
			for x := range srcPlane.width {
				gray.SetGray16(x, y, color.Gray16{Y: at(x, y, 0)})
			}
		}
		img = gray
	default:
		uv := image.NewRGBA64(bounds)
		for y := range srcPlane.height {
			for x := range srcPlane.width {
				uv.SetRGBA64(x, y, color.RGBA64{R: at(x, y, 0), G: at(x, y, 1), A: 0xffff})
			}
		}
		img = uv
	}

	resized := resize.Resize(uint(dstPlane.width), uint(dstPlane.height), img, p.ResampleFilter16)
	for y := range dstPlane.height {
		row := dst[dstPlane.offset+uint64(y)*dstPlane.pitch:]
		for x := range dstPlane.width {
			c := color.RGBA64Model.Convert(resized.At(x, y)).(color.RGBA64)
			if dstPlane.comps == 1 {
				binary.LittleEndian.PutUint16(row[x*2:], c.R)
				continue
			}
			binary.LittleEndian.PutUint16(row[x*4:], c.R)
			binary.LittleEndian.PutUint16(row[x*4+2:], c.G)
		}
	}
}
