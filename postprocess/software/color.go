package software

import (
	"encoding/binary"
	"fmt"

	"github.com/xaionaro-go/rocvideodecode/types"
)

type ColorStandard int

const (
	ColorStandardBT601 = ColorStandard(iota)
	ColorStandardBT709
)

func (s ColorStandard) String() string {
	switch s {
	case ColorStandardBT601:
		return "bt601"
	case ColorStandardBT709:
		return "bt709"
	}
	return fmt.Sprintf("unknown_%d", int(s))
}

type colorMatrix struct {
	rv, gu, gv, bu float64
}

func (s ColorStandard) matrix() colorMatrix {
	switch s {
	case ColorStandardBT709:
		return colorMatrix{rv: 1.5748, gu: 0.1873, gv: 0.4681, bu: 1.8556}
	default:
		return colorMatrix{rv: 1.402, gu: 0.344136, gv: 0.714136, bu: 1.772}
	}
}

// toRGB takes limited range components normalized to [0, 1].
func (m colorMatrix) toRGB(y, u, v float64) (r, g, b float64) {
	y = (y*255 - 16) / 219
	u = (u*255 - 128) / 224
	v = (v*255 - 128) / 224
	r = clamp01(y + m.rv*v)
	g = clamp01(y - m.gu*u - m.gv*v)
	b = clamp01(y + m.bu*u)
	return
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

type yuvReader struct {
	info types.OutputSurfaceInfo
	data []byte
	// offsets of the luma and chroma planes
	planes [3]uint64
}

func newYUVReader(info types.OutputSurfaceInfo, data []byte) yuvReader {
	r := yuvReader{info: info, data: data}
	lumaSize := uint64(info.OutputPitch) * uint64(info.OutputVStride)
	chromaSize := uint64(info.OutputPitch) * uint64(info.ChromaVStride())
	r.planes[1] = lumaSize
	r.planes[2] = lumaSize + chromaSize
	return r
}

func (r yuvReader) sample(offset uint64) float64 {
	if r.info.BytesPerPixel == 2 {
		return float64(binary.LittleEndian.Uint16(r.data[offset:])) / 0xffff
	}
	return float64(r.data[offset]) / 0xff
}

func (r yuvReader) At(x, y uint32) (yy, u, v float64) {
	bpp := uint64(r.info.BytesPerPixel)
	pitch := uint64(r.info.OutputPitch)
	yy = r.sample(r.planes[0] + uint64(y)*pitch + uint64(x)*bpp)
	if r.info.SurfaceFormat.IsChromaSubsampled() {
		offset := r.planes[1] + uint64(y/2)*pitch + uint64(x/2)*2*bpp
		u = r.sample(offset)
		v = r.sample(offset + bpp)
		return
	}
	offset := uint64(y)*pitch + uint64(x)*bpp
	u = r.sample(r.planes[1] + offset)
	v = r.sample(r.planes[2] + offset)
	return
}

type rgbWriter struct {
	format types.OutputFormat
	bpp    uint64
	stride uint64
}

func newRGBWriter(format types.OutputFormat, width uint32) rgbWriter {
	bpp := uint64(format.BytesPerPixel())
	return rgbWriter{
		format: format,
		bpp:    bpp,
		stride: uint64((width+1)&^1) * bpp,
	}
}

func (w rgbWriter) Set(dst []byte, x, y uint32, r, g, b float64) {
	c0, c2 := r, b
	if w.format.IsBGROrder() {
		c0, c2 = b, r
	}
	channels := [4]float64{c0, g, c2, 1}
	offset := uint64(y)*w.stride + uint64(x)*w.bpp
	for idx := range w.format.NumChannels() {
		if w.format.Is16Bit() {
			binary.LittleEndian.PutUint16(dst[offset+uint64(idx)*2:], uint16(channels[idx]*0xffff+0.5))
			continue
		}
		dst[offset+uint64(idx)] = byte(channels[idx]*0xff + 0.5)
	}
}
