package libav

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/rocvideodecode/avconv"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/scaler"
	"github.com/xaionaro-go/rocvideodecode/surface"
	"github.com/xaionaro-go/rocvideodecode/types"
)

// toSurface copies a decoded frame into a new surface. f stays owned by the
// caller.
func (d *Decoder) toSurface(
	ctx context.Context,
	f *astiav.Frame,
) (_ret *surface.Surface, _err error) {
	logger.Tracef(ctx, "toSurface: %dx%d:%s pts:%d", f.Width(), f.Height(), f.PixelFormat(), f.Pts())
	defer func() { logger.Tracef(ctx, "/toSurface: %v %v", _ret, _err) }()

	width, height := uint32(f.Width()), uint32(f.Height())
	if d.Config.MaxWidth != 0 && width > d.Config.MaxWidth ||
		d.Config.MaxHeight != 0 && height > d.Config.MaxHeight {
		return nil, fmt.Errorf("picture %dx%d exceeds the maximum %dx%d", width, height, d.Config.MaxWidth, d.Config.MaxHeight)
	}

	pts := f.Pts()
	if avconv.IsNoPTS(pts) {
		pts = 0
	}

	if d.hardwarePixelFormat != astiav.PixelFormatNone && f.PixelFormat() == d.hardwarePixelFormat {
		ramFrame := framePool.Get()
		defer framePool.Put(ramFrame)
		if err := f.TransferHardwareData(ramFrame); err != nil {
			return nil, fmt.Errorf("unable to transfer the frame from the hardware decoder to RAM: %w", err)
		}
		f = ramFrame
	}

	format, ok := avconv.SurfaceFormat(f.PixelFormat())
	if !ok {
		format = avconv.ConversionTarget(f.PixelFormat())
		converted, err := d.convert(ctx, f, format)
		if err != nil {
			return nil, err
		}
		defer framePool.Put(converted)
		f = converted
	}

	info, offX, offY, err := d.layout(width, height, format)
	if err != nil {
		return nil, err
	}
	s := surface.New(info, pts)
	if s.Data == nil {
		return s, nil
	}

	size, err := f.ImageBufferSize(1)
	if err != nil {
		return nil, fmt.Errorf("unable to get the image size: %w", err)
	}
	packed := make([]byte, size)
	if _, err := f.ImageCopyToBuffer(packed, 1); err != nil {
		return nil, fmt.Errorf("unable to copy the image: %w", err)
	}
	if err := copyPlanes(s, packed, width, height, offX, offY); err != nil {
		return nil, err
	}
	return s, nil
}

func (d *Decoder) convert(
	ctx context.Context,
	f *astiav.Frame,
	format types.SurfaceFormat,
) (*astiav.Frame, error) {
	s, ok := d.scalers[format]
	if !ok {
		s = scaler.NewCached(avconv.PixelFormat(format), astiav.SoftwareScaleContextFlagBilinear)
		d.scalers[format] = s
	}
	dst := framePool.Get()
	dst.SetWidth(f.Width())
	dst.SetHeight(f.Height())
	dst.SetPixelFormat(avconv.PixelFormat(format))
	if err := dst.AllocBuffer(0); err != nil {
		framePool.Put(dst)
		return nil, fmt.Errorf("unable to allocate a %s frame: %w", format, err)
	}
	if err := s.Convert(ctx, f, dst); err != nil {
		framePool.Put(dst)
		return nil, fmt.Errorf("unable to convert %s to %s: %w", f.PixelFormat(), format, err)
	}
	return dst, nil
}

func align(v, alignment uint32) uint32 {
	return (v + alignment - 1) / alignment * alignment
}

func (d *Decoder) layout(
	width, height uint32,
	format types.SurfaceFormat,
) (types.OutputSurfaceInfo, uint32, uint32, error) {
	var offX, offY uint32
	if crop := d.Config.CropRect; !crop.IsZero() {
		if crop.Left < 0 || crop.Top < 0 || crop.Right > int32(width) || crop.Bottom > int32(height) {
			return types.OutputSurfaceInfo{}, 0, 0, fmt.Errorf("crop rectangle %s is outside of the picture %dx%d", crop, width, height)
		}
		if format.IsChromaSubsampled() && (crop.Left%2 != 0 || crop.Top%2 != 0) {
			return types.OutputSurfaceInfo{}, 0, 0, fmt.Errorf("crop rectangle %s must start at even coordinates for %s", crop, format)
		}
		offX, offY = uint32(crop.Left), uint32(crop.Top)
		width, height = uint32(crop.Width()), uint32(crop.Height())
	}

	bitDepth := uint32(8)
	if format.BytesPerPixel() == 2 {
		bitDepth = 16
	}
	info := types.NewOutputSurfaceInfo(
		width, height,
		align(width*format.BytesPerPixel(), d.Config.PitchAlignment),
		align(height, d.Config.VStrideAlignment),
		format,
		bitDepth,
		d.Config.MemType,
	)
	return info, offX, offY, nil
}
