package decoder

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/rocvideodecode/handle"
	"github.com/xaionaro-go/rocvideodecode/internal"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/postprocess"
	"github.com/xaionaro-go/rocvideodecode/types"
	"github.com/xaionaro-go/xsync"
)

// GetFrame fetches the next decoded frame into pkt. If no frame is ready,
// the frame part of pkt is reset and the returned PTS is zero.
func (d *Decoder) GetFrame(
	ctx context.Context,
	pkt *types.PacketData,
) (_ret int64, _err error) {
	logger.Tracef(ctx, "GetFrame")
	defer func() { logger.Tracef(ctx, "/GetFrame: %d %v", _ret, _err) }()
	if d.IsClosed() {
		return 0, ErrClosed
	}

	pkt.ResetFrame()
	s, err := d.Backend.GetFrame(ctx)
	if err != nil {
		return 0, fmt.Errorf("unable to get a frame from %s: %w", d.Backend, err)
	}
	if s == nil {
		pkt.FramePTS = 0
		return 0, nil
	}
	internal.Assert(ctx, s.Data == nil || uint64(len(s.Data)) >= s.Info.OutputSurfaceSizeInBytes,
		"the backend returned a truncated surface", len(s.Data), s.Info.OutputSurfaceSizeInBytes)

	pkt.FrameHandle = d.handles.Register(ctx, handle.KindSurface, handle.OwnerDecoder, &frameBuffer{
		Info: s.Info,
		PTS:  s.PTS,
		Data: s.Data,
	})
	pkt.FramePTS = s.PTS
	pkt.FrameSize = s.Info.OutputSurfaceSizeInBytes
	return s.PTS, nil
}

// RGBImageSize is the size of a packed RGB image of the surface in the given
// format. Widths are rounded up to even.
func RGBImageSize(
	format types.OutputFormat,
	info types.OutputSurfaceInfo,
) uint64 {
	return format.ImageSize(info.OutputWidth, info.OutputHeight)
}

// GetFrameRGB fetches the next decoded frame and color-converts it into the
// adapter's RGB buffer. The native frame still has to be released.
func (d *Decoder) GetFrameRGB(
	ctx context.Context,
	pkt *types.PacketData,
	format types.OutputFormat,
) (_ret int64, _err error) {
	logger.Tracef(ctx, "GetFrameRGB: %s", format)
	defer func() { logger.Tracef(ctx, "/GetFrameRGB: %s: %d %v", format, _ret, _err) }()

	if !format.IsRGB() {
		return 0, fmt.Errorf("%s is not an RGB format", format)
	}
	if d.PostProcessor == nil {
		return 0, fmt.Errorf("color conversion is not available: no post-processor")
	}

	pts, err := d.GetFrame(ctx, pkt)
	if err != nil {
		return 0, err
	}
	if pkt.FrameHandle.IsNil() {
		return 0, nil
	}

	src, err := d.handles.Resolve(ctx, pkt.FrameHandle, handle.KindSurface)
	if err != nil {
		return pts, fmt.Errorf("unable to resolve the frame: %w", err)
	}
	if src.Data == nil {
		return pts, fmt.Errorf("the frame is not mapped to host memory (%s), nothing to convert", src.Info.MemType)
	}

	size := RGBImageSize(format, src.Info)
	h, err := xsync.DoR2(ctx, &d.locker, func() (handle.Handle, error) {
		if d.rgb == nil || uint64(len(d.rgb.Data)) != size {
			if !d.rgbHandle.IsNil() {
				d.handles.Revoke(ctx, d.rgbHandle)
			}
			logger.Debugf(ctx, "allocating an RGB buffer of %d bytes", size)
			d.rgb = &frameBuffer{Data: make([]byte, size)}
			d.rgbHandle = d.handles.Register(ctx, handle.KindRGB, handle.OwnerAdapter, d.rgb)
		}
		d.rgb.Info, d.rgb.Format, d.rgb.PTS = src.Info, format, src.PTS
		if err := d.PostProcessor.ColorConvert(ctx, src.Info, src.Data, format, d.rgb.Data); err != nil {
			return handle.Nil, fmt.Errorf("unable to convert %s to %s: %w", src.Info, format, err)
		}
		return d.rgbHandle, nil
	})
	if err != nil {
		return pts, err
	}
	pkt.FrameHandleRGB = h
	return pts, nil
}

// ResizeFrame resizes the frame of pkt (described by srcInfo) to dim into the
// adapter's resize buffer. Resizing to the current dimensions is a no-op that
// returns the frame handle itself. A nil handle is returned on failure.
func (d *Decoder) ResizeFrame(
	ctx context.Context,
	pkt *types.PacketData,
	dim types.Dim,
	srcInfo types.OutputSurfaceInfo,
) (_ret handle.Handle, _err error) {
	logger.Tracef(ctx, "ResizeFrame: %s -> %s", srcInfo, dim)
	defer func() { logger.Tracef(ctx, "/ResizeFrame: %s -> %s: %s %v", srcInfo, dim, _ret, _err) }()
	if d.IsClosed() {
		return handle.Nil, ErrClosed
	}
	if dim.IsZero() {
		return handle.Nil, fmt.Errorf("invalid target dimensions %s", dim)
	}

	src, err := d.handles.Resolve(ctx, pkt.FrameHandle, handle.KindSurface)
	if err != nil {
		return handle.Nil, fmt.Errorf("unable to resolve the frame: %w", err)
	}

	if dim == srcInfo.Dim() {
		d.locker.Do(ctx, func() {
			d.resizedInfo, d.hasResizedInfo = srcInfo, true
		})
		pkt.FrameHandleResized = pkt.FrameHandle
		return pkt.FrameHandle, nil
	}

	if d.PostProcessor == nil {
		return handle.Nil, fmt.Errorf("resizing is not available: no post-processor")
	}
	if src.Data == nil {
		return handle.Nil, fmt.Errorf("the frame is not mapped to host memory (%s), nothing to resize", srcInfo.MemType)
	}

	dstInfo := postprocess.ResizedSurfaceInfo(srcInfo, dim)
	h, err := xsync.DoR2(ctx, &d.locker, func() (handle.Handle, error) {
		size := dstInfo.OutputSurfaceSizeInBytes
		if d.resized == nil || uint64(len(d.resized.Data)) != size {
			if !d.resizedHandle.IsNil() {
				d.handles.Revoke(ctx, d.resizedHandle)
			}
			logger.Debugf(ctx, "allocating a resize buffer of %d bytes", size)
			d.resized = &frameBuffer{Data: make([]byte, size)}
			d.resizedHandle = d.handles.Register(ctx, handle.KindResized, handle.OwnerAdapter, d.resized)
		}
		info, err := d.PostProcessor.Resize(ctx, srcInfo, src.Data, dim, d.resized.Data)
		if err != nil {
			return handle.Nil, fmt.Errorf("unable to resize %s to %s: %w", srcInfo, dim, err)
		}
		d.resized.Info, d.resized.PTS = info, src.PTS
		d.resizedInfo, d.hasResizedInfo = info, true
		return d.resizedHandle, nil
	})
	if err != nil {
		return handle.Nil, err
	}
	pkt.FrameHandleResized = h
	return h, nil
}

// ResizedOutputSurfaceInfo describes the result of the last successful
// ResizeFrame.
func (d *Decoder) ResizedOutputSurfaceInfo(ctx context.Context) (types.OutputSurfaceInfo, bool) {
	var (
		info types.OutputSurfaceInfo
		ok   bool
	)
	d.locker.Do(xsync.WithNoLogging(ctx, true), func() {
		info, ok = d.resizedInfo, d.hasResizedInfo
	})
	return info, ok
}

// ReleaseFrame gives the frame of pkt back to the decoder; its handle becomes
// stale.
func (d *Decoder) ReleaseFrame(
	ctx context.Context,
	pkt *types.PacketData,
) (_err error) {
	logger.Tracef(ctx, "ReleaseFrame: pts:%d", pkt.FramePTS)
	defer func() { logger.Tracef(ctx, "/ReleaseFrame: pts:%d: %v", pkt.FramePTS, _err) }()
	if d.IsClosed() {
		return ErrClosed
	}

	pts := pkt.FramePTS
	h := pkt.FrameHandle
	if h.IsNil() {
		// released by PTS only: the surface handle must not outlive the frame
		h, _ = d.handles.Find(ctx, handle.KindSurface, func(fb *frameBuffer) bool {
			return fb.PTS == pts
		})
	}
	if !h.IsNil() {
		fb, ok := d.handles.Revoke(ctx, h)
		if !ok {
			return fmt.Errorf("unable to release the frame: %w", handle.ErrStaleHandle{Handle: h})
		}
		pts = fb.PTS
	}
	if err := d.Backend.ReleaseFrame(ctx, pts); err != nil {
		return fmt.Errorf("unable to release the frame with pts %d: %w", pts, err)
	}
	return nil
}

// resolve returns the bytes behind h checked against the layout the caller
// claims they have.
func (d *Decoder) resolve(
	ctx context.Context,
	h handle.Handle,
	kinds ...handle.Kind,
) (*frameBuffer, error) {
	fb, err := d.handles.Resolve(ctx, h, kinds...)
	if err != nil {
		return nil, err
	}
	if fb.Data == nil {
		return nil, fmt.Errorf("%s is not mapped to host memory", h)
	}
	return fb, nil
}
