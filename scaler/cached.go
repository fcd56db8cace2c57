package scaler

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/xsync"
)

// Cached keeps a Software scaler to a fixed destination pixel format and
// recreates it whenever the source format changes.
type Cached struct {
	locker      xsync.Mutex
	current     *Software
	dstPixelFmt astiav.PixelFormat
	flags       []astiav.SoftwareScaleContextFlag
}

func NewCached(
	dstPixelFmt astiav.PixelFormat,
	flags ...astiav.SoftwareScaleContextFlag,
) *Cached {
	return &Cached{
		dstPixelFmt: dstPixelFmt,
		flags:       flags,
	}
}

// Convert scales src into dst keeping the resolution; dst must be allocated
// by the caller with the destination pixel format.
func (c *Cached) Convert(
	ctx context.Context,
	src *astiav.Frame,
	dst *astiav.Frame,
) error {
	return xsync.DoR1(ctx, &c.locker, func() error {
		srcFmt := FrameFormat(src)
		if c.current == nil || c.current.Source() != srcFmt {
			if c.current != nil {
				_ = c.current.Close(ctx)
			}
			s, err := NewSoftware(ctx, srcFmt, Format{Dim: srcFmt.Dim, PixelFormat: c.dstPixelFmt}, c.flags...)
			if err != nil {
				c.current = nil
				return fmt.Errorf("unable to initialize the scaler: %w", err)
			}
			c.current = s
		}
		return c.current.ScaleFrame(ctx, src, dst)
	})
}

func (c *Cached) Close(ctx context.Context) error {
	return xsync.DoR1(ctx, &c.locker, func() error {
		if c.current == nil {
			return nil
		}
		err := c.current.Close(ctx)
		c.current = nil
		return err
	})
}
