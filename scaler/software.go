package scaler

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/rocvideodecode/helpers/closuresignaler"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/types"
)

// Software is a swscale context.
type Software struct {
	*astiav.SoftwareScaleContext
	*closuresignaler.ClosureSignaler
}

var _ Scaler = (*Software)(nil)

func NewSoftware(
	ctx context.Context,
	src Format,
	dst Format,
	flags ...astiav.SoftwareScaleContextFlag,
) (*Software, error) {
	if src.Dim.IsZero() || dst.Dim.IsZero() {
		return nil, fmt.Errorf("invalid scaling %s -> %s", src, dst)
	}
	swsCtx, err := astiav.CreateSoftwareScaleContext(
		int(src.Dim.Width),
		int(src.Dim.Height),
		src.PixelFormat,
		int(dst.Dim.Width),
		int(dst.Dim.Height),
		dst.PixelFormat,
		astiav.NewSoftwareScaleContextFlags(flags...),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create a software scale context %s -> %s: %w", src, dst, err)
	}
	logger.Debugf(ctx, "created a software scaler %s -> %s", src, dst)
	return &Software{
		SoftwareScaleContext: swsCtx,
		ClosureSignaler:      closuresignaler.New(),
	}, nil
}

func (s *Software) String() string {
	return fmt.Sprintf("SoftwareScaler(%s -> %s)", s.Source(), s.Destination())
}

func (s *Software) Close(ctx context.Context) error {
	logger.Tracef(ctx, "Close")
	defer func() { logger.Tracef(ctx, "/Close") }()
	if s.ClosureSignaler.Close(ctx) {
		s.SoftwareScaleContext.Free()
	}
	return nil
}

func (s *Software) ScaleFrame(
	ctx context.Context,
	src *astiav.Frame,
	dst *astiav.Frame,
) (_err error) {
	logger.Tracef(ctx, "ScaleFrame")
	defer func() { logger.Tracef(ctx, "/ScaleFrame: %v", _err) }()
	if s.IsClosed() {
		return fmt.Errorf("the scaler is closed")
	}
	if err := s.SoftwareScaleContext.ScaleFrame(src, dst); err != nil {
		return fmt.Errorf("unable to scale a frame: %w", err)
	}
	return nil
}

func (s *Software) Source() Format {
	return Format{
		Dim: types.Dim{
			Width:  uint32(s.SoftwareScaleContext.SourceWidth()),
			Height: uint32(s.SoftwareScaleContext.SourceHeight()),
		},
		PixelFormat: s.SoftwareScaleContext.SourcePixelFormat(),
	}
}

func (s *Software) Destination() Format {
	return Format{
		Dim: types.Dim{
			Width:  uint32(s.SoftwareScaleContext.DestinationWidth()),
			Height: uint32(s.SoftwareScaleContext.DestinationHeight()),
		},
		PixelFormat: s.SoftwareScaleContext.DestinationPixelFormat(),
	}
}
