// Package synthetic is a deterministic stand-in for a hardware decoder.
//
// It decodes a tiny self-describing bitstream (see Encode) into patterned
// surfaces laid out like a GPU decoder lays them out (aligned pitch and
// vertical stride), which makes every adapter path runnable without a GPU.
package synthetic

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/xaionaro-go/rocvideodecode/backend"
	"github.com/xaionaro-go/rocvideodecode/backend/surfacequeue"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/surface"
	"github.com/xaionaro-go/rocvideodecode/types"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
)

const (
	DefaultPitchAlignment   = 256
	DefaultVStrideAlignment = 16
)

type Config struct {
	DeviceID int
	MemType  types.OutputSurfaceMemoryType
	CropRect types.Rect

	// MaxWidth and MaxHeight reject bigger pictures when non-zero.
	MaxWidth  uint32
	MaxHeight uint32

	// Delay is how many pictures the decoder holds before outputting,
	// like a reorder buffer does.
	Delay int

	PitchAlignment   uint32
	VStrideAlignment uint32
}

type Decoder struct {
	*surfacequeue.Queue
	Config Config

	locker  xsync.Mutex
	pending []*surface.Surface

	decodedFrames atomic.Uint64
}

var _ backend.VideoDecoder = (*Decoder)(nil)

func New(
	ctx context.Context,
	cfg Config,
) (*Decoder, error) {
	if !cfg.CropRect.IsZero() && (cfg.CropRect.Width() <= 0 || cfg.CropRect.Height() <= 0) {
		return nil, fmt.Errorf("invalid crop rectangle %s", cfg.CropRect)
	}
	if cfg.PitchAlignment == 0 {
		cfg.PitchAlignment = DefaultPitchAlignment
	}
	if cfg.VStrideAlignment == 0 {
		cfg.VStrideAlignment = DefaultVStrideAlignment
	}
	logger.Debugf(ctx, "synthetic decoder: %#+v", cfg)
	return &Decoder{
		Queue:  surfacequeue.New(),
		Config: cfg,
	}, nil
}

func (d *Decoder) String() string {
	return fmt.Sprintf("SyntheticDecoder(dev:%d, mem:%s)", d.Config.DeviceID, d.Config.MemType)
}

func (d *Decoder) DeviceInfo(ctx context.Context) types.ConfigInfo {
	return types.ConfigInfo{
		DeviceID:    d.Config.DeviceID,
		DeviceName:  "synthetic",
		GCNArchName: "none",
	}
}

// DecodedFrames returns the number of pictures decoded since creation.
func (d *Decoder) DecodedFrames() uint64 {
	return d.decodedFrames.Load()
}

func (d *Decoder) DecodeFrame(
	ctx context.Context,
	pkt backend.Packet,
) (_ret int, _err error) {
	logger.Tracef(ctx, "DecodeFrame: pts:%d size:%d eos:%t", pkt.PTS, len(pkt.Data), pkt.EndOfStream)
	defer func() { logger.Tracef(ctx, "/DecodeFrame: %d %v", _ret, _err) }()

	return d.Queue.Decode(ctx, func(emit surfacequeue.EmitFunc) error {
		return xsync.DoA3R1(ctx, &d.locker, d.decodeLocked, ctx, pkt, emit)
	})
}

func (d *Decoder) decodeLocked(
	ctx context.Context,
	pkt backend.Packet,
	emit surfacequeue.EmitFunc,
) error {
	if len(pkt.Data) > 0 {
		pic, err := parse(pkt.Data)
		if err != nil {
			return fmt.Errorf("unable to parse the packet: %w", err)
		}
		if d.Config.MaxWidth != 0 && uint32(pic.Width) > d.Config.MaxWidth ||
			d.Config.MaxHeight != 0 && uint32(pic.Height) > d.Config.MaxHeight {
			return fmt.Errorf("picture %dx%d exceeds the maximum %dx%d", pic.Width, pic.Height, d.Config.MaxWidth, d.Config.MaxHeight)
		}
		layout, err := d.layout(pic)
		if err != nil {
			return err
		}
		if cur, ok := d.Queue.OutputSurfaceInfo(ctx); ok && !surfacequeue.SameGeometry(cur, layout.info) {
			// new sequence: what the pipeline holds goes out first, then
			// everything not fetched yet is flushed
			if err := d.emitPending(ctx, len(d.pending), emit); err != nil {
				return err
			}
			if err := d.Queue.Reconfigure(ctx, layout.info); err != nil {
				return err
			}
		}
		d.pending = append(d.pending, d.render(pic, layout, pkt.PTS))
		d.decodedFrames.Inc()
	}

	release := len(d.pending) - d.Config.Delay
	if pkt.EndOfStream {
		release = len(d.pending)
	}
	if release <= 0 {
		return nil
	}
	return d.emitPending(ctx, release, emit)
}

func (d *Decoder) emitPending(
	ctx context.Context,
	count int,
	emit surfacequeue.EmitFunc,
) error {
	for _, s := range d.pending[:count] {
		if err := emit(ctx, s); err != nil {
			return err
		}
	}
	d.pending = d.pending[count:]
	return nil
}

func align(v, alignment uint32) uint32 {
	return (v + alignment - 1) / alignment * alignment
}

type layout struct {
	info       types.OutputSurfaceInfo
	offX, offY uint32
}

func (d *Decoder) layout(pic Picture) (layout, error) {
	width, height := uint32(pic.Width), uint32(pic.Height)
	var offX, offY uint32
	if crop := d.Config.CropRect; !crop.IsZero() {
		if crop.Right > int32(width) || crop.Bottom > int32(height) || crop.Left < 0 || crop.Top < 0 {
			return layout{}, fmt.Errorf("crop rectangle %s is outside of the picture %dx%d", crop, width, height)
		}
		offX, offY = uint32(crop.Left), uint32(crop.Top)
		width, height = uint32(crop.Width()), uint32(crop.Height())
	}

	bpp := pic.SurfaceFormat.BytesPerPixel()
	return layout{
		info: types.NewOutputSurfaceInfo(
			width, height,
			align(width*bpp, d.Config.PitchAlignment),
			align(height, d.Config.VStrideAlignment),
			pic.SurfaceFormat,
			uint32(pic.BitDepth),
			d.Config.MemType,
		),
		offX: offX,
		offY: offY,
	}, nil
}

func (d *Decoder) render(pic Picture, l layout, pts int64) *surface.Surface {
	s := surface.New(l.info, pts)
	if s.Data == nil {
		return s
	}

	bpp := l.info.BytesPerPixel
	shift := uint32(0)
	if bpp == 2 {
		shift = 16 - uint32(pic.BitDepth)
	}
	for planeIdx, plane := range surface.Planes(l.info) {
		interleaved := planeIdx > 0 && l.info.NumChromaPlanes == 1
		for y := range plane.Height {
			row := s.Data[plane.Offset+uint64(y)*uint64(plane.Pitch):]
			for x := range l.info.OutputWidth {
				v := Sample(l.offX+x, l.offY+y, pts, planeIdx, interleaved)
				switch bpp {
				case 1:
					row[x] = byte(v >> 8)
				case 2:
					binary.LittleEndian.PutUint16(row[x*2:], (v>>shift)<<shift)
				}
			}
		}
	}
	return s
}

// Sample returns the 16-bit value the synthetic decoder writes at the given
// position of the given plane. For interleaved chroma, even x is U and odd x is V.
func Sample(x, y uint32, pts int64, planeIdx int, interleaved bool) uint16 {
	if planeIdx == 0 {
		return uint16(((x*3 + y*5 + uint32(pts)*7) & 0xff) << 8)
	}
	component := uint32(planeIdx)
	if interleaved {
		component = 1 + x&1
	}
	v := 128 + component*16 + (x/2+y)&0x1f + uint32(pts)
	return uint16((v & 0xff) << 8)
}

func (d *Decoder) Close(ctx context.Context) error {
	d.locker.Do(ctx, func() {
		d.pending = nil
	})
	return d.Queue.Close(ctx)
}
