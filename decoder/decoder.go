// Package decoder is the adapter between callers and a native video decoder.
//
// The adapter forwards decode/fetch/release calls to a backend.VideoDecoder
// and owns only a few things on top of it: the RGB and resized buffers, the
// reconfiguration flush settings, the MD5 accumulator and the session
// overhead table. Memory is exposed through handle.Handle values only.
package decoder

import (
	"context"
	"errors"
	"fmt"
	"hash"
	"time"

	"github.com/facebookincubator/go-belt"
	"github.com/xaionaro-go/rocvideodecode/backend"
	"github.com/xaionaro-go/rocvideodecode/framefile"
	"github.com/xaionaro-go/rocvideodecode/handle"
	"github.com/xaionaro-go/rocvideodecode/helpers/closuresignaler"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/postprocess"
	"github.com/xaionaro-go/rocvideodecode/types"
	"github.com/xaionaro-go/xsync"
)

// frameBuffer is what a handle resolves to.
type frameBuffer struct {
	Info   types.OutputSurfaceInfo
	Format types.OutputFormat
	PTS    int64
	Data   []byte
}

type Decoder struct {
	*closuresignaler.ClosureSignaler
	Config        Config
	Backend       backend.VideoDecoder
	PostProcessor postprocess.PostProcessor

	handles *handle.Table[*frameBuffer]

	locker         xsync.Mutex
	rgb            *frameBuffer
	rgbHandle      handle.Handle
	resized        *frameBuffer
	resizedHandle  handle.Handle
	resizedInfo    types.OutputSurfaceInfo
	hasResizedInfo bool
	flushMode      types.ReconfigFlushMode
	dumpFile       types.ReconfigDumpFile

	md5Locker xsync.Mutex
	md5       hash.Hash

	overheadLocker xsync.Mutex
	overheads      map[uint64]time.Duration

	// fileWriter serves both the reconfiguration dump and the Save* calls,
	// so a dump file that is also the output file keeps every frame.
	fileWriter *framefile.Writer
}

// New wraps an already created native decoder. The reconfiguration flush mode
// starts as types.ReconfigFlushModeNone.
func New(
	ctx context.Context,
	videoDecoder backend.VideoDecoder,
	postProcessor postprocess.PostProcessor,
	cfg Config,
) (_ret *Decoder, _err error) {
	logger.Debugf(ctx, "New: %s %s %#+v", videoDecoder, postProcessor, cfg)
	defer func() { logger.Debugf(ctx, "/New: %v", _err) }()

	if videoDecoder == nil {
		return nil, fmt.Errorf("the video decoder is not set")
	}
	if cfg.ClockRate == 0 {
		cfg.ClockRate = DefaultClockRate
	}

	d := &Decoder{
		ClosureSignaler: closuresignaler.New(),
		Config:          cfg,
		Backend:         videoDecoder,
		PostProcessor:   postProcessor,
		handles:         handle.NewTable[*frameBuffer](),
		fileWriter:      framefile.NewWriter(),
	}
	if cfg.OverheadSupport {
		d.overheads = map[uint64]time.Duration{}
	}
	if err := d.SetReconfigParams(ctx, types.ReconfigFlushModeNone, ""); err != nil {
		return nil, fmt.Errorf("unable to set the default reconfiguration params: %w", err)
	}
	return d, nil
}

func (d *Decoder) String() string {
	return fmt.Sprintf("Decoder(%s)", d.Backend)
}

func (d *Decoder) ctx(ctx context.Context) context.Context {
	return belt.WithField(ctx, "device_id", d.Config.DeviceID)
}

// DecodeFrame submits the packet and returns the number of frames the
// backend reports as newly available.
func (d *Decoder) DecodeFrame(
	ctx context.Context,
	pkt *types.PacketData,
) (_ret int, _err error) {
	logger.Tracef(ctx, "DecodeFrame")
	defer func() { logger.Tracef(ctx, "/DecodeFrame: %d %v", _ret, _err) }()
	if d.IsClosed() {
		return 0, ErrClosed
	}
	n, err := d.Backend.DecodeFrame(d.ctx(ctx), backendPacket(pkt))
	if err != nil {
		return n, fmt.Errorf("unable to decode the packet (pts:%d, size:%d): %w", pkt.FramePTS, len(pkt.Bitstream), err)
	}
	return n, nil
}

func backendPacket(pkt *types.PacketData) backend.Packet {
	return backend.Packet{
		Data:        pkt.Bitstream,
		PTS:         pkt.FramePTS,
		Flags:       pkt.PacketFlags,
		EndOfStream: pkt.EndOfStream,
	}
}

func (d *Decoder) DeviceInfo(ctx context.Context) types.ConfigInfo {
	return d.Backend.DeviceInfo(ctx)
}

// OutputSurfaceInfo returns false until the first sequence was parsed.
func (d *Decoder) OutputSurfaceInfo(ctx context.Context) (types.OutputSurfaceInfo, bool) {
	return d.Backend.OutputSurfaceInfo(ctx)
}

func (d *Decoder) Width(ctx context.Context) uint32 {
	info, _ := d.Backend.OutputSurfaceInfo(ctx)
	return info.OutputWidth
}

func (d *Decoder) Height(ctx context.Context) uint32 {
	info, _ := d.Backend.OutputSurfaceInfo(ctx)
	return info.OutputHeight
}

// Stride returns the pitch of the decoded surfaces in bytes.
func (d *Decoder) Stride(ctx context.Context) uint32 {
	info, _ := d.Backend.OutputSurfaceInfo(ctx)
	return info.OutputPitch
}

func (d *Decoder) FrameSize(ctx context.Context) uint64 {
	info, _ := d.Backend.OutputSurfaceInfo(ctx)
	return info.OutputSurfaceSizeInBytes
}

// NumOfFlushedFrames returns how many frames were flushed by reconfigurations
// since the last SetReconfigParams.
func (d *Decoder) NumOfFlushedFrames(ctx context.Context) uint32 {
	return d.Backend.NumOfFlushedFrames(ctx)
}

func (d *Decoder) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	if !d.ClosureSignaler.Close(ctx) {
		return nil
	}

	d.locker.Do(ctx, func() {
		d.rgb, d.rgbHandle = nil, handle.Nil
		d.resized, d.resizedHandle = nil, handle.Nil
		d.hasResizedInfo = false
	})
	for kind := handle.KindSurface; kind < handle.EndOfKind; kind++ {
		if n := d.handles.RevokeKind(ctx, kind); n > 0 {
			logger.Debugf(ctx, "revoked %d handles of kind %s", n, kind)
		}
	}

	var result []error
	if err := d.fileWriter.Close(ctx); err != nil {
		result = append(result, fmt.Errorf("unable to close the output files: %w", err))
	}
	if err := d.Backend.Close(ctx); err != nil {
		result = append(result, fmt.Errorf("unable to close %s: %w", d.Backend, err))
	}
	return errors.Join(result...)
}
