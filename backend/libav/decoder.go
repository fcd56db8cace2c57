// Package libav is a native decoder backend built on FFmpeg's libavcodec.
//
// Frames decoded on a hardware device are transferred to RAM, converted to
// one of the supported surface formats if needed and copied into surfaces
// with a GPU-like layout (aligned pitch and vertical stride).
package libav

import (
	"context"
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/rocvideodecode/avconv"
	"github.com/xaionaro-go/rocvideodecode/backend"
	"github.com/xaionaro-go/rocvideodecode/backend/surfacequeue"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/scaler"
	"github.com/xaionaro-go/rocvideodecode/types"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
)

type Decoder struct {
	*surfacequeue.Queue
	Config Config

	locker                xsync.Mutex
	closer                *astikit.Closer
	codec                 *astiav.Codec
	codecContext          *astiav.CodecContext
	hardwareDeviceContext *astiav.HardwareDeviceContext
	hardwarePixelFormat   astiav.PixelFormat
	scalers               map[types.SurfaceFormat]*scaler.Cached
	draining              bool

	decodedFrames atomic.Uint64
}

var _ backend.VideoDecoder = (*Decoder)(nil)

func New(
	ctx context.Context,
	cfg Config,
) (_ret *Decoder, _err error) {
	cfg = cfg.withDefaults()
	logger.Debugf(ctx, "libav.New: codec:%s device:%d hw:%s", cfg.Codec, cfg.DeviceID, cfg.hardwareDeviceType())
	logger.Tracef(ctx, "libav.New: %s", spew.Sdump(cfg))
	defer func() { logger.Debugf(ctx, "/libav.New: %v", _err) }()

	if !cfg.CropRect.IsZero() && (cfg.CropRect.Width() <= 0 || cfg.CropRect.Height() <= 0) {
		return nil, fmt.Errorf("invalid crop rectangle %s", cfg.CropRect)
	}
	switch cfg.MemType {
	case types.MemoryTypeDevInternal, types.MemoryTypeDevCopied:
		logger.Warnf(ctx, "memory type %s is not available with libav, serving host copies instead", cfg.MemType)
		cfg.MemType = types.MemoryTypeHostCopied
	}

	d := &Decoder{
		Queue:   surfacequeue.New(),
		Config:  cfg,
		closer:  astikit.NewCloser(),
		scalers: map[types.SurfaceFormat]*scaler.Cached{},
	}
	defer func() {
		if _err != nil {
			_ = d.closer.Close()
		}
	}()

	codecID := avconv.CodecID(cfg.Codec)
	if codecID == astiav.CodecIDNone {
		return nil, backend.ErrNotImplemented{Err: fmt.Errorf("codec %s is not supported by libav", cfg.Codec)}
	}
	d.codec = astiav.FindDecoder(codecID)
	if d.codec == nil {
		return nil, fmt.Errorf("unable to find a decoder for %s", codecID)
	}

	d.codecContext = astiav.AllocCodecContext(d.codec)
	if d.codecContext == nil {
		return nil, fmt.Errorf("unable to allocate a codec context for %s", d.codec.Name())
	}
	d.closer.Add(d.codecContext.Free)

	if cfg.CodecParameters != nil {
		if err := cfg.CodecParameters.ToCodecContext(d.codecContext); err != nil {
			return nil, fmt.Errorf("unable to apply the codec parameters: %w", err)
		}
	}
	d.codecContext.SetTimeBase(astiav.NewRational(1, int(cfg.ClockRate)))
	if cfg.ThreadCount > 0 {
		d.codecContext.SetThreadCount(cfg.ThreadCount)
	}
	if cfg.ForceZeroLatency {
		d.codecContext.SetFlags(d.codecContext.Flags() | astiav.CodecContextFlags(astiav.CodecContextFlagLowDelay))
	}

	if hwType := cfg.hardwareDeviceType(); hwType != types.HardwareDeviceTypeNone {
		if err := d.initHardware(ctx, hwType, cfg.hardwareDeviceName()); err != nil {
			return nil, fmt.Errorf("unable to initialize the hardware decoding on %s:'%s': %w", hwType, cfg.hardwareDeviceName(), err)
		}
	}

	if err := d.codecContext.Open(d.codec, nil); err != nil {
		return nil, fmt.Errorf("unable to open the decoder %s: %w", d.codec.Name(), err)
	}
	return d, nil
}

func (d *Decoder) initHardware(
	ctx context.Context,
	hwType types.HardwareDeviceType,
	hwName types.HardwareDeviceName,
) (_err error) {
	logger.Tracef(ctx, "initHardware(%s, '%s')", hwType, hwName)
	defer func() { logger.Tracef(ctx, "/initHardware(%s, '%s'): %v", hwType, hwName, _err) }()

	d.hardwarePixelFormat = astiav.PixelFormatNone
	for _, hwCfg := range d.codec.HardwareConfigs() {
		if hwCfg.HardwareDeviceType() != avconv.HardwareDeviceType(hwType) {
			continue
		}
		if !hwCfg.MethodFlags().Has(astiav.CodecHardwareConfigMethodFlagHwDeviceCtx) {
			continue
		}
		d.hardwarePixelFormat = hwCfg.PixelFormat()
		break
	}
	if d.hardwarePixelFormat == astiav.PixelFormatNone {
		return fmt.Errorf("decoder %s does not support hardware device type %s", d.codec.Name(), hwType)
	}

	hwPixFmt := d.hardwarePixelFormat
	d.codecContext.SetPixelFormatCallback(func(pfs []astiav.PixelFormat) astiav.PixelFormat {
		for _, pf := range pfs {
			if pf == hwPixFmt {
				return pf
			}
		}
		logger.Errorf(ctx, "the stream cannot be decoded as %s", hwPixFmt)
		return astiav.PixelFormatNone
	})

	var err error
	d.hardwareDeviceContext, err = astiav.CreateHardwareDeviceContext(
		avconv.HardwareDeviceType(hwType),
		string(hwName),
		nil,
		0,
	)
	if err != nil {
		return fmt.Errorf("unable to create the hardware device context: %w", err)
	}
	d.closer.Add(d.hardwareDeviceContext.Free)
	d.codecContext.SetHardwareDeviceContext(d.hardwareDeviceContext)
	return nil
}

func (d *Decoder) String() string {
	return fmt.Sprintf("LibavDecoder(%s, dev:%d, hw:%s)", d.Config.Codec, d.Config.DeviceID, d.Config.hardwareDeviceType())
}

func (d *Decoder) DeviceInfo(ctx context.Context) types.ConfigInfo {
	info := types.ConfigInfo{
		DeviceID:    d.Config.DeviceID,
		DeviceName:  "cpu",
		GCNArchName: d.Config.hardwareDeviceType().String(),
	}
	if name := d.Config.hardwareDeviceName(); name != "" {
		info.DeviceName = string(name)
	}
	return info
}

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
	if d.codecContext == nil {
		return backend.ErrClosed
	}

	if len(pkt.Data) > 0 {
		if d.draining {
			// a new stream after an end-of-stream
			d.codecContext.FlushBuffers()
			d.draining = false
		}
		avPkt := packetPool.Get()
		defer packetPool.Put(avPkt)
		if err := avPkt.FromData(pkt.Data); err != nil {
			return fmt.Errorf("unable to fill the packet: %w", err)
		}
		avPkt.SetPts(pkt.PTS)
		avPkt.SetDts(pkt.PTS)
		if pkt.Flags.Has(types.PacketFlagKeyFrame) {
			avPkt.SetFlags(avPkt.Flags().Add(astiav.PacketFlagKey))
		}
		for {
			err := d.codecContext.SendPacket(avPkt)
			if err == nil {
				break
			}
			if !errors.Is(err, astiav.ErrEagain) {
				return fmt.Errorf("unable to send the packet: %w", err)
			}
			// the decoder wants its output taken first
			if err := d.receiveFrames(ctx, emit); err != nil {
				return err
			}
		}
	}

	if pkt.EndOfStream && !d.draining {
		err := d.codecContext.SendPacket(nil)
		switch {
		case err == nil, errors.Is(err, astiav.ErrEof):
		default:
			return fmt.Errorf("unable to send the flush request: %w", err)
		}
		d.draining = true
	}

	return d.receiveFrames(ctx, emit)
}

func (d *Decoder) receiveFrames(
	ctx context.Context,
	emit surfacequeue.EmitFunc,
) error {
	for {
		f := framePool.Get()
		err := d.codecContext.ReceiveFrame(f)
		if err != nil {
			framePool.Put(f)
			if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
				return nil
			}
			return fmt.Errorf("unable to receive a frame: %w", err)
		}
		s, err := d.toSurface(ctx, f)
		framePool.Put(f)
		if err != nil {
			return err
		}
		d.decodedFrames.Inc()
		if err := emit(ctx, s); err != nil {
			return err
		}
	}
}

func (d *Decoder) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	var result []error
	d.locker.Do(ctx, func() {
		for _, s := range d.scalers {
			if err := s.Close(ctx); err != nil {
				result = append(result, err)
			}
		}
		d.scalers = map[types.SurfaceFormat]*scaler.Cached{}
		if d.codecContext == nil {
			return
		}
		if err := d.closer.Close(); err != nil {
			result = append(result, fmt.Errorf("unable to free the libav resources: %w", err))
		}
		d.codecContext = nil
		d.hardwareDeviceContext = nil
	})
	if err := d.Queue.Close(ctx); err != nil {
		result = append(result, err)
	}
	return errors.Join(result...)
}
