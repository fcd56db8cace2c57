// Package session runs one complete decode of an input: opening, decoding,
// post-processing, saving and closing.
package session

import (
	"context"
	"crypto/md5"
	"fmt"
	"time"

	"github.com/facebookincubator/go-belt"
	"github.com/xaionaro-go/rocvideodecode"
	"github.com/xaionaro-go/rocvideodecode/decoder"
	"github.com/xaionaro-go/rocvideodecode/demuxer"
	"github.com/xaionaro-go/rocvideodecode/handle"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/types"
	"go.uber.org/atomic"
)

type Config struct {
	ID      uint64
	Input   string
	Decoder rocvideodecode.Config

	OutputFile  string
	RGBFormat   types.OutputFormat
	Resize      types.Dim
	CalcMD5     bool
	FlushMode   types.ReconfigFlushMode
	FlushOutput string

	// SyntheticFrames and SyntheticDim describe the input of the synthetic
	// backend; Input is ignored then.
	SyntheticFrames      int
	SyntheticDim         types.Dim
	SyntheticResizeEvery int

	// FramesCounter, if set, is incremented on every decoded frame.
	FramesCounter *atomic.Uint64
}

type Result struct {
	DeviceInfo    types.ConfigInfo
	Frames        uint64
	FlushedFrames uint32
	Elapsed       time.Duration
	// Overhead is the time spent creating and destroying the decoder.
	Overhead time.Duration
	MD5      []byte
}

// FPS is the decoding rate with the session overhead excluded.
func (r Result) FPS() float64 {
	d := r.Elapsed - r.Overhead
	if d <= 0 {
		return 0
	}
	return float64(r.Frames) / d.Seconds()
}

func Run(
	ctx context.Context,
	cfg Config,
) (_ret Result, _err error) {
	ctx = belt.WithField(ctx, "session", cfg.ID)
	logger.Debugf(ctx, "Run")
	defer func() { logger.Debugf(ctx, "/Run: %v", _err) }()

	startTS := time.Now()
	src, err := openSource(ctx, &cfg)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := src.Close(ctx); err != nil {
			logger.Errorf(ctx, "unable to close the input: %v", err)
		}
	}()

	initTS := time.Now()
	dec, err := rocvideodecode.NewDecoder(ctx, cfg.Decoder)
	if err != nil {
		return Result{}, fmt.Errorf("unable to create the decoder: %w", err)
	}
	initDuration := time.Since(initTS)
	if cfg.Decoder.OverheadSupport {
		if err := dec.AddDecoderSessionOverhead(ctx, cfg.ID, initDuration); err != nil {
			logger.Errorf(ctx, "unable to record the session overhead: %v", err)
		}
	}

	result := Result{DeviceInfo: dec.DeviceInfo(ctx)}
	runErr := run(ctx, cfg, src, dec, &result)

	if overhead, err := dec.DecoderSessionOverhead(ctx, cfg.ID); err == nil {
		result.Overhead = overhead
	}
	result.FlushedFrames = dec.NumOfFlushedFrames(ctx)

	closeTS := time.Now()
	closeErr := dec.Close(ctx)
	result.Overhead += time.Since(closeTS)
	result.Elapsed = time.Since(startTS)

	if runErr != nil {
		return result, runErr
	}
	logger.Infof(ctx, "decoded %d frames in %s (%.2f FPS)", result.Frames, result.Elapsed, result.FPS())
	if closeErr != nil {
		return result, fmt.Errorf("unable to close the decoder: %w", closeErr)
	}
	return result, nil
}

func openSource(
	ctx context.Context,
	cfg *Config,
) (packetSource, error) {
	if cfg.Decoder.Backend == rocvideodecode.BackendTypeSynthetic {
		if cfg.SyntheticDim.IsZero() {
			return nil, fmt.Errorf("the synthetic input dimensions are not set")
		}
		return &syntheticSource{
			dim:         cfg.SyntheticDim,
			frames:      cfg.SyntheticFrames,
			resizeEvery: cfg.SyntheticResizeEvery,
		}, nil
	}

	if cfg.Input == "" {
		return nil, fmt.Errorf("the input is not set")
	}
	d, err := demuxer.New(ctx, cfg.Input, demuxer.Config{ClockRate: cfg.Decoder.ClockRate})
	if err != nil {
		return nil, fmt.Errorf("unable to open the input '%s': %w", cfg.Input, err)
	}
	cp, err := d.CodecParameters(ctx)
	if err != nil {
		_ = d.Close(ctx)
		return nil, err
	}
	cfg.Decoder.Codec = d.CodecID()
	cfg.Decoder.CodecParameters = cp
	return d, nil
}

func run(
	ctx context.Context,
	cfg Config,
	src packetSource,
	dec *decoder.Decoder,
	result *Result,
) error {
	if err := dec.SetReconfigParams(ctx, cfg.FlushMode, cfg.FlushOutput); err != nil {
		return err
	}
	if cfg.CalcMD5 {
		dec.InitMD5(ctx)
	}

	pkt := &types.PacketData{}
	for {
		if err := src.DemuxFrame(ctx, pkt); err != nil {
			return fmt.Errorf("unable to demux: %w", err)
		}
		if _, err := dec.DecodeFrame(ctx, pkt); err != nil {
			return err
		}
		for {
			got, err := processFrame(ctx, cfg, dec)
			if err != nil {
				return err
			}
			if !got {
				break
			}
			result.Frames++
			if cfg.FramesCounter != nil {
				cfg.FramesCounter.Inc()
			}
		}
		if pkt.EndOfStream {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if cfg.CalcMD5 {
		result.MD5 = make([]byte, md5.Size)
		if err := dec.FinalizeMD5(ctx, result.MD5); err != nil {
			return err
		}
	}
	return nil
}

func processFrame(
	ctx context.Context,
	cfg Config,
	dec *decoder.Decoder,
) (_ bool, _err error) {
	frame := &types.PacketData{}
	var err error
	if cfg.RGBFormat.IsRGB() {
		_, err = dec.GetFrameRGB(ctx, frame, cfg.RGBFormat)
	} else {
		_, err = dec.GetFrame(ctx, frame)
	}
	if err != nil {
		if !frame.FrameHandle.IsNil() {
			_ = dec.ReleaseFrame(ctx, frame)
		}
		return false, err
	}
	if frame.FrameHandle.IsNil() {
		return false, nil
	}
	defer func() {
		if err := dec.ReleaseFrame(ctx, frame); err != nil && _err == nil {
			_err = err
		}
	}()

	info, ok := dec.OutputSurfaceInfo(ctx)
	if !ok {
		return false, decoder.ErrNoSurfaceInfo
	}
	srcInfo := info
	h := frame.FrameHandle
	if !cfg.Resize.IsZero() {
		h, err = dec.ResizeFrame(ctx, frame, cfg.Resize, info)
		if err != nil {
			return false, err
		}
		info, _ = dec.ResizedOutputSurfaceInfo(ctx)
	}

	if cfg.OutputFile != "" {
		switch {
		case cfg.RGBFormat.IsRGB():
			err = dec.SaveTensorToFile(ctx, cfg.OutputFile, frame.FrameHandleRGB, 0, 0, cfg.RGBFormat, srcInfo)
		default:
			err = saveFrame(ctx, dec, cfg.OutputFile, h, info)
		}
		if err != nil {
			return false, err
		}
	}
	if cfg.CalcMD5 && info.MemType.IsMapped() {
		if err := dec.UpdateMD5ForFrame(ctx, h, info); err != nil {
			return false, err
		}
	}
	return true, nil
}

func saveFrame(
	ctx context.Context,
	dec *decoder.Decoder,
	path string,
	h handle.Handle,
	info types.OutputSurfaceInfo,
) error {
	if !info.MemType.IsMapped() {
		return nil
	}
	return dec.SaveFrameToFile(ctx, path, h, info)
}
