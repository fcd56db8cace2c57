// Package rocvideodecode decodes video on a GPU (or CPU) and hands out
// decoded frames, their RGB conversions and resized copies.
//
// The decoding itself is done by a backend (see package backend); the
// decoder.Decoder adapter wraps it. NewDecoder puts the usual pieces
// together.
package rocvideodecode

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/rocvideodecode/backend"
	"github.com/xaionaro-go/rocvideodecode/backend/libav"
	"github.com/xaionaro-go/rocvideodecode/backend/synthetic"
	"github.com/xaionaro-go/rocvideodecode/decoder"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/postprocess/software"
	"github.com/xaionaro-go/rocvideodecode/types"
)

type Config struct {
	decoder.Config

	// Backend defaults to BackendTypeLibav.
	Backend BackendType

	HardwareDeviceType *types.HardwareDeviceType
	HardwareDeviceName types.HardwareDeviceName
	ThreadCount        int

	// CodecParameters come from the demuxer when decoding a container.
	CodecParameters *astiav.CodecParameters
}

func NewDecoder(
	ctx context.Context,
	cfg Config,
) (_ret *decoder.Decoder, _err error) {
	logger.Debugf(ctx, "NewDecoder: %s %s dev:%d", cfg.Backend, cfg.Codec, cfg.DeviceID)
	defer func() { logger.Debugf(ctx, "/NewDecoder: %v", _err) }()

	videoDecoder, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	d, err := decoder.New(ctx, videoDecoder, software.New(), cfg.Config)
	if err != nil {
		if closeErr := videoDecoder.Close(ctx); closeErr != nil {
			logger.Errorf(ctx, "unable to close %s: %v", videoDecoder, closeErr)
		}
		return nil, err
	}
	return d, nil
}

func newBackend(
	ctx context.Context,
	cfg Config,
) (backend.VideoDecoder, error) {
	switch cfg.Backend {
	case UndefinedBackendType, BackendTypeLibav:
		d, err := libav.New(ctx, libav.Config{
			Codec:              cfg.Codec,
			DeviceID:           cfg.DeviceID,
			HardwareDeviceType: cfg.HardwareDeviceType,
			HardwareDeviceName: cfg.HardwareDeviceName,
			MemType:            cfg.MemType,
			CropRect:           cfg.CropRect,
			MaxWidth:           cfg.MaxWidth,
			MaxHeight:          cfg.MaxHeight,
			ForceZeroLatency:   cfg.ForceZeroLatency,
			ClockRate:          cfg.ClockRate,
			ThreadCount:        cfg.ThreadCount,
			CodecParameters:    cfg.CodecParameters,
		})
		if err != nil {
			return nil, fmt.Errorf("unable to initialize the libav decoder: %w", err)
		}
		return d, nil
	case BackendTypeSynthetic:
		d, err := synthetic.New(ctx, synthetic.Config{
			DeviceID:  cfg.DeviceID,
			MemType:   cfg.MemType,
			CropRect:  cfg.CropRect,
			MaxWidth:  cfg.MaxWidth,
			MaxHeight: cfg.MaxHeight,
		})
		if err != nil {
			return nil, fmt.Errorf("unable to initialize the synthetic decoder: %w", err)
		}
		return d, nil
	}
	return nil, fmt.Errorf("unknown backend %s", cfg.Backend)
}
