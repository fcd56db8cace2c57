// Package cmdflags holds the flags and logger setup shared by the commands.
package cmdflags

import (
	"context"

	"github.com/facebookincubator/go-belt/pkg/runtime"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/rocvideodecode"
	"github.com/xaionaro-go/rocvideodecode/decoder"
	"github.com/xaionaro-go/rocvideodecode/internal/session"
	rlogger "github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/types"
)

type Flags struct {
	LoggerLevel logger.Level

	Input              string
	DeviceID           int
	HardwareDeviceType types.HardwareDeviceType
	HardwareDeviceName string
	Backend            rocvideodecode.BackendType
	MemType            types.OutputSurfaceMemoryType
	CropRect           types.Rect
	MaxWidth           uint32
	MaxHeight          uint32
	ZeroLatency        bool
	ThreadCount        int

	OutputFile  string
	RGBFormat   types.OutputFormat
	Resize      types.Dim
	CalcMD5     bool
	FlushMode   types.ReconfigFlushMode
	FlushOutput string

	SyntheticFrames      int
	SyntheticDim         types.Dim
	SyntheticResizeEvery int
}

// Register adds the flags to the default pflag set.
func Register() *Flags {
	f := &Flags{
		LoggerLevel:        logger.LevelWarning,
		HardwareDeviceType: types.HardwareDeviceTypeVAAPI,
		Backend:            rocvideodecode.BackendTypeLibav,
		MemType:            types.MemoryTypeHostCopied,
		SyntheticDim:       types.Dim{Width: 1920, Height: 1080},
	}
	pflag.Var(&f.LoggerLevel, "log-level", "Log level")
	pflag.StringVarP(&f.Input, "input", "i", "", "input file or URL")
	pflag.IntVarP(&f.DeviceID, "device", "d", 0, "GPU device ID")
	pflag.Var(&f.HardwareDeviceType, "hw-device-type", "libav hardware device type ('none' to decode on the CPU)")
	pflag.StringVar(&f.HardwareDeviceName, "hw-device-name", "", "libav hardware device name (defaults to the render node of --device)")
	pflag.Var(&f.Backend, "backend", "decoder backend: libav or synthetic")
	pflag.VarP(&f.MemType, "mem-type", "m", "output surface memory type")
	pflag.Var(&f.CropRect, "crop", "crop rectangle 'left,top,right,bottom'")
	pflag.Uint32Var(&f.MaxWidth, "max-width", 0, "reject pictures wider than this")
	pflag.Uint32Var(&f.MaxHeight, "max-height", 0, "reject pictures taller than this")
	pflag.BoolVarP(&f.ZeroLatency, "zero-latency", "z", false, "force zero latency decoding")
	pflag.IntVar(&f.ThreadCount, "decoder-threads", 0, "libav decoder threads (0 is auto)")
	pflag.StringVarP(&f.OutputFile, "output", "o", "", "file to append the decoded frames to")
	pflag.Var(&f.RGBFormat, "rgb-format", "convert frames to this RGB format")
	pflag.Var(&f.Resize, "resize", "resize frames to 'WxH'")
	pflag.BoolVar(&f.CalcMD5, "md5", false, "calculate the MD5 of the decoded frames")
	pflag.Var(&f.FlushMode, "flush-mode", "what to do with frames flushed on resolution changes: none, dump or md5")
	pflag.StringVar(&f.FlushOutput, "flush-output", "", "file to dump the flushed frames to")
	pflag.IntVar(&f.SyntheticFrames, "synthetic-frames", 300, "number of frames the synthetic backend decodes")
	pflag.Var(&f.SyntheticDim, "synthetic-size", "picture size of the synthetic backend")
	pflag.IntVar(&f.SyntheticResizeEvery, "synthetic-resize-every", 0, "change the synthetic picture size every N frames")
	return f
}

func (f *Flags) SessionConfig(id uint64, deviceID int, overhead bool) session.Config {
	hwType := f.HardwareDeviceType
	return session.Config{
		ID:    id,
		Input: f.Input,
		Decoder: rocvideodecode.Config{
			Config: decoder.Config{
				DeviceID:         deviceID,
				MemType:          f.MemType,
				ForceZeroLatency: f.ZeroLatency,
				CropRect:         f.CropRect,
				MaxWidth:         f.MaxWidth,
				MaxHeight:        f.MaxHeight,
				OverheadSupport:  overhead,
			},
			Backend:            f.Backend,
			HardwareDeviceType: &hwType,
			HardwareDeviceName: types.HardwareDeviceName(f.HardwareDeviceName),
			ThreadCount:        f.ThreadCount,
		},
		OutputFile:           f.OutputFile,
		RGBFormat:            f.RGBFormat,
		Resize:               f.Resize,
		CalcMD5:              f.CalcMD5,
		FlushMode:            f.FlushMode,
		FlushOutput:          f.FlushOutput,
		SyntheticFrames:      f.SyntheticFrames,
		SyntheticDim:         f.SyntheticDim,
		SyntheticResizeEvery: f.SyntheticResizeEvery,
	}
}

// Logger makes the logrus logger the default and forwards libav logs to it.
func (f *Flags) Logger() (context.Context, logger.Logger) {
	runtime.DefaultCallerPCFilter = observability.CallerPCFilter(runtime.DefaultCallerPCFilter)
	l := logrus.Default().WithLevel(f.LoggerLevel)
	ctx := rlogger.CtxWithLogger(context.Background(), l)
	rlogger.SetDefault(func() rlogger.Logger {
		return l
	})
	rocvideodecode.ForwardLibavLogs(ctx, l.Level())
	return ctx, l
}
