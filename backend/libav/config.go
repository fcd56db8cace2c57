package libav

import (
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/rocvideodecode/types"
)

const (
	DefaultPitchAlignment   = 256
	DefaultVStrideAlignment = 16
	DefaultClockRate        = 1000
)

type Config struct {
	Codec    types.VideoCodec
	DeviceID int

	// HardwareDeviceType defaults to VAAPI; types.HardwareDeviceTypeNone
	// decodes on the CPU.
	HardwareDeviceType *types.HardwareDeviceType
	// HardwareDeviceName defaults to the DRM render node of DeviceID.
	HardwareDeviceName types.HardwareDeviceName

	MemType          types.OutputSurfaceMemoryType
	CropRect         types.Rect
	MaxWidth         uint32
	MaxHeight        uint32
	ForceZeroLatency bool
	ClockRate        uint32
	ThreadCount      int

	// CodecParameters of the demuxed stream, if any (extradata, dimensions).
	CodecParameters *astiav.CodecParameters

	PitchAlignment   uint32
	VStrideAlignment uint32
}

func (cfg Config) hardwareDeviceType() types.HardwareDeviceType {
	if cfg.HardwareDeviceType == nil {
		return types.HardwareDeviceTypeVAAPI
	}
	return *cfg.HardwareDeviceType
}

func (cfg Config) hardwareDeviceName() types.HardwareDeviceName {
	if cfg.HardwareDeviceName != "" {
		return cfg.HardwareDeviceName
	}
	switch cfg.hardwareDeviceType() {
	case types.HardwareDeviceTypeVAAPI, types.HardwareDeviceTypeDRM:
		return types.HardwareDeviceName(fmt.Sprintf("/dev/dri/renderD%d", 128+cfg.DeviceID))
	case types.HardwareDeviceTypeNone:
		return ""
	}
	return types.HardwareDeviceName(fmt.Sprintf("%d", cfg.DeviceID))
}

func (cfg Config) withDefaults() Config {
	if cfg.ClockRate == 0 {
		cfg.ClockRate = DefaultClockRate
	}
	if cfg.PitchAlignment == 0 {
		cfg.PitchAlignment = DefaultPitchAlignment
	}
	if cfg.VStrideAlignment == 0 {
		cfg.VStrideAlignment = DefaultVStrideAlignment
	}
	return cfg
}
