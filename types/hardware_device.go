package types

import (
	"fmt"
)

type HardwareDeviceType int

const (
	// the constants are copied from libav's enum AVHWDeviceType:
	HardwareDeviceTypeNone   = HardwareDeviceType(0x0)
	HardwareDeviceTypeVDPAU  = HardwareDeviceType(0x1)
	HardwareDeviceTypeCUDA   = HardwareDeviceType(0x2)
	HardwareDeviceTypeVAAPI  = HardwareDeviceType(0x3)
	HardwareDeviceTypeDRM    = HardwareDeviceType(0x8)
	HardwareDeviceTypeOpenCL = HardwareDeviceType(0x9)
	HardwareDeviceTypeVulkan = HardwareDeviceType(0xb)
)

func (t HardwareDeviceType) String() string {
	switch t {
	case HardwareDeviceTypeNone:
		return "none"
	case HardwareDeviceTypeVDPAU:
		return "vdpau"
	case HardwareDeviceTypeCUDA:
		return "cuda"
	case HardwareDeviceTypeVAAPI:
		return "vaapi"
	case HardwareDeviceTypeDRM:
		return "drm"
	case HardwareDeviceTypeOpenCL:
		return "opencl"
	case HardwareDeviceTypeVulkan:
		return "vulkan"
	}
	return fmt.Sprintf("unknown_%X", int64(t))
}

func HardwareDeviceTypeFromString(s string) (HardwareDeviceType, error) {
	s = sanitizeEnumString(s)
	for i := 0; i <= 0xff; i++ {
		if sanitizeEnumString(HardwareDeviceType(i).String()) == s {
			return HardwareDeviceType(i), nil
		}
	}
	return -1, fmt.Errorf("unknown hardware device type: '%s'", s)
}

func (t *HardwareDeviceType) Set(s string) error {
	v, err := HardwareDeviceTypeFromString(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t *HardwareDeviceType) Type() string {
	return "hwdevice"
}

// HardwareDeviceName is the libav device string, e.g. "/dev/dri/renderD128".
type HardwareDeviceName string
