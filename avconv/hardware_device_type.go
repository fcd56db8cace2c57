package avconv

import (
	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/rocvideodecode/types"
)

// HardwareDeviceType maps the type directly: types.HardwareDeviceType uses
// libav's AVHWDeviceType values.
func HardwareDeviceType(t types.HardwareDeviceType) astiav.HardwareDeviceType {
	return astiav.HardwareDeviceType(t)
}
