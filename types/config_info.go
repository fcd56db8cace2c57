package types

// ConfigInfo describes the device a decoder runs on.
type ConfigInfo struct {
	DeviceID    int
	DeviceName  string
	GCNArchName string
	PCIBusID    int
	PCIDomainID int
	PCIDeviceID int
}
