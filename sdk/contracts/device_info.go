package contracts

// DeviceInfo describes an input or output device.
type DeviceInfo struct {
	Backend      string // Name of the backend that found the device.
	ID           int    // Backend specific index used to open the device.
	Name         string // Device name.
	Manufacturer string // Device manufacturer, when known.
	EntityName   string // Name of the entity to which the device belongs.
}
