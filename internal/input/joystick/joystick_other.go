//go:build !linux
// +build !linux

package joystick

import "github.com/leandrodaf/chordtap/sdk/contracts"

// Probe finds nothing outside Linux.
func (b *Backend) Probe() ([]contracts.DeviceInfo, error) {
	return nil, nil
}

func (b *Backend) Connect(device contracts.DeviceInfo) (contracts.InputConnection, error) {
	b.logger.Warn("Connect called on joystick backend for unsupported platform")
	return nil, ErrUnsupported
}
