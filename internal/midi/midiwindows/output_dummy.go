//go:build !windows
// +build !windows

package midiwindows

import (
	"fmt"

	"github.com/leandrodaf/chordtap/sdk/contracts"
)

type dummyOutput struct {
	logger contracts.Logger
}

// NewOutput initializes a dummy MIDI output for non-Windows systems.
func NewOutput(options *contracts.OutputOptions) (contracts.Output, error) {
	options.Logger.Info("Using dummy WinMM output for non-Windows system")
	return &dummyOutput{
		logger: options.Logger,
	}, nil
}

// ListDevices logs a warning and returns an error indicating that WinMM is unavailable on this platform.
func (m *dummyOutput) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy WinMM output")
	return nil, fmt.Errorf("WinMM output is not available on this platform")
}

// SelectDevice logs a warning and returns an error indicating that WinMM is unavailable on this platform.
func (m *dummyOutput) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy WinMM output")
	return fmt.Errorf("WinMM output is not available on this platform")
}

// Send always fails outside Windows.
func (m *dummyOutput) Send(msg contracts.Message) error {
	return fmt.Errorf("WinMM output is not available on this platform")
}

// Close does nothing.
func (m *dummyOutput) Close() error {
	return nil
}
