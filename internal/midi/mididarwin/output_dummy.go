//go:build !darwin
// +build !darwin

package mididarwin

import (
	"errors"

	"github.com/leandrodaf/chordtap/sdk/contracts"
)

// ErrUnavailable is returned by every operation outside macOS.
var ErrUnavailable = errors.New("CoreMIDI is not available on this platform")

type dummyOutput struct {
	logger contracts.Logger
}

// NewOutput returns an output whose operations fail on non-macOS systems.
func NewOutput(options *contracts.OutputOptions) (contracts.Output, error) {
	options.Logger.Info("Using dummy CoreMIDI output for non-macOS system")
	return &dummyOutput{logger: options.Logger}, nil
}

func (m *dummyOutput) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy CoreMIDI output")
	return nil, ErrUnavailable
}

func (m *dummyOutput) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy CoreMIDI output")
	return ErrUnavailable
}

func (m *dummyOutput) Send(msg contracts.Message) error {
	return ErrUnavailable
}

func (m *dummyOutput) Close() error {
	return nil
}
