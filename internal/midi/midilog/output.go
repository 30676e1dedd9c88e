// Package midilog is an output that only logs what would be sent. It is
// used for rehearsing a program without an instrument.
package midilog

import "github.com/leandrodaf/chordtap/sdk/contracts"

// BackendName identifies this output backend.
const BackendName = "log"

// Output logs every message at Info level.
type Output struct {
	logger contracts.Logger
}

// NewOutput returns a logging output.
func NewOutput(options *contracts.OutputOptions) (contracts.Output, error) {
	return &Output{logger: options.Logger.With(options.Logger.Field().String("output", BackendName))}, nil
}

// ListDevices reports a single virtual port.
func (o *Output) ListDevices() ([]contracts.DeviceInfo, error) {
	return []contracts.DeviceInfo{{Backend: BackendName, Name: "log"}}, nil
}

func (o *Output) SelectDevice(deviceID int) error { return nil }

func (o *Output) Send(msg contracts.Message) error {
	o.logger.Info("MIDI message", o.logger.Field().String("message", msg.String()))
	return nil
}

func (o *Output) Close() error { return nil }
