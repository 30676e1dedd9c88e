// Package midirt sends MIDI through RtMidi, which covers ALSA, JACK,
// CoreMIDI and WinMM.
package midirt

import (
	"errors"
	"fmt"
	"sync"

	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/leandrodaf/chordtap/sdk/contracts"
)

// BackendName identifies this output backend.
const BackendName = "rtmidi"

// Error definitions for RtMidi output handling.
var (
	ErrInvalidPort    = errors.New("invalid MIDI output port")
	ErrNoPortSelected = errors.New("no MIDI output port selected")
)

// Output writes to one RtMidi output port.
type Output struct {
	logger contracts.Logger
	mu     sync.Mutex
	drv    drivers.Driver
	port   drivers.Out
}

// NewOutput starts an RtMidi driver.
func NewOutput(options *contracts.OutputOptions) (contracts.Output, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("failed to start rtmidi driver: %w", err)
	}
	return newOutput(options.Logger, drv), nil
}

func newOutput(logger contracts.Logger, drv drivers.Driver) *Output {
	return &Output{logger: logger, drv: drv}
}

// ListDevices lists the output ports of the driver.
func (o *Output) ListDevices() ([]contracts.DeviceInfo, error) {
	outs, err := o.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI outputs: %w", err)
	}
	devices := make([]contracts.DeviceInfo, len(outs))
	for i, out := range outs {
		devices[i] = contracts.DeviceInfo{
			Backend: BackendName,
			ID:      out.Number(),
			Name:    out.String(),
		}
	}
	return devices, nil
}

// SelectDevice opens the port numbered deviceID, closing any previous one.
func (o *Output) SelectDevice(deviceID int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	outs, err := o.drv.Outs()
	if err != nil {
		return fmt.Errorf("error listing MIDI outputs: %w", err)
	}
	var found drivers.Out
	for _, out := range outs {
		if out.Number() == deviceID {
			found = out
			break
		}
	}
	if found == nil {
		return fmt.Errorf("%w: %d", ErrInvalidPort, deviceID)
	}

	if o.port != nil {
		_ = o.port.Close()
		o.port = nil
	}
	if err := found.Open(); err != nil {
		return fmt.Errorf("failed to open MIDI output %q: %w", found.String(), err)
	}
	o.port = found
	o.logger.Info("MIDI output selected",
		o.logger.Field().Int("deviceID", deviceID),
		o.logger.Field().String("deviceName", found.String()))
	return nil
}

// Send writes msg to the selected port.
func (o *Output) Send(msg contracts.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.port == nil {
		return ErrNoPortSelected
	}
	return o.port.Send(msg.Bytes())
}

// Close closes the port and the driver.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.port != nil {
		_ = o.port.Close()
		o.port = nil
	}
	return o.drv.Close()
}
