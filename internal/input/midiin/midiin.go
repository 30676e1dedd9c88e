// Package midiin reads commands from MIDI foot controllers that send
// program changes.
package midiin

import (
	"errors"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/leandrodaf/chordtap/sdk/contracts"
)

// BackendName identifies this backend in a registry.
const BackendName = "MIDI"

const (
	// debounceMs drops events this close to the previous accepted one.
	// It stops feedback loops and double taps.
	debounceMs = 10
	queueSize  = 32
)

// ErrOpenInput is returned when the MIDI input port cannot be opened.
var ErrOpenInput = errors.New("error opening MIDI input")

var programCommands = map[uint8]contracts.Command{
	0x00: contracts.KillAll,
	0x02: contracts.Tap,
	0x03: contracts.Advance,
	0x04: contracts.Quit,
	0x06: contracts.PreviousSequence,
	0x07: contracts.NextSequence,
}

// Backend finds MIDI input ports on a gomidi driver.
type Backend struct {
	logger contracts.Logger
	drv    drivers.Driver
}

// New returns the MIDI input backend using drv, usually rtmididrv.
func New(logger contracts.Logger, drv drivers.Driver) *Backend {
	return &Backend{logger: logger, drv: drv}
}

func (b *Backend) Name() string { return BackendName }

// Probe lists the MIDI input ports.
func (b *Backend) Probe() ([]contracts.DeviceInfo, error) {
	ins, err := b.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("failed to list MIDI inputs: %w", err)
	}
	devices := make([]contracts.DeviceInfo, 0, len(ins))
	for _, in := range ins {
		devices = append(devices, contracts.DeviceInfo{
			Backend: BackendName,
			ID:      in.Number(),
			Name:    in.String(),
		})
	}
	return devices, nil
}

// Connect opens the port numbered device.ID and starts listening.
func (b *Backend) Connect(device contracts.DeviceInfo) (contracts.InputConnection, error) {
	ins, err := b.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("%w %d: %v", ErrOpenInput, device.ID, err)
	}
	var found drivers.In
	for _, in := range ins {
		if in.Number() == device.ID {
			found = in
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w %d: port not found", ErrOpenInput, device.ID)
	}
	if err := found.Open(); err != nil {
		return nil, fmt.Errorf("%w %d: %v", ErrOpenInput, device.ID, err)
	}

	c := newConnection(b.logger.With(b.logger.Field().String("input", device.Name)))
	stop, err := midi.ListenTo(found, c.handle, midi.HandleError(c.fail))
	if err != nil {
		_ = found.Close()
		return nil, fmt.Errorf("%w %d: %v", ErrOpenInput, device.ID, err)
	}
	c.stop = stop
	c.port = found
	return c, nil
}

// connection turns driver callbacks into commands read by the control loop.
type connection struct {
	logger contracts.Logger
	events chan contracts.Command
	errs   chan error
	stop   func()
	port   drivers.In

	lastAccepted int32
	accepted     bool
}

func newConnection(logger contracts.Logger) *connection {
	return &connection{
		logger: logger,
		events: make(chan contracts.Command, queueSize),
		errs:   make(chan error, 1),
	}
}

// handle runs on the driver's goroutine.
func (c *connection) handle(msg midi.Message, timestampms int32) {
	var channel, program uint8
	if !msg.GetProgramChange(&channel, &program) {
		c.logger.Debug("unhandled MIDI message", c.logger.Field().String("message", msg.String()))
		return
	}

	cmd, ok := c.translate(program, timestampms)
	if !ok {
		return
	}
	select {
	case c.events <- cmd:
	default:
		c.logger.Warn("input buffer full; dropping command", c.logger.Field().String("command", cmd.String()))
	}
}

// translate maps a program change to a command, dropping bounces.
func (c *connection) translate(program uint8, timestampms int32) (contracts.Command, bool) {
	if c.accepted && timestampms < c.lastAccepted+debounceMs {
		return 0, false
	}
	cmd, ok := programCommands[program]
	if !ok {
		c.logger.Warn("unhandled program change", c.logger.Field().Uint8("program", program))
		return 0, false
	}
	c.lastAccepted = timestampms
	c.accepted = true
	return cmd, true
}

func (c *connection) fail(err error) {
	select {
	case c.errs <- err:
	default:
	}
}

func (c *connection) Read() (contracts.Command, bool, error) {
	select {
	case err := <-c.errs:
		return 0, false, err
	case cmd := <-c.events:
		return cmd, true, nil
	default:
		return 0, false, nil
	}
}

func (c *connection) Close() error {
	if c.stop != nil {
		c.stop()
	}
	if c.port != nil {
		return c.port.Close()
	}
	return nil
}
