// Package midiserial writes MIDI bytes to a serial port, for DIN MIDI
// interfaces and microcontroller bridges.
package midiserial

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"

	"github.com/leandrodaf/chordtap/sdk/contracts"
)

const (
	// BackendName identifies this output backend.
	BackendName = "serial"
	// DefaultBaudRate is the DIN MIDI line rate.
	DefaultBaudRate = 31250
)

// Error definitions for serial output handling.
var (
	ErrInvalidPort    = errors.New("invalid serial port")
	ErrNoPortSelected = errors.New("no serial port selected")
)

// Output writes raw messages to one serial port.
type Output struct {
	logger contracts.Logger
	mode   *serial.Mode
	mu     sync.Mutex
	port   io.WriteCloser

	listPorts func() ([]string, error)
	openPort  func(name string, mode *serial.Mode) (io.WriteCloser, error)
}

// NewOutput returns a serial output running at options.BaudRate.
func NewOutput(options *contracts.OutputOptions) (contracts.Output, error) {
	baud := options.BaudRate
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return &Output{
		logger:    options.Logger,
		mode:      &serial.Mode{BaudRate: baud},
		listPorts: serial.GetPortsList,
		openPort: func(name string, mode *serial.Mode) (io.WriteCloser, error) {
			return serial.Open(name, mode)
		},
	}, nil
}

// ListDevices lists the serial ports of the system.
func (o *Output) ListDevices() ([]contracts.DeviceInfo, error) {
	names, err := o.listPorts()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}
	devices := make([]contracts.DeviceInfo, len(names))
	for i, name := range names {
		devices[i] = contracts.DeviceInfo{Backend: BackendName, ID: i, Name: name}
	}
	return devices, nil
}

// SelectDevice opens the port listed at deviceID.
func (o *Output) SelectDevice(deviceID int) error {
	names, err := o.listPorts()
	if err != nil {
		return fmt.Errorf("error listing serial ports: %w", err)
	}
	if deviceID < 0 || deviceID >= len(names) {
		return fmt.Errorf("%w: %d", ErrInvalidPort, deviceID)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.port != nil {
		_ = o.port.Close()
		o.port = nil
	}

	port, err := o.openPort(names[deviceID], o.mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", names[deviceID], err)
	}
	o.port = port
	o.logger.Info("serial port opened",
		o.logger.Field().String("device", names[deviceID]),
		o.logger.Field().Int("baud", o.mode.BaudRate))
	return nil
}

// Send writes the message bytes.
func (o *Output) Send(msg contracts.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.port == nil {
		return ErrNoPortSelected
	}
	_, err := o.port.Write(msg.Bytes())
	return err
}

// Close closes the port.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.port == nil {
		return nil
	}
	o.logger.Info("closing serial port")
	err := o.port.Close()
	o.port = nil
	return err
}
