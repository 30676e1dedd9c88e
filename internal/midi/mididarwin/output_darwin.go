//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/youpy/go-coremidi"

	"github.com/leandrodaf/chordtap/sdk/contracts"
)

// Error definitions for CoreMIDI output handling.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI destinations found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI destination")
	ErrCreateOutputPort    = errors.New("error creating output port")
	ErrNoDeviceSelected    = errors.New("no MIDI destination selected")
	ErrMIDIConnectionError = errors.New("error sending to MIDI destination")
)

// OutputMid sends MIDI messages to a CoreMIDI destination on macOS.
type OutputMid struct {
	logger         contracts.Logger
	client         coremidi.Client           // CoreMIDI client instance for MIDI operations.
	outputPort     coremidi.OutputPort       // Output port created by the client.
	destination    *coremidi.Destination     // Selected destination, nil until SelectDevice.
	coreMIDIConfig *contracts.CoreMIDIConfig // Configuration for the MIDI client.
	mu             sync.Mutex                // Guards the selected destination.
}

// NewOutput creates a CoreMIDI client and its output port.
func NewOutput(options *contracts.OutputOptions) (contracts.Output, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}
	port, err := coremidi.NewOutputPort(client, options.CoreMIDIConfig.PortName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
	}
	options.Logger.Info("MIDI client successfully created")

	return &OutputMid{
		logger:         options.Logger,
		client:         client,
		outputPort:     port,
		coreMIDIConfig: options.CoreMIDIConfig,
	}, nil
}

// ListDevices retrieves and returns the available MIDI destinations.
func (m *OutputMid) ListDevices() ([]contracts.DeviceInfo, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	if len(destinations) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(destinations))
	for i, destination := range destinations {
		entity := destination.Entity()
		devices[i] = contracts.DeviceInfo{
			Backend:      "coremidi",
			ID:           i,
			Name:         destination.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice routes every following message to the destination at deviceID.
func (m *OutputMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI destinations: %w", err)
	}
	if deviceID < 0 || deviceID >= len(destinations) {
		m.logger.Error(ErrInvalidMIDIDevice.Error())
		return ErrInvalidMIDIDevice
	}

	destination := destinations[deviceID]
	m.destination = &destination
	m.logger.Info("MIDI destination selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", destination.Name()))
	return nil
}

// Send delivers msg as a single packet.
func (m *OutputMid) Send(msg contracts.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.destination == nil {
		return ErrNoDeviceSelected
	}
	packet := coremidi.NewPacket(msg.Bytes(), 0)
	if err := packet.Send(&m.outputPort, m.destination); err != nil {
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}
	return nil
}

// Close forgets the destination. CoreMIDI releases the client with the process.
func (m *OutputMid) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destination = nil
	m.logger.Info("MIDI output closed")
	return nil
}
