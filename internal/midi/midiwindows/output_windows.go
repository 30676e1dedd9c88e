//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/leandrodaf/chordtap/sdk/contracts"
)

// Type definitions for MIDI handles
type HMIDIOUT windows.Handle

// Constants for callback flags
const (
	CALLBACK_NULL = 0x00000000 // No callback
)

// Struct representing MIDI output device capabilities
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// Error definitions for WinMM output handling.
var (
	ErrNoMIDIDevices    = errors.New("no MIDI output devices found")
	ErrNoDeviceSelected = errors.New("no MIDI output device selected")
)

// Load the winmm.dll library and required functions
var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procMidiOutGetNumDevs = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen       = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg   = winmm.NewProc("midiOutShortMsg")
	procMidiOutReset      = winmm.NewProc("midiOutReset")
	procMidiOutClose      = winmm.NewProc("midiOutClose")
)

// OutputMid sends MIDI on Windows through WinMM
type OutputMid struct {
	logger contracts.Logger
	handle HMIDIOUT
	open   bool
	mu     sync.Mutex
}

// NewOutput creates a MIDI output for Windows
func NewOutput(options *contracts.OutputOptions) (contracts.Output, error) {
	options.Logger.Info("MIDI output created for Windows")
	return &OutputMid{logger: options.Logger}, nil
}

// ListDevices lists the available MIDI output devices
func (m *OutputMid) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		m.logger.Warn("No MIDI output devices found")
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, 0, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			m.logger.Warn(fmt.Sprintf("Failed to get information for MIDI device %d", i))
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		devices = append(devices, contracts.DeviceInfo{
			Backend:      "winmm",
			ID:           int(i),
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	return devices, nil
}

// SelectDevice opens a MIDI output device, closing the previous one
func (m *OutputMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open {
		if err := m.closeDevice(); err != nil {
			return fmt.Errorf("failed to close previous MIDI output: %w", err)
		}
	}

	r1, _, err := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&m.handle)),
		uintptr(deviceID),
		0,
		0,
		CALLBACK_NULL,
	)
	if r1 != 0 {
		m.logger.Error(fmt.Sprintf("Failed to open MIDI output %d: %v", deviceID, err))
		return fmt.Errorf("failed to open MIDI output %d: %v", deviceID, err)
	}

	m.open = true
	m.logger.Info(fmt.Sprintf("MIDI output %d connected", deviceID))
	return nil
}

// Send packs the message into a short message
func (m *OutputMid) Send(msg contracts.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return ErrNoDeviceSelected
	}
	packed := uint32(msg.Status) | uint32(msg.Data1)<<8 | uint32(msg.Data2)<<16
	r1, _, err := procMidiOutShortMsg.Call(uintptr(m.handle), uintptr(packed))
	if r1 != 0 {
		return fmt.Errorf("midiOutShortMsg failed with code %d: %v", r1, err)
	}
	return nil
}

// Close resets and closes the device
func (m *OutputMid) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return nil
	}
	return m.closeDevice()
}

func (m *OutputMid) closeDevice() error {
	procMidiOutReset.Call(uintptr(m.handle))
	r1, _, err := procMidiOutClose.Call(uintptr(m.handle))
	m.open = false
	if r1 != 0 {
		return fmt.Errorf("failed to close MIDI output: %v", err)
	}
	m.logger.Info("MIDI output closed")
	return nil
}
