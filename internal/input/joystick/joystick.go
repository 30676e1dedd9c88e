// Package joystick reads commands from game controllers through the Linux
// joystick API (/dev/input/jsN).
package joystick

import (
	"encoding/binary"
	"errors"

	"github.com/leandrodaf/chordtap/sdk/contracts"
)

// BackendName identifies this backend in a registry.
const BackendName = "JOYSTICK"

const (
	maxDevices = 10
	eventSize  = 8
	mapLength  = 0x200

	eventButton = 0x01
	eventInit   = 0x80
)

// Linux button codes.
const (
	btnY      = 0x134
	btnTL     = 0x136
	btnTR     = 0x137
	btnTL2    = 0x138
	btnTR2    = 0x139
	btnSelect = 0x13a
)

// Error definitions for joystick handling.
var (
	ErrUnsupported = errors.New("joystick input is not available on this platform")
	ErrOpenDevice  = errors.New("could not open joystick")
)

var buttonCommands = map[uint16]contracts.Command{
	btnSelect: contracts.Quit,
	btnTL:     contracts.KillAll,
	btnTR:     contracts.Advance,
	btnY:      contracts.Tap,
	btnTL2:    contracts.PreviousSequence,
	btnTR2:    contracts.NextSequence,
}

// event mirrors struct js_event.
type event struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

func decodeEvent(b []byte) event {
	return event{
		Time:   binary.LittleEndian.Uint32(b[0:4]),
		Value:  int16(binary.LittleEndian.Uint16(b[4:6])),
		Type:   b[6],
		Number: b[7],
	}
}

// buttonMap translates button numbers reported by the driver into commands.
type buttonMap struct {
	logger  contracts.Logger
	buttons uint8
	codes   [mapLength]uint16
}

// command returns the command for a button press. Releases, axes and
// the synthetic init events sent on open are ignored.
func (m *buttonMap) command(e event) (contracts.Command, bool) {
	if e.Type&eventInit != 0 || e.Type&eventButton == 0 || e.Value != 1 {
		return 0, false
	}
	if e.Number >= m.buttons {
		return 0, false
	}
	code := m.codes[e.Number]
	cmd, ok := buttonCommands[code]
	if !ok {
		m.logger.Warn("unhandled joystick button", m.logger.Field().Int("code", int(code)))
		return 0, false
	}
	return cmd, true
}

// Backend probes /dev/input/js0 to js9.
type Backend struct {
	logger contracts.Logger
}

// New returns the joystick backend.
func New(logger contracts.Logger) *Backend {
	return &Backend{logger: logger}
}

func (b *Backend) Name() string { return BackendName }
