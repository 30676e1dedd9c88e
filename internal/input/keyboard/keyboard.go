// Package keyboard reads commands from single key presses on the
// controlling terminal.
package keyboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/leandrodaf/chordtap/sdk/contracts"
)

// BackendName identifies this backend in a registry.
const BackendName = "KEYBOARD"

const queueSize = 16

// ErrNotTerminal is returned when stdin is not a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Raw mode turns Ctrl-C into a plain byte, so it is mapped to Quit here.
var keyCommands = map[byte]contracts.Command{
	' ':  contracts.Advance,
	'\r': contracts.Advance,
	'\n': contracts.Advance,
	't':  contracts.Tap,
	'T':  contracts.Tap,
	'k':  contracts.KillAll,
	'K':  contracts.KillAll,
	'[':  contracts.PreviousSequence,
	']':  contracts.NextSequence,
	'q':  contracts.Quit,
	'Q':  contracts.Quit,
	0x1b: contracts.Quit,
	0x03: contracts.Quit,
}

// Backend offers the process's terminal as an input device.
type Backend struct {
	logger contracts.Logger
	stdin  *os.File
}

// New returns the keyboard backend reading os.Stdin.
func New(logger contracts.Logger) *Backend {
	return &Backend{logger: logger, stdin: os.Stdin}
}

func (b *Backend) Name() string { return BackendName }

// Probe reports the terminal when stdin is one.
func (b *Backend) Probe() ([]contracts.DeviceInfo, error) {
	if !term.IsTerminal(int(b.stdin.Fd())) {
		return nil, nil
	}
	return []contracts.DeviceInfo{{Backend: BackendName, Name: "terminal", EntityName: b.stdin.Name()}}, nil
}

// Connect switches the terminal to raw mode until the connection is closed.
func (b *Backend) Connect(device contracts.DeviceInfo) (contracts.InputConnection, error) {
	fd := int(b.stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to set raw mode: %w", err)
	}

	b.logger.Info("keys: space advance, t tap, k kill all, [ ] sequences, q quit")
	return newConnection(b.stdin, func() error { return term.Restore(fd, state) }, b.logger), nil
}

type connection struct {
	logger  contracts.Logger
	keys    chan byte
	errs    chan error
	restore func() error
}

// newConnection reads r on its own goroutine. The goroutine ends when r
// returns an error; a blocked terminal read outlives Close until the next key.
func newConnection(r io.Reader, restore func() error, logger contracts.Logger) *connection {
	c := &connection{
		logger:  logger,
		keys:    make(chan byte, queueSize),
		errs:    make(chan error, 1),
		restore: restore,
	}
	go c.pump(r)
	return c
}

func (c *connection) pump(r io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case c.keys <- buf[0]:
			default:
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.errs <- err
			}
			return
		}
	}
}

// Read returns the command for the next mapped key.
func (c *connection) Read() (contracts.Command, bool, error) {
	for {
		select {
		case key := <-c.keys:
			if cmd, ok := keyCommands[key]; ok {
				return cmd, true, nil
			}
			c.logger.Debug("unhandled key", c.logger.Field().Int("key", int(key)))
		case err := <-c.errs:
			return 0, false, fmt.Errorf("keyboard read: %w", err)
		default:
			return 0, false, nil
		}
	}
}

func (c *connection) Close() error {
	if c.restore == nil {
		return nil
	}
	return c.restore()
}
