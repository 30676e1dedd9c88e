// Package input connects performer controls (pedal boards, joysticks, the
// terminal) to the control loop as Commands.
package input

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/leandrodaf/chordtap/sdk/contracts"
)

// MaxBackends is the most backends a Registry accepts.
const MaxBackends = 8

// Error definitions for backend registration and device lookup.
var (
	ErrInvalidBackend  = errors.New("invalid input backend")
	ErrBackendExists   = errors.New("input backend already registered")
	ErrTooManyBackends = errors.New("maximum number of input backends reached")
	ErrUnknownBackend  = errors.New("input backend not found")
	ErrNoDevice        = errors.New("no input device found")
)

// Registry holds the input backends known to the program. It is built once
// at startup and handed to whatever needs to open inputs.
type Registry struct {
	logger   contracts.Logger
	mu       sync.Mutex
	backends []contracts.InputBackend
	open     []*Input
}

// NewRegistry returns an empty registry.
func NewRegistry(logger contracts.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds b. Names must be unique and at most MaxBackends are kept.
func (r *Registry) Register(b contracts.InputBackend) error {
	if b == nil || b.Name() == "" {
		return ErrInvalidBackend
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, known := range r.backends {
		if known.Name() == b.Name() {
			return fmt.Errorf("%w: %s", ErrBackendExists, b.Name())
		}
	}
	if len(r.backends) == MaxBackends {
		return ErrTooManyBackends
	}
	r.backends = append(r.backends, b)
	r.logger.Debug("input backend registered", r.logger.Field().String("backend", b.Name()))
	return nil
}

// Backends returns the registered backends in registration order.
func (r *Registry) Backends() []contracts.InputBackend {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]contracts.InputBackend(nil), r.backends...)
}

// Probe lists the devices of every backend. A failing backend does not hide
// the devices of the others; its error is combined into the returned error.
func (r *Registry) Probe() ([]contracts.DeviceInfo, error) {
	var (
		devices []contracts.DeviceInfo
		errs    error
	)
	for _, b := range r.Backends() {
		found, err := b.Probe()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			continue
		}
		for _, d := range found {
			d.Backend = b.Name()
			devices = append(devices, d)
		}
	}
	return devices, errs
}

// Connect opens device with the backend that found it.
func (r *Registry) Connect(device contracts.DeviceInfo) (*Input, error) {
	backend, err := r.backend(device.Backend)
	if err != nil {
		return nil, err
	}

	conn, err := backend.Connect(device)
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s device %q: %w", device.Backend, device.Name, err)
	}

	in := &Input{Device: device, conn: conn}
	r.mu.Lock()
	r.open = append(r.open, in)
	r.mu.Unlock()

	r.logger.Info("input connected",
		r.logger.Field().String("backend", device.Backend),
		r.logger.Field().Int("id", device.ID),
		r.logger.Field().String("name", device.Name),
	)
	return in, nil
}

// Autodetect connects the first probed device that accepts a connection.
func (r *Registry) Autodetect() (*Input, error) {
	devices, err := r.Probe()
	if err != nil {
		r.logger.Warn("input probe incomplete", r.logger.Field().Error("error", err))
	}

	for _, d := range devices {
		in, err := r.Connect(d)
		if err != nil {
			r.logger.Warn("input device skipped", r.logger.Field().Error("error", err))
			continue
		}
		return in, nil
	}
	return nil, ErrNoDevice
}

// Close disconnects every input opened through the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	open := r.open
	r.open = nil
	r.mu.Unlock()

	var errs error
	for _, in := range open {
		errs = multierr.Append(errs, in.Close())
	}
	return errs
}

func (r *Registry) backend(name string) (contracts.InputBackend, error) {
	for _, b := range r.Backends() {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
}

// Input is a connected device.
type Input struct {
	Device contracts.DeviceInfo

	conn      contracts.InputConnection
	closeOnce sync.Once
	closeErr  error
}

// Read returns the next pending command without blocking.
func (in *Input) Read() (contracts.Command, bool, error) {
	return in.conn.Read()
}

// Close disconnects the device. Further calls return the first result.
func (in *Input) Close() error {
	in.closeOnce.Do(func() {
		in.closeErr = in.conn.Close()
	})
	return in.closeErr
}
