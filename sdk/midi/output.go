// Package midi opens MIDI outputs. It picks a backend by name and a port
// by name, falling back to the last port that is not excluded.
package midi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leandrodaf/chordtap/sdk/contracts"
)

// ErrNoOutputPort is returned when no port matches the selection.
var ErrNoOutputPort = errors.New("no MIDI output port available")

// NewOutput creates an output for the named backend with the specified options.
// The output has no port selected yet.
//
// backend string: Name of the backend, "" for the platform default.
// opts ...contracts.Option: A variadic list of option functions to customize the output configuration.
//
// Returns:
//   - contracts.Output: An instance of the output.
//   - error: An error, if any occurred during the creation of the output.
func NewOutput(backend string, opts ...contracts.Option) (contracts.Output, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return newOutput(backend, &options)
}

// Open creates an output and selects a port on it. WithPortName picks the
// first port whose name contains the given text; otherwise the last port not
// listed in WithExcludedPorts is used.
//
// Returns:
//   - contracts.Output: An output ready to send.
//   - contracts.DeviceInfo: The selected port.
//   - error: ErrNoOutputPort when nothing matches, or a backend error.
func Open(backend string, opts ...contracts.Option) (contracts.Output, contracts.DeviceInfo, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, contracts.DeviceInfo{}, err
	}
	out, err := newOutput(backend, &options)
	if err != nil {
		return nil, contracts.DeviceInfo{}, err
	}

	devices, err := out.ListDevices()
	if err != nil {
		_ = out.Close()
		return nil, contracts.DeviceInfo{}, fmt.Errorf("%w: %v", ErrNoOutputPort, err)
	}
	device, err := selectPort(devices, options.PortName, options.ExcludedPorts)
	if err != nil {
		_ = out.Close()
		return nil, contracts.DeviceInfo{}, err
	}
	if err := out.SelectDevice(device.ID); err != nil {
		_ = out.Close()
		return nil, contracts.DeviceInfo{}, err
	}
	return out, device, nil
}

func selectPort(devices []contracts.DeviceInfo, name string, excluded []string) (contracts.DeviceInfo, error) {
	if name != "" {
		for _, d := range devices {
			if strings.Contains(strings.ToLower(d.Name), strings.ToLower(name)) {
				return d, nil
			}
		}
		return contracts.DeviceInfo{}, fmt.Errorf("%w: none matches %q", ErrNoOutputPort, name)
	}

	for i := len(devices) - 1; i >= 0; i-- {
		if !isExcluded(devices[i].Name, excluded) {
			return devices[i], nil
		}
	}
	return contracts.DeviceInfo{}, ErrNoOutputPort
}

func isExcluded(name string, excluded []string) bool {
	for _, e := range excluded {
		if strings.EqualFold(name, e) {
			return true
		}
	}
	return false
}
