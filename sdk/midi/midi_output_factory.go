package midi

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/leandrodaf/chordtap/internal/midi/mididarwin"
	"github.com/leandrodaf/chordtap/internal/midi/midilog"
	"github.com/leandrodaf/chordtap/internal/midi/midirt"
	"github.com/leandrodaf/chordtap/internal/midi/midiserial"
	"github.com/leandrodaf/chordtap/internal/midi/midiwindows"
	"github.com/leandrodaf/chordtap/sdk/contracts"
)

// ErrUnsupportedBackend is returned when no output backend has the requested name.
var ErrUnsupportedBackend = errors.New("unsupported output backend")

// outputInitializers maps backend names to the corresponding output initializers.
var outputInitializers = map[string]func(*contracts.OutputOptions) (contracts.Output, error){
	"coremidi":             mididarwin.NewOutput,  // macOS (Darwin) CoreMIDI output.
	"winmm":                midiwindows.NewOutput, // Windows multimedia output.
	midirt.BackendName:     midirt.NewOutput,      // RtMidi output (ALSA, JACK, CoreMIDI, WinMM).
	midiserial.BackendName: midiserial.NewOutput,  // Raw MIDI over a serial line.
	midilog.BackendName:    midilog.NewOutput,     // Dry run: logs every message.
}

// platformDefaults maps OS names to the backend used when none is requested.
var platformDefaults = map[string]string{
	"darwin":  "coremidi",
	"windows": "winmm",
}

// Backends returns the names accepted by NewOutput, sorted.
func Backends() []string {
	names := maps.Keys(outputInitializers)
	slices.Sort(names)
	return names
}

// DefaultBackend returns the backend used for an empty name on this system.
func DefaultBackend() string {
	if name, ok := platformDefaults[runtime.GOOS]; ok {
		return name
	}
	return midirt.BackendName
}

// newOutput initializes the named output backend. An empty name selects
// the platform default.
//
// backend string: Name of the backend, one of Backends() or "".
// opts *contracts.OutputOptions: Configuration options for the output.
//
// Returns:
//   - contracts.Output: An unopened output; call SelectDevice before sending.
//   - error: ErrUnsupportedBackend for unknown names, or the initializer's error.
func newOutput(backend string, opts *contracts.OutputOptions) (contracts.Output, error) {
	if backend == "" {
		backend = DefaultBackend()
	}
	if initializer, exists := outputInitializers[backend]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, backend)
}
