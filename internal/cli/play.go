package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"go.uber.org/multierr"

	"github.com/leandrodaf/chordtap/internal/app"
	"github.com/leandrodaf/chordtap/internal/input"
	"github.com/leandrodaf/chordtap/internal/input/joystick"
	"github.com/leandrodaf/chordtap/internal/input/keyboard"
	"github.com/leandrodaf/chordtap/internal/input/midiin"
	"github.com/leandrodaf/chordtap/internal/loader"
	"github.com/leandrodaf/chordtap/internal/sequence"
	"github.com/leandrodaf/chordtap/sdk/contracts"
	"github.com/leandrodaf/chordtap/sdk/midi"
)

// noInput disables input devices; the program then runs on beat triggers.
const noInput = "none"

func init() {
	addPlayFlags(playCmd)
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play FILE...",
	Short: "Play the programs stored in FILE, one after the other",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	if settings.channel < 1 || settings.channel > 16 {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, settings.channel)
	}
	log, err := newLogger()
	if err != nil {
		return err
	}

	programs, err := loadPrograms(log, args)
	if err != nil {
		return err
	}

	r, err := openRig(log)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.Close(); err != nil {
			log.Warn("shutdown incomplete", log.Field().Error("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(r.out, r.source(), log,
		app.WithTick(settings.tick),
		app.WithChannel(uint8(settings.channel-1)),
	)
	for i, program := range programs {
		log.Info("program started",
			log.Field().String("file", args[i]),
			log.Field().Int("sequences", program.Len()),
		)
		if err := a.Run(ctx, program); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
	return nil
}

// loadPrograms reads every file before anything is opened, so a missing
// file is reported without touching the instrument.
func loadPrograms(log contracts.Logger, paths []string) ([]*sequence.Program, error) {
	l := loader.New(log)
	programs := make([]*sequence.Program, 0, len(paths))
	for _, path := range paths {
		program, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if program.Len() == 0 {
			log.Warn("program is empty", log.Field().String("file", path))
		}
		programs = append(programs, program)
	}
	return programs, nil
}

// rig is the hardware a performance runs on.
type rig struct {
	registry *input.Registry
	midiDrv  drivers.Driver
	in       *input.Input
	out      contracts.Output
}

func openRig(log contracts.Logger) (*rig, error) {
	r := &rig{}
	r.registry, r.midiDrv = newRegistry(log)

	in, err := connectInput(log, r.registry, settings.input)
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	r.in = in

	excluded := append([]string(nil), settings.exclude...)
	if in != nil && in.Device.Backend == midiin.BackendName {
		// Never loop chords back into the pedal board.
		excluded = append(excluded, in.Device.Name)
	}
	out, device, err := midi.Open(settings.output,
		contracts.WithLogger(log),
		contracts.WithPortName(settings.port),
		contracts.WithExcludedPorts(excluded...),
		contracts.WithBaudRate(settings.baud),
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	r.out = out
	log.Info("output opened",
		log.Field().String("backend", device.Backend),
		log.Field().Int("id", device.ID),
		log.Field().String("name", device.Name),
	)
	return r, nil
}

// source returns the input as the control loop sees it; nil when no
// device is connected.
func (r *rig) source() app.Input {
	if r.in == nil {
		return nil
	}
	return r.in
}

func (r *rig) Close() error {
	var err error
	if r.out != nil {
		err = multierr.Append(err, r.out.Close())
	}
	if r.registry != nil {
		err = multierr.Append(err, r.registry.Close())
	}
	if r.midiDrv != nil {
		err = multierr.Append(err, r.midiDrv.Close())
	}
	return err
}

// newRegistry registers every input backend available on this machine.
// The returned driver backs MIDI input and must be closed after the
// registry; it is nil when RtMidi could not start.
func newRegistry(log contracts.Logger) (*input.Registry, drivers.Driver) {
	reg := input.NewRegistry(log)
	backends := []contracts.InputBackend{joystick.New(log), keyboard.New(log)}

	var drv drivers.Driver
	if d, err := rtmididrv.New(); err != nil {
		log.Warn("MIDI input unavailable", log.Field().Error("error", err))
	} else {
		drv = d
		backends = append([]contracts.InputBackend{midiin.New(log, d)}, backends...)
	}

	for _, b := range backends {
		if err := reg.Register(b); err != nil {
			log.Error("input backend not registered", log.Field().Error("error", err))
		}
	}
	return reg, drv
}

// connectInput opens the first device of the named backend. An empty name
// tries every backend in registration order.
func connectInput(log contracts.Logger, reg *input.Registry, backend string) (*input.Input, error) {
	switch {
	case strings.EqualFold(backend, noInput):
		log.Info("no input, chords advance on beat triggers only")
		return nil, nil
	case backend == "":
		in, err := reg.Autodetect()
		if err != nil {
			return nil, fmt.Errorf(`%w: connect a controller or pass --input %s`, err, noInput)
		}
		return in, nil
	}

	devices, err := reg.Probe()
	if err != nil {
		log.Warn("input probe incomplete", log.Field().Error("error", err))
	}
	for _, d := range devices {
		if strings.EqualFold(d.Backend, backend) {
			return reg.Connect(d)
		}
	}
	return nil, fmt.Errorf("%w: %s", input.ErrNoDevice, backend)
}
