// Package cli is the chordtap command line.
package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leandrodaf/chordtap/internal/app"
	"github.com/leandrodaf/chordtap/internal/logger"
	"github.com/leandrodaf/chordtap/internal/midi/midiserial"
	"github.com/leandrodaf/chordtap/sdk/contracts"
	"github.com/leandrodaf/chordtap/sdk/midi"
)

// Error definitions for flag validation.
var (
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidChannel  = errors.New("MIDI channel must be between 1 and 16")
)

// settings holds every flag value.
var settings struct {
	output   string
	port     string
	exclude  []string
	input    string
	baud     int
	channel  int
	tick     time.Duration
	logLevel string
	logFile  string
}

var rootCmd = &cobra.Command{
	Use:   "chordtap [FILE...]",
	Short: "Play chord sequences on a MIDI instrument",
	Long: `chordtap plays chord sequences read from YAML files on a MIDI output.
Chords advance on a pedal board, a joystick, the keyboard or on beat triggers.

With files and no subcommand it behaves like "chordtap play".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runPlay(cmd, args)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&settings.logLevel, "log-level", "info", "debug, info, warn or error")
	f.StringVar(&settings.logFile, "log-file", "", "write JSON logs to this file instead of stderr")
	f.StringVarP(&settings.output, "output", "o", "",
		fmt.Sprintf("output backend, one of %s (default %s)", strings.Join(midi.Backends(), ", "), midi.DefaultBackend()))
	f.IntVar(&settings.baud, "baud", midiserial.DefaultBaudRate, "baud rate of the serial output")

	addPlayFlags(rootCmd)
}

// Execute runs the command line.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func addPlayFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&settings.port, "port", "p", "", "output port, matched by part of its name")
	f.StringSliceVar(&settings.exclude, "exclude", nil, "output ports never picked automatically")
	f.StringVarP(&settings.input, "input", "i", "", `input backend (MIDI, JOYSTICK, KEYBOARD), "none" or empty to autodetect`)
	f.IntVarP(&settings.channel, "channel", "c", 1, "MIDI channel, 1-16")
	f.DurationVar(&settings.tick, "tick", app.DefaultTick, "control loop period")
}

// newLogger builds the process logger. Every record carries a session id
// so runs sharing a log file can be told apart.
func newLogger() (contracts.Logger, error) {
	level, ok := contracts.ParseLogLevel(strings.ToLower(settings.logLevel))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogLevel, settings.logLevel)
	}

	var log contracts.Logger
	if settings.logFile != "" {
		log = logger.NewFileLogger(settings.logFile)
	} else {
		log = logger.NewZapLogger()
	}
	log.SetLevel(level)
	return log.With(log.Field().String("session", uuid.NewString())), nil
}
