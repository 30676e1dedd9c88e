package midi

import (
	"github.com/leandrodaf/chordtap/internal/logger"
	"github.com/leandrodaf/chordtap/sdk/contracts"
)

// applyDefaultOptions sets default values for OutputOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify OutputOptions.
//
// Returns:
//   - contracts.OutputOptions: A structure containing the finalized output options with defaults applied.
//   - error: An error if there was an issue applying the options.
func applyDefaultOptions(opts ...contracts.Option) (contracts.OutputOptions, error) {
	options := &contracts.OutputOptions{LogLevel: contracts.InfoLevel}
	for _, opt := range opts {
		opt(options)
	}

	// Set defaults if options are not provided
	if options.Logger == nil {
		if options.LogFilePath != "" {
			options.Logger = logger.NewFileLogger(options.LogFilePath)
		} else {
			options.Logger = logger.NewZapLogger()
		}
		options.Logger.SetLevel(options.LogLevel)
	}

	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{} // Default CoreMIDI config
	}
	if options.CoreMIDIConfig.ClientName == "" {
		options.CoreMIDIConfig.ClientName = "chordtap"
	}
	if options.CoreMIDIConfig.PortName == "" {
		options.CoreMIDIConfig.PortName = "chordtap out"
	}

	return *options, nil
}
