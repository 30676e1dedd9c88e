package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leandrodaf/chordtap/sdk/contracts"
	"github.com/leandrodaf/chordtap/sdk/midi"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List input devices and output ports",
	Args:  cobra.NoArgs,
	RunE:  runDevices,
}

func runDevices(cmd *cobra.Command, _ []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	reg, drv := newRegistry(log)
	defer func() {
		if drv != nil {
			_ = drv.Close()
		}
	}()

	inputs, err := reg.Probe()
	if err != nil {
		log.Warn("input probe incomplete", log.Field().Error("error", err))
	}
	fmt.Fprintln(w, "inputs:")
	printDevices(w, inputs)

	backends := midi.Backends()
	if settings.output != "" {
		backends = []string{settings.output}
	}
	for _, backend := range backends {
		fmt.Fprintf(w, "outputs (%s):\n", backend)
		devices, err := listOutputs(log, backend)
		if err != nil {
			fmt.Fprintf(w, "  unavailable: %v\n", err)
			continue
		}
		printDevices(w, devices)
	}
	return nil
}

func listOutputs(log contracts.Logger, backend string) ([]contracts.DeviceInfo, error) {
	out, err := midi.NewOutput(backend,
		contracts.WithLogger(log),
		contracts.WithBaudRate(settings.baud),
	)
	if err != nil {
		return nil, err
	}
	defer out.Close()
	return out.ListDevices()
}

func printDevices(w io.Writer, devices []contracts.DeviceInfo) {
	if len(devices) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	for _, d := range devices {
		fmt.Fprintf(w, "  %-9s %3d  %s\n", d.Backend, d.ID, d.Name)
	}
}
