package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/leandrodaf/chordtap/internal/chord"
)

var notesOctave int

func init() {
	notesCmd.Flags().IntVar(&notesOctave, "octave", 0, "shift every chord by this many octaves")
	rootCmd.AddCommand(notesCmd)
}

var notesCmd = &cobra.Command{
	Use:   "notes CHORD...",
	Short: "Print the MIDI pitches of chord symbols",
	Example: `  chordtap notes C Am7 F/C
  chordtap notes --octave -1 G7b9`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNotes,
}

// runNotes prints every symbol it can parse and reports the others together.
func runNotes(cmd *cobra.Command, args []string) error {
	var errs error
	for _, symbol := range args {
		c, err := chord.Parse(symbol)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		c.ShiftOctave(notesOctave)
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", c.Name, formatNotes(c.Notes()))
	}
	return errs
}

func formatNotes(notes []int) string {
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}
