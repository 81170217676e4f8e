// Package cli implements voicekeyd's minimal command surface: run the
// dictation daemon, or report the capability status of its configured
// backends without starting capture. The full CLI surface (onboarding,
// model management, packaging) is out of scope for this module.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voicekeyd",
	Short: "voicekeyd — offline voice-to-keystroke dictation daemon",
	Long: `
voicekeyd captures microphone audio, detects a wake phrase, transcribes
speech locally, and injects the resulting text or mapped commands into
the focused window as synthetic keyboard events.

  voicekeyd run      — start the dictation runtime
  voicekeyd status   — report backend capability without starting capture

Run 'voicekeyd <command> --help' for details on each command.`,
}

// Execute is the CLI entrypoint.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: layered defaults + env only)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
}
