package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ihmorol/voicekey/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report backend capability without starting capture",
	Long:  `Builds the same collaborators as "run" but only prints their capability reports; capture is never started.`,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	debug, _ := cmd.Root().PersistentFlags().GetBool("debug")
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	log := newLogger(debug)

	settings, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	collab, err := buildCollaborators(settings, log)
	if err != nil {
		return err
	}

	fmt.Println("voicekeyd status")
	fmt.Printf("  mode            : %s\n", settings.Modes.Default)
	fmt.Printf("  asr backend     : %s\n", settings.Engine.ASRBackend)
	fmt.Printf("  wake word       : enabled=%v phrase=%q\n", settings.WakeWord.Enabled, settings.WakeWord.Phrase)

	kb := collab.keyboard.SelfCheck()
	fmt.Printf("  keyboard adapter: state=%s active=%s\n", kb.State, kb.ActiveAdapter)

	win := collab.window.SelfCheck()
	fmt.Printf("  window adapter  : state=%s active=%s\n", win.State, win.ActiveAdapter)

	fmt.Printf("  registered hotkeys: %v\n", collab.hotkeys.ListRegistered())

	return nil
}
