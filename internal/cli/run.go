package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ihmorol/voicekey/internal/audio"
	"github.com/ihmorol/voicekey/internal/commands"
	"github.com/ihmorol/voicekey/internal/config"
	"github.com/ihmorol/voicekey/internal/runtime"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the dictation runtime",
	Long:  `Starts audio capture, wake detection, transcription, and keystroke injection until interrupted.`,
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, _ []string) error {
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

	guard, err := runtime.NewInstanceGuard()
	if err != nil {
		return fmt.Errorf("constructing instance guard: %w", err)
	}
	if err := guard.Acquire(); err != nil {
		return fmt.Errorf("acquiring single-instance lock: %w", err)
	}
	defer guard.Release()

	wakeDetector, err := audio.NewWakeDetector(settings.WakeWord.Phrase, commands.Normalize)
	if err != nil {
		return fmt.Errorf("configuring wake detector: %w", err)
	}
	wakeWindow := audio.NewWakeWindow(time.Duration(settings.WakeWord.WakeWindowTimeoutSeconds)*time.Second, nil)
	confidence := audio.NewConfidenceFilter(settings.Typing.ConfidenceThreshold)

	coord := runtime.NewCoordinator(runtime.CoordinatorConfig{
		Mode:                  listeningModeOf(settings.Modes.Default),
		Capture:               collab.capture,
		Queue:                 collab.capture.Queue(),
		VAD:                   collab.vad,
		ASR:                   collab.router,
		SampleRate:            settings.Audio.SampleRateHz,
		ConfidenceFilter:      confidence,
		WakeDetector:          wakeDetector,
		WakeWindow:            wakeWindow,
		Parser:                collab.parser,
		ActionRouter:          collab.actions,
		TextOutput:            collab.keyboard.TypeText,
		Hotkeys:               collab.hotkeys,
		ToggleHotkey:          settings.Hotkeys.ToggleListening,
		ResumeByPhraseEnabled: settings.Modes.PausedResumePhraseEnabled,
		Logger:                log,
	})

	if err := coord.Start(); err != nil {
		return fmt.Errorf("starting runtime: %w", err)
	}
	log.Info().Str("mode", settings.Modes.Default).Str("wake_phrase", settings.WakeWord.Phrase).Msg("voicekeyd running — Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("voicekeyd shutting down")
	return coord.Stop()
}
