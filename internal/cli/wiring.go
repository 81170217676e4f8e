package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ihmorol/voicekey/internal/audio"
	"github.com/ihmorol/voicekey/internal/commands"
	"github.com/ihmorol/voicekey/internal/config"
	"github.com/ihmorol/voicekey/internal/desktop"
	"github.com/ihmorol/voicekey/internal/runtime"
)

// collaborators bundles everything built from a Settings snapshot that
// both `run` and `status` need: the registry/parser/action-router chain,
// the ASR router, the capture pipeline, and the hotkey backend.
type collaborators struct {
	settings config.Settings
	registry *commands.Registry
	parser   *commands.Parser
	router   *audio.Router
	capture  *audio.Capture
	vad      audio.VAD
	hotkeys  runtime.HotkeyBackend
	keyboard desktop.KeyboardBackend
	window   desktop.WindowBackend
	actions  *runtime.ActionRouter
}

func buildCollaborators(settings config.Settings, log zerolog.Logger) (*collaborators, error) {
	registry, err := commands.CreateBuiltinRegistry()
	if err != nil {
		return nil, fmt.Errorf("building command registry: %w", err)
	}
	registry.SetEnabled(commands.GateWindowCommands, settings.Features.WindowCommandsEnabled)

	raw := make([]commands.RawCustomCommand, 0, len(settings.CustomCommands))
	for _, c := range settings.CustomCommands {
		action := commands.CustomAction{Text: c.Text, Snippet: c.Snippet, Keystroke: c.Keystroke}
		switch c.Type {
		case "snippet":
			action.Type = commands.ActionTypeSnippet
		case "keystroke":
			action.Type = commands.ActionTypeKeystroke
		default:
			action.Type = commands.ActionTypeText
		}
		raw = append(raw, commands.RawCustomCommand{ID: c.ID, Phrase: c.Phrase, Aliases: c.Aliases, Action: action})
	}
	customActions, err := commands.LoadCustomCommandActions(registry, raw)
	if err != nil {
		return nil, fmt.Errorf("loading custom commands: %w", err)
	}

	bodies := make(map[string]string, len(settings.Snippets))
	for name, s := range settings.Snippets {
		bodies[name] = s.Body
	}
	snippets := commands.NewSnippetExpander(bodies)

	parser := commands.NewParser(registry, commands.FuzzyConfig{})

	modelDir, err := defaultModelDir()
	if err != nil {
		return nil, fmt.Errorf("resolving model directory: %w", err)
	}
	local := audio.NewLocal(audio.LocalConfig{
		ModelDir:    modelDir,
		Profile:     audio.ModelProfile(settings.Engine.ModelProfile),
		ComputeType: settings.Engine.ComputeType,
	}, log)

	var cloud audio.Backend
	mode := audio.LocalOnly
	switch settings.Engine.ASRBackend {
	case "hybrid":
		mode = audio.Hybrid
	case "cloud":
		mode = audio.CloudPrimary
	}
	if mode != audio.LocalOnly {
		c, err := audio.NewCloud(audio.CloudConfig{
			BaseURL: settings.Engine.CloudAPIBase,
			APIKey:  audio.NewAPIKey(settings.CloudAPIKey),
			Model:   settings.Engine.CloudModel,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring cloud ASR backend: %w", err)
		}
		cloud = c
	}
	router, err := audio.NewRouter(mode, local, cloud)
	if err != nil {
		return nil, fmt.Errorf("configuring ASR router: %w", err)
	}

	capture := audio.NewCapture(audio.CaptureConfig{SampleRate: settings.Audio.SampleRateHz}, log)

	var vad audio.VAD = audio.NewEnergyVAD(settings.VAD.SpeechThreshold)
	if settings.VAD.ModelPath != "" {
		model := audio.NewOnnxSpeechModel(audio.OnnxSpeechModelConfig{
			ModelPath: settings.VAD.ModelPath,
			OnnxLib:   settings.VAD.OnnxLibPath,
			Threshold: settings.VAD.SpeechThreshold,
		})
		vad = audio.NewModelVAD(model, settings.VAD.SpeechThreshold)
	}

	hotkeys, err := runtime.NewRealHotkeyBackend()
	if err != nil {
		return nil, fmt.Errorf("configuring hotkey backend: %w", err)
	}

	keyboard := desktop.NewRecordingKeyboardBackend()
	window := desktop.NewRecordingWindowBackend()
	actions := runtime.NewActionRouter(window, keyboard, customActions, snippets)

	return &collaborators{
		settings: settings,
		registry: registry,
		parser:   parser,
		router:   router,
		capture:  capture,
		vad:      vad,
		hotkeys:  hotkeys,
		keyboard: keyboard,
		window:   window,
		actions:  actions,
	}, nil
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func defaultModelDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "voicekey", "models"), nil
}

func listeningModeOf(s string) runtime.ListeningMode {
	switch s {
	case "toggle":
		return runtime.Toggle
	case "continuous":
		return runtime.Continuous
	default:
		return runtime.WakeWord
	}
}
