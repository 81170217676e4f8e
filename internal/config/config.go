// Package config loads the layered settings snapshot the runtime
// coordinator is constructed from: code defaults, overridden by an
// optional file, overridden by VOICEKEY_-prefixed environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EngineSettings selects and configures the ASR backend.
type EngineSettings struct {
	ASRBackend            string `mapstructure:"asr_backend"`
	ModelProfile          string `mapstructure:"model_profile"`
	ComputeType           string `mapstructure:"compute_type"`
	Language              string `mapstructure:"language"`
	CloudAPIBase          string `mapstructure:"cloud_api_base"`
	CloudModel            string `mapstructure:"cloud_model"`
	CloudTimeoutSeconds   int    `mapstructure:"cloud_timeout_seconds"`
	NetworkFallbackEnabled bool  `mapstructure:"network_fallback_enabled"`
}

// AudioSettings configures the capture device.
type AudioSettings struct {
	SampleRateHz int    `mapstructure:"sample_rate_hz"`
	ChunkMs      int    `mapstructure:"chunk_ms"`
	DeviceID     string `mapstructure:"device_id"`
}

// VADSettings configures voice-activity detection. ModelPath/OnnxLibPath
// select the optional ONNX-backed model; when ModelPath is empty the
// runtime falls back to the pure energy-threshold VAD.
type VADSettings struct {
	Enabled         bool    `mapstructure:"enabled"`
	SpeechThreshold float64 `mapstructure:"speech_threshold"`
	MinSpeechMs     int     `mapstructure:"min_speech_ms"`
	ModelPath       string  `mapstructure:"model_path"`
	OnnxLibPath     string  `mapstructure:"onnx_lib_path"`
}

// WakeWordSettings configures the wake-phrase detector and window.
type WakeWordSettings struct {
	Enabled                bool    `mapstructure:"enabled"`
	Phrase                 string  `mapstructure:"phrase"`
	Sensitivity            float64 `mapstructure:"sensitivity"`
	WakeWindowTimeoutSeconds int   `mapstructure:"wake_window_timeout_seconds"`
}

// ModeSettings configures the active listening mode and its timers.
type ModeSettings struct {
	Default                     string `mapstructure:"default"`
	InactivityAutoPauseSeconds  int    `mapstructure:"inactivity_auto_pause_seconds"`
	PausedResumePhraseEnabled   bool   `mapstructure:"paused_resume_phrase_enabled"`
}

// HotkeySettings configures the three runtime hotkeys.
type HotkeySettings struct {
	ToggleListening string `mapstructure:"toggle_listening"`
	Pause           string `mapstructure:"pause"`
	Stop            string `mapstructure:"stop"`
}

// TypingSettings configures transcript-to-keystroke injection.
type TypingSettings struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	CharDelayMs         int     `mapstructure:"char_delay_ms"`
}

// FeatureSettings gates optional behaviors.
type FeatureSettings struct {
	TextExpansionEnabled   bool `mapstructure:"text_expansion_enabled"`
	WindowCommandsEnabled  bool `mapstructure:"window_commands_enabled"`
}

// SnippetDefinition is one entry of the snippets map.
type SnippetDefinition struct {
	Body string `mapstructure:"body"`
}

// CustomCommandDefinition is one entry of the custom_commands list.
type CustomCommandDefinition struct {
	ID        string   `mapstructure:"id"`
	Phrase    string   `mapstructure:"phrase"`
	Aliases   []string `mapstructure:"aliases"`
	Type      string   `mapstructure:"type"`
	Text      string   `mapstructure:"text"`
	Snippet   string   `mapstructure:"snippet"`
	Keystroke string   `mapstructure:"keystroke"`
}

// Settings is the immutable snapshot consumed once at coordinator
// construction and, on explicit reload, diffed key-by-key via Diff.
type Settings struct {
	Engine         EngineSettings                      `mapstructure:"engine"`
	Audio          AudioSettings                        `mapstructure:"audio"`
	VAD            VADSettings                          `mapstructure:"vad"`
	WakeWord       WakeWordSettings                     `mapstructure:"wake_word"`
	Modes          ModeSettings                          `mapstructure:"modes"`
	Hotkeys        HotkeySettings                        `mapstructure:"hotkeys"`
	Typing         TypingSettings                        `mapstructure:"typing"`
	Features       FeatureSettings                       `mapstructure:"features"`
	Snippets       map[string]SnippetDefinition           `mapstructure:"snippets"`
	CustomCommands []CustomCommandDefinition              `mapstructure:"custom_commands"`

	// CloudAPIKey is populated only from VOICEKEY_OPENAI_API_KEY; it is
	// never read from a file so it cannot be committed by accident.
	CloudAPIKey string `mapstructure:"-"`
}

// Defaults returns the built-in baseline every loader layers on top of.
func Defaults() Settings {
	return Settings{
		Engine: EngineSettings{
			ASRBackend:             "local",
			ModelProfile:           "base",
			Language:               "en",
			CloudTimeoutSeconds:    20,
			NetworkFallbackEnabled: false,
		},
		Audio: AudioSettings{
			SampleRateHz: 16000,
			ChunkMs:      100,
		},
		VAD: VADSettings{
			Enabled:         true,
			SpeechThreshold: 0.5,
			MinSpeechMs:     200,
		},
		WakeWord: WakeWordSettings{
			Enabled:                  true,
			Phrase:                   "hey voice key",
			Sensitivity:              0.5,
			WakeWindowTimeoutSeconds: 8,
		},
		Modes: ModeSettings{
			Default:                    "wake_word",
			InactivityAutoPauseSeconds: 60,
			PausedResumePhraseEnabled:  true,
		},
		Hotkeys: HotkeySettings{
			ToggleListening: "ctrl+alt+space",
			Pause:           "ctrl+alt+p",
			Stop:            "ctrl+alt+q",
		},
		Typing: TypingSettings{
			ConfidenceThreshold: 0.6,
			CharDelayMs:         0,
		},
		Features: FeatureSettings{
			TextExpansionEnabled:  true,
			WindowCommandsEnabled: false,
		},
		Snippets:       map[string]SnippetDefinition{},
		CustomCommands: []CustomCommandDefinition{},
	}
}

const envPrefix = "VOICEKEY"

// Load builds a Settings snapshot from code defaults, an optional config
// file at path (skipped entirely when path is empty or missing), and
// VOICEKEY_-prefixed environment variables, in that override order.
func Load(path string) (Settings, error) {
	v := viper.New()
	applyDefaults(v, Defaults())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
				return Settings{}, fmt.Errorf("reading config file %s: %w", path, err)
			}
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("unmarshalling settings: %w", err)
	}
	settings.CloudAPIKey = os.Getenv(envPrefix + "_OPENAI_API_KEY")

	if err := Validate(settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func applyDefaults(v *viper.Viper, d Settings) {
	v.SetDefault("engine.asr_backend", d.Engine.ASRBackend)
	v.SetDefault("engine.model_profile", d.Engine.ModelProfile)
	v.SetDefault("engine.compute_type", d.Engine.ComputeType)
	v.SetDefault("engine.language", d.Engine.Language)
	v.SetDefault("engine.cloud_api_base", d.Engine.CloudAPIBase)
	v.SetDefault("engine.cloud_model", d.Engine.CloudModel)
	v.SetDefault("engine.cloud_timeout_seconds", d.Engine.CloudTimeoutSeconds)
	v.SetDefault("engine.network_fallback_enabled", d.Engine.NetworkFallbackEnabled)

	v.SetDefault("audio.sample_rate_hz", d.Audio.SampleRateHz)
	v.SetDefault("audio.chunk_ms", d.Audio.ChunkMs)
	v.SetDefault("audio.device_id", d.Audio.DeviceID)

	v.SetDefault("vad.enabled", d.VAD.Enabled)
	v.SetDefault("vad.speech_threshold", d.VAD.SpeechThreshold)
	v.SetDefault("vad.min_speech_ms", d.VAD.MinSpeechMs)
	v.SetDefault("vad.model_path", d.VAD.ModelPath)
	v.SetDefault("vad.onnx_lib_path", d.VAD.OnnxLibPath)

	v.SetDefault("wake_word.enabled", d.WakeWord.Enabled)
	v.SetDefault("wake_word.phrase", d.WakeWord.Phrase)
	v.SetDefault("wake_word.sensitivity", d.WakeWord.Sensitivity)
	v.SetDefault("wake_word.wake_window_timeout_seconds", d.WakeWord.WakeWindowTimeoutSeconds)

	v.SetDefault("modes.default", d.Modes.Default)
	v.SetDefault("modes.inactivity_auto_pause_seconds", d.Modes.InactivityAutoPauseSeconds)
	v.SetDefault("modes.paused_resume_phrase_enabled", d.Modes.PausedResumePhraseEnabled)

	v.SetDefault("hotkeys.toggle_listening", d.Hotkeys.ToggleListening)
	v.SetDefault("hotkeys.pause", d.Hotkeys.Pause)
	v.SetDefault("hotkeys.stop", d.Hotkeys.Stop)

	v.SetDefault("typing.confidence_threshold", d.Typing.ConfidenceThreshold)
	v.SetDefault("typing.char_delay_ms", d.Typing.CharDelayMs)

	v.SetDefault("features.text_expansion_enabled", d.Features.TextExpansionEnabled)
	v.SetDefault("features.window_commands_enabled", d.Features.WindowCommandsEnabled)

	v.SetDefault("snippets", map[string]interface{}{})
	v.SetDefault("custom_commands", []interface{}{})
}

// Validate rejects settings that would leave the runtime unable to start.
func Validate(s Settings) error {
	if s.WakeWord.Enabled && strings.TrimSpace(s.WakeWord.Phrase) == "" {
		return fmt.Errorf("config: wake_word.phrase cannot be empty while wake_word.enabled is true")
	}
	switch s.Engine.ASRBackend {
	case "local", "hybrid", "cloud":
	default:
		return fmt.Errorf("config: unknown engine.asr_backend %q", s.Engine.ASRBackend)
	}
	if (s.Engine.ASRBackend == "hybrid" || s.Engine.ASRBackend == "cloud") && s.CloudAPIKey == "" {
		return fmt.Errorf("config: VOICEKEY_OPENAI_API_KEY is required for engine.asr_backend %q", s.Engine.ASRBackend)
	}
	switch s.Modes.Default {
	case "wake_word", "toggle", "continuous":
	default:
		return fmt.Errorf("config: unknown modes.default %q", s.Modes.Default)
	}
	if s.Typing.ConfidenceThreshold < 0 || s.Typing.ConfidenceThreshold > 1 {
		return fmt.Errorf("config: typing.confidence_threshold must be within [0,1]")
	}
	seen := make(map[string]bool, len(s.CustomCommands))
	for _, c := range s.CustomCommands {
		if c.ID == "" || c.Phrase == "" {
			return fmt.Errorf("config: custom_commands entries require both id and phrase")
		}
		if seen[c.ID] {
			return fmt.Errorf("config: duplicate custom_commands id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}
