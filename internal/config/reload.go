package config

// ReloadAction tags how a changed key should be applied.
type ReloadAction int

const (
	// ReloadSafeToApply means the new value can be swapped into the
	// running coordinator in place.
	ReloadSafeToApply ReloadAction = iota
	// ReloadRestartRequired means the coordinator must be stopped and
	// rebuilt for the new value to take effect.
	ReloadRestartRequired
)

// ReloadChange names one changed key and how it must be applied.
type ReloadChange struct {
	Key    string
	Action ReloadAction
}

// restartRequiredKeys are the keys whose change requires rebuilding the
// ASR backend or capture pipeline rather than mutating it in place.
var restartRequiredKeys = map[string]bool{
	"engine.asr_backend":     true,
	"engine.model_profile":   true,
	"engine.compute_type":    true,
	"audio.sample_rate_hz":   true,
	"audio.chunk_ms":         true,
	"audio.device_id":        true,
	"vad.model_path":         true,
	"vad.onnx_lib_path":      true,
}

// Diff compares two snapshots and returns every key whose value differs,
// each tagged safe-to-apply or restart-required. It never mutates either
// snapshot: the core applies changes by constructing a new Settings
// value and swapping it in, not by mutating fields behind a running
// component's back.
func Diff(prev, next Settings) []ReloadChange {
	var changes []ReloadChange
	add := func(key string, differs bool) {
		if !differs {
			return
		}
		action := ReloadSafeToApply
		if restartRequiredKeys[key] {
			action = ReloadRestartRequired
		}
		changes = append(changes, ReloadChange{Key: key, Action: action})
	}

	add("engine.asr_backend", prev.Engine.ASRBackend != next.Engine.ASRBackend)
	add("engine.model_profile", prev.Engine.ModelProfile != next.Engine.ModelProfile)
	add("engine.compute_type", prev.Engine.ComputeType != next.Engine.ComputeType)
	add("engine.language", prev.Engine.Language != next.Engine.Language)
	add("engine.cloud_api_base", prev.Engine.CloudAPIBase != next.Engine.CloudAPIBase)
	add("engine.cloud_model", prev.Engine.CloudModel != next.Engine.CloudModel)
	add("engine.cloud_timeout_seconds", prev.Engine.CloudTimeoutSeconds != next.Engine.CloudTimeoutSeconds)
	add("engine.network_fallback_enabled", prev.Engine.NetworkFallbackEnabled != next.Engine.NetworkFallbackEnabled)

	add("audio.sample_rate_hz", prev.Audio.SampleRateHz != next.Audio.SampleRateHz)
	add("audio.chunk_ms", prev.Audio.ChunkMs != next.Audio.ChunkMs)
	add("audio.device_id", prev.Audio.DeviceID != next.Audio.DeviceID)

	add("vad.enabled", prev.VAD.Enabled != next.VAD.Enabled)
	add("vad.speech_threshold", prev.VAD.SpeechThreshold != next.VAD.SpeechThreshold)
	add("vad.min_speech_ms", prev.VAD.MinSpeechMs != next.VAD.MinSpeechMs)
	add("vad.model_path", prev.VAD.ModelPath != next.VAD.ModelPath)
	add("vad.onnx_lib_path", prev.VAD.OnnxLibPath != next.VAD.OnnxLibPath)

	add("wake_word.enabled", prev.WakeWord.Enabled != next.WakeWord.Enabled)
	add("wake_word.phrase", prev.WakeWord.Phrase != next.WakeWord.Phrase)
	add("wake_word.sensitivity", prev.WakeWord.Sensitivity != next.WakeWord.Sensitivity)
	add("wake_word.wake_window_timeout_seconds", prev.WakeWord.WakeWindowTimeoutSeconds != next.WakeWord.WakeWindowTimeoutSeconds)

	add("modes.default", prev.Modes.Default != next.Modes.Default)
	add("modes.inactivity_auto_pause_seconds", prev.Modes.InactivityAutoPauseSeconds != next.Modes.InactivityAutoPauseSeconds)
	add("modes.paused_resume_phrase_enabled", prev.Modes.PausedResumePhraseEnabled != next.Modes.PausedResumePhraseEnabled)

	add("hotkeys.toggle_listening", prev.Hotkeys.ToggleListening != next.Hotkeys.ToggleListening)
	add("hotkeys.pause", prev.Hotkeys.Pause != next.Hotkeys.Pause)
	add("hotkeys.stop", prev.Hotkeys.Stop != next.Hotkeys.Stop)

	add("typing.confidence_threshold", prev.Typing.ConfidenceThreshold != next.Typing.ConfidenceThreshold)
	add("typing.char_delay_ms", prev.Typing.CharDelayMs != next.Typing.CharDelayMs)

	add("features.text_expansion_enabled", prev.Features.TextExpansionEnabled != next.Features.TextExpansionEnabled)
	add("features.window_commands_enabled", prev.Features.WindowCommandsEnabled != next.Features.WindowCommandsEnabled)

	return changes
}
