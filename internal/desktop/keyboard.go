package desktop

import (
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"
)

// KeyboardBackend is the cross-platform keyboard injection contract:
// literal text, a single key, or a modifier combo, plus a capability
// self-check.
type KeyboardBackend interface {
	TypeText(text string) error
	PressKey(key string) error
	PressCombo(keys string) error
	SelfCheck() CapabilityReport
}

// RecordingKeyboardBackend records every call without any OS side effect.
// Used by the desktop tests and by the default CI-safe wiring.
type RecordingKeyboardBackend struct {
	Calls []string
}

// NewRecordingKeyboardBackend builds an empty recorder.
func NewRecordingKeyboardBackend() *RecordingKeyboardBackend {
	return &RecordingKeyboardBackend{}
}

func (b *RecordingKeyboardBackend) TypeText(text string) error {
	b.Calls = append(b.Calls, fmt.Sprintf("type:%s", text))
	return nil
}

func (b *RecordingKeyboardBackend) PressKey(key string) error {
	b.Calls = append(b.Calls, fmt.Sprintf("key:%s", key))
	return nil
}

func (b *RecordingKeyboardBackend) PressCombo(keys string) error {
	b.Calls = append(b.Calls, fmt.Sprintf("combo:%s", keys))
	return nil
}

// HandleBuiltin satisfies runtime.KeyboardBackend's builtin dispatch hook
// by recording the command id and reporting it handled, matching how the
// action router expects a keyboard backend to acknowledge built-ins.
func (b *RecordingKeyboardBackend) HandleBuiltin(commandID string) (bool, error) {
	b.Calls = append(b.Calls, fmt.Sprintf("builtin:%s", commandID))
	return true, nil
}

func (b *RecordingKeyboardBackend) SelfCheck() CapabilityReport {
	return CapabilityReport{State: Ready, ActiveAdapter: "recording", AvailableAdapters: []string{"recording"}}
}

// pasteCombo returns the OS-appropriate paste combo.
func pasteCombo() string {
	if runtime.GOOS == "darwin" {
		return "meta+v"
	}
	return "ctrl+v"
}

// ClipboardKeyboardBackend implements TypeText by placing text on the
// system clipboard and sending the platform paste combo through combo,
// the active HotkeyBackend-independent key-combo sender. PressKey and
// PressCombo remain simulated: no dependency in the retrieved corpus
// performs raw key-event synthesis, so those two operations are recorded
// rather than delivered to the OS.
type ClipboardKeyboardBackend struct {
	combo func(keys string) error
	Calls []string
}

// ComboSender delivers a key-combo to the OS. Satisfied by a real
// platform-specific sender or, in tests, a recording stub.
type ComboSender func(keys string) error

// NewClipboardKeyboardBackend builds a backend that pastes through combo.
func NewClipboardKeyboardBackend(combo ComboSender) *ClipboardKeyboardBackend {
	return &ClipboardKeyboardBackend{combo: combo}
}

func (b *ClipboardKeyboardBackend) TypeText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return err
	}
	return b.combo(pasteCombo())
}

func (b *ClipboardKeyboardBackend) PressKey(key string) error {
	b.Calls = append(b.Calls, fmt.Sprintf("key:%s", key))
	return nil
}

func (b *ClipboardKeyboardBackend) PressCombo(keys string) error {
	b.Calls = append(b.Calls, fmt.Sprintf("combo:%s", keys))
	return nil
}

// HandleBuiltin reports no built-in keyboard ops handled directly: this
// backend only implements the clipboard-paste TypeText strategy, so
// built-in commands fall through to whatever custom/unhandled stage
// follows it in the action router.
func (b *ClipboardKeyboardBackend) HandleBuiltin(commandID string) (bool, error) {
	return false, nil
}

func (b *ClipboardKeyboardBackend) SelfCheck() CapabilityReport {
	if _, err := clipboard.ReadAll(); err != nil {
		return CapabilityReport{
			State:       Degraded,
			Codes:       []string{"clipboard_unavailable"},
			Warnings:    []string{"system clipboard is not accessible; text injection will fail"},
			Remediation: "grant clipboard access or run in a graphical session",
		}
	}
	return CapabilityReport{State: Ready, ActiveAdapter: "clipboard", AvailableAdapters: []string{"clipboard"}}
}
