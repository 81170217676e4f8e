package desktop

import (
	"github.com/ihmorol/voicekey/internal/commands"
)

// WindowBackend is the cross-platform window management contract: focus
// operations the action router reaches for before falling back to
// keyboard or custom dispatch.
type WindowBackend interface {
	MaximizeActive() error
	MinimizeActive() error
	CloseActive() error
	SwitchNext() error
	SwitchPrevious() error
	SelfCheck() CapabilityReport
}

// RecordingWindowBackend records window operations without touching any
// real window manager. It answers Handle for exactly the built-in window
// command ids and is a no-op for everything else, matching how a real
// backend only claims the operations it actually supports.
type RecordingWindowBackend struct {
	Calls []string
}

// NewRecordingWindowBackend builds an empty recorder.
func NewRecordingWindowBackend() *RecordingWindowBackend {
	return &RecordingWindowBackend{}
}

func (b *RecordingWindowBackend) MaximizeActive() error {
	b.Calls = append(b.Calls, "maximize_active")
	return nil
}

func (b *RecordingWindowBackend) MinimizeActive() error {
	b.Calls = append(b.Calls, "minimize_active")
	return nil
}

func (b *RecordingWindowBackend) CloseActive() error {
	b.Calls = append(b.Calls, "close_active")
	return nil
}

func (b *RecordingWindowBackend) SwitchNext() error {
	b.Calls = append(b.Calls, "switch_next")
	return nil
}

func (b *RecordingWindowBackend) SwitchPrevious() error {
	b.Calls = append(b.Calls, "switch_previous")
	return nil
}

func (b *RecordingWindowBackend) SelfCheck() CapabilityReport {
	return CapabilityReport{State: Ready, ActiveAdapter: "recording", AvailableAdapters: []string{"recording"}}
}

// Handle satisfies runtime.WindowBackend by mapping the built-in window
// command ids onto the underlying operations. Any other command id is
// reported unhandled so the action router falls through to the next
// stage.
func (b *RecordingWindowBackend) Handle(commandID string) (bool, error) {
	switch commandID {
	case commands.CmdWindowNext:
		return true, b.SwitchNext()
	case commands.CmdWindowPrevious:
		return true, b.SwitchPrevious()
	case commands.CmdWindowClose:
		return true, b.CloseActive()
	case commands.CmdWindowMinimize:
		return true, b.MinimizeActive()
	default:
		return false, nil
	}
}
