package desktop

import (
	"errors"
	"testing"
)

func TestRecordingKeyboardBackendRecordsCalls(t *testing.T) {
	b := NewRecordingKeyboardBackend()
	if err := b.TypeText("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.PressKey("escape"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.PressCombo("ctrl+shift+4"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"type:hello", "key:escape", "combo:ctrl+shift+4"}
	if len(b.Calls) != len(want) {
		t.Fatalf("got %v", b.Calls)
	}
	for i, w := range want {
		if b.Calls[i] != w {
			t.Errorf("call %d: got %q want %q", i, b.Calls[i], w)
		}
	}
}

func TestRecordingKeyboardBackendHandleBuiltinAlwaysHandles(t *testing.T) {
	b := NewRecordingKeyboardBackend()
	handled, err := b.HandleBuiltin("builtin.new_line")
	if err != nil || !handled {
		t.Fatalf("expected builtin handled, got %v err=%v", handled, err)
	}
	if len(b.Calls) != 1 || b.Calls[0] != "builtin:builtin.new_line" {
		t.Errorf("got %v", b.Calls)
	}
}

func TestRecordingKeyboardBackendSelfCheckReady(t *testing.T) {
	b := NewRecordingKeyboardBackend()
	report := b.SelfCheck()
	if report.State != Ready {
		t.Errorf("expected Ready, got %v", report.State)
	}
}

func TestClipboardKeyboardBackendTypeTextFailsWhenComboSenderFails(t *testing.T) {
	boom := errors.New("no display server")
	b := NewClipboardKeyboardBackend(func(keys string) error { return boom })
	if err := b.TypeText("x"); err == nil {
		t.Error("expected combo sender error to propagate")
	}
}

func TestClipboardKeyboardBackendSendsPlatformPasteCombo(t *testing.T) {
	var sent string
	b := NewClipboardKeyboardBackend(func(keys string) error {
		sent = keys
		return nil
	})
	if err := b.TypeText("dictated text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != pasteCombo() {
		t.Errorf("got combo %q, want %q", sent, pasteCombo())
	}
}

func TestClipboardKeyboardBackendHandleBuiltinNeverClaims(t *testing.T) {
	b := NewClipboardKeyboardBackend(func(string) error { return nil })
	handled, err := b.HandleBuiltin("builtin.new_line")
	if err != nil || handled {
		t.Errorf("expected unhandled, got %v err=%v", handled, err)
	}
}
