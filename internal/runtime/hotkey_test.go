package runtime

import "testing"

func TestNormalizeHotkeySortsModifiersAndKeys(t *testing.T) {
	got, err := NormalizeHotkey("Shift+Ctrl+Space")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ctrl+shift+space" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeHotkeyResolvesAliases(t *testing.T) {
	got, err := NormalizeHotkey("cmd+control+k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ctrl+meta+k" {
		t.Errorf("got %q", got)
	}
}

func TestNormalizeHotkeyRejectsEmptyToken(t *testing.T) {
	if _, err := NormalizeHotkey("ctrl++k"); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestInMemoryHotkeyBackendRegisterAndTrigger(t *testing.T) {
	b, err := NewInMemoryHotkeyBackend()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fired := false
	res, err := b.Register("ctrl+shift+space", func() { fired = true })
	if err != nil || !res.Registered {
		t.Fatalf("expected registration success, got %+v err=%v", res, err)
	}
	if !b.Trigger("ctrl+shift+space") || !fired {
		t.Error("expected callback to fire on trigger")
	}
}

func TestInMemoryHotkeyBackendConflictSuggestsAlternatives(t *testing.T) {
	b, err := NewInMemoryHotkeyBackend("ctrl+shift+f12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := b.Register("ctrl+shift+f12", func() {})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Registered {
		t.Fatal("expected conflict")
	}
	if len(res.Alternatives) == 0 {
		t.Error("expected at least one alternative suggested")
	}
	for _, alt := range res.Alternatives {
		if alt == "ctrl+shift+f12" {
			t.Errorf("alternative must differ from the blocked hotkey, got %v", res.Alternatives)
		}
	}
}

func TestInMemoryHotkeyBackendSuggestsAtMostThree(t *testing.T) {
	b, err := NewInMemoryHotkeyBackend()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _ = b.Register("ctrl+shift+space", func() {})
	res, _ := b.Register("ctrl+shift+space", func() {})
	if len(res.Alternatives) > 3 {
		t.Errorf("expected at most 3 alternatives, got %d", len(res.Alternatives))
	}
}

func TestInMemoryHotkeyBackendUnregisterIsIdempotent(t *testing.T) {
	b, _ := NewInMemoryHotkeyBackend()
	_, _ = b.Register("ctrl+shift+space", func() {})
	if err := b.Unregister("ctrl+shift+space"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Unregister("ctrl+shift+space"); err != nil {
		t.Fatalf("expected idempotent unregister, got %v", err)
	}
	if len(b.ListRegistered()) != 0 {
		t.Error("expected no hotkeys registered after unregister")
	}
}

func TestInMemoryHotkeyBackendListRegisteredIsSorted(t *testing.T) {
	b, _ := NewInMemoryHotkeyBackend()
	_, _ = b.Register("ctrl+b", func() {})
	_, _ = b.Register("ctrl+a", func() {})
	list := b.ListRegistered()
	if len(list) != 2 || list[0] != "ctrl+a" || list[1] != "ctrl+b" {
		t.Errorf("expected sorted list, got %v", list)
	}
}
