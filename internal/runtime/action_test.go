package runtime

import (
	"errors"
	"testing"

	"github.com/ihmorol/voicekey/internal/commands"
)

type recordingWindow struct {
	handled map[string]bool
}

func (w *recordingWindow) Handle(id string) (bool, error) {
	return w.handled[id], nil
}

type recordingKeyboard struct {
	builtins map[string]bool
	handled  []string
	combos   []string
	typed    []string
}

func (k *recordingKeyboard) HandleBuiltin(id string) (bool, error) {
	k.handled = append(k.handled, id)
	return k.builtins[id], nil
}
func (k *recordingKeyboard) PressCombo(keys string) error {
	k.combos = append(k.combos, keys)
	return nil
}
func (k *recordingKeyboard) TypeText(text string) error {
	k.typed = append(k.typed, text)
	return nil
}

type stubSnippets struct{ bodies map[string]string }

func (s *stubSnippets) Expand(name string) (string, error) {
	if v, ok := s.bodies[name]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestActionRouterPrefersWindowRoute(t *testing.T) {
	w := &recordingWindow{handled: map[string]bool{"win.next": true}}
	k := &recordingKeyboard{builtins: map[string]bool{"win.next": true}}
	r := NewActionRouter(w, k, nil, nil)
	res, err := r.Dispatch("win.next")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != RouteWindow {
		t.Errorf("expected window route to win over keyboard, got %v", res.Kind)
	}
}

func TestActionRouterFallsBackToKeyboard(t *testing.T) {
	k := &recordingKeyboard{builtins: map[string]bool{"builtin.new_line": true}}
	r := NewActionRouter(nil, k, nil, nil)
	res, err := r.Dispatch("builtin.new_line")
	if err != nil || res.Kind != RouteKeyboard {
		t.Fatalf("expected keyboard route, got %v err=%v", res.Kind, err)
	}
}

func TestActionRouterDispatchesCustomKeystroke(t *testing.T) {
	k := &recordingKeyboard{}
	custom := map[string]commands.CustomAction{
		"custom.shot": {Type: commands.ActionTypeKeystroke, Keystroke: "cmd+shift+4"},
	}
	r := NewActionRouter(nil, k, custom, nil)
	res, err := r.Dispatch("custom.shot")
	if err != nil || res.Kind != RouteCustom {
		t.Fatalf("expected custom route, got %v err=%v", res.Kind, err)
	}
	if len(k.combos) != 1 || k.combos[0] != "cmd+shift+4" {
		t.Errorf("expected combo recorded, got %v", k.combos)
	}
}

func TestActionRouterCustomKeystrokeMissingKeysErrors(t *testing.T) {
	k := &recordingKeyboard{}
	custom := map[string]commands.CustomAction{"custom.bad": {Type: commands.ActionTypeKeystroke}}
	r := NewActionRouter(nil, k, custom, nil)
	_, err := r.Dispatch("custom.bad")
	if !errors.Is(err, ErrCustomActionMissingKeys) {
		t.Errorf("expected ErrCustomActionMissingKeys, got %v", err)
	}
}

func TestActionRouterExpandsSnippetAction(t *testing.T) {
	k := &recordingKeyboard{}
	custom := map[string]commands.CustomAction{"custom.sig": {Type: commands.ActionTypeSnippet, Snippet: "sig"}}
	snip := &stubSnippets{bodies: map[string]string{"sig": "Best, Jordan"}}
	r := NewActionRouter(nil, k, custom, snip)
	_, err := r.Dispatch("custom.sig")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(k.typed) != 1 || k.typed[0] != "Best, Jordan" {
		t.Errorf("expected expanded snippet typed, got %v", k.typed)
	}
}

func TestActionRouterUnhandled(t *testing.T) {
	r := NewActionRouter(nil, &recordingKeyboard{}, nil, nil)
	res, err := r.Dispatch("nonexistent")
	if err != nil || res.Kind != RouteUnhandled {
		t.Fatalf("expected unhandled, got %v err=%v", res.Kind, err)
	}
}
