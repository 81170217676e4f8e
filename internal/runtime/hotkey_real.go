//go:build !ci

package runtime

import (
	"sync"

	"golang.design/x/hotkey"
)

var realModifierByName = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"alt":   hotkey.ModOption,
	"shift": hotkey.ModShift,
	"meta":  hotkey.Mod4,
}

var realKeyByName = map[string]hotkey.Key{
	"f8":  hotkey.KeyF8,
	"f9":  hotkey.KeyF9,
	"f10": hotkey.KeyF10,
	"f11": hotkey.KeyF11,
	"f12": hotkey.KeyF12,
}

// RealHotkeyBackend registers live global hotkeys via golang.design/x/hotkey,
// using the same conflict-suggestion algorithm as InMemoryHotkeyBackend.
type RealHotkeyBackend struct {
	mu      sync.Mutex
	memory  *InMemoryHotkeyBackend
	live    map[string]*hotkey.Hotkey
	keyName map[string]string
}

// NewRealHotkeyBackend builds a backend with no hotkeys blocked in advance;
// conflicts are only detected against hotkeys this process has already
// registered, since the OS does not report third-party bindings.
func NewRealHotkeyBackend() (*RealHotkeyBackend, error) {
	memory, err := NewInMemoryHotkeyBackend()
	if err != nil {
		return nil, err
	}
	return &RealHotkeyBackend{memory: memory, live: map[string]*hotkey.Hotkey{}, keyName: map[string]string{}}, nil
}

// Register parses the normalized hotkey into modifier/key tokens the
// golang.design/x/hotkey package understands, attempts live registration,
// and falls back to the deterministic conflict-suggestion algorithm when
// the OS refuses the binding or the in-memory bookkeeping already holds it.
func (b *RealHotkeyBackend) Register(hk string, callback HotkeyCallback) (HotkeyRegistrationResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	result, err := b.memory.Register(hk, callback)
	if err != nil {
		return HotkeyRegistrationResult{}, err
	}
	if !result.Registered {
		return result, nil
	}

	mods, key, ok := toNativeSpec(result.Hotkey)
	if !ok {
		// Unsupported key for the live backend: unwind the memory
		// bookkeeping and report it as a conflict with no alternatives.
		_ = b.memory.Unregister(result.Hotkey)
		return HotkeyRegistrationResult{Hotkey: result.Hotkey, Registered: false}, nil
	}

	live := hotkey.New(mods, key)
	if regErr := live.Register(); regErr != nil {
		_ = b.memory.Unregister(result.Hotkey)
		return HotkeyRegistrationResult{
			Hotkey:       result.Hotkey,
			Registered:   false,
			Alternatives: b.memory.suggestAlternatives(result.Hotkey),
		}, nil
	}

	b.live[result.Hotkey] = live
	go func() {
		for range live.Keydown() {
			callback()
		}
	}()
	return result, nil
}

// Unregister is idempotent.
func (b *RealHotkeyBackend) Unregister(hk string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	normalized, err := NormalizeHotkey(hk)
	if err != nil {
		return err
	}
	if live, ok := b.live[normalized]; ok {
		live.Unregister()
		delete(b.live, normalized)
	}
	return b.memory.Unregister(hk)
}

// ListRegistered delegates to the in-memory bookkeeping, which mirrors
// every successfully live-registered hotkey.
func (b *RealHotkeyBackend) ListRegistered() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.memory.ListRegistered()
}

func toNativeSpec(normalized string) ([]hotkey.Modifier, hotkey.Key, bool) {
	tokens := splitHotkey(normalized)
	if len(tokens) == 0 {
		return nil, 0, false
	}
	var mods []hotkey.Modifier
	key := tokens[len(tokens)-1]
	for _, t := range tokens[:len(tokens)-1] {
		m, ok := realModifierByName[t]
		if !ok {
			return nil, 0, false
		}
		mods = append(mods, m)
	}
	k, ok := realKeyByName[key]
	if !ok {
		return nil, 0, false
	}
	return mods, k, true
}

func splitHotkey(normalized string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(normalized); i++ {
		if i == len(normalized) || normalized[i] == '+' {
			out = append(out, normalized[start:i])
			start = i + 1
		}
	}
	return out
}
