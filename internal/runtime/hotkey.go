package runtime

import (
	"fmt"
	"sort"
	"strings"
)

var modifierOrder = []string{"ctrl", "alt", "shift", "meta"}

var modifierAliases = map[string]string{
	"control": "ctrl",
	"ctl":     "ctrl",
	"option":  "alt",
	"win":     "meta",
	"command": "meta",
	"cmd":     "meta",
}

var fallbackKeys = []string{"f12", "f11", "f10", "f9", "f8"}

func isModifier(token string) bool {
	for _, m := range modifierOrder {
		if token == m {
			return true
		}
	}
	return false
}

func modifierRank(token string) int {
	for i, m := range modifierOrder {
		if m == token {
			return i
		}
	}
	return len(modifierOrder)
}

// NormalizeHotkey returns the canonical "modifier+...+key" form: lowercase,
// aliases resolved, modifiers sorted by fixed order, keys sorted.
func NormalizeHotkey(hotkey string) (string, error) {
	tokens := strings.Split(hotkey, "+")
	var modifiers, keys []string
	seenMod := map[string]bool{}
	seenKey := map[string]bool{}
	for _, raw := range tokens {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "" {
			return "", fmt.Errorf("runtime: invalid hotkey %q", hotkey)
		}
		if alias, ok := modifierAliases[token]; ok {
			token = alias
		}
		if isModifier(token) {
			if !seenMod[token] {
				modifiers = append(modifiers, token)
				seenMod[token] = true
			}
			continue
		}
		if !seenKey[token] {
			keys = append(keys, token)
			seenKey[token] = true
		}
	}
	sort.Slice(modifiers, func(i, j int) bool { return modifierRank(modifiers[i]) < modifierRank(modifiers[j]) })
	sort.Strings(keys)
	return strings.Join(append(modifiers, keys...), "+"), nil
}

func extractModifiers(hotkey string) []string {
	var out []string
	for _, token := range strings.Split(hotkey, "+") {
		if isModifier(token) {
			out = append(out, token)
		}
	}
	return out
}

// HotkeyRegistrationResult is the outcome of a single registration attempt.
type HotkeyRegistrationResult struct {
	Hotkey       string
	Registered   bool
	Alternatives []string
}

// HotkeyCallback fires when a registered hotkey is triggered.
type HotkeyCallback func()

// HotkeyBackend is the contract for global hotkey registration adapters.
type HotkeyBackend interface {
	Register(hotkey string, callback HotkeyCallback) (HotkeyRegistrationResult, error)
	Unregister(hotkey string) error
	ListRegistered() []string
}

// InMemoryHotkeyBackend is a deterministic backend for tests: it can be
// told in advance which hotkeys are already bound elsewhere.
type InMemoryHotkeyBackend struct {
	blocked   map[string]bool
	callbacks map[string]HotkeyCallback
}

// NewInMemoryHotkeyBackend builds a backend with an optional set of
// pre-blocked hotkeys (already bound by some other process).
func NewInMemoryHotkeyBackend(blockedHotkeys ...string) (*InMemoryHotkeyBackend, error) {
	b := &InMemoryHotkeyBackend{blocked: map[string]bool{}, callbacks: map[string]HotkeyCallback{}}
	for _, h := range blockedHotkeys {
		n, err := NormalizeHotkey(h)
		if err != nil {
			return nil, err
		}
		b.blocked[n] = true
	}
	return b, nil
}

// Register normalizes hotkey and registers callback, or returns up to
// three deterministic alternatives on conflict.
func (b *InMemoryHotkeyBackend) Register(hotkey string, callback HotkeyCallback) (HotkeyRegistrationResult, error) {
	normalized, err := NormalizeHotkey(hotkey)
	if err != nil {
		return HotkeyRegistrationResult{}, err
	}
	if _, taken := b.callbacks[normalized]; taken || b.blocked[normalized] {
		return HotkeyRegistrationResult{
			Hotkey:       normalized,
			Registered:   false,
			Alternatives: b.suggestAlternatives(normalized),
		}, nil
	}
	b.callbacks[normalized] = callback
	return HotkeyRegistrationResult{Hotkey: normalized, Registered: true}, nil
}

// Unregister is idempotent.
func (b *InMemoryHotkeyBackend) Unregister(hotkey string) error {
	normalized, err := NormalizeHotkey(hotkey)
	if err != nil {
		return err
	}
	delete(b.callbacks, normalized)
	return nil
}

// ListRegistered returns currently registered hotkeys in deterministic
// (sorted) order.
func (b *InMemoryHotkeyBackend) ListRegistered() []string {
	out := make([]string, 0, len(b.callbacks))
	for h := range b.callbacks {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Trigger invokes the callback registered for hotkey, reporting false if
// none is registered. Test-only helper, not part of HotkeyBackend.
func (b *InMemoryHotkeyBackend) Trigger(hotkey string) bool {
	normalized, err := NormalizeHotkey(hotkey)
	if err != nil {
		return false
	}
	cb, ok := b.callbacks[normalized]
	if !ok {
		return false
	}
	cb()
	return true
}

func (b *InMemoryHotkeyBackend) suggestAlternatives(requested string) []string {
	unavailable := map[string]bool{}
	for h := range b.callbacks {
		unavailable[h] = true
	}
	for h := range b.blocked {
		unavailable[h] = true
	}

	var candidateSets [][]string
	if mods := extractModifiers(requested); len(mods) > 0 {
		candidateSets = append(candidateSets, mods)
	}
	candidateSets = append(candidateSets,
		[]string{"ctrl", "shift"},
		[]string{"ctrl", "alt"},
		[]string{"alt", "shift"},
	)

	seen := map[string]bool{}
	var suggestions []string
	for _, mods := range candidateSets {
		for _, key := range fallbackKeys {
			candidate, err := NormalizeHotkey(strings.Join(append(append([]string(nil), mods...), key), "+"))
			if err != nil {
				continue
			}
			if candidate == requested || unavailable[candidate] || seen[candidate] {
				continue
			}
			seen[candidate] = true
			suggestions = append(suggestions, candidate)
			if len(suggestions) == 3 {
				return suggestions
			}
		}
	}
	return suggestions
}
