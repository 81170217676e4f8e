//go:build ci

package runtime

// RealHotkeyBackend is a no-native-dependency stand-in used for CI builds,
// where the golang.design/x/hotkey backend cannot attach to a display
// server. It behaves exactly like InMemoryHotkeyBackend.
type RealHotkeyBackend struct {
	*InMemoryHotkeyBackend
}

// NewRealHotkeyBackend builds the CI stand-in.
func NewRealHotkeyBackend() (*RealHotkeyBackend, error) {
	memory, err := NewInMemoryHotkeyBackend()
	if err != nil {
		return nil, err
	}
	return &RealHotkeyBackend{InMemoryHotkeyBackend: memory}, nil
}
