package audio

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrEmptyWakePhrase is returned when constructing a WakeDetector with an
// empty (after normalization) wake phrase.
var ErrEmptyWakePhrase = errors.New("audio: wake phrase must not be empty")

// Normalizer reduces a raw transcript to its comparable form: Unicode NFC,
// case-fold, whitespace-collapse, trim. Supplied by the commands package so
// both the wake detector and the command parser share one normalization.
type Normalizer func(string) string

// WakeDetector matches a normalized transcript against a configured wake
// phrase by substring containment.
type WakeDetector struct {
	phrase string // already normalized
	norm   Normalizer
}

// NewWakeDetector normalizes phrase and rejects it if empty.
func NewWakeDetector(phrase string, norm Normalizer) (*WakeDetector, error) {
	n := norm(phrase)
	if n == "" {
		return nil, ErrEmptyWakePhrase
	}
	return &WakeDetector{phrase: n, norm: norm}, nil
}

// Match reports whether the wake phrase occurs in text, alongside the
// normalized transcript.
func (d *WakeDetector) Match(text string) (matched bool, normalized string) {
	n := d.norm(text)
	return strings.Contains(n, d.phrase), n
}

// WakeWindow is a time-bounded interval, guarded by opened_at/
// last_activity_at timestamps plus a timeout, during which transcripts are
// routed to text/commands.
type WakeWindow struct {
	mu             sync.Mutex
	timeout        time.Duration
	now            func() time.Time
	openedAt       time.Time
	lastActivityAt time.Time
	open           bool
}

// NewWakeWindow constructs a window with the given timeout (default 5s)
// and clock (default time.Now).
func NewWakeWindow(timeout time.Duration, now func() time.Time) *WakeWindow {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &WakeWindow{timeout: timeout, now: now}
}

// OpenWindow sets both timestamps to now.
func (w *WakeWindow) OpenWindow() {
	w.mu.Lock()
	defer w.mu.Unlock()
	t := w.now()
	w.openedAt = t
	w.lastActivityAt = t
	w.open = true
}

// OnActivity advances last_activity_at to now, only if the window is open.
func (w *WakeWindow) OnActivity() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.open {
		w.lastActivityAt = w.now()
	}
}

// IsOpen reports whether now - last_activity_at <= timeout; the window is
// still open at exactly the timeout.
func (w *WakeWindow) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isOpenLocked()
}

func (w *WakeWindow) isOpenLocked() bool {
	return w.open && w.now().Sub(w.lastActivityAt) <= w.timeout
}

// PollTimeout closes the window and returns true iff it was open and has
// since expired.
func (w *WakeWindow) PollTimeout() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.open {
		return false
	}
	if w.now().Sub(w.lastActivityAt) <= w.timeout {
		return false
	}
	w.open = false
	return true
}

// CloseWindow closes the window unconditionally.
func (w *WakeWindow) CloseWindow() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = false
}

// RemainingSeconds reports how many seconds remain before expiry, or 0 if
// already closed/expired.
func (w *WakeWindow) RemainingSeconds() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.isOpenLocked() {
		return 0
	}
	remaining := w.timeout - w.now().Sub(w.lastActivityAt)
	if remaining < 0 {
		return 0
	}
	return remaining.Seconds()
}
