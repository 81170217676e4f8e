package runtime

import (
	"sync"
	"sync/atomic"
	"time"
)

// WatchdogEventType tags what kind of inactivity the watchdog observed.
type WatchdogEventType int

const (
	WatchdogVADTimeout WatchdogEventType = iota
	WatchdogTranscriptTimeout
)

// WatchdogEvent is returned from PollTimeout when the armed watchdog's
// timeout has elapsed.
type WatchdogEvent struct {
	Type       WatchdogEventType
	OccurredAt time.Time
}

// WatchdogTimeouts maps a listening mode to its inactivity timeout.
type WatchdogTimeouts func(mode ListeningMode) time.Duration

// Watchdog arms on entering LISTENING and disarms once it fires, tracking
// the timestamp of the last observed activity.
type Watchdog struct {
	mu             sync.Mutex
	armed          bool
	mode           ListeningMode
	lastActivityAt time.Time
	timeoutFor     WatchdogTimeouts
	now            func() time.Time

	vadTimeouts        atomic.Int64
	transcriptTimeouts atomic.Int64
}

// NewWatchdog builds a disarmed watchdog. now defaults to time.Now.
func NewWatchdog(timeoutFor WatchdogTimeouts, now func() time.Time) *Watchdog {
	if now == nil {
		now = time.Now
	}
	return &Watchdog{timeoutFor: timeoutFor, now: now}
}

// Arm arms the watchdog for mode, resetting the activity clock.
func (w *Watchdog) Arm(mode ListeningMode) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.armed = true
	w.mode = mode
	w.lastActivityAt = w.now()
}

// Disarm disarms the watchdog without firing an event.
func (w *Watchdog) Disarm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.armed = false
}

// OnVADActivity bumps the activity clock iff armed.
func (w *Watchdog) OnVADActivity() {
	w.bump()
}

// OnTranscriptActivity bumps the activity clock iff armed.
func (w *Watchdog) OnTranscriptActivity() {
	w.bump()
}

func (w *Watchdog) bump() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.armed {
		w.lastActivityAt = w.now()
	}
}

// PollTimeout returns nil when disarmed; otherwise, if the elapsed time
// since the last activity has reached the mode's timeout, it disarms,
// increments the matching counter, and returns the fired event.
func (w *Watchdog) PollTimeout(eventType WatchdogEventType) *WatchdogEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.armed {
		return nil
	}
	timeout := w.timeoutFor(w.mode)
	now := w.now()
	if now.Sub(w.lastActivityAt) < timeout {
		return nil
	}
	w.armed = false
	switch eventType {
	case WatchdogVADTimeout:
		w.vadTimeouts.Add(1)
	case WatchdogTranscriptTimeout:
		w.transcriptTimeouts.Add(1)
	}
	return &WatchdogEvent{Type: eventType, OccurredAt: now}
}

// Counters is a point-in-time snapshot of the watchdog's telemetry.
type Counters struct {
	VADTimeouts        int64
	TranscriptTimeouts int64
}

// Snapshot returns the current telemetry counters.
func (w *Watchdog) Snapshot() Counters {
	return Counters{
		VADTimeouts:        w.vadTimeouts.Load(),
		TranscriptTimeouts: w.transcriptTimeouts.Load(),
	}
}
