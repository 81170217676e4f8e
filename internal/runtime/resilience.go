package runtime

import (
	"fmt"
	"time"
)

// ErrorCategory groups RuntimeErrorCodes for display and remediation
// routing.
type ErrorCategory int

const (
	CategoryAudio ErrorCategory = iota
	CategoryRecognition
	CategoryInjection
	CategoryConfig
)

// RuntimeErrorCode is a closed taxonomy of runtime error conditions.
type RuntimeErrorCode struct {
	Name           string
	Category       ErrorCategory
	Title          string
	Remediation    string
	Retryable      bool
	SafetyCritical bool
}

func (c RuntimeErrorCode) String() string { return c.Name }

var (
	NoMicrophone = RuntimeErrorCode{
		Name: "no_microphone", Category: CategoryAudio,
		Title:       "No microphone available",
		Remediation: "Connect a microphone and restart listening.",
		Retryable:   true, SafetyCritical: true,
	}
	MicrophoneDisconnected = RuntimeErrorCode{
		Name: "microphone_disconnected", Category: CategoryAudio,
		Title:       "Microphone disconnected",
		Remediation: "Reconnect the microphone; the app will retry automatically.",
		Retryable:   true, SafetyCritical: true,
	}
	HotkeyConflict = RuntimeErrorCode{
		Name: "hotkey_conflict", Category: CategoryConfig,
		Title:       "Hotkey already in use",
		Remediation: "Choose a different key combination in settings.",
		Retryable:   false, SafetyCritical: false,
	}
	ModelChecksumFailed = RuntimeErrorCode{
		Name: "model_checksum_failed", Category: CategoryRecognition,
		Title:       "Speech model failed verification",
		Remediation: "Re-download the model files for this profile.",
		Retryable:   false, SafetyCritical: false,
	}
	KeyboardBlocked = RuntimeErrorCode{
		Name: "keyboard_blocked", Category: CategoryInjection,
		Title:       "Keyboard input blocked",
		Remediation: "Grant input-injection permission to the app and resume.",
		Retryable:   false, SafetyCritical: true,
	}
)

// RetryPolicy is immutable after construction: a bounded attempt count with
// a non-empty positive backoff schedule.
type RetryPolicy struct {
	maxAttempts int
	backoff     []time.Duration
}

// NewRetryPolicy validates maxAttempts >= 1 and a non-empty, all-positive
// backoff schedule.
func NewRetryPolicy(maxAttempts int, backoff []time.Duration) (*RetryPolicy, error) {
	if maxAttempts < 1 {
		return nil, fmt.Errorf("runtime: max_attempts must be >= 1, got %d", maxAttempts)
	}
	if len(backoff) == 0 {
		return nil, fmt.Errorf("runtime: backoff schedule must be non-empty")
	}
	for _, d := range backoff {
		if d <= 0 {
			return nil, fmt.Errorf("runtime: backoff durations must be positive, got %v", d)
		}
	}
	cp := append([]time.Duration(nil), backoff...)
	return &RetryPolicy{maxAttempts: maxAttempts, backoff: cp}, nil
}

// MicrophoneReconnectPolicy is the named constant microphone-reconnect
// policy: 3 attempts, backoff 1s/2s/4s.
func MicrophoneReconnectPolicy() *RetryPolicy {
	p, err := NewRetryPolicy(3, []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second})
	if err != nil {
		panic(err)
	}
	return p
}

// NextDelayAfterFailure returns backoff[min(n-1, len-1)] while n <=
// max_attempts, nil once attempts are exhausted. n < 1 is invalid and
// panics, since the caller controls n and it is always >= 1 by construction.
func (p *RetryPolicy) NextDelayAfterFailure(n int) *time.Duration {
	if n < 1 {
		panic("runtime: attempt number must be >= 1")
	}
	if n > p.maxAttempts {
		return nil
	}
	idx := n - 1
	if idx >= len(p.backoff) {
		idx = len(p.backoff) - 1
	}
	d := p.backoff[idx]
	return &d
}

// MaxAttempts returns the configured attempt bound.
func (p *RetryPolicy) MaxAttempts() int { return p.maxAttempts }

// SafetyFallbackDecision is the resilience layer's verdict on whether to
// force PAUSED, and the event that would drive that transition.
type SafetyFallbackDecision struct {
	ForcePause bool
	Event      *AppEvent
}

// EvaluateSafetyFallback decides whether code should force the runtime
// into PAUSED given the current state and whether retries are exhausted.
func EvaluateSafetyFallback(code RuntimeErrorCode, state AppState, retriesExhausted bool) SafetyFallbackDecision {
	forcePause := code.SafetyCritical
	if code == MicrophoneDisconnected {
		forcePause = retriesExhausted
	}
	if !forcePause {
		return SafetyFallbackDecision{ForcePause: false}
	}

	var event AppEvent
	switch state {
	case Standby:
		event = PauseRequested
	case Listening:
		event = InactivityAutoPause
	default:
		return SafetyFallbackDecision{ForcePause: true, Event: nil}
	}
	return SafetyFallbackDecision{ForcePause: true, Event: &event}
}
