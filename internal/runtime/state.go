// Package runtime implements the coordinator that turns audio frames and
// transcript events into typed state transitions, routed text, and executed
// commands: the state machine, routing policy, action router, watchdog,
// resilience layer, single-instance guard, and the coordinator itself.
package runtime

import (
	"fmt"
	"sync"
)

// AppState is the runtime's top-level state.
type AppState int

const (
	Initializing AppState = iota
	Standby
	Listening
	Processing
	Paused
	ShuttingDown
	Error
)

func (s AppState) String() string {
	switch s {
	case Initializing:
		return "INITIALIZING"
	case Standby:
		return "STANDBY"
	case Listening:
		return "LISTENING"
	case Processing:
		return "PROCESSING"
	case Paused:
		return "PAUSED"
	case ShuttingDown:
		return "SHUTTING_DOWN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ListeningMode governs which events may transition STANDBY -> LISTENING.
// Fixed at state-machine construction.
type ListeningMode int

const (
	WakeWord ListeningMode = iota
	Toggle
	Continuous
)

// AppEvent is a transition trigger.
type AppEvent int

const (
	InitSucceeded AppEvent = iota
	InitFailed
	SpeechFrameReceived
	PartialHandled
	FinalHandled
	WakeWindowTimeout
	InactivityAutoPause
	StopRequested
	PauseRequested
	ResumeRequested
	ShutdownComplete
	WakePhraseDetected
	ToggleListeningOn
	ContinuousStart
)

// InvalidTransition is returned when an event has no defined transition
// from the current state under the configured mode.
type InvalidTransition struct {
	From  AppState
	Event AppEvent
	Mode  ListeningMode
}

func (e *InvalidTransition) Error() string {
	return fmt.Sprintf("runtime: invalid transition from %s on event %d (mode %d)", e.From, e.Event, e.Mode)
}

// TransitionResult is returned by every successful transition.
type TransitionResult struct {
	From  AppState
	To    AppState
	Event AppEvent
}

// ModeHook fires once on construction and once on entering SHUTTING_DOWN.
type ModeHook func(mode ListeningMode)

// StateMachine is a mutex-guarded strict transition table parameterized by
// listening mode.
type StateMachine struct {
	mu         sync.Mutex
	state      AppState
	mode       ListeningMode
	terminated bool
	onEnter    ModeHook
	onExit     ModeHook
}

// NewStateMachine constructs a machine in INITIALIZING state, firing
// onEnter once immediately.
func NewStateMachine(mode ListeningMode, onEnter, onExit ModeHook) *StateMachine {
	sm := &StateMachine{state: Initializing, mode: mode, onEnter: onEnter, onExit: onExit}
	if onEnter != nil {
		onEnter(mode)
	}
	return sm
}

// State returns the current state under the lock.
func (sm *StateMachine) State() AppState {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.state
}

// Terminated reports whether SHUTTING_DOWN's shutdown-complete transition
// has already fired; no further transitions are accepted afterward.
func (sm *StateMachine) Terminated() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.terminated
}

// Mode returns the fixed listening mode.
func (sm *StateMachine) Mode() ListeningMode {
	return sm.mode
}

// wakeEventForMode returns the one STANDBY->LISTENING event valid for mode.
func wakeEventForMode(mode ListeningMode) AppEvent {
	switch mode {
	case WakeWord:
		return WakePhraseDetected
	case Toggle:
		return ToggleListeningOn
	default:
		return ContinuousStart
	}
}

// Transition attempts event from the current state, returning the typed
// InvalidTransition error when no entry in the table matches.
func (sm *StateMachine) Transition(event AppEvent) (TransitionResult, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.terminated {
		return TransitionResult{}, &InvalidTransition{From: sm.state, Event: event, Mode: sm.mode}
	}

	from := sm.state
	to, ok := sm.next(from, event)
	if !ok {
		return TransitionResult{}, &InvalidTransition{From: from, Event: event, Mode: sm.mode}
	}

	sm.state = to
	if to == ShuttingDown && from != ShuttingDown && sm.onExit != nil {
		sm.onExit(sm.mode)
	}
	if to == ShuttingDown && event == ShutdownComplete {
		sm.terminated = true
	}
	return TransitionResult{From: from, To: to, Event: event}, nil
}

func (sm *StateMachine) next(from AppState, event AppEvent) (AppState, bool) {
	if from == Standby && event == wakeEventForMode(sm.mode) {
		return Listening, true
	}

	switch {
	case from == Initializing && event == InitSucceeded:
		return Standby, true
	case from == Initializing && event == InitFailed:
		return Error, true
	case from == Listening && event == SpeechFrameReceived:
		return Processing, true
	case from == Processing && event == PartialHandled:
		return Listening, true
	case from == Processing && event == FinalHandled:
		return Listening, true
	case from == Listening && event == WakeWindowTimeout:
		return Standby, true
	case from == Listening && event == InactivityAutoPause:
		return Paused, true
	case from == Listening && event == StopRequested:
		return ShuttingDown, true
	case from == Processing && event == StopRequested:
		return ShuttingDown, true
	case from == Standby && event == PauseRequested:
		return Paused, true
	case from == Paused && event == ResumeRequested:
		return Standby, true
	case (from == Standby || from == Paused || from == Error) && event == StopRequested:
		return ShuttingDown, true
	case from == ShuttingDown && event == ShutdownComplete:
		return ShuttingDown, true
	default:
		return from, false
	}
}
