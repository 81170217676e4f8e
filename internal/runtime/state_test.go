package runtime

import (
	"errors"
	"testing"
)

func TestStateMachineInitSequence(t *testing.T) {
	sm := NewStateMachine(WakeWord, nil, nil)
	if sm.State() != Initializing {
		t.Fatalf("expected INITIALIZING, got %s", sm.State())
	}
	tr, err := sm.Transition(InitSucceeded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.To != Standby {
		t.Errorf("expected STANDBY, got %s", tr.To)
	}
}

func TestStateMachineWakeWordModeAcceptsWakeEvent(t *testing.T) {
	sm := NewStateMachine(WakeWord, nil, nil)
	_, _ = sm.Transition(InitSucceeded)
	tr, err := sm.Transition(WakePhraseDetected)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.To != Listening {
		t.Errorf("expected LISTENING, got %s", tr.To)
	}
}

func TestStateMachineRejectsWrongModeEvent(t *testing.T) {
	sm := NewStateMachine(WakeWord, nil, nil)
	_, _ = sm.Transition(InitSucceeded)
	_, err := sm.Transition(ToggleListeningOn)
	var invalid *InvalidTransition
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
}

func TestStateMachineFullLifecycle(t *testing.T) {
	sm := NewStateMachine(Toggle, nil, nil)
	_, _ = sm.Transition(InitSucceeded)
	_, _ = sm.Transition(ToggleListeningOn)
	if sm.State() != Listening {
		t.Fatalf("expected LISTENING, got %s", sm.State())
	}
	tr, err := sm.Transition(SpeechFrameReceived)
	if err != nil || tr.To != Processing {
		t.Fatalf("expected PROCESSING, got %s err=%v", tr.To, err)
	}
	tr, err = sm.Transition(FinalHandled)
	if err != nil || tr.To != Listening {
		t.Fatalf("expected LISTENING, got %s err=%v", tr.To, err)
	}
	tr, err = sm.Transition(StopRequested)
	if err != nil || tr.To != ShuttingDown {
		t.Fatalf("expected SHUTTING_DOWN, got %s err=%v", tr.To, err)
	}
	_, err = sm.Transition(ShutdownComplete)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sm.Terminated() {
		t.Error("expected terminated after shutdown complete")
	}
}

func TestStateMachineRejectsTransitionsAfterTermination(t *testing.T) {
	sm := NewStateMachine(Continuous, nil, nil)
	_, _ = sm.Transition(InitSucceeded)
	_, _ = sm.Transition(ContinuousStart)
	_, _ = sm.Transition(StopRequested)
	_, _ = sm.Transition(ShutdownComplete)
	_, err := sm.Transition(InitSucceeded)
	if err == nil {
		t.Error("expected terminal machine to reject further transitions")
	}
}

func TestStateMachineModeHooksFireOnConstructionAndShutdown(t *testing.T) {
	var entered, exited int
	onEnter := func(ListeningMode) { entered++ }
	onExit := func(ListeningMode) { exited++ }
	sm := NewStateMachine(WakeWord, onEnter, onExit)
	if entered != 1 {
		t.Fatalf("expected onEnter fired once at construction, got %d", entered)
	}
	_, _ = sm.Transition(InitFailed)
	_, _ = sm.Transition(StopRequested)
	if exited != 1 {
		t.Errorf("expected onExit fired once entering SHUTTING_DOWN, got %d", exited)
	}
}

func TestStateMachinePauseResumeCycle(t *testing.T) {
	sm := NewStateMachine(Continuous, nil, nil)
	_, _ = sm.Transition(InitSucceeded)
	tr, err := sm.Transition(PauseRequested)
	if err != nil || tr.To != Paused {
		t.Fatalf("expected PAUSED, got %s err=%v", tr.To, err)
	}
	tr, err = sm.Transition(ResumeRequested)
	if err != nil || tr.To != Standby {
		t.Fatalf("expected STANDBY, got %s err=%v", tr.To, err)
	}
}
