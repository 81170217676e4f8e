package runtime

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ihmorol/voicekey/internal/audio"
	"github.com/ihmorol/voicekey/internal/commands"
)

func newTestCoordinator(t *testing.T, mode ListeningMode, resumeByPhrase bool) (*Coordinator, *recordingKeyboard) {
	t.Helper()
	reg, err := commands.CreateBuiltinRegistry()
	if err != nil {
		t.Fatalf("CreateBuiltinRegistry: %v", err)
	}
	parser := commands.NewParser(reg, commands.FuzzyConfig{})
	wakeDetector, err := audio.NewWakeDetector("voice key start listening", commands.Normalize)
	if err != nil {
		t.Fatalf("NewWakeDetector: %v", err)
	}
	window := audio.NewWakeWindow(5*time.Second, nil)
	keyboard := &recordingKeyboard{builtins: map[string]bool{commands.CmdNewLine: true}}
	actionRouter := NewActionRouter(nil, keyboard, nil, nil)

	cfg := CoordinatorConfig{
		Mode:                  mode,
		WakeDetector:          wakeDetector,
		WakeWindow:            window,
		Parser:                parser,
		ActionRouter:          actionRouter,
		ResumeByPhraseEnabled: resumeByPhrase,
		Logger:                zerolog.Nop(),
	}
	return NewCoordinator(cfg), keyboard
}

func TestCoordinatorWakeThenDictateThenTypedOutput(t *testing.T) {
	c, _ := newTestCoordinator(t, WakeWord, false)
	_, _ = c.sm.Transition(InitSucceeded)

	var routed string
	c.cfg.TextOutput = func(text string) error { routed = text; return nil }

	report := c.OnTranscript("Please VOICE  KEY start listening", true)
	if !report.WakeDetected || report.Transition == nil || report.Transition.To != Listening {
		t.Fatalf("expected wake detected and transition to LISTENING, got %+v", report)
	}

	report = c.OnTranscript("hello from runtime", true)
	if report.RoutedText != "hello from runtime" {
		t.Fatalf("expected routed literal text, got %+v", report)
	}
	if routed != "hello from runtime" {
		t.Errorf("expected text output invoked, got %q", routed)
	}
}

func TestCoordinatorUnknownCommandTypesLiteralWithSuffix(t *testing.T) {
	c, _ := newTestCoordinator(t, WakeWord, false)
	_, _ = c.sm.Transition(InitSucceeded)
	_, _ = c.sm.Transition(WakePhraseDetected)
	c.cfg.WakeWindow.OpenWindow()

	report := c.OnTranscript("hello world command", true)
	if report.RoutedText != "hello world command" {
		t.Errorf("expected suffix preserved literal, got %+v", report)
	}
}

func TestCoordinatorKnownBuiltinCommandExecutes(t *testing.T) {
	c, keyboard := newTestCoordinator(t, WakeWord, false)
	_, _ = c.sm.Transition(InitSucceeded)
	_, _ = c.sm.Transition(WakePhraseDetected)
	c.cfg.WakeWindow.OpenWindow()

	report := c.OnTranscript("new line command", true)
	if report.ExecutedCommandID != commands.CmdNewLine {
		t.Fatalf("expected new_line executed, got %+v", report)
	}
	if len(keyboard.handled) != 1 || keyboard.handled[0] != commands.CmdNewLine {
		t.Errorf("expected keyboard backend consulted once for new_line, got %v", keyboard.handled)
	}
}

func TestCoordinatorPausedDropsTextAllowsResumeAndStop(t *testing.T) {
	c, _ := newTestCoordinator(t, Continuous, true)
	_, _ = c.sm.Transition(InitSucceeded)
	_, _ = c.sm.Transition(PauseRequested)

	report := c.OnTranscript("hello from paused", true)
	if report.Transition != nil {
		t.Fatalf("expected dropped text to produce no transition, got %+v", report)
	}

	report = c.OnTranscript("resume voice key", true)
	if report.Transition == nil || report.Transition.To != Standby {
		t.Fatalf("expected transition to STANDBY, got %+v", report)
	}

	_, _ = c.sm.Transition(PauseRequested)
	report = c.OnTranscript("voice key stop", true)
	if report.Transition == nil || report.Transition.To != ShuttingDown {
		t.Fatalf("expected transition to SHUTTING_DOWN, got %+v", report)
	}
}

func TestCoordinatorWakeWindowExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	window := audio.NewWakeWindow(5*time.Second, func() time.Time { return now })

	c, _ := newTestCoordinator(t, WakeWord, false)
	c.cfg.WakeWindow = window
	_, _ = c.sm.Transition(InitSucceeded)
	_, _ = c.sm.Transition(WakePhraseDetected)
	window.OpenWindow()

	now = now.Add(5010 * time.Millisecond)
	report := c.poll()
	if report.Transition == nil || report.Transition.To != Standby {
		t.Fatalf("expected expiry transition to STANDBY, got %+v", report)
	}
	if window.IsOpen() {
		t.Error("expected window closed after expiry")
	}
}
