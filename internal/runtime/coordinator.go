package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ihmorol/voicekey/internal/audio"
	"github.com/ihmorol/voicekey/internal/commands"
)

// FrameSource is the bounded queue the coordinator polls. Satisfied by
// *audio.FrameQueue.
type FrameSource interface {
	Pop(timeout time.Duration) (audio.Frame, bool)
}

// ASRRouter transcribes an accumulated audio segment. Satisfied by
// *audio.Router.
type ASRRouter interface {
	Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]audio.TranscriptEvent, audio.Decision, error)
}

// AudioCapture is the lifecycle the coordinator drives at start/stop.
type AudioCapture interface {
	Start() error
	Stop() error
}

// TextOutput delivers literal dictation text to the active window.
type TextOutput func(text string) error

// CoordinatorConfig bundles every collaborator the coordinator owns.
type CoordinatorConfig struct {
	Mode                  ListeningMode
	Capture               AudioCapture
	Queue                 FrameSource
	VAD                   audio.VAD
	ASR                   ASRRouter
	SampleRate            int
	ConfidenceFilter      *audio.ConfidenceFilter
	WakeDetector          *audio.WakeDetector
	WakeWindow            *audio.WakeWindow
	Parser                *commands.Parser
	ActionRouter          *ActionRouter
	TextOutput            TextOutput
	Hotkeys               HotkeyBackend
	ToggleHotkey          string
	ResumeByPhraseEnabled bool
	ASRTimeout            time.Duration
	Logger                zerolog.Logger
}

// EventReport is returned from the per-transcript and per-poll entry
// points, describing whatever the call observed.
type EventReport struct {
	Transition        *TransitionResult
	WakeDetected       bool
	RoutedText         string
	ExecutedCommandID  string
	ExecutedRouteKind  RouteKind
}

// Coordinator owns the state machine, wake-window controller, parser,
// routing policy, action router, confidence filter, VAD, ASR router,
// keyboard backend, and the audio queue, driving all of it from a single
// worker goroutine.
type Coordinator struct {
	cfg CoordinatorConfig
	sm  *StateMachine
	log zerolog.Logger

	stopCh chan struct{}
	doneCh chan struct{}

	mu         sync.Mutex
	accumSpeech bool
	accumulator []float32
}

// NewCoordinator wires the state machine over cfg. Missing collaborators
// are the caller's responsibility to lazily construct before Start, per the
// component's start sequence.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	sm := NewStateMachine(cfg.Mode, nil, nil)
	if cfg.ASRTimeout <= 0 {
		cfg.ASRTimeout = 10 * time.Second
	}
	return &Coordinator{
		cfg:    cfg,
		sm:     sm,
		log:    cfg.Logger.With().Str("component", "runtime.coordinator").Logger(),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// State exposes the current runtime state.
func (c *Coordinator) State() AppState { return c.sm.State() }

// Start runs the coordinator's start sequence: start capture, spawn the
// worker, transition to STANDBY, register the toggle hotkey if configured.
func (c *Coordinator) Start() error {
	if c.cfg.Capture != nil {
		if err := c.cfg.Capture.Start(); err != nil {
			return err
		}
	}
	go c.run()
	if _, err := c.sm.Transition(InitSucceeded); err != nil {
		return err
	}
	if c.cfg.Hotkeys != nil && c.cfg.ToggleHotkey != "" {
		if _, err := c.cfg.Hotkeys.Register(c.cfg.ToggleHotkey, c.onToggleHotkey); err != nil {
			c.log.Warn().Err(err).Msg("toggle hotkey registration failed")
		}
	}
	return nil
}

// Stop signals the worker to exit, stops capture, and unregisters hotkeys.
// Join is bounded to 2s; exceeding the bound is logged, not fatal.
func (c *Coordinator) Stop() {
	close(c.stopCh)
	select {
	case <-c.doneCh:
	case <-time.After(2 * time.Second):
		c.log.Warn().Msg("worker did not exit within the bounded join window")
	}
	if c.cfg.Capture != nil {
		_ = c.cfg.Capture.Stop()
	}
	if _, err := c.sm.Transition(StopRequested); err != nil {
		c.log.Debug().Err(err).Msg("stop requested past a state that already accepted it")
	}
	if c.cfg.Hotkeys != nil && c.cfg.ToggleHotkey != "" {
		_ = c.cfg.Hotkeys.Unregister(c.cfg.ToggleHotkey)
	}
}

func (c *Coordinator) run() {
	defer close(c.doneCh)
	for {
		select {
		case <-c.stopCh:
			return
		default:
		}

		frame, ok := c.cfg.Queue.Pop(100 * time.Millisecond)
		if !ok {
			if c.sm.State() == Listening {
				c.poll()
			}
			continue
		}

		isSpeech := c.cfg.VAD.Process(frame)
		if isSpeech {
			c.mu.Lock()
			c.accumulator = append(c.accumulator, frame.Samples...)
			c.accumSpeech = true
			c.mu.Unlock()
			c.cfg.WakeWindow.OnActivity()
			continue
		}

		c.mu.Lock()
		hadSpeech := c.accumSpeech && len(c.accumulator) > 0
		samples := c.accumulator
		c.accumulator = nil
		c.accumSpeech = false
		c.mu.Unlock()

		if !hadSpeech {
			continue
		}
		c.drainSegment(samples)
	}
}

func (c *Coordinator) drainSegment(samples []float32) {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ASRTimeout)
	defer cancel()

	events, _, err := c.cfg.ASR.Transcribe(ctx, samples, c.cfg.SampleRate)
	if err != nil {
		c.log.Warn().Err(err).Msg("transcription failed")
		return
	}
	for _, e := range events {
		if !c.cfg.ConfidenceFilter.Allow(e) {
			continue
		}
		c.OnTranscriptEvent(e)
	}
}

// OnTranscriptEvent feeds a single surviving transcript event through
// on_transcript, keeping the VAD-activity signal.
func (c *Coordinator) OnTranscriptEvent(e audio.TranscriptEvent) EventReport {
	return c.OnTranscript(e.Text, true)
}

// OnTranscript implements the component's on_transcript rules.
func (c *Coordinator) OnTranscript(text string, vadActive bool) EventReport {
	state := c.sm.State()

	if state == Paused {
		result := c.cfg.Parser.Parse(text)
		decision := EvaluateRouting(state, result, c.cfg.ResumeByPhraseEnabled)
		if !decision.Allowed || result.Kind != commands.ParseSystem {
			return EventReport{}
		}
		var event AppEvent
		switch result.Command.ID {
		case commands.CmdResumeListening:
			event = ResumeRequested
		case commands.CmdStopListening:
			event = StopRequested
		default:
			return EventReport{}
		}
		tr, err := c.sm.Transition(event)
		if err != nil {
			return EventReport{}
		}
		return EventReport{Transition: &tr}
	}

	if c.sm.Mode() != WakeWord {
		return EventReport{}
	}

	if state == Standby {
		if !vadActive {
			return EventReport{}
		}
		matched, _ := c.cfg.WakeDetector.Match(text)
		if !matched {
			return EventReport{}
		}
		tr, err := c.sm.Transition(WakePhraseDetected)
		if err != nil {
			return EventReport{}
		}
		c.cfg.WakeWindow.OpenWindow()
		return EventReport{Transition: &tr, WakeDetected: true}
	}

	if state == Listening && c.cfg.WakeWindow.IsOpen() {
		c.cfg.WakeWindow.OnActivity()
		result := c.cfg.Parser.Parse(text)
		decision := EvaluateRouting(state, result, c.cfg.ResumeByPhraseEnabled)
		if !decision.Allowed {
			return EventReport{}
		}

		switch result.Kind {
		case commands.ParseText:
			if c.cfg.TextOutput != nil {
				_ = c.cfg.TextOutput(result.Literal)
			}
			return EventReport{RoutedText: result.Literal}
		case commands.ParseCommand, commands.ParseSystem:
			switch result.Command.ID {
			case commands.CmdPauseListening:
				tr, err := c.sm.Transition(PauseRequested)
				if err == nil {
					return EventReport{Transition: &tr}
				}
				return EventReport{}
			case commands.CmdStopListening:
				tr, err := c.sm.Transition(StopRequested)
				if err == nil {
					return EventReport{Transition: &tr}
				}
				return EventReport{}
			default:
				res, err := c.cfg.ActionRouter.Dispatch(result.Command.ID)
				if err != nil {
					c.log.Warn().Err(err).Str("command_id", result.Command.ID).Msg("action dispatch failed")
					return EventReport{}
				}
				return EventReport{ExecutedCommandID: res.CommandID, ExecutedRouteKind: res.Kind}
			}
		}
	}

	return EventReport{}
}

// poll drives wake-window expiry in WAKE_WORD + LISTENING.
func (c *Coordinator) poll() EventReport {
	if c.sm.Mode() != WakeWord || c.sm.State() != Listening {
		return EventReport{}
	}
	if !c.cfg.WakeWindow.PollTimeout() {
		return EventReport{}
	}
	tr, err := c.sm.Transition(WakeWindowTimeout)
	if err != nil {
		return EventReport{}
	}
	return EventReport{Transition: &tr}
}

// onToggleHotkey implements the toggle-hotkey callback's STANDBY/LISTENING/
// PAUSED dispatch.
func (c *Coordinator) onToggleHotkey() {
	switch c.sm.State() {
	case Standby:
		// The toggle hotkey is a manual override into LISTENING regardless
		// of the configured mode's usual trigger: it fires whichever event
		// the state machine's table actually accepts from STANDBY for this
		// mode, so wake-word mode also opens the window for the next
		// speech frames, as the worker loop expects.
		if _, err := c.sm.Transition(wakeEventForMode(c.sm.Mode())); err == nil {
			c.cfg.WakeWindow.OpenWindow()
		}
	case Listening, Processing:
		_, _ = c.sm.Transition(WakeWindowTimeout)
		c.cfg.WakeWindow.CloseWindow()
	case Paused:
		_, _ = c.sm.Transition(ResumeRequested)
	}
}
