package audio

import (
	"context"
	"errors"
	"testing"
)

type stubBackend struct {
	events []TranscriptEvent
	err    error
	calls  int
}

func (s *stubBackend) Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]TranscriptEvent, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

func TestResolveModeRequiresCloudCredentials(t *testing.T) {
	_, err := ResolveMode(RouterConfig{Mode: Hybrid})
	if !errors.Is(err, ErrCloudCredentialsRequired) {
		t.Errorf("expected ErrCloudCredentialsRequired, got %v", err)
	}
}

func TestResolveModeLocalOnlyNeedsNoCreds(t *testing.T) {
	mode, err := ResolveMode(RouterConfig{Mode: LocalOnly})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != LocalOnly {
		t.Errorf("expected LocalOnly, got %v", mode)
	}
}

func TestRouterEmptyAudioShortCircuits(t *testing.T) {
	local := &stubBackend{}
	r, err := NewRouter(LocalOnly, local, nil)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	events, _, err := r.Transcribe(context.Background(), nil, CanonicalSampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events for empty audio, got %d", len(events))
	}
	if local.calls != 0 {
		t.Errorf("expected no backend calls for empty audio, got %d", local.calls)
	}
}

func TestRouterLocalOnlyPropagatesError(t *testing.T) {
	local := &stubBackend{err: errors.New("boom")}
	r, _ := NewRouter(LocalOnly, local, nil)
	_, _, err := r.Transcribe(context.Background(), []float32{0.1}, CanonicalSampleRate)
	if err == nil {
		t.Error("expected LocalOnly to propagate the local backend's error")
	}
}

func TestRouterHybridFallsBackToCloud(t *testing.T) {
	local := &stubBackend{err: errors.New("local down")}
	cloud := &stubBackend{events: []TranscriptEvent{{Text: "hi", IsFinal: true, Confidence: 1}}}
	r, err := NewRouter(Hybrid, local, cloud)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	events, decision, err := r.Transcribe(context.Background(), []float32{0.1}, CanonicalSampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local.calls != 1 || cloud.calls != 1 {
		t.Errorf("expected exactly one local and one cloud call, got local=%d cloud=%d", local.calls, cloud.calls)
	}
	if decision.BackendUsed != "cloud" || !decision.FallbackUsed {
		t.Errorf("expected cloud fallback decision, got %+v", decision)
	}
	if len(events) != 1 || events[0].Text != "hi" {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestRouterHybridBothFail(t *testing.T) {
	local := &stubBackend{err: errors.New("local down")}
	cloud := &stubBackend{err: errors.New("cloud down")}
	r, _ := NewRouter(Hybrid, local, cloud)
	_, _, err := r.Transcribe(context.Background(), []float32{0.1}, CanonicalSampleRate)
	if err == nil {
		t.Error("expected an error when both backends fail")
	}
}

func TestNewRouterRejectsMissingBackends(t *testing.T) {
	if _, err := NewRouter(Hybrid, nil, nil); err == nil {
		t.Error("expected Hybrid with no backends to be rejected")
	}
	if _, err := NewRouter(CloudPrimary, nil, nil); err == nil {
		t.Error("expected CloudPrimary with no cloud backend to be rejected")
	}
}
