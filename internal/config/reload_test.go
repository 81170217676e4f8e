package config

import "testing"

func TestDiffNoChangesIsEmpty(t *testing.T) {
	d := Defaults()
	if changes := Diff(d, d); len(changes) != 0 {
		t.Errorf("expected no changes, got %v", changes)
	}
}

func TestDiffClassifiesModelProfileAsRestartRequired(t *testing.T) {
	prev := Defaults()
	next := Defaults()
	next.Engine.ModelProfile = "large"
	changes := Diff(prev, next)
	if len(changes) != 1 || changes[0].Key != "engine.model_profile" || changes[0].Action != ReloadRestartRequired {
		t.Errorf("got %v", changes)
	}
}

func TestDiffClassifiesFeatureToggleAsSafeToApply(t *testing.T) {
	prev := Defaults()
	next := Defaults()
	next.Features.WindowCommandsEnabled = !prev.Features.WindowCommandsEnabled
	changes := Diff(prev, next)
	if len(changes) != 1 || changes[0].Key != "features.window_commands_enabled" || changes[0].Action != ReloadSafeToApply {
		t.Errorf("got %v", changes)
	}
}

func TestDiffDoesNotMutateInputs(t *testing.T) {
	prev := Defaults()
	next := Defaults()
	next.Modes.InactivityAutoPauseSeconds = 999
	_ = Diff(prev, next)
	if prev.Modes.InactivityAutoPauseSeconds == 999 {
		t.Error("Diff must not mutate prev")
	}
}
