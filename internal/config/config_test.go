package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWithNoFileUsesDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Engine.ASRBackend != "local" {
		t.Errorf("expected default local backend, got %q", s.Engine.ASRBackend)
	}
	if s.WakeWord.Phrase != "hey voice key" {
		t.Errorf("expected default wake phrase, got %q", s.WakeWord.Phrase)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "wake_word:\n  phrase: \"ok computer\"\nmodes:\n  default: toggle\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.WakeWord.Phrase != "ok computer" {
		t.Errorf("expected file override, got %q", s.WakeWord.Phrase)
	}
	if s.Modes.Default != "toggle" {
		t.Errorf("expected file override, got %q", s.Modes.Default)
	}
	if s.Engine.ASRBackend != "local" {
		t.Errorf("expected untouched key to keep its default, got %q", s.Engine.ASRBackend)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Errorf("expected missing config file to fall back to defaults, got %v", err)
	}
}

func TestValidateRejectsEmptyWakePhraseWhenEnabled(t *testing.T) {
	s := Defaults()
	s.WakeWord.Phrase = ""
	if err := Validate(s); err == nil {
		t.Error("expected error for empty wake phrase")
	}
}

func TestValidateRejectsCloudModeWithoutAPIKey(t *testing.T) {
	s := Defaults()
	s.Engine.ASRBackend = "hybrid"
	s.CloudAPIKey = ""
	if err := Validate(s); err == nil {
		t.Error("expected error for hybrid backend without cloud api key")
	}
}

func TestValidateRejectsDuplicateCustomCommandIDs(t *testing.T) {
	s := Defaults()
	s.CustomCommands = []CustomCommandDefinition{
		{ID: "dup", Phrase: "one"},
		{ID: "dup", Phrase: "two"},
	}
	if err := Validate(s); err == nil {
		t.Error("expected error for duplicate custom command id")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}
