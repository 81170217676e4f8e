package commands

import "testing"

func TestCreateBuiltinRegistryNoCollisions(t *testing.T) {
	reg, err := CreateBuiltinRegistry()
	if err != nil {
		t.Fatalf("unexpected collision among built-ins: %v", err)
	}
	if _, ok := reg.Lookup("copy"); !ok {
		t.Error("expected core command available by default")
	}
}

func TestBuiltinWindowCommandsGatedByDefault(t *testing.T) {
	reg, err := CreateBuiltinRegistry()
	if err != nil {
		t.Fatalf("CreateBuiltinRegistry: %v", err)
	}
	if _, ok := reg.Lookup("next window"); ok {
		t.Error("expected window commands disabled until gate is enabled")
	}
	reg.SetEnabled(GateWindowCommands, true)
	if _, ok := reg.Lookup("next window"); !ok {
		t.Error("expected window commands enabled after gate toggled on")
	}
}

func TestBuiltinSpecialPhrasesAreSystemChannel(t *testing.T) {
	reg, err := CreateBuiltinRegistry()
	if err != nil {
		t.Fatalf("CreateBuiltinRegistry: %v", err)
	}
	phrases := reg.SystemPhrases()
	for _, phrase := range []string{"pause voice key", "resume voice key", "voice key stop"} {
		if _, ok := phrases[phrase]; !ok {
			t.Errorf("expected %q registered as a system phrase", phrase)
		}
	}
}
