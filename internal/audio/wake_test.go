package audio

import (
	"strings"
	"testing"
	"time"
)

func simpleNormalize(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(strings.ToLower(s)), " "))
}

func TestNewWakeDetectorRejectsEmptyPhrase(t *testing.T) {
	if _, err := NewWakeDetector("   ", simpleNormalize); err == nil {
		t.Error("expected error constructing detector with empty phrase")
	}
}

func TestWakeDetectorMatch(t *testing.T) {
	d, err := NewWakeDetector("voice key", simpleNormalize)
	if err != nil {
		t.Fatalf("NewWakeDetector: %v", err)
	}
	matched, normalized := d.Match("Please VOICE  KEY start listening")
	if !matched {
		t.Error("expected wake phrase to match")
	}
	if normalized != "please voice key start listening" {
		t.Errorf("unexpected normalized text: %q", normalized)
	}
}

func TestWakeDetectorNoMatch(t *testing.T) {
	d, _ := NewWakeDetector("voice key", simpleNormalize)
	matched, _ := d.Match("hello there")
	if matched {
		t.Error("expected no match")
	}
}

func TestWakeWindowOpenAndExpiry(t *testing.T) {
	now := fixedTime
	clock := func() time.Time { return now }
	w := NewWakeWindow(5*time.Second, clock)
	w.OpenWindow()

	now = fixedTime.Add(5 * time.Second)
	if !w.IsOpen() {
		t.Error("expected window to still be open at exactly the timeout boundary")
	}

	now = fixedTime.Add(5*time.Second + time.Millisecond*10)
	if w.IsOpen() {
		t.Error("expected window to be expired past the timeout boundary")
	}
	if !w.PollTimeout() {
		t.Error("expected PollTimeout to report expiry")
	}
	if w.PollTimeout() {
		t.Error("expected a second PollTimeout call to report false once closed")
	}
}

func TestWakeWindowActivityResetsExpiry(t *testing.T) {
	now := fixedTime
	clock := func() time.Time { return now }
	w := NewWakeWindow(5*time.Second, clock)
	w.OpenWindow()

	now = fixedTime.Add(4 * time.Second)
	w.OnActivity()

	now = fixedTime.Add(8 * time.Second)
	if !w.IsOpen() {
		t.Error("expected activity to push back expiry")
	}
}

func TestWakeWindowActivityIgnoredWhenClosed(t *testing.T) {
	now := fixedTime
	clock := func() time.Time { return now }
	w := NewWakeWindow(5*time.Second, clock)
	w.OnActivity()
	if w.IsOpen() {
		t.Error("expected window closed before OpenWindow is ever called")
	}
}
