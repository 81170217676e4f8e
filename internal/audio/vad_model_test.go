package audio

import "testing"

func TestOnnxSpeechModelConfigDefaultsThreshold(t *testing.T) {
	m := NewOnnxSpeechModel(OnnxSpeechModelConfig{ModelPath: "vad.onnx"})
	if m.cfg.Threshold != 0.5 {
		t.Errorf("expected default threshold 0.5, got %v", m.cfg.Threshold)
	}
}

func TestOnnxSpeechModelConfigKeepsExplicitThreshold(t *testing.T) {
	m := NewOnnxSpeechModel(OnnxSpeechModelConfig{ModelPath: "vad.onnx", Threshold: 0.8})
	if m.cfg.Threshold != 0.8 {
		t.Errorf("expected explicit threshold 0.8, got %v", m.cfg.Threshold)
	}
}

func TestOnnxSpeechModelDetectEmptySamplesSkipsSession(t *testing.T) {
	m := NewOnnxSpeechModel(OnnxSpeechModelConfig{ModelPath: "vad.onnx"})
	intervals, err := m.Detect(nil, 16000)
	if err != nil {
		t.Fatalf("unexpected error on empty samples: %v", err)
	}
	if intervals != nil {
		t.Errorf("expected no intervals for empty samples, got %v", intervals)
	}
	if m.session != nil {
		t.Error("expected no ONNX session to be opened for empty samples")
	}
}

func TestOnnxSpeechModelCloseWithoutDetectIsSafe(t *testing.T) {
	m := NewOnnxSpeechModel(OnnxSpeechModelConfig{ModelPath: "vad.onnx"})
	if err := m.Close(); err != nil {
		t.Errorf("expected Close on an unopened model to be a no-op, got %v", err)
	}
}
