package audio

import (
	"math"
	"time"
)

// VAD classifies a Frame as speech or silence.
type VAD interface {
	Process(f Frame) bool
	SetThreshold(t float64)
}

// EnergyVAD is the RMS-energy threshold fallback used when no speech model
// is available. threshold is in [0,1]; higher threshold values relax the
// bound (more sounds count as speech).
type EnergyVAD struct {
	threshold float64
}

// NewEnergyVAD constructs an EnergyVAD, clamping threshold into [0,1].
func NewEnergyVAD(threshold float64) *EnergyVAD {
	return &EnergyVAD{threshold: clamp01(threshold)}
}

func (v *EnergyVAD) SetThreshold(t float64) { v.threshold = clamp01(t) }

// Process reports speech iff the frame's RMS exceeds 0.01 + (1-threshold)*0.04.
func (v *EnergyVAD) Process(f Frame) bool {
	if len(f.Samples) == 0 {
		return false
	}
	rms := rmsOf(f.Samples)
	bound := 0.01 + (1-v.threshold)*0.04
	return rms > bound
}

func rmsOf(samples []float32) float64 {
	var sumSq float64
	for _, s := range samples {
		sumSq += float64(s) * float64(s)
	}
	return math.Sqrt(sumSq / float64(len(samples)))
}

// ModelInterval is a single detected speech interval from a model-backed VAD.
type ModelInterval struct {
	StartSec float64
	EndSec   float64
}

// SpeechModel is satisfied by an external VAD model.
type SpeechModel interface {
	Detect(samples []float32, sampleRate int) ([]ModelInterval, error)
}

// ModelVAD delegates to a SpeechModel and falls back to energy detection
// when the model is unavailable or errors.
type ModelVAD struct {
	model    SpeechModel
	fallback *EnergyVAD
}

// NewModelVAD wraps model with an energy-threshold fallback; model may be
// nil, in which case ModelVAD behaves exactly like EnergyVAD.
func NewModelVAD(model SpeechModel, threshold float64) *ModelVAD {
	return &ModelVAD{model: model, fallback: NewEnergyVAD(threshold)}
}

func (v *ModelVAD) SetThreshold(t float64) { v.fallback.SetThreshold(t) }

func (v *ModelVAD) Process(f Frame) bool {
	if len(f.Samples) == 0 {
		return false
	}
	if v.model == nil {
		return v.fallback.Process(f)
	}
	intervals, err := v.model.Detect(f.Samples, f.SampleRate)
	if err != nil {
		return v.fallback.Process(f)
	}
	return len(intervals) > 0
}

// Calibrator observes a short run of ambient-noise frames and proposes a
// threshold for EnergyVAD/ModelVAD — a one-shot noise-floor estimate
// supplementing the base energy/model contract.
type Calibrator struct {
	rmsSamples []float64
}

// Observe records one ambient-noise frame.
func (c *Calibrator) Observe(f Frame) {
	if len(f.Samples) == 0 {
		return
	}
	c.rmsSamples = append(c.rmsSamples, rmsOf(f.Samples))
}

// Suggest returns a threshold in [0,1] derived from the observed noise
// floor; louder ambient noise yields a stricter (lower) threshold so it
// does not itself trip detection.
func (c *Calibrator) Suggest() float64 {
	if len(c.rmsSamples) == 0 {
		return 0.5
	}
	var sum float64
	for _, s := range c.rmsSamples {
		sum += s
	}
	mean := sum / float64(len(c.rmsSamples))
	return clamp01(1 - (mean-0.01)/0.04)
}

// StreamingVAD adds hangover to an inner VAD: once speech is observed it
// keeps reporting speech for a grace period after the last true verdict,
// debouncing callers that need stable segment boundaries rather than raw
// per-frame flicker.
type StreamingVAD struct {
	inner        VAD
	hangover     time.Duration
	hasSpoken    bool
	lastSpeechAt time.Time
}

// NewStreamingVAD wraps inner with a hangover grace period.
func NewStreamingVAD(inner VAD, hangover time.Duration) *StreamingVAD {
	return &StreamingVAD{inner: inner, hangover: hangover}
}

func (v *StreamingVAD) SetThreshold(t float64) { v.inner.SetThreshold(t) }

func (v *StreamingVAD) Process(f Frame) bool {
	if v.inner.Process(f) {
		v.hasSpoken = true
		v.lastSpeechAt = f.CapturedAt
		return true
	}
	if v.hasSpoken && !v.lastSpeechAt.IsZero() && f.CapturedAt.Sub(v.lastSpeechAt) < v.hangover {
		return true
	}
	return false
}
