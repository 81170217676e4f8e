package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ModelProfile names a Faster-Whisper-compatible model size.
type ModelProfile string

const (
	ProfileTiny   ModelProfile = "tiny"
	ProfileBase   ModelProfile = "base"
	ProfileSmall  ModelProfile = "small"
	ProfileMedium ModelProfile = "medium"
	ProfileLarge  ModelProfile = "large"
)

type profileDefaults struct {
	ModelFile   string
	ComputeType string
}

// modelProfiles resolves a named profile to its GGML model file and the
// compute type used unless the caller overrides it explicitly.
var modelProfiles = map[ModelProfile]profileDefaults{
	ProfileTiny:   {"ggml-tiny.bin", "int8"},
	ProfileBase:   {"ggml-base.bin", "int8"},
	ProfileSmall:  {"ggml-small.bin", "float16"},
	ProfileMedium: {"ggml-medium.bin", "float16"},
	ProfileLarge:  {"ggml-large-v3.bin", "float32"},
}

var (
	ErrModelLoadFailed     = errors.New("audio: local model load failed")
	ErrTranscriptionFailed = errors.New("audio: local transcription failed")
)

// TranscriptionTimeout is returned when a local transcription exceeds its
// configured bound.
type TranscriptionTimeout struct {
	Limit time.Duration
}

func (e *TranscriptionTimeout) Error() string {
	return fmt.Sprintf("audio: local transcription exceeded %s", e.Limit)
}

// LocalConfig configures the local transcription backend.
type LocalConfig struct {
	WhisperBin  string
	ModelDir    string
	TempDir     string
	Profile     ModelProfile
	ComputeType string // overrides the profile default when non-empty
	Timeout     time.Duration
}

func (c *LocalConfig) defaults() {
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	}
	if c.Profile == "" {
		c.Profile = ProfileBase
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}

// Local is a Faster-Whisper-compatible local ASR backend driven by an
// external whisper binary: samples are written to a scratch WAV file under
// TempDir and handed to WhisperBin, the way a wake-triggered dictation
// session drives the same binary against live microphone audio, adapted
// here to bounded, pre-recorded audio instead.
type Local struct {
	cfg LocalConfig
	log zerolog.Logger

	mu      sync.Mutex
	loaded  bool
	profile ModelProfile
}

// NewLocal constructs a Local backend. It does not load a model until the
// first Transcribe call (LoadModel is idempotent and may also be called
// eagerly).
func NewLocal(cfg LocalConfig, log zerolog.Logger) *Local {
	cfg.defaults()
	return &Local{cfg: cfg, log: log.With().Str("component", "audio.asr.local").Logger()}
}

// LoadModel is idempotent: a call with the configured profile already
// loaded is a no-op.
func (l *Local) LoadModel() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded && l.profile == l.cfg.Profile {
		return nil
	}
	profile, ok := modelProfiles[l.cfg.Profile]
	if !ok {
		return fmt.Errorf("%w: unknown profile %q", ErrModelLoadFailed, l.cfg.Profile)
	}
	path := filepath.Join(l.cfg.ModelDir, profile.ModelFile)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %v", ErrModelLoadFailed, err)
	}
	l.loaded = true
	l.profile = l.cfg.Profile
	return nil
}

// UnloadModel marks the model unloaded; the next Transcribe call reloads it.
func (l *Local) UnloadModel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = false
}

// SwitchModel is a no-op if profile is already loaded; otherwise it unloads
// then reloads exactly once.
func (l *Local) SwitchModel(profile ModelProfile) error {
	l.mu.Lock()
	if l.loaded && l.profile == profile {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()
	l.UnloadModel()
	l.cfg.Profile = profile
	return l.LoadModel()
}

func (l *Local) computeType() string {
	if l.cfg.ComputeType != "" {
		return l.cfg.ComputeType
	}
	return modelProfiles[l.cfg.Profile].ComputeType
}

// whisperSegment mirrors the subset of a whisper.cpp JSON transcription
// segment this backend consumes.
type whisperSegment struct {
	Text       string  `json:"text"`
	AvgLogProb float64 `json:"avg_logprob"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
}

type whisperOutput struct {
	Segments []whisperSegment `json:"segments"`
}

// Transcribe writes samples to a scratch WAV file and invokes the whisper
// binary, translating segments into one interim event summarizing the
// joined text followed by one final event per recognized segment.
func (l *Local) Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]TranscriptEvent, error) {
	if err := l.LoadModel(); err != nil {
		return nil, err
	}
	if l.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.cfg.Timeout)
		defer cancel()
	}

	wavPath := filepath.Join(l.cfg.TempDir, fmt.Sprintf("voicekey-%d.wav", time.Now().UnixNano()))
	if err := writeWAV(wavPath, samples, sampleRate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	defer os.Remove(wavPath)

	profile := modelProfiles[l.cfg.Profile]
	args := []string{
		"-m", filepath.Join(l.cfg.ModelDir, profile.ModelFile),
		"-f", wavPath,
		"-oj",
		"--compute-type", l.computeType(),
	}
	cmd := exec.CommandContext(ctx, l.cfg.WhisperBin, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	runErr := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, &TranscriptionTimeout{Limit: l.cfg.Timeout}
	}
	if runErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscriptionFailed, runErr)
	}

	var out whisperOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	events := make([]TranscriptEvent, 0, len(out.Segments)+1)
	var joined string
	for i, seg := range out.Segments {
		if i > 0 {
			joined += " "
		}
		joined += seg.Text
	}
	events = append(events, TranscriptEvent{Text: joined, IsFinal: false, Confidence: 1})
	for _, seg := range out.Segments {
		start, end := seg.Start, seg.End
		events = append(events, TranscriptEvent{
			Text:       seg.Text,
			IsFinal:    true,
			Confidence: confidenceFromLogProb(seg.AvgLogProb),
			StartSec:   &start,
			EndSec:     &end,
		})
	}
	return events, nil
}

// confidenceFromLogProb derives a confidence score in [0,1] from an average
// log-probability.
func confidenceFromLogProb(avgLogProb float64) float64 {
	return clamp01((avgLogProb + 2.0) / 4.0)
}

// writeWAV encodes mono float32 samples as 16-bit PCM WAV.
func writeWAV(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dataSize := len(samples) * 2
	byteRate := sampleRate * 2
	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1)
	binary.LittleEndian.PutUint16(header[22:24], 1)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], 2)
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))
	if _, err := f.Write(header); err != nil {
		return err
	}

	buf := make([]byte, 2)
	for _, s := range samples {
		v := int16(math.Max(-1, math.Min(1, float64(s))) * 32767)
		binary.LittleEndian.PutUint16(buf, uint16(v))
		if _, err := f.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
