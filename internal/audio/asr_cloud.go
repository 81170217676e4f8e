package audio

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

// cloudTransport is a tuned http.Transport shared by all Cloud instances,
// mirroring the connection-pooling settings used by the LLM provider router
// this backend is grounded on.
var cloudTransport = &http.Transport{
	MaxIdleConns:        50,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
}

// APIKey wraps a cloud ASR credential and masks it in all fmt/log output.
type APIKey struct{ v string }

// NewAPIKey wraps a plaintext value as an APIKey.
func NewAPIKey(s string) APIKey { return APIKey{v: s} }

// Value returns the raw key. Only call when building HTTP headers.
func (k APIKey) Value() string { return k.v }

// String implements fmt.Stringer — always "[REDACTED]".
func (k APIKey) String() string { return "[REDACTED]" }

// GoString prevents leakage via %#v.
func (k APIKey) GoString() string { return "audio.APIKey([REDACTED])" }

var (
	ErrCloudRequiresHTTPS = errors.New("audio: cloud ASR base URL must use https")
	ErrCloudEmptyText     = errors.New("audio: cloud ASR response missing text")
)

// CloudConfig configures the OpenAI-compatible cloud transcription backend.
type CloudConfig struct {
	BaseURL string
	APIKey  APIKey
	Model   string
	Timeout time.Duration
}

func (c *CloudConfig) validate() error {
	if !strings.HasPrefix(c.BaseURL, "https://") {
		return ErrCloudRequiresHTTPS
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}

// Cloud is an OpenAI-compatible HTTPS transcription backend. HTTPS is
// mandatory; plaintext HTTP is rejected at construction.
type Cloud struct {
	cfg    CloudConfig
	client *http.Client
}

// NewCloud validates cfg and returns a ready Cloud backend.
func NewCloud(cfg CloudConfig) (*Cloud, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Cloud{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout, Transport: cloudTransport}}, nil
}

type transcriptionRequest struct {
	Model        string `json:"model"`
	Encoding     string `json:"encoding"`
	SampleRateHz int    `json:"sample_rate_hz"`
	AudioBase64  string `json:"audio_base64"`
}

type transcriptionResponse struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// Transcribe POSTs the samples to "${base}/audio/transcriptions" with
// bearer auth and the bit-exact request body the cloud endpoint expects.
func (c *Cloud) Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]TranscriptEvent, error) {
	reqBody := transcriptionRequest{
		Model:        c.cfg.Model,
		Encoding:     "pcm_f32le",
		SampleRateHz: sampleRate,
		AudioBase64:  base64.StdEncoding.EncodeToString(encodePCMF32LE(samples)),
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return nil, fmt.Errorf("audio: cloud encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey.Value())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audio: cloud transport: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("audio: cloud HTTP %d: %s", resp.StatusCode, b)
	}
	var out transcriptionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4*1024*1024)).Decode(&out); err != nil {
		return nil, fmt.Errorf("audio: cloud decode: %w", err)
	}
	if out.Text == "" {
		return nil, ErrCloudEmptyText
	}
	return []TranscriptEvent{{Text: out.Text, IsFinal: true, Confidence: 1, Language: out.Language}}, nil
}

func encodePCMF32LE(samples []float32) []byte {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		bits := math.Float32bits(s)
		buf[i*4+0] = byte(bits)
		buf[i*4+1] = byte(bits >> 8)
		buf[i*4+2] = byte(bits >> 16)
		buf[i*4+3] = byte(bits >> 24)
	}
	return buf
}
