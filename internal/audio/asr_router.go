package audio

import (
	"context"
	"errors"
	"fmt"
)

// RoutingMode selects how the ASR router dispatches transcription calls.
type RoutingMode int

const (
	LocalOnly RoutingMode = iota
	Hybrid
	CloudPrimary
)

func (m RoutingMode) String() string {
	switch m {
	case LocalOnly:
		return "local_only"
	case Hybrid:
		return "hybrid"
	case CloudPrimary:
		return "cloud_primary"
	default:
		return "unknown"
	}
}

var (
	// ErrCloudCredentialsRequired is returned by ResolveMode when Hybrid or
	// CloudPrimary is requested without a cloud base URL and API key.
	ErrCloudCredentialsRequired = errors.New("audio: cloud base URL and API key required for this routing mode")
	// ErrRouterMisconfigured is returned when NewRouter is given backends
	// that cannot satisfy the requested mode.
	ErrRouterMisconfigured = errors.New("audio: ASR router misconfigured")
)

// RouterConfig is the input to ResolveMode: the requested mode plus
// whatever cloud credentials are available.
type RouterConfig struct {
	Mode         RoutingMode
	CloudBaseURL string
	CloudAPIKey  string
}

// ResolveMode derives the effective routing mode from config, refusing
// Hybrid/CloudPrimary when cloud credentials are absent — the router must
// not silently downgrade to LocalOnly.
func ResolveMode(cfg RouterConfig) (RoutingMode, error) {
	switch cfg.Mode {
	case Hybrid, CloudPrimary:
		if cfg.CloudBaseURL == "" || cfg.CloudAPIKey == "" {
			return cfg.Mode, ErrCloudCredentialsRequired
		}
	}
	return cfg.Mode, nil
}

// Backend transcribes a block of mono float32 samples.
type Backend interface {
	Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]TranscriptEvent, error)
}

// Decision carries the mode and backend actually used for one Transcribe call.
type Decision struct {
	Mode         RoutingMode
	BackendUsed  string // "local" | "cloud" | ""
	FallbackUsed bool
}

// Router dispatches transcription calls per RoutingMode, with per-call
// local→cloud fallback in Hybrid mode.
type Router struct {
	mode  RoutingMode
	local Backend
	cloud Backend
}

// NewRouter constructs a Router, refusing to start if the backends present
// cannot satisfy the mode (CloudPrimary/Hybrid need a non-nil cloud
// backend). It does not check credentials.
func NewRouter(mode RoutingMode, local, cloud Backend) (*Router, error) {
	switch mode {
	case LocalOnly:
		if local == nil {
			return nil, ErrRouterMisconfigured
		}
	case Hybrid:
		if local == nil || cloud == nil {
			return nil, ErrRouterMisconfigured
		}
	case CloudPrimary:
		if cloud == nil {
			return nil, ErrRouterMisconfigured
		}
	default:
		return nil, ErrRouterMisconfigured
	}
	return &Router{mode: mode, local: local, cloud: cloud}, nil
}

// Transcribe runs the per-call mode-dispatch algorithm. Empty audio
// short-circuits to no events without touching any backend.
func (r *Router) Transcribe(ctx context.Context, samples []float32, sampleRate int) ([]TranscriptEvent, Decision, error) {
	if len(samples) == 0 {
		return nil, Decision{Mode: r.mode}, nil
	}
	switch r.mode {
	case LocalOnly:
		events, err := r.local.Transcribe(ctx, samples, sampleRate)
		if err != nil {
			return nil, Decision{Mode: r.mode, BackendUsed: "local"}, err
		}
		return events, Decision{Mode: r.mode, BackendUsed: "local"}, nil

	case CloudPrimary:
		events, err := r.cloud.Transcribe(ctx, samples, sampleRate)
		if err != nil {
			return nil, Decision{Mode: r.mode, BackendUsed: "cloud"}, err
		}
		return events, Decision{Mode: r.mode, BackendUsed: "cloud"}, nil

	case Hybrid:
		events, localErr := r.local.Transcribe(ctx, samples, sampleRate)
		if localErr == nil {
			return events, Decision{Mode: r.mode, BackendUsed: "local"}, nil
		}
		cloudEvents, cloudErr := r.cloud.Transcribe(ctx, samples, sampleRate)
		if cloudErr != nil {
			return nil, Decision{Mode: r.mode, BackendUsed: "cloud", FallbackUsed: true},
				fmt.Errorf("local failed: %v; cloud failed: %w", localErr, cloudErr)
		}
		return cloudEvents, Decision{Mode: r.mode, BackendUsed: "cloud", FallbackUsed: true}, nil

	default:
		return nil, Decision{Mode: r.mode}, ErrRouterMisconfigured
	}
}
