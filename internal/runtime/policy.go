package runtime

import "github.com/ihmorol/voicekey/internal/commands"

// RoutingDecision is the routing policy's allow/drop verdict plus reason.
type RoutingDecision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) RoutingDecision { return RoutingDecision{Allowed: true, Reason: reason} }
func drop(reason string) RoutingDecision  { return RoutingDecision{Allowed: false, Reason: reason} }

// EvaluateRouting implements the PAUSED-suppression policy: in any state
// other than PAUSED everything is allowed; in PAUSED, only the stop phrase
// always passes and the resume phrase passes when resumeByPhraseEnabled.
func EvaluateRouting(state AppState, result commands.Result, resumeByPhraseEnabled bool) RoutingDecision {
	if state != Paused {
		return allow("state is not paused")
	}
	if result.Kind != commands.ParseSystem {
		return drop("paused: only system phrases are considered")
	}
	switch result.Command.ID {
	case commands.CmdStopListening:
		return allow("stop is always allowed while paused")
	case commands.CmdResumeListening:
		if resumeByPhraseEnabled {
			return allow("resume-by-phrase channel enabled")
		}
		return drop("resume-by-phrase channel disabled")
	default:
		return drop("paused: system phrase is not stop or resume")
	}
}
