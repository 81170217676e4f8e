package commands

import "errors"

// Channel distinguishes ordinary dictation commands from system-level
// phrases (pause/resume/stop).
type Channel int

const (
	ChannelCommand Channel = iota
	ChannelSystem
)

// FeatureGate names a switch that makes some registered commands visible
// to the parser without removing them from the registry.
type FeatureGate string

const (
	GateWindowCommands FeatureGate = "window_commands"
	GateTextExpansion  FeatureGate = "text_expansion"
)

// Definition is an immutable command definition.
type Definition struct {
	ID      string
	Phrase  string
	Aliases []string
	Channel Channel
	Gate    FeatureGate // empty = always enabled
}

// ErrPhraseCollision is returned when a phrase or alias is already
// registered, whether by a built-in or a previously loaded custom command.
var ErrPhraseCollision = errors.New("commands: phrase collides with an existing registration")

// Registry maps normalized phrases (and aliases) to immutable command
// definitions. The phrase map is immutable after construction completes;
// only feature-gate enablement is mutable at runtime.
type Registry struct {
	byPhrase map[string]Definition
	enabled  map[FeatureGate]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byPhrase: map[string]Definition{}, enabled: map[FeatureGate]bool{}}
}

// Register adds a command definition under its canonical phrase and any
// aliases, normalized. Any collision (built-in or custom) is rejected and
// nothing is registered.
func (r *Registry) Register(def Definition) error {
	phrases := append([]string{def.Phrase}, def.Aliases...)
	normalized := make([]string, 0, len(phrases))
	for _, p := range phrases {
		n := Normalize(p)
		if n == "" {
			continue
		}
		if _, exists := r.byPhrase[n]; exists {
			return ErrPhraseCollision
		}
		normalized = append(normalized, n)
	}
	for _, n := range normalized {
		r.byPhrase[n] = def
	}
	return nil
}

// registerAll registers every definition as a single unit: if any phrase or
// alias collides, whether against the existing registry or against another
// definition in the same batch, nothing in the batch is registered. This
// keeps a failed custom-command load from leaving a partial set behind.
func (r *Registry) registerAll(defs []Definition) error {
	seen := map[string]bool{}
	for _, def := range defs {
		for _, p := range append([]string{def.Phrase}, def.Aliases...) {
			n := Normalize(p)
			if n == "" {
				continue
			}
			if _, exists := r.byPhrase[n]; exists {
				return ErrPhraseCollision
			}
			if seen[n] {
				return ErrPhraseCollision
			}
			seen[n] = true
		}
	}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// SetEnabled toggles a feature gate at runtime.
func (r *Registry) SetEnabled(gate FeatureGate, enabled bool) {
	r.enabled[gate] = enabled
}

func (r *Registry) isEnabled(def Definition) bool {
	if def.Gate == "" {
		return true
	}
	return r.enabled[def.Gate]
}

// Lookup resolves a normalized phrase to its definition, honoring feature
// gates without removing the entry from the map.
func (r *Registry) Lookup(normalizedPhrase string) (Definition, bool) {
	def, ok := r.byPhrase[normalizedPhrase]
	if !ok || !r.isEnabled(def) {
		return Definition{}, false
	}
	return def, true
}

// SystemPhrases returns every normalized phrase registered on the SYSTEM
// channel. System phrases are never gated.
func (r *Registry) SystemPhrases() map[string]Definition {
	out := map[string]Definition{}
	for phrase, def := range r.byPhrase {
		if def.Channel == ChannelSystem {
			out[phrase] = def
		}
	}
	return out
}

// ActiveCommandPhrases returns every normalized COMMAND-channel phrase that
// is currently enabled by its feature gate — the candidate set for fuzzy
// matching.
func (r *Registry) ActiveCommandPhrases() []string {
	var out []string
	for phrase, def := range r.byPhrase {
		if def.Channel == ChannelCommand && r.isEnabled(def) {
			out = append(out, phrase)
		}
	}
	return out
}
