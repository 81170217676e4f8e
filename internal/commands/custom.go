package commands

import "fmt"

// CustomActionType enumerates what a custom command does when matched.
type CustomActionType int

const (
	ActionTypeText CustomActionType = iota
	ActionTypeSnippet
	ActionTypeKeystroke
)

// CustomAction is the resolved behavior attached to a custom command
// definition.
type CustomAction struct {
	Type      CustomActionType
	Text      string // ActionTypeText
	Snippet   string // ActionTypeSnippet: snippet name
	Keystroke string // ActionTypeKeystroke: keystroke spec, e.g. "ctrl+shift+k"
}

// RawCustomCommand is the user-authored, unvalidated form loaded from
// configuration before it is turned into a Definition + CustomAction pair.
type RawCustomCommand struct {
	ID      string
	Phrase  string
	Aliases []string
	Action  CustomAction
}

// LoadCustomCommandActions registers every raw custom command into registry
// and returns the resolved action for each successfully registered ID. Any
// collision against a built-in or another custom command aborts the whole
// load: a partially-applied custom command set is worse than none.
func LoadCustomCommandActions(registry *Registry, raw []RawCustomCommand) (map[string]CustomAction, error) {
	defs := make([]Definition, 0, len(raw))
	for _, rc := range raw {
		defs = append(defs, Definition{ID: rc.ID, Phrase: rc.Phrase, Aliases: rc.Aliases, Channel: ChannelCommand})
	}
	if err := registry.registerAll(defs); err != nil {
		return nil, fmt.Errorf("loading custom commands: %w", err)
	}

	actions := make(map[string]CustomAction, len(raw))
	for _, rc := range raw {
		actions[rc.ID] = rc.Action
	}
	return actions, nil
}
