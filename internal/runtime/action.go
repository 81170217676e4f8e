package runtime

import (
	"errors"

	"github.com/ihmorol/voicekey/internal/commands"
)

// RouteKind tags which stage of the action router handled a command.
type RouteKind int

const (
	RouteUnhandled RouteKind = iota
	RouteWindow
	RouteKeyboard
	RouteCustom
)

// ActionResult is the structured outcome of dispatching one command id.
type ActionResult struct {
	Kind      RouteKind
	CommandID string
}

// ErrCustomActionMissingKeys is returned when a keystroke-variant custom
// action has no Keystroke value: no silent coercion between action
// variants is permitted.
var ErrCustomActionMissingKeys = errors.New("runtime: custom keystroke action has no keys")

// WindowBackend performs window-focus operations.
type WindowBackend interface {
	Handle(commandID string) (bool, error)
}

// KeyboardBackend performs built-in keyboard operations (single keys,
// modifier combos, literal-text templates).
type KeyboardBackend interface {
	HandleBuiltin(commandID string) (bool, error)
	PressCombo(keys string) error
	TypeText(text string) error
}

// SnippetExpander resolves a named snippet to its expanded text. Satisfied
// by *commands.SnippetExpander.
type SnippetExpander interface {
	Expand(name string) (string, error)
}

// ActionRouter dispatches a command id through window ops, then built-in
// keyboard ops, then custom actions, in that order.
type ActionRouter struct {
	window   WindowBackend
	keyboard KeyboardBackend
	custom   map[string]commands.CustomAction
	snippets SnippetExpander
}

// NewActionRouter builds a router. window and snippets may be nil when no
// window backend or snippet catalog is configured.
func NewActionRouter(window WindowBackend, keyboard KeyboardBackend, custom map[string]commands.CustomAction, snippets SnippetExpander) *ActionRouter {
	return &ActionRouter{window: window, keyboard: keyboard, custom: custom, snippets: snippets}
}

// Dispatch routes a single resolved command id.
func (r *ActionRouter) Dispatch(commandID string) (ActionResult, error) {
	if r.window != nil {
		if handled, err := r.window.Handle(commandID); err != nil {
			return ActionResult{}, err
		} else if handled {
			return ActionResult{Kind: RouteWindow, CommandID: commandID}, nil
		}
	}

	if r.keyboard != nil {
		if handled, err := r.keyboard.HandleBuiltin(commandID); err != nil {
			return ActionResult{}, err
		} else if handled {
			return ActionResult{Kind: RouteKeyboard, CommandID: commandID}, nil
		}
	}

	if action, ok := r.custom[commandID]; ok {
		if err := r.dispatchCustom(action); err != nil {
			return ActionResult{}, err
		}
		return ActionResult{Kind: RouteCustom, CommandID: commandID}, nil
	}

	return ActionResult{Kind: RouteUnhandled, CommandID: commandID}, nil
}

func (r *ActionRouter) dispatchCustom(action commands.CustomAction) error {
	switch action.Type {
	case commands.ActionTypeKeystroke:
		if action.Keystroke == "" {
			return ErrCustomActionMissingKeys
		}
		return r.keyboard.PressCombo(action.Keystroke)
	case commands.ActionTypeText:
		return r.keyboard.TypeText(action.Text)
	case commands.ActionTypeSnippet:
		if r.snippets == nil {
			return r.keyboard.TypeText(action.Text)
		}
		text, err := r.snippets.Expand(action.Snippet)
		if err != nil {
			return err
		}
		return r.keyboard.TypeText(text)
	default:
		return r.keyboard.TypeText(action.Text)
	}
}
