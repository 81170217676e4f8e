package commands

// Built-in command identifiers, stable across releases since custom
// command files and telemetry may reference them by ID.
const (
	CmdPauseListening  = "pause_voice_key"
	CmdResumeListening = "resume_voice_key"
	CmdStopListening   = "voice_key_stop"

	CmdNewLine     = "builtin.new_line"
	CmdDeleteWord  = "builtin.delete_word"
	CmdDeleteLine  = "builtin.delete_line"
	CmdSelectAll   = "builtin.select_all"
	CmdUndo        = "builtin.undo"
	CmdCopy        = "builtin.copy"
	CmdPaste       = "builtin.paste"

	CmdWindowNext     = "builtin.window_next"
	CmdWindowPrevious = "builtin.window_previous"
	CmdWindowClose    = "builtin.window_close"
	CmdWindowMinimize = "builtin.window_minimize"
)

// coreCommands are always enabled regardless of feature gates: dictation
// editing primitives expected to work out of the box.
var coreCommands = []Definition{
	{ID: CmdNewLine, Phrase: "new line", Channel: ChannelCommand},
	{ID: CmdDeleteWord, Phrase: "delete word", Aliases: []string{"scratch that word"}, Channel: ChannelCommand},
	{ID: CmdDeleteLine, Phrase: "delete line", Channel: ChannelCommand},
	{ID: CmdSelectAll, Phrase: "select all", Channel: ChannelCommand},
	{ID: CmdUndo, Phrase: "undo that", Aliases: []string{"undo"}, Channel: ChannelCommand},
	{ID: CmdCopy, Phrase: "copy", Channel: ChannelCommand},
	{ID: CmdPaste, Phrase: "paste", Channel: ChannelCommand},
}

// windowProductivityCommands are gated behind GateWindowCommands since they
// act on window focus rather than the active text field.
var windowProductivityCommands = []Definition{
	{ID: CmdWindowNext, Phrase: "next window", Channel: ChannelCommand, Gate: GateWindowCommands},
	{ID: CmdWindowPrevious, Phrase: "previous window", Channel: ChannelCommand, Gate: GateWindowCommands},
	{ID: CmdWindowClose, Phrase: "close window", Channel: ChannelCommand, Gate: GateWindowCommands},
	{ID: CmdWindowMinimize, Phrase: "minimize window", Channel: ChannelCommand, Gate: GateWindowCommands},
}

// specialPhraseCommands are SYSTEM-channel phrases: matched only on an
// exact, whole-transcript match, never through the "command" suffix
// discipline or fuzzy fallback.
var specialPhraseCommands = []Definition{
	{ID: CmdPauseListening, Phrase: "pause voice key", Channel: ChannelSystem},
	{ID: CmdResumeListening, Phrase: "resume voice key", Channel: ChannelSystem},
	{ID: CmdStopListening, Phrase: "voice key stop", Channel: ChannelSystem},
}

// CreateBuiltinRegistry returns a registry pre-loaded with every built-in
// command and system phrase. Feature gates start disabled; callers enable
// them from loaded configuration.
func CreateBuiltinRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, group := range [][]Definition{coreCommands, windowProductivityCommands, specialPhraseCommands} {
		for _, def := range group {
			if err := r.Register(def); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}
