// Package commands implements the command registry, parser, fuzzy
// matcher, snippet expander, and the built-in and custom command
// catalogs that back the command channel of the dictation pipeline.
package commands

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Normalize reduces a raw transcript to its comparable form: Unicode NFC,
// Unicode-aware case folding, whitespace collapsed to a single ASCII
// space, trimmed. Normalize is idempotent.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}
