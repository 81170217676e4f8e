package commands

import (
	"errors"
	"fmt"
	"strings"
)

// MaxSnippetDepth bounds recursive snippet expansion even when no cycle
// exists, so a long expansion chain cannot grow unbounded.
const MaxSnippetDepth = 8

// ErrSnippetCycle is returned when expanding a snippet would revisit a name
// already on the current expansion trail.
var ErrSnippetCycle = errors.New("commands: snippet expansion cycle detected")

// ErrSnippetDepthExceeded is returned when expansion recurses past
// MaxSnippetDepth without completing.
var ErrSnippetDepthExceeded = errors.New("commands: snippet expansion depth exceeded")

// ErrSnippetNotFound is returned when a referenced snippet name has no
// definition.
var ErrSnippetNotFound = errors.New("commands: snippet not found")

// SnippetExpander expands named text snippets, including snippets that
// reference other snippets, guarding against cycles and runaway depth.
type SnippetExpander struct {
	bodies map[string]string
}

// NewSnippetExpander builds an expander over a name -> body map. Bodies may
// reference other snippets with the syntax {{name}}.
func NewSnippetExpander(bodies map[string]string) *SnippetExpander {
	cp := make(map[string]string, len(bodies))
	for k, v := range bodies {
		cp[k] = v
	}
	return &SnippetExpander{bodies: cp}
}

// Expand resolves name to its fully-expanded text.
func (e *SnippetExpander) Expand(name string) (string, error) {
	return e.expand(name, nil)
}

func (e *SnippetExpander) expand(name string, trail []string) (string, error) {
	for _, visited := range trail {
		if visited == name {
			return "", fmt.Errorf("%w: %s -> %s", ErrSnippetCycle, strings.Join(trail, "->"), name)
		}
	}
	if len(trail) >= MaxSnippetDepth {
		return "", fmt.Errorf("%w: at %s", ErrSnippetDepthExceeded, name)
	}
	body, ok := e.bodies[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSnippetNotFound, name)
	}

	trail = append(trail, name)
	var out strings.Builder
	remaining := body
	for {
		start := strings.Index(remaining, "{{")
		if start == -1 {
			out.WriteString(remaining)
			break
		}
		end := strings.Index(remaining[start:], "}}")
		if end == -1 {
			out.WriteString(remaining)
			break
		}
		end += start
		out.WriteString(remaining[:start])
		ref := strings.TrimSpace(remaining[start+2 : end])
		expanded, err := e.expand(ref, trail)
		if err != nil {
			return "", err
		}
		out.WriteString(expanded)
		remaining = remaining[end+2:]
	}
	return out.String(), nil
}
