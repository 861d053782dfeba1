package destructure

import (
	"strings"

	"github.com/dekot-dev/dekot/pkg/command"
	"github.com/dekot-dev/dekot/pkg/edit"
	"github.com/dekot-dev/dekot/pkg/syntax"
)

// Rewrite materializes the destructuring as a command: one atomic edit set
// replacing the binding with the destructuring pattern, rewriting every
// usage site to its slot name, deleting subsumed declarations, and — for
// map-entry loops — stripping the redundant entry-set accessor. A
// non-applicable analysis yields the nothing command.
func (a *Analysis) Rewrite() (command.Command, error) {
	if !a.Applicable() {
		return command.Nop(), nil
	}

	edits := &edit.EditSet{}

	binding := a.Decl.Binding()

	pattern := a.Pattern()
	if err := edits.Replace(binding.Span.Start, binding.Span.End, pattern); err != nil {
		return nil, err
	}

	for _, slot := range a.Slots {
		for _, usage := range slot.Usages {
			if err := edits.Replace(usage.Span.Start, usage.Span.End, slot.Name); err != nil {
				return nil, err
			}
		}
	}

	for _, removed := range a.removals {
		start, end := statementSpan(a.Tree.Source, removed)
		if err := edits.Delete(start, end); err != nil {
			return nil, err
		}
	}

	if a.entriesStrip != nil {
		if err := edits.Delete(a.entriesStrip.Start, a.entriesStrip.End); err != nil {
			return nil, err
		}
	}

	patternEnd := binding.Span.Start + uint(len(pattern))

	return command.Compose(
		command.Update(a.Tree.Path, edits),
		command.Select(a.Tree.Path, binding.Span.Start, patternEnd),
	), nil
}

// Pattern renders the destructuring pattern for the retained slots,
// e.g. "(key, value)" or "(x, _, z)".
func (a *Analysis) Pattern() string {
	names := make([]string, 0, len(a.Slots))

	for _, slot := range a.Slots {
		names = append(names, slot.Name)
	}

	return "(" + strings.Join(names, ", ") + ")"
}

// Names returns the retained slot names in component order.
func (a *Analysis) Names() []string {
	names := make([]string, 0, len(a.Slots))

	for _, slot := range a.Slots {
		names = append(names, slot.Name)
	}

	return names
}

// statementSpan widens a deleted statement to swallow surrounding
// whitespace. The trailing separator is consumed up to and including the
// newline; the leading indentation only when the trailing side reached the
// end of the line. A sole statement vanishes with its line, while a
// statement sharing its line with following code leaves that code's
// indentation intact.
func statementSpan(source []byte, n *syntax.Node) (uint, uint) {
	start, end := n.Span.Start, n.Span.End

	lineStart := start
	startsLine := true

	for lineStart > 0 {
		ch := source[lineStart-1]
		if ch == '\n' {
			break
		}

		if ch != ' ' && ch != '\t' {
			// Code precedes on this line; keep its prefix.
			startsLine = false

			break
		}

		lineStart--
	}

	for end < uint(len(source)) {
		ch := source[end]
		if ch == '\n' {
			if startsLine {
				end++
			}

			break
		}

		if ch != ' ' && ch != '\t' && ch != ';' {
			break
		}

		end++
	}

	atLineEnd := end == uint(len(source)) || source[end-1] == '\n'
	if startsLine && atLineEnd {
		start = lineStart
	}

	return start, end
}
