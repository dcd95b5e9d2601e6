// FILE: lixenwraith/resolver/scanner.go
package resolver

import (
	"slices"
	"strings"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// span is a top-level placeholder in a string, delimiters included
type span struct {
	start int
	end   int // exclusive
}

// inner returns the text between the delimiters
func (sp span) inner(s string) string {
	return s[sp.start+len(openDelim) : sp.end-len(closeDelim)]
}

// scan returns every top-level placeholder in s, left to right, in one pass.
// Openers are stacked and paired with the next "}}"; openers that never close are
// literal text, and only the outermost pairs are returned.
func scan(s string) []span {
	if !strings.Contains(s, openDelim) {
		return nil
	}

	var open []int
	var pairs []span
	for i := 0; i+1 < len(s); {
		switch {
		case s[i] == '{' && s[i+1] == '{':
			open = append(open, i)
			i += 2
		case s[i] == '}' && s[i+1] == '}' && len(open) > 0:
			start := open[len(open)-1]
			open = open[:len(open)-1]
			i += 2
			pairs = append(pairs, span{start: start, end: i})
		default:
			i++
		}
	}

	// Pairs nest properly, so after ordering by start an outer pair precedes its inner ones
	slices.SortFunc(pairs, func(a, b span) int { return a.start - b.start })
	spans := pairs[:0]
	last := 0
	for _, sp := range pairs {
		if sp.start < last {
			continue
		}
		spans = append(spans, sp)
		last = sp.end
	}
	if len(spans) == 0 {
		return nil
	}
	return spans
}

// splitTopLevel splits s on sep, ignoring separators inside nested placeholders
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, last := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case i+1 < len(s) && s[i] == '{' && s[i+1] == '{':
			depth++
			i++
		case i+1 < len(s) && s[i] == '}' && s[i+1] == '}' && depth > 0:
			depth--
			i++
		case s[i] == sep && depth == 0:
			parts = append(parts, s[last:i])
			last = i + 1
		}
	}
	return append(parts, s[last:])
}

// hasPlaceholder reports whether s contains at least one complete placeholder
func hasPlaceholder(s string) bool {
	if !strings.Contains(s, openDelim) {
		return false
	}
	return len(scan(s)) > 0
}
