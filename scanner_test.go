// FILE: lixenwraith/resolver/scanner_test.go
package resolver

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestScan tests top-level placeholder detection
func TestScan(t *testing.T) {
	spansOf := func(s string) []string {
		var out []string
		for _, sp := range scan(s) {
			out = append(out, s[sp.start:sp.end])
		}
		return out
	}

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"NoPlaceholder", "plain text", nil},
		{"Single", "{{a}}", []string{"{{a}}"}},
		{"Embedded", "x {{a}} y {{b.c}} z", []string{"{{a}}", "{{b.c}}"}},
		{"Nested", "{{array.{{index.value}}}}", []string{"{{array.{{index.value}}}}"}},
		{"NestedEmbedded", "s {{a.{{b}}}} t", []string{"{{a.{{b}}}}"}},
		{"Adjacent", "{{a}}{{b}}", []string{"{{a}}", "{{b}}"}},
		{"Unterminated", "{{a", nil},
		{"UnterminatedThenComplete", "{{a {{b}}", []string{"{{b}}"}},
		{"StrayClose", "}} {{a}} }}", []string{"{{a}}"}},
		{"TrailingBrace", `{{a|{"x": 1}}}`, []string{`{{a|{"x": 1}}`}},
		{"Empty", "{{}}", []string{"{{}}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, spansOf(tt.input))
		})
	}
}

// TestScanUnterminatedOpeners tests that unclosed openers stay literal without rescanning
func TestScanUnterminatedOpeners(t *testing.T) {
	assert.Nil(t, scan("ab {{cd"))
	assert.Nil(t, scan("no opener }}"))
	assert.Nil(t, scan("{{{{{{"))

	input := strings.Repeat("{{", 512*1024)
	start := time.Now()
	assert.Nil(t, scan(input))
	assert.Less(t, time.Since(start), time.Second)

	// Unclosed openers around a complete placeholder
	input = strings.Repeat("{{", 1000) + "{{a}}" + strings.Repeat(" {{", 1000)
	spans := scan(input)
	if assert.Len(t, spans, 1) {
		assert.Equal(t, "{{a}}", input[spans[0].start:spans[0].end])
	}

	start = time.Now()
	out, err := NewWithDefaults().Resolve(strings.Repeat("{{", 512*1024), nil)
	assert.NoError(t, err)
	assert.Equal(t, strings.Repeat("{{", 512*1024), out)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSpanInner(t *testing.T) {
	s := "x {{a.{{b}}|d}} y"
	spans := scan(s)
	if assert.Len(t, spans, 1) {
		assert.Equal(t, "a.{{b}}|d", spans[0].inner(s))
	}
}

// TestSplitTopLevel tests that separators inside nested placeholders are kept
func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t, []string{"a"}, splitTopLevel("a", '|'))
	assert.Equal(t, []string{"a", "b", "c"}, splitTopLevel("a|b|c", '|'))
	assert.Equal(t, []string{"a.{{b|c}}", "d"}, splitTopLevel("a.{{b|c}}|d", '|'))
	assert.Equal(t, []string{"{{w}}", "", "number"}, splitTopLevel("{{w}}||number", '|'))
	assert.Equal(t, []string{"", ""}, splitTopLevel("|", '|'))
}

func TestHasPlaceholder(t *testing.T) {
	assert.True(t, hasPlaceholder("a {{b}}"))
	assert.False(t, hasPlaceholder("a {{b"))
	assert.False(t, hasPlaceholder("[[json]]"))
}
