// FILE: lixenwraith/resolver/source/cli_test.go
package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected map[string]any
		wantErr  bool
	}{
		{
			name:     "KeyEqualsValue",
			args:     []string{"--server.host=localhost", "--server.port=8080"},
			expected: map[string]any{"server": map[string]any{"host": "localhost", "port": "8080"}},
		},
		{
			name:     "KeySpaceValue",
			args:     []string{"--name", "gateway"},
			expected: map[string]any{"name": "gateway"},
		},
		{
			name:     "BareFlag",
			args:     []string{"--debug", "--verbose"},
			expected: map[string]any{"debug": "true", "verbose": "true"},
		},
		{
			name:     "ValueWithEquals",
			args:     []string{"--query=a=b"},
			expected: map[string]any{"query": "a=b"},
		},
		{
			name:     "SkipsPositionalsAndSeparator",
			args:     []string{"positional", "--", "--a=1", "--=skipped"},
			expected: map[string]any{"a": "1"},
		},
		{
			name:    "InvalidSegment",
			args:    []string{"--server..host=x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}

	t.Run("ValueTooLarge", func(t *testing.T) {
		_, err := parseArgs([]string{"--blob=" + strings.Repeat("x", MaxValueSize+1)})
		assert.ErrorIs(t, err, ErrValueSize)
	})
}

func TestParseAssignments(t *testing.T) {
	result, err := ParseAssignments([]string{"user.name=Ada", "user.id=7", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"user":  map[string]any{"name": "Ada", "id": "7"},
		"empty": "",
	}, result)

	_, err = ParseAssignments([]string{"novalue"})
	assert.ErrorIs(t, err, ErrCLIParse)

	_, err = ParseAssignments([]string{"bad key=1"})
	assert.ErrorIs(t, err, ErrCLIParse)
}
