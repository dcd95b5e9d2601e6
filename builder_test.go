// FILE: lixenwraith/resolver/builder_test.go
package resolver

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuilder tests the builder pattern
func TestBuilder(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		r, err := NewBuilder().Build()
		require.NoError(t, err)

		opts := r.Options()
		assert.Equal(t, DefaultFields(), opts.Fields)
		assert.Equal(t, DefaultMaxDepth, opts.MaxDepth)
		assert.False(t, opts.IgnoreUndefined)
		assert.Nil(t, opts.ReplaceUndefinedWith)
	})

	t.Run("AllOptions", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		r, err := NewBuilder().
			WithTransformer(func(v any, key string) any { return Undefined }).
			WithMappers(MustMapper(`x`, func(m string, _ ...string) (any, error) { return "y", nil })).
			WithMapper(`^n$`, func(m string, _ ...string) (any, error) { return 1, nil }).
			WithFields("$map", "$fn").
			WithIgnoreUndefined(true).
			WithReplaceUndefined("r").
			WithMaxDepth(16).
			WithLogger(logger).
			Build()
		require.NoError(t, err)

		opts := r.Options()
		assert.NotNil(t, opts.Transformer)
		assert.Len(t, opts.Mappers, 2)
		assert.Equal(t, Fields{Mapping: "$map", Transformer: "$fn"}, opts.Fields)
		assert.True(t, opts.IgnoreUndefined)
		assert.Equal(t, "r", opts.ReplaceUndefinedWith)
		assert.Equal(t, 16, opts.MaxDepth)

		out, err := r.Resolve([]any{"x{{missing}}", "n"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []any{"y{{missing}}", 1}, out)
		assert.Contains(t, buf.String(), "unresolved placeholder")
	})

	t.Run("InvalidMapperExpression", func(t *testing.T) {
		_, err := NewBuilder().
			WithMapper(`(`, func(m string, _ ...string) (any, error) { return m, nil }).
			Build()
		assert.ErrorIs(t, err, ErrInvalidMapper)
	})

	t.Run("InvalidMaxDepth", func(t *testing.T) {
		_, err := NewBuilder().WithMaxDepth(0).Build()
		assert.Error(t, err)
	})

	t.Run("ConflictingFields", func(t *testing.T) {
		_, err := NewBuilder().WithFields("same", "same").Build()
		assert.Error(t, err)
	})

	t.Run("MustBuildPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewBuilder().WithMaxDepth(-1).MustBuild()
		})
		assert.NotPanics(t, func() {
			NewBuilder().MustBuild()
		})
	})
}
