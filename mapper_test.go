// FILE: lixenwraith/resolver/mapper_test.go
package resolver

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sumMapper adds the integers inside [[a + b]] markers
func sumMapper(t *testing.T) Mapper {
	t.Helper()
	return MustMapper(`\[\[(.+?)\]\]`, func(match string, groups ...string) (any, error) {
		total := 0
		for _, term := range strings.Split(groups[0], "+") {
			n, err := strconv.Atoi(strings.TrimSpace(term))
			if err != nil {
				return match, nil
			}
			total += n
		}
		return total, nil
	})
}

// TestApplyMappers tests whole-string replacement and substring substitution
func TestApplyMappers(t *testing.T) {
	t.Run("WholeStringChangesType", func(t *testing.T) {
		v, err := applyMappers("[[1 + 4]]", []Mapper{sumMapper(t)})
		require.NoError(t, err)
		assert.Equal(t, 5, v)
	})

	t.Run("SubstringsStayText", func(t *testing.T) {
		v, err := applyMappers("[[1 + 2]] and [[3 + 4]]", []Mapper{sumMapper(t)})
		require.NoError(t, err)
		assert.Equal(t, "3 and 7", v)
	})

	t.Run("UnchangedMatchKeepsText", func(t *testing.T) {
		v, err := applyMappers("x [[a + b]] y", []Mapper{sumMapper(t)})
		require.NoError(t, err)
		assert.Equal(t, "x [[a + b]] y", v)
	})

	t.Run("NoMatch", func(t *testing.T) {
		v, err := applyMappers("plain", []Mapper{sumMapper(t)})
		require.NoError(t, err)
		assert.Equal(t, "plain", v)
	})

	t.Run("OrderAndTypeChangeStopsChain", func(t *testing.T) {
		var calls []string
		first := MustMapper(`^n:(\d+)$`, func(match string, groups ...string) (any, error) {
			calls = append(calls, "first")
			n, _ := strconv.Atoi(groups[0])
			return n, nil
		})
		second := MustMapper(`.+`, func(match string, groups ...string) (any, error) {
			calls = append(calls, "second")
			return "never", nil
		})

		v, err := applyMappers("n:12", []Mapper{first, second})
		require.NoError(t, err)
		assert.Equal(t, 12, v)
		assert.Equal(t, []string{"first"}, calls)
	})

	t.Run("ChainedStrings", func(t *testing.T) {
		upper := MustMapper(`[a-z]+`, func(match string, _ ...string) (any, error) {
			return strings.ToUpper(match), nil
		})
		wrap := MustMapper(`^.*$`, func(match string, _ ...string) (any, error) {
			return "<" + match + ">", nil
		})
		v, err := applyMappers("ab-cd", []Mapper{upper, wrap})
		require.NoError(t, err)
		assert.Equal(t, "<AB-CD>", v)
	})

	t.Run("OptionalGroupsAreEmpty", func(t *testing.T) {
		m := MustMapper(`(a)(b)?`, func(match string, groups ...string) (any, error) {
			return strings.Join(groups, ","), nil
		})
		v, err := applyMappers("a", []Mapper{m})
		require.NoError(t, err)
		assert.Equal(t, "a,", v)
	})

	t.Run("ZeroWidthMatchesIgnored", func(t *testing.T) {
		calls := 0
		m := MustMapper(`x*`, func(match string, _ ...string) (any, error) {
			calls++
			return "X", nil
		})
		v, err := applyMappers("abc", []Mapper{m})
		require.NoError(t, err)
		assert.Equal(t, "abc", v)
		assert.Zero(t, calls)
	})

	t.Run("HandlerErrorUnwrapped", func(t *testing.T) {
		boom := errors.New("boom")
		m := MustMapper(`b`, func(string, ...string) (any, error) { return nil, boom })
		_, err := applyMappers("abc", []Mapper{m})
		assert.Same(t, boom, err)
	})
}

// TestNewMapper tests mapper validation
func TestNewMapper(t *testing.T) {
	noop := func(match string, _ ...string) (any, error) { return match, nil }

	_, err := NewMapper(`(`, noop)
	assert.ErrorIs(t, err, ErrInvalidMapper)

	_, err = NewMapper(`x`, nil)
	assert.ErrorIs(t, err, ErrInvalidMapper)

	m, err := NewMapper(`x`, noop)
	require.NoError(t, err)
	assert.Equal(t, "x", m.Pattern.String())

	assert.Panics(t, func() { MustMapper(`(`, noop) })

	assert.ErrorIs(t, Mapper{Handler: noop}.validate(), ErrInvalidMapper)
	assert.NoError(t, Mapper{Pattern: regexp.MustCompile(`x`), Handler: noop}.validate())
}
