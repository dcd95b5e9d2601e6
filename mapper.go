// FILE: lixenwraith/resolver/mapper.go
package resolver

import (
	"fmt"
	"regexp"
	"strings"
)

// MapperFunc handles one pattern match. It receives the full match and the captured groups
// (unmatched groups are empty strings). Errors are returned to the Resolve caller as-is.
type MapperFunc func(match string, groups ...string) (any, error)

// Mapper post-processes fully resolved strings.
// When the only match covers the whole string, the handler's result replaces the value and
// may change its type. Otherwise every match is replaced by the text of the handler's result.
type Mapper struct {
	Pattern *regexp.Regexp
	Handler MapperFunc
}

// NewMapper compiles expr and pairs it with fn
func NewMapper(expr string, fn MapperFunc) (Mapper, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Mapper{}, fmt.Errorf("%w: pattern %q: %w", ErrInvalidMapper, expr, err)
	}
	m := Mapper{Pattern: re, Handler: fn}
	if err := m.validate(); err != nil {
		return Mapper{}, err
	}
	return m, nil
}

// MustMapper is like NewMapper but panics on error
func MustMapper(expr string, fn MapperFunc) Mapper {
	m, err := NewMapper(expr, fn)
	if err != nil {
		panic(fmt.Sprintf("mapper creation failed: %v", err))
	}
	return m
}

func (m Mapper) validate() error {
	if m.Pattern == nil {
		return fmt.Errorf("%w: nil pattern", ErrInvalidMapper)
	}
	if m.Handler == nil {
		return fmt.Errorf("%w: nil handler for pattern %q", ErrInvalidMapper, m.Pattern.String())
	}
	return nil
}

// call invokes the handler for one submatch index set
func (m Mapper) call(s string, loc []int) (any, error) {
	groups := make([]string, 0, len(loc)/2-1)
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, s[loc[i]:loc[i+1]])
	}
	return m.Handler(s[loc[0]:loc[1]], groups...)
}

// applyMappers runs each mapper in order while the value is still a string
func applyMappers(s string, mappers []Mapper) (any, error) {
	var current any = s
	for _, m := range mappers {
		str, ok := current.(string)
		if !ok {
			break
		}

		locs := matches(m.Pattern, str)
		if len(locs) == 0 {
			continue
		}

		if len(locs) == 1 && locs[0][0] == 0 && locs[0][1] == len(str) {
			v, err := m.call(str, locs[0])
			if err != nil {
				return nil, err
			}
			current = v
			continue
		}

		var b strings.Builder
		last := 0
		for _, loc := range locs {
			b.WriteString(str[last:loc[0]])
			v, err := m.call(str, loc)
			if err != nil {
				return nil, err
			}
			b.WriteString(stringify(v))
			last = loc[1]
		}
		b.WriteString(str[last:])
		current = b.String()
	}
	return current, nil
}

// matches returns non-empty submatch locations
func matches(re *regexp.Regexp, s string) [][]int {
	all := re.FindAllStringSubmatchIndex(s, -1)
	locs := all[:0]
	for _, loc := range all {
		if loc[1] > loc[0] {
			locs = append(locs, loc)
		}
	}
	return locs
}
