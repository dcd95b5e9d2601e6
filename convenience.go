// FILE: lixenwraith/resolver/convenience.go
package resolver

import (
	"sort"
	"strings"
)

var defaultResolver = NewWithDefaults()

// Resolve resolves template against data with default options.
// This is the shortest path for one-off resolution.
func Resolve(template, data any, opts ...CallOption) (any, error) {
	return defaultResolver.Resolve(template, data, opts...)
}

// MustResolve is like Resolve but panics on error
func MustResolve(template, data any, opts ...CallOption) any {
	return defaultResolver.MustResolve(template, data, opts...)
}

// Placeholders lists the distinct placeholders left in a document, sorted, using the
// default descriptor fields
func Placeholders(template any) []string {
	return defaultResolver.Placeholders(template)
}

// Placeholders lists the distinct top-level placeholders (delimiters included) found in
// strings of the document, including descriptor mappings and transformer references.
// An empty result means resolving the document again is a no-op.
func (r *Resolver) Placeholders(template any) []string {
	seen := make(map[string]bool)
	r.collect(template, 0, seen)

	result := make([]string, 0, len(seen))
	for p := range seen {
		result = append(result, p)
	}
	sort.Strings(result)
	return result
}

func (r *Resolver) collect(node any, depth int, seen map[string]bool) {
	if depth > r.opts.MaxDepth {
		return
	}

	kind, v := r.classify(node)
	switch kind {
	case kindString:
		s := v.(string)
		if !strings.Contains(s, openDelim) {
			return
		}
		for _, sp := range scan(s) {
			seen[s[sp.start:sp.end]] = true
		}
	case kindDescriptor, kindObject:
		for _, elem := range v.(map[string]any) {
			r.collect(elem, depth+1, seen)
		}
	case kindArray:
		for _, elem := range v.([]any) {
			r.collect(elem, depth+1, seen)
		}
	}
}
