// FILE: lixenwraith/resolver/resolver.go
package resolver

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
)

// Resolver resolves templates against data contexts.
// Its configuration is fixed at construction, so it is safe for concurrent use.
type Resolver struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Resolver from opts, filling unset fields with defaults
func New(opts Options) (*Resolver, error) {
	defaults := DefaultFields()
	if opts.Fields.Mapping == "" {
		opts.Fields.Mapping = defaults.Mapping
	}
	if opts.Fields.Transformer == "" {
		opts.Fields.Transformer = defaults.Transformer
	}
	if opts.Fields.Mapping == opts.Fields.Transformer {
		return nil, fmt.Errorf("mapping and transformer fields must differ, both are %q", opts.Fields.Mapping)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	for _, m := range opts.Mappers {
		if err := m.validate(); err != nil {
			return nil, err
		}
	}
	opts.Mappers = slices.Clone(opts.Mappers)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Resolver{
		opts:   opts,
		logger: logger,
	}, nil
}

// NewWithDefaults creates a Resolver with DefaultOptions
func NewWithDefaults() *Resolver {
	r, _ := New(DefaultOptions())
	return r
}

// Options returns a copy of the resolver's configuration
func (r *Resolver) Options() Options {
	opts := r.opts
	opts.Mappers = slices.Clone(r.opts.Mappers)
	return opts
}

// Resolve returns a new document in which every placeholder of template is resolved
// against data. Neither argument is modified.
// Map keys whose value resolves to nothing are dropped; the result is nil when the
// template itself resolves to nothing.
func (r *Resolver) Resolve(template, data any, opts ...CallOption) (any, error) {
	var co callOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}

	x := &run{
		r:           r,
		data:        data,
		transformer: chain(co.transformer, r.opts.Transformer),
		mappers:     r.opts.Mappers,
		ignore:      r.opts.IgnoreUndefined,
	}
	if len(co.mappers) > 0 {
		for _, m := range co.mappers {
			if err := m.validate(); err != nil {
				return nil, err
			}
		}
		x.mappers = append(slices.Clip(r.opts.Mappers), co.mappers...)
	}
	if co.ignoreUndefined != nil {
		x.ignore = *co.ignoreUndefined
	}

	out, err := x.node(template, 0)
	if err != nil {
		return nil, err
	}
	if isOmitted(out) {
		return nil, nil
	}
	return out, nil
}

// MustResolve is like Resolve but panics on error
func (r *Resolver) MustResolve(template, data any, opts ...CallOption) any {
	out, err := r.Resolve(template, data, opts...)
	if err != nil {
		panic(fmt.Sprintf("resolve failed: %v", err))
	}
	return out
}

// nodeKind is the classification of a template node
type nodeKind int

const (
	kindPrimitive nodeKind = iota
	kindString
	kindFunction
	kindDescriptor
	kindObject
	kindArray
)

// classify tags a node and returns a normalized view of it: strings as string,
// string-keyed maps as map[string]any and sequences as []any.
// Descriptor detection happens here and nowhere else.
func (r *Resolver) classify(node any) (nodeKind, any) {
	switch v := node.(type) {
	case nil:
		return kindPrimitive, nil
	case string:
		return kindString, v
	case map[string]any:
		if _, ok := v[r.opts.Fields.Mapping]; ok {
			return kindDescriptor, v
		}
		return kindObject, v
	case []any:
		return kindArray, v
	}

	rv := reflect.ValueOf(node)
	switch rv.Kind() {
	case reflect.String:
		return kindString, rv.String()

	case reflect.Func:
		return kindFunction, node

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return kindPrimitive, node
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		if _, ok := m[r.opts.Fields.Mapping]; ok {
			return kindDescriptor, m
		}
		return kindObject, m

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return kindPrimitive, node
		}
		s := make([]any, rv.Len())
		for i := range s {
			s[i] = rv.Index(i).Interface()
		}
		return kindArray, s
	}

	return kindPrimitive, node
}

// run carries the per-call state of one Resolve invocation
type run struct {
	r           *Resolver
	data        any
	transformer fieldTransformer
	mappers     []Mapper
	ignore      bool
}

// outcome is the result of resolving one string
type outcome struct {
	value      any
	key        string // path of the placeholder when it spans the whole string
	unresolved bool   // at least one placeholder fell back to the undefined policy
}

// node is the structural walker
func (x *run) node(n any, depth int) (any, error) {
	if depth > x.r.opts.MaxDepth {
		return nil, x.depthError()
	}

	kind, v := x.r.classify(n)
	switch kind {
	case kindString:
		o, err := x.str(v.(string), depth, x.transformer)
		if err != nil {
			return nil, err
		}
		return o.value, nil

	case kindDescriptor:
		return x.descriptor(v.(map[string]any), depth)

	case kindObject:
		m := v.(map[string]any)
		out := make(map[string]any, len(m))
		for key, elem := range m {
			resolved, err := x.node(elem, depth+1)
			if err != nil {
				return nil, err
			}
			if isOmitted(resolved) {
				continue
			}
			out[key] = resolved
		}
		return out, nil

	case kindArray:
		s := v.([]any)
		out := make([]any, len(s))
		for i, elem := range s {
			resolved, err := x.node(elem, depth+1)
			if err != nil {
				return nil, err
			}
			if isOmitted(resolved) {
				resolved = nil
			}
			out[i] = resolved
		}
		return out, nil
	}

	// Functions and primitives are returned as they are
	return n, nil
}

// str resolves placeholders in s and then runs the mappers
func (x *run) str(s string, depth int, tf fieldTransformer) (outcome, error) {
	o, err := x.interpolate(s, depth, tf)
	if err != nil {
		return outcome{}, err
	}
	if text, ok := o.value.(string); ok && len(x.mappers) > 0 {
		v, err := applyMappers(text, x.mappers)
		if err != nil {
			return outcome{}, err
		}
		o.value = v
	}
	return o, nil
}

// interpolate substitutes every top-level placeholder of s into a fresh buffer.
// A placeholder spanning all of s yields its raw value; otherwise values are spliced as text.
func (x *run) interpolate(s string, depth int, tf fieldTransformer) (outcome, error) {
	spans := scan(s)
	if len(spans) == 0 {
		return outcome{value: s}, nil
	}
	if len(spans) == 1 && spans[0].start == 0 && spans[0].end == len(s) {
		return x.placeholder(s, spans[0].inner(s), depth, tf)
	}

	var b strings.Builder
	b.Grow(len(s))
	unresolved := false
	last := 0
	for _, sp := range spans {
		b.WriteString(s[last:sp.start])
		o, err := x.placeholder(s[sp.start:sp.end], sp.inner(s), depth, tf)
		if err != nil {
			return outcome{}, err
		}
		unresolved = unresolved || o.unresolved
		b.WriteString(stringify(o.value))
		last = sp.end
	}
	b.WriteString(s[last:])

	return outcome{value: b.String(), unresolved: unresolved}, nil
}

// text resolves nested placeholders of a path or default segment into plain text.
// Nested placeholders build paths, so no transformer applies to them.
func (x *run) text(s string, depth int) (string, error) {
	o, err := x.interpolate(s, depth, nil)
	if err != nil {
		return "", err
	}
	return stringify(o.value), nil
}

// placeholder resolves one placeholder. raw is the full "{{...}}" text, inner its content.
func (x *run) placeholder(raw, inner string, depth int, tf fieldTransformer) (outcome, error) {
	if depth > x.r.opts.MaxDepth {
		return outcome{}, x.depthError()
	}

	expr := parseExpression(inner)
	if hasPlaceholder(expr.path) {
		path, err := x.text(expr.path, depth+1)
		if err != nil {
			return outcome{}, err
		}
		expr.path = strings.TrimSpace(path)
	}
	if expr.hasDefault && hasPlaceholder(expr.def) {
		def, err := x.text(expr.def, depth+1)
		if err != nil {
			return outcome{}, err
		}
		expr.def = def
	}

	value, found := lookup(expr.path, x.data)
	value, err := coerce(expr, value, found)
	if err != nil {
		return outcome{}, err
	}

	value, err = transform(tf, value, expr.path)
	if err != nil {
		return outcome{}, err
	}

	if IsUndefined(value) {
		x.r.logger.Debug("unresolved placeholder",
			"placeholder", raw,
			"path", expr.path,
			"ignore_undefined", x.ignore)
		return outcome{value: x.undefinedValue(raw), key: expr.path, unresolved: true}, nil
	}
	return outcome{value: value, key: expr.path}, nil
}

// undefinedValue applies the policy for an unresolved placeholder:
// keep the literal text, substitute the replacement, or omit.
func (x *run) undefinedValue(raw string) any {
	if x.ignore {
		return raw
	}
	if x.r.opts.ReplaceUndefinedWith != nil {
		return x.r.opts.ReplaceUndefinedWith
	}
	return omit
}

func (x *run) depthError() error {
	return fmt.Errorf("%w: limit is %d", ErrMaxDepth, x.r.opts.MaxDepth)
}
