// FILE: lixenwraith/resolver/options.go
package resolver

import (
	"log/slog"
)

// DefaultMaxDepth bounds template nesting plus placeholder nesting.
const DefaultMaxDepth = 128

// TransformFunc post-processes a resolved placeholder value.
// key is the placeholder path. Returning Undefined keeps the value unchanged.
// value is Undefined when the placeholder could not be resolved.
type TransformFunc func(value any, key string) any

// Fields names the keys that mark a map as a mapping descriptor
type Fields struct {
	// Mapping key holds the template string to resolve. Its presence alone tags the descriptor.
	Mapping string

	// Transformer key holds a function, or a string that resolves to one through mappers
	Transformer string
}

// DefaultFields returns the standard descriptor keys
func DefaultFields() Fields {
	return Fields{
		Mapping:     "_mapping",
		Transformer: "_transformer",
	}
}

// Options configures a Resolver. It is copied at construction.
type Options struct {
	// ReplaceUndefinedWith substitutes unresolved placeholders when set (nil = unset).
	// IgnoreUndefined takes precedence.
	ReplaceUndefinedWith any

	// IgnoreUndefined leaves unresolved placeholders in place for a later pass
	IgnoreUndefined bool

	// Transformer is the instance-level transformer (lowest precedence)
	Transformer TransformFunc

	// Fields names the mapping descriptor keys. Empty names fall back to DefaultFields.
	Fields Fields

	// Mappers post-process resolved strings, in order
	Mappers []Mapper

	// MaxDepth bounds recursion. Zero or negative uses DefaultMaxDepth.
	MaxDepth int

	// Logger receives debug records about unresolved placeholders. nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the standard resolver options
func DefaultOptions() Options {
	return Options{
		Fields:   DefaultFields(),
		MaxDepth: DefaultMaxDepth,
	}
}

// CallOption adjusts a single Resolve call without touching the Resolver
type CallOption func(*callOptions)

type callOptions struct {
	transformer     TransformFunc
	mappers         []Mapper
	ignoreUndefined *bool
}

// WithCallTransformer sets a transformer for one call. It takes precedence over the
// instance transformer and yields to a mapping descriptor's own transformer.
func WithCallTransformer(fn TransformFunc) CallOption {
	return func(o *callOptions) {
		o.transformer = fn
	}
}

// WithCallMappers adds mappers for one call. They run after the instance mappers.
func WithCallMappers(mappers ...Mapper) CallOption {
	return func(o *callOptions) {
		o.mappers = append(o.mappers, mappers...)
	}
}

// WithCallIgnoreUndefined overrides Options.IgnoreUndefined for one call
func WithCallIgnoreUndefined(ignore bool) CallOption {
	return func(o *callOptions) {
		o.ignoreUndefined = &ignore
	}
}
