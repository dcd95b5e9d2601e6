// FILE: lixenwraith/resolver/builder.go
package resolver

import (
	"fmt"
	"log/slog"
)

// Builder provides a fluent interface for building resolvers
type Builder struct {
	opts Options
	err  error
}

// NewBuilder creates a resolver builder with DefaultOptions
func NewBuilder() *Builder {
	return &Builder{
		opts: DefaultOptions(),
	}
}

// WithTransformer sets the instance-level transformer
func (b *Builder) WithTransformer(fn TransformFunc) *Builder {
	b.opts.Transformer = fn
	return b
}

// WithMappers appends mappers, applied in the order they are added
func (b *Builder) WithMappers(mappers ...Mapper) *Builder {
	b.opts.Mappers = append(b.opts.Mappers, mappers...)
	return b
}

// WithMapper compiles expr and appends it as a mapper.
// A compile error is reported by Build.
func (b *Builder) WithMapper(expr string, fn MapperFunc) *Builder {
	m, err := NewMapper(expr, fn)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.opts.Mappers = append(b.opts.Mappers, m)
	return b
}

// WithFields sets the mapping descriptor key names
func (b *Builder) WithFields(mapping, transformer string) *Builder {
	b.opts.Fields = Fields{Mapping: mapping, Transformer: transformer}
	return b
}

// WithIgnoreUndefined keeps unresolved placeholders in place for a later pass
func (b *Builder) WithIgnoreUndefined(ignore bool) *Builder {
	b.opts.IgnoreUndefined = ignore
	return b
}

// WithReplaceUndefined substitutes v for unresolved placeholders
func (b *Builder) WithReplaceUndefined(v any) *Builder {
	b.opts.ReplaceUndefinedWith = v
	return b
}

// WithMaxDepth bounds template and placeholder nesting
func (b *Builder) WithMaxDepth(depth int) *Builder {
	if depth <= 0 {
		if b.err == nil {
			b.err = fmt.Errorf("max depth must be positive, got %d", depth)
		}
		return b
	}
	b.opts.MaxDepth = depth
	return b
}

// WithLogger sets the logger for debug records
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.opts.Logger = logger
	return b
}

// Build creates the Resolver with all specified options
func (b *Builder) Build() (*Resolver, error) {
	if b.err != nil {
		return nil, b.err
	}
	r, err := New(b.opts)
	if err != nil {
		return nil, fmt.Errorf("resolver build failed: %w", err)
	}
	return r, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Resolver {
	r, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("resolver build failed: %v", err))
	}
	return r
}
