// FILE: lixenwraith/resolver/doc.go

// Package resolver resolves nested template documents against a data context.
//
// A template is any tree of maps, slices, strings, primitives and function values.
// Strings may embed placeholders of the form
//
//	{{path|default|type}}
//
// which are looked up in the context, optionally defaulted and coerced to one of
// number, string, boolean, array, object or null. Placeholders may nest:
//
//	{{array.{{index.value}}}}
//
// Features:
//   - Dot paths with numeric indices ("email.0.id") and $-prefixed JSONPath ("$.email[0].id")
//   - Defaults and type tags per placeholder
//   - Instance, per-call and per-field transformers with fixed precedence
//   - Mapping descriptors ({"_mapping": "{{path}}", "_transformer": fn}) for computed fields
//   - Mappers: (pattern, handler) pairs that post-process resolved strings, for custom syntaxes
//   - Deferred resolution: IgnoreUndefined keeps unresolved placeholders for a later pass
//   - Termination guarantee: resolved values are never rescanned and nesting depth is bounded
//
// Quick Start:
//
//	template := map[string]any{
//	    "method": "post",
//	    "data": map[string]any{
//	        "userid":   "{{email.0.email}}",
//	        "app_name": "{{appName}}",
//	    },
//	}
//
//	r := resolver.NewBuilder().
//	    WithIgnoreUndefined(true).
//	    MustBuild()
//
//	out, err := r.Resolve(template, data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Resolved documents can be decoded into structs with Scan or ResolveInto.
//
// Thread Safety:
// A Resolver is immutable after construction. Resolve never mutates the template or the
// context and always builds fresh containers, so a single Resolver can be shared freely.
package resolver
