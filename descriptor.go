// FILE: lixenwraith/resolver/descriptor.go
package resolver

// descriptor expands a mapping descriptor into a computed value.
// The mapping is resolved through the string pipeline; the descriptor's transformer,
// when present, is the only transformer applied to it.
func (x *run) descriptor(d map[string]any, depth int) (any, error) {
	fields := x.r.opts.Fields

	ref, hasRef := d[fields.Transformer]
	if s, ok := ref.(string); ok {
		o, err := x.str(s, depth+1, nil)
		if err != nil {
			return nil, err
		}
		ref = o.value
	}

	fn, err := descriptorTransformer(ref)
	if err != nil {
		if s, ok := ref.(string); ok && x.ignore && hasPlaceholder(s) {
			return x.deferred(d, ref, hasRef), nil
		}
		return nil, err
	}

	tf := x.transformer
	if fn != nil {
		tf = nil
	}

	var o outcome
	mapping := d[fields.Mapping]
	if s, ok := mapping.(string); ok {
		o, err = x.str(s, depth+1, tf)
		if err != nil {
			return nil, err
		}
		if o.key == "" {
			o.key = s
		}
	} else {
		v, err := x.node(mapping, depth+1)
		if err != nil {
			return nil, err
		}
		o.value = v
	}

	if o.unresolved && x.ignore {
		x.r.logger.Debug("deferring mapping descriptor", "mapping", mapping)
		return x.deferred(d, ref, hasRef), nil
	}
	if isOmitted(o.value) {
		return omit, nil
	}

	return transform(fn, o.value, o.key)
}

// deferred rebuilds a descriptor for a later pass. The mapping keeps its original text;
// the transformer reference keeps whatever it resolved to, typically a function.
func (x *run) deferred(d map[string]any, ref any, hasRef bool) map[string]any {
	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = v
	}
	if hasRef && !isOmitted(ref) {
		out[x.r.opts.Fields.Transformer] = ref
	}
	return out
}
