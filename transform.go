// FILE: lixenwraith/resolver/transform.go
package resolver

import (
	"fmt"
	"reflect"
)

// fieldTransformer is the normalized form of every supported transformer signature
type fieldTransformer func(value any, key string) (any, error)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// asTransformer adapts the function shapes accepted in a mapping descriptor.
// Besides the listed signatures, any func(T) R, func(T, string) R, func(T) (R, error) or
// func(T, string) (R, error) is called through reflection.
func asTransformer(v any) (fieldTransformer, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, false
	}

	switch fn := v.(type) {
	case TransformFunc:
		return func(value any, key string) (any, error) { return fn(value, key), nil }, true
	case func(any, string) any:
		return func(value any, key string) (any, error) { return fn(value, key), nil }, true
	case func(any) any:
		return func(value any, _ string) (any, error) { return fn(value), nil }, true
	case func(any, string) (any, error):
		return fn, true
	case func(any) (any, error):
		return func(value any, _ string) (any, error) { return fn(value) }, true
	case fieldTransformer:
		return fn, true
	}

	return reflectTransformer(rv)
}

// reflectTransformer wraps typed single-value functions such as strings.ToUpper
func reflectTransformer(rv reflect.Value) (fieldTransformer, bool) {
	t := rv.Type()
	if t.IsVariadic() || t.NumIn() < 1 || t.NumIn() > 2 || t.NumOut() < 1 || t.NumOut() > 2 {
		return nil, false
	}
	if t.NumIn() == 2 && t.In(1).Kind() != reflect.String {
		return nil, false
	}
	if t.NumOut() == 2 && t.Out(1) != errorType {
		return nil, false
	}

	in := t.In(0)
	return func(value any, key string) (any, error) {
		arg := reflect.ValueOf(value)
		switch {
		case value == nil && canBeNil(in):
			arg = reflect.Zero(in)
		case arg.IsValid() && arg.Type().AssignableTo(in):
		case arg.IsValid() && arg.Type().ConvertibleTo(in) && arg.Kind() == in.Kind():
			arg = arg.Convert(in)
		default:
			// The function cannot accept this value; leave it untouched
			return Undefined, nil
		}

		args := []reflect.Value{arg}
		if t.NumIn() == 2 {
			args = append(args, reflect.ValueOf(key).Convert(t.In(1)))
		}

		out := rv.Call(args)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}, true
}

func canBeNil(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Map, reflect.Slice, reflect.Pointer, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// transform applies fn and keeps the original value when fn declines with Undefined
func transform(fn fieldTransformer, value any, key string) (any, error) {
	if fn == nil {
		return value, nil
	}
	out, err := fn(value, key)
	if err != nil {
		return nil, err
	}
	if IsUndefined(out) {
		return value, nil
	}
	return out, nil
}

// chain picks the single transformer for a placeholder: call level first, then instance level.
// A mapping descriptor's own transformer bypasses the chain entirely.
func chain(call, instance TransformFunc) fieldTransformer {
	for _, fn := range []TransformFunc{call, instance} {
		if fn != nil {
			return func(value any, key string) (any, error) { return fn(value, key), nil }
		}
	}
	return nil
}

// descriptorTransformer turns a resolved transformer reference into a function.
// nil and Undefined mean no transformer.
func descriptorTransformer(ref any) (fieldTransformer, error) {
	if ref == nil || IsUndefined(ref) || isOmitted(ref) {
		return nil, nil
	}
	if fn, ok := asTransformer(ref); ok {
		return fn, nil
	}
	return nil, fmt.Errorf("%w: %T is not a supported function", ErrInvalidTransformer, ref)
}
