// FILE: lixenwraith/resolver/path.go
package resolver

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// lookup resolves a placeholder path against the context without modifying it.
// Paths starting with "$" are JSONPath expressions; the first match wins.
// Other paths are dot-separated keys, where non-negative integer segments index sequences.
func lookup(path string, data any) (any, bool) {
	if path == "" {
		return nil, false
	}
	if strings.HasPrefix(path, "$") {
		return lookupJSONPath(path, data)
	}

	current := data
	for _, segment := range strings.Split(path, ".") {
		next, ok := child(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// lookupJSONPath evaluates a JSONPath expression. Invalid expressions are unresolved.
func lookupJSONPath(path string, data any) (any, bool) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, false
	}
	results := expr.Get(data)
	if len(results) == 0 {
		return nil, false
	}
	return results[0], true
}

// child steps one segment into a container
func child(current any, segment string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		v, ok := c[segment]
		return v, ok
	case []any:
		idx, ok := parseIndex(segment)
		if !ok || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	}

	rv := reflect.ValueOf(current)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(segment).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true

	case reflect.Slice, reflect.Array:
		idx, ok := parseIndex(segment)
		if !ok || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true

	case reflect.Struct:
		return structField(rv, segment)
	}

	return nil, false
}

// structField matches an exported field by json tag, then by name
func structField(rv reflect.Value, segment string) (any, bool) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == segment || (name == "" && field.Name == segment) {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}

// parseIndex accepts non-negative decimal integers only
func parseIndex(segment string) (int, bool) {
	if segment == "" || segment[0] < '0' || segment[0] > '9' {
		return 0, false
	}
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
