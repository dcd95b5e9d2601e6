// FILE: lixenwraith/resolver/cmd/resolve/formula.go
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"go.starlark.net/starlark"

	"github.com/lixenwraith/resolver"
)

// formulaPattern matches [[expression]] markers left in resolved strings
const formulaPattern = `\[\[\s*(.+?)\s*\]\]`

// namedTransformers are referenced from mapping descriptors as "[[name]]"
var namedTransformers = map[string]resolver.TransformFunc{
	"json": func(value any, _ string) any {
		if resolver.IsUndefined(value) {
			return resolver.Undefined
		}
		data, err := json.Marshal(value)
		if err != nil {
			return resolver.Undefined
		}
		return string(data)
	},
	"upper": func(value any, _ string) any {
		if s, ok := value.(string); ok {
			return strings.ToUpper(s)
		}
		return resolver.Undefined
	},
	"lower": func(value any, _ string) any {
		if s, ok := value.(string); ok {
			return strings.ToLower(s)
		}
		return resolver.Undefined
	},
}

// newFormulaMapper evaluates [[expression]] markers as Starlark expressions.
// A marker that does not evaluate is left in the output as written.
// Top-level context keys that are valid identifiers are predeclared; a bare transformer
// name yields the transformer function for use in mapping descriptors.
func newFormulaMapper(data map[string]any) (resolver.Mapper, error) {
	predeclared := make(starlark.StringDict, len(data))
	for key, value := range data {
		if !isIdentifier(key) {
			continue
		}
		v, err := toStarlark(value)
		if err != nil {
			return resolver.Mapper{}, fmt.Errorf("context key %q: %w", key, err)
		}
		predeclared[key] = v
	}
	predeclared.Freeze()

	return resolver.NewMapper(formulaPattern, func(match string, groups ...string) (any, error) {
		expr := groups[0]
		if fn, ok := namedTransformers[expr]; ok {
			return fn, nil
		}

		thread := &starlark.Thread{Name: "resolve"}
		val, err := starlark.Eval(thread, "<formula>", expr, predeclared)
		if err != nil {
			slog.Debug("formula not evaluated", "formula", match, "error", err)
			return match, nil
		}
		return fromStarlark(val), nil
	})
}

// toStarlark converts context data to Starlark values
func toStarlark(value any) (starlark.Value, error) {
	switch v := value.(type) {
	case nil:
		return starlark.None, nil
	case bool:
		return starlark.Bool(v), nil
	case string:
		return starlark.String(v), nil
	case int:
		return starlark.MakeInt(v), nil
	case int64:
		return starlark.MakeInt64(v), nil
	case float64:
		return starlark.Float(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return starlark.MakeInt64(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return starlark.Float(f), nil
	case []any:
		items := make([]starlark.Value, 0, len(v))
		for _, elem := range v {
			sv, err := toStarlark(elem)
			if err != nil {
				return nil, err
			}
			items = append(items, sv)
		}
		return starlark.NewList(items), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		dict := starlark.NewDict(len(v))
		for _, k := range keys {
			sv, err := toStarlark(v[k])
			if err != nil {
				return nil, err
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, err
			}
		}
		return dict, nil
	}
	// Remaining scalars are exposed as text
	return starlark.String(fmt.Sprint(value)), nil
}

// fromStarlark converts an evaluation result back to plain Go values
func fromStarlark(val starlark.Value) any {
	switch v := val.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(v)
	case starlark.String:
		return string(v)
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i
		}
		return v.String()
	case starlark.Float:
		return float64(v)
	case *starlark.List:
		items := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			items[i] = fromStarlark(v.Index(i))
		}
		return items
	case starlark.Tuple:
		items := make([]any, len(v))
		for i, elem := range v {
			items[i] = fromStarlark(elem)
		}
		return items
	case *starlark.Dict:
		dict := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			if keyStr, ok := item[0].(starlark.String); ok {
				dict[string(keyStr)] = fromStarlark(item[1])
			} else {
				dict[item[0].String()] = fromStarlark(item[1])
			}
		}
		return dict
	}
	return val.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !(isDigit && i > 0) {
			return false
		}
	}
	return true
}
