// FILE: lixenwraith/resolver/coerce.go
package resolver

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// TypeTag is the optional third segment of a placeholder
type TypeTag string

const (
	TypeNone    TypeTag = ""
	TypeNumber  TypeTag = "number"
	TypeString  TypeTag = "string"
	TypeBoolean TypeTag = "boolean"
	TypeArray   TypeTag = "array"
	TypeObject  TypeTag = "object"
	TypeNull    TypeTag = "null"
)

// parseTypeTag recognizes a type segment
func parseTypeTag(s string) (TypeTag, bool) {
	switch t := TypeTag(strings.TrimSpace(s)); t {
	case TypeNumber, TypeString, TypeBoolean, TypeArray, TypeObject, TypeNull:
		return t, true
	}
	return TypeNone, false
}

// expression is the parsed inner text of a placeholder: path|default|type
type expression struct {
	path       string
	def        string
	hasDefault bool
	typ        TypeTag
}

// parseExpression splits placeholder inner text on top-level pipes.
// Two segments are always path and default. With three or more, the last one is a
// type tag only if it names a known type; otherwise everything after the path is the default.
// An empty default segment means no default.
func parseExpression(inner string) expression {
	parts := splitTopLevel(inner, '|')
	expr := expression{path: strings.TrimSpace(parts[0])}
	if len(parts) == 1 {
		return expr
	}

	rest := parts[1:]
	if len(rest) >= 2 {
		if t, ok := parseTypeTag(rest[len(rest)-1]); ok {
			expr.typ = t
			rest = rest[:len(rest)-1]
		}
	}

	if def := strings.Join(rest, "|"); def != "" {
		expr.def = def
		expr.hasDefault = true
	}
	return expr
}

// coerce applies the default and type tag of expr to a lookup result.
// It returns Undefined when neither a value nor a default exists, unless the tag is null.
func coerce(expr expression, value any, found bool) (any, error) {
	if !found {
		switch {
		case expr.hasDefault:
			value = expr.def
		case expr.typ == TypeNull:
			return nil, nil
		default:
			return Undefined, nil
		}
	}

	switch expr.typ {
	case TypeNumber:
		return toNumber(expr.path, value)
	case TypeString:
		return stringify(value), nil
	case TypeBoolean:
		return toBoolean(value), nil
	case TypeArray:
		return toArray(expr.path, value)
	case TypeObject:
		return toObject(expr.path, value)
	default:
		// TypeNone and TypeNull keep the value; null never clears a present value
		return value, nil
	}
}

// toNumber keeps numeric kinds and weakly decodes everything else into float64
func toNumber(path string, value any) (any, error) {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return value, nil
	}

	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}

	var f float64
	if err := mapstructure.WeakDecode(value, &f); err != nil {
		return nil, &TypeCoercionError{Path: path, Literal: stringify(value), Type: TypeNumber, Err: err}
	}
	return f, nil
}

// toBoolean passes booleans through; anything else is true only when its text is "true"
func toBoolean(value any) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	return stringify(value) == "true"
}

// toArray passes slices and arrays through and parses anything else as a JSON array
func toArray(path string, value any) (any, error) {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return value, nil
	}

	literal := stringify(value)
	var arr []any
	if err := json.Unmarshal([]byte(literal), &arr); err != nil {
		return nil, &TypeCoercionError{Path: path, Literal: literal, Type: TypeArray, Err: err}
	}
	return arr, nil
}

// toObject passes maps and structs through and parses anything else as a JSON object
func toObject(path string, value any) (any, error) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		return value, nil
	}

	literal := stringify(value)
	var obj map[string]any
	if err := json.Unmarshal([]byte(literal), &obj); err != nil || obj == nil {
		if err == nil {
			err = errNullObject
		}
		return nil, &TypeCoercionError{Path: path, Literal: literal, Type: TypeObject, Err: err}
	}
	return obj, nil
}
