// FILE: lixenwraith/resolver/type.go
package resolver

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// undefined marks the absence of a value
type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined is passed to transformers for unresolved placeholders.
// A transformer returns it to keep the value it was given.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined sentinel
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// omitted is the internal signal that drops a key from the enclosing map
type omitted struct{}

var omit any = omitted{}

func isOmitted(v any) bool {
	_, ok := v.(omitted)
	return ok
}

// stringify returns the natural textual form of a value for splicing into text.
// Composite values are rendered as JSON.
func stringify(val any) string {
	switch v := val.(type) {
	case nil:
		return "null"
	case undefined, omitted:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	case bool:
		return strconv.FormatBool(v)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Func, reflect.Chan:
		return fmt.Sprintf("%v", val)
	}

	if b, err := json.Marshal(val); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", val)
}
