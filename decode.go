// FILE: lixenwraith/resolver/decode.go
package resolver

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes a resolved document into target, which must be a non-nil pointer.
// Field names come from json tags; strings are weakly converted to the field types,
// including durations, RFC3339 times, IPs, CIDRs, URLs and comma-separated slices.
func Scan(resolved, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       DecodeHook(),
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(resolved); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	return nil
}

// ResolveInto resolves template against data and decodes the result into target
func (r *Resolver) ResolveInto(template, data, target any, opts ...CallOption) error {
	resolved, err := r.Resolve(template, data, opts...)
	if err != nil {
		return err
	}
	return Scan(resolved, target)
}

// DecodeHook returns the composite decode hook used by Scan
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		undefinedHookFunc(),
		textHookFunc(),

		// Standard hooks
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// undefinedHookFunc decodes Undefined as the zero value
func undefinedHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if !IsUndefined(data) {
			return data, nil
		}
		return reflect.Zero(t).Interface(), nil
	}
}

// textParsers build values of types that have a textual form. A parser may return
// either the type or a pointer to it.
var textParsers = map[reflect.Type]func(string) (any, error){
	reflect.TypeFor[net.IP](): func(s string) (any, error) {
		ip := net.ParseIP(s)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address")
		}
		return ip, nil
	},
	reflect.TypeFor[net.IPNet](): func(s string) (any, error) {
		_, ipnet, err := net.ParseCIDR(s)
		return ipnet, err
	},
	reflect.TypeFor[url.URL](): func(s string) (any, error) {
		return url.Parse(s)
	},
}

// textHookFunc decodes placeholder output into the types of textParsers, as values or
// pointers. Spliced text is trimmed; blank text (an unresolved embedded placeholder)
// decodes as the zero value of the element type.
func textHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		var text string
		switch v := data.(type) {
		case string:
			text = v
		case json.Number:
			text = v.String()
		default:
			return data, nil
		}

		target := t
		if t.Kind() == reflect.Pointer {
			target = t.Elem()
		}
		parse, ok := textParsers[target]
		if !ok {
			return data, nil
		}

		text = strings.TrimSpace(text)
		if text == "" {
			return reflect.Zero(t).Interface(), nil
		}
		v, err := parse(text)
		if err != nil {
			return nil, fmt.Errorf("cannot decode %q as %s: %w", text, target, err)
		}

		rv := reflect.ValueOf(v)
		switch {
		case rv.Type() == t:
			return v, nil
		case rv.Type() == target:
			p := reflect.New(target)
			p.Elem().Set(rv)
			return p.Interface(), nil
		default:
			return rv.Elem().Interface(), nil
		}
	}
}
