// FILE: lixenwraith/resolver/errors.go
package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeCoercion is matched by every *TypeCoercionError.
	ErrTypeCoercion = errors.New("type coercion failed")

	// ErrMaxDepth is returned when template or placeholder nesting exceeds Options.MaxDepth.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")

	// ErrInvalidTransformer is returned when a mapping descriptor's transformer is not a usable function.
	ErrInvalidTransformer = errors.New("invalid transformer")

	// ErrInvalidMapper is returned for mappers without a pattern or handler.
	ErrInvalidMapper = errors.New("invalid mapper")

	errNullObject = errors.New("literal is null")
)

// TypeCoercionError reports a value or default that cannot be converted to the
// type named by a placeholder's type tag.
type TypeCoercionError struct {
	Path    string  // Placeholder path
	Literal string  // Textual form of the offending value
	Type    TypeTag // Requested type
	Err     error   // Underlying parse error, if any
}

func (e *TypeCoercionError) Error() string {
	msg := fmt.Sprintf("cannot coerce %q to %s for path %q", e.Literal, e.Type, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns ErrTypeCoercion so callers can use errors.Is.
func (e *TypeCoercionError) Unwrap() error {
	return ErrTypeCoercion
}
