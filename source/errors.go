// FILE: lixenwraith/resolver/source/errors.go
package source

import "errors"

// MaxValueSize bounds a single env or CLI value
const MaxValueSize = 1024 * 1024

var (
	// ErrNotFound is returned when a document file does not exist
	ErrNotFound = errors.New("document file not found")

	// ErrCLIParse wraps command-line parsing failures
	ErrCLIParse = errors.New("failed to parse command-line arguments")

	// ErrValueSize is returned when an env or CLI value exceeds MaxValueSize
	ErrValueSize = errors.New("value size exceeds maximum")

	// ErrFormat is returned for unknown or undetectable document formats
	ErrFormat = errors.New("unsupported document format")
)
