// FILE: lixenwraith/resolver/source/cli.go
package source

import (
	"fmt"
	"strings"
)

// loadCLI loads the cli layer from command-line arguments
func (c *Context) loadCLI(args []string) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCLIParse, err)
	}

	flat := flattenMap(parsed, "")

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.layers[SourceCLI] = flat
	return nil
}

// ParseAssignments parses "a.b=value" pairs into a nested map
func ParseAssignments(pairs []string) (map[string]any, error) {
	args := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		if !strings.Contains(pair, "=") {
			return nil, fmt.Errorf("%w: assignment %q is missing '='", ErrCLIParse, pair)
		}
		args = append(args, "--"+pair)
	}
	parsed, err := parseArgs(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCLIParse, err)
	}
	return parsed, nil
}

// parseArgs processes command-line arguments into a nested map structure.
func parseArgs(args []string) (map[string]any, error) {
	result := make(map[string]any)
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			// Skip non-flag arguments
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// Skip "--" argument if used as a separator
			i++
			continue
		}

		var keyPath string
		var valueStr string

		// Check for "--key=value" format
		if k, v, ok := strings.Cut(argContent, "="); ok {
			keyPath = k
			valueStr = v
			i++
		} else {
			// Handle "--key value" or "--booleanflag"
			keyPath = argContent
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if keyPath == "" {
			// Skip invalid flags like --=value
			continue
		}

		for _, segment := range strings.Split(keyPath, ".") {
			if !isValidKeySegment(segment) {
				return nil, fmt.Errorf("invalid command-line key segment %q in path %q", segment, keyPath)
			}
		}
		if len(valueStr) > MaxValueSize {
			return nil, ErrValueSize
		}

		// Always store as a string; type tags handle conversion
		setNestedValue(result, keyPath, valueStr)
	}

	return result, nil
}
