// FILE: lixenwraith/resolver/source/document.go
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Supported document formats
const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ValidFormat reports whether format names a supported document format
func ValidFormat(format string) bool {
	switch format {
	case FormatAuto, FormatJSON, FormatYAML, FormatTOML:
		return true
	}
	return false
}

// ReadDocument reads a template or context document of any supported format.
// The format is taken from the extension, then detected from content.
func ReadDocument(path string) (any, error) {
	return ReadDocumentFormat(path, FormatAuto)
}

// ReadDocumentFormat reads a document with an explicit format, or FormatAuto
func ReadDocumentFormat(path, format string) (any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if format == "" || format == FormatAuto {
		format = detectFileFormat(path)
		if format == "" {
			format = detectFormatFromContent(data)
		}
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document '%s': %w", path, err)
	}
	return doc, nil
}

// readFile reads a whole file, mapping a missing file to ErrNotFound
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read document file '%s': %w", path, err)
	}
	return data, nil
}

// Decode parses data in the given format. JSON numbers are kept as json.Number.
func Decode(data []byte, format string) (any, error) {
	switch format {
	case FormatTOML:
		doc := make(map[string]any)
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
		return doc, nil
	case FormatJSON:
		var doc any
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return doc, nil
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		return doc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrFormat, format)
}

// Encode renders a document in the given format.
// TOML requires a map at the top level.
func Encode(doc any, format string) ([]byte, error) {
	switch format {
	case FormatJSON, FormatAuto, "":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		if _, ok := doc.(map[string]any); !ok {
			return nil, fmt.Errorf("%w: TOML output requires an object, got %T", ErrFormat, doc)
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrFormat, format)
}

// WriteDocument encodes doc and writes it to path atomically.
// FormatAuto picks the format from the extension, falling back to JSON.
func WriteDocument(path string, doc any, format string) error {
	if format == "" || format == FormatAuto {
		format = detectFileFormat(path)
	}
	data, err := Encode(doc, format)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, data)
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return FormatJSON
	}

	// TOML before YAML: most TOML documents are not valid YAML, but YAML accepts nearly anything
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}

	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return FormatYAML
	}

	return ""
}
