// FILE: lixenwraith/resolver/source/context.go
package source

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// Source represents a context source, used to define load precedence
type Source string

const (
	// SourceDefault represents values set with SetDefault
	SourceDefault Source = "default"
	// SourceFile represents values loaded from a document file
	SourceFile Source = "file"
	// SourceEnv represents values loaded from environment variables
	SourceEnv Source = "env"
	// SourceCLI represents values loaded from command-line arguments
	SourceCLI Source = "cli"
)

// EnvTransformFunc converts a context path to an environment variable name
type EnvTransformFunc func(path string) string

// LoadOptions configures how the context is assembled from multiple sources
type LoadOptions struct {
	// Sources defines the precedence order (first = highest priority)
	// Default: [SourceCLI, SourceEnv, SourceFile, SourceDefault]
	Sources []Source

	// EnvPrefix selects environment variables by name prefix
	// Example: "APP_" maps APP_SERVER_HOST to "server.host"
	EnvPrefix string

	// EnvTransform customizes how whitelisted paths map to environment variables
	// If nil, uses default transformation (dots to underscores, uppercase, prefixed)
	EnvTransform EnvTransformFunc

	// EnvWhitelist limits env lookup to these paths (nil = every variable under EnvPrefix)
	EnvWhitelist map[string]bool

	// FileFormat forces the file format; empty or "auto" detects it
	FileFormat string
}

// DefaultLoadOptions returns the standard load options
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Sources:    []Source{SourceCLI, SourceEnv, SourceFile, SourceDefault},
		FileFormat: FormatAuto,
	}
}

// Context assembles a data context from layered sources.
// Each source holds flat dot-path values; Data merges them by precedence.
type Context struct {
	layers   map[Source]map[string]any
	options  LoadOptions
	filePath string
	args     []string
	mutex    sync.RWMutex
}

// New creates an empty Context with DefaultLoadOptions
func New() *Context {
	return &Context{
		layers:  make(map[Source]map[string]any),
		options: DefaultLoadOptions(),
	}
}

// SetDefault sets a default value for a dot-separated path
func (c *Context) SetDefault(path string, value any) error {
	return c.Set(SourceDefault, path, value)
}

// SetDefaults sets default values from a nested map
func (c *Context) SetDefaults(values map[string]any) error {
	for path, value := range flattenMap(values, "") {
		if err := c.SetDefault(path, value); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaultsFromStruct sets default values from a struct, keyed by json tags
func (c *Context) SetDefaultsFromStruct(defaults any) error {
	v := reflect.ValueOf(defaults)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("SetDefaultsFromStruct requires a struct, got %T", defaults)
	}

	values, err := structToMap(v.Interface())
	if err != nil {
		return fmt.Errorf("failed to decode defaults: %w", err)
	}
	return c.SetDefaults(values)
}

// Set stores a value for one source
func (c *Context) Set(source Source, path string, value any) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if !validatePath(path) {
		return fmt.Errorf("invalid path %q", path)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	layer := c.layers[source]
	if layer == nil {
		layer = make(map[string]any)
		c.layers[source] = layer
	}
	layer[path] = value
	return nil
}

// LoadWithOptions loads the context from a file, environment and arguments.
// A missing file is reported but does not stop the other sources from loading.
func (c *Context) LoadWithOptions(filePath string, args []string, opts LoadOptions) error {
	if opts.FileFormat != "" && !ValidFormat(opts.FileFormat) {
		return fmt.Errorf("%w: %q", ErrFormat, opts.FileFormat)
	}

	c.mutex.Lock()
	c.options = opts
	c.filePath = filePath
	c.args = args
	c.mutex.Unlock()

	var loadErrors []error

	// Process each source according to precedence (in reverse order for proper layering)
	for i := len(opts.Sources) - 1; i >= 0; i-- {
		switch opts.Sources[i] {
		case SourceDefault:
			// Defaults are already in place from SetDefault calls
			continue

		case SourceFile:
			if filePath != "" {
				if err := c.loadFile(filePath, opts.FileFormat); err != nil {
					if errors.Is(err, ErrNotFound) {
						loadErrors = append(loadErrors, err)
					} else {
						return err // Fatal error
					}
				}
			}

		case SourceEnv:
			if err := c.loadEnv(opts); err != nil {
				loadErrors = append(loadErrors, err)
			}

		case SourceCLI:
			if len(args) > 0 {
				if err := c.loadCLI(args); err != nil {
					loadErrors = append(loadErrors, err)
				}
			}
		}
	}

	return errors.Join(loadErrors...)
}

// Reload repeats the last LoadWithOptions call
func (c *Context) Reload() error {
	c.mutex.RLock()
	filePath, args, opts := c.filePath, c.args, c.options
	c.mutex.RUnlock()

	return c.LoadWithOptions(filePath, args, opts)
}

// FilePath returns the file of the last load, if any
func (c *Context) FilePath() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.filePath
}

// loadFile reads a document file into the file layer.
// The document must be an object.
func (c *Context) loadFile(path, format string) error {
	doc, err := ReadDocumentFormat(path, format)
	if err != nil {
		return err
	}
	nested, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("context file '%s' must hold an object, got %T", path, doc)
	}

	flat := flattenMap(nested, "")

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.layers[SourceFile] = flat
	return nil
}

// Get returns the merged value at a dot-separated path
func (c *Context) Get(path string) (any, bool) {
	return navigateToPath(c.Data(), path)
}

// GetSource returns the value a single source holds for a path
func (c *Context) GetSource(source Source, path string) (any, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	v, ok := c.layers[source][path]
	return v, ok
}

// Sources lists the paths each source currently provides, sorted
func (c *Context) Sources() map[Source][]string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make(map[Source][]string, len(c.layers))
	for source, layer := range c.layers {
		paths := make([]string, 0, len(layer))
		for path := range layer {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		result[source] = paths
	}
	return result
}

// Data returns a nested snapshot of the merged context, ready to hand to a resolver.
// Sources missing from LoadOptions.Sources are left out.
func (c *Context) Data() map[string]any {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	nested := make(map[string]any)
	sources := c.options.Sources
	for i := len(sources) - 1; i >= 0; i-- {
		layer := c.layers[sources[i]]
		paths := make([]string, 0, len(layer))
		for path := range layer {
			paths = append(paths, path)
		}
		// Parents before children so a deeper path extends rather than replaces
		sort.Slice(paths, func(a, b int) bool {
			return strings.Count(paths[a], ".") < strings.Count(paths[b], ".")
		})
		for _, path := range paths {
			setNestedValue(nested, path, cloneValue(layer[path]))
		}
	}
	return nested
}

// structToMap decodes a struct into a nested map keyed by json tags
func structToMap(v any) (map[string]any, error) {
	values := make(map[string]any)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &values,
		TagName: "json",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(v); err != nil {
		return nil, err
	}

	// Nested structs behind pointers may survive the decode
	for key, value := range values {
		rv := reflect.ValueOf(value)
		for rv.Kind() == reflect.Ptr && !rv.IsNil() {
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			continue
		}
		nested, err := structToMap(rv.Interface())
		if err != nil {
			return nil, err
		}
		values[key] = nested
	}
	return values, nil
}
