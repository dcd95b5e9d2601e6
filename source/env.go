// FILE: lixenwraith/resolver/source/env.go
package source

import (
	"os"
	"strings"
)

// loadEnv loads the env layer. With a whitelist only those paths are looked up;
// otherwise every variable under EnvPrefix is mapped to a path.
// Without either, the environment is not read.
func (c *Context) loadEnv(opts LoadOptions) error {
	var found map[string]any
	var err error

	switch {
	case opts.EnvWhitelist != nil:
		found, err = envFromWhitelist(opts)
	case opts.EnvPrefix != "":
		found, err = envFromPrefix(opts.EnvPrefix)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.layers[SourceEnv] = found
	return nil
}

// envFromWhitelist looks up each whitelisted path through the env transform
func envFromWhitelist(opts LoadOptions) (map[string]any, error) {
	transform := opts.EnvTransform
	if transform == nil {
		transform = defaultEnvTransform(opts.EnvPrefix)
	}

	found := make(map[string]any)
	for path, enabled := range opts.EnvWhitelist {
		if !enabled {
			continue
		}
		if value, exists := os.LookupEnv(transform(path)); exists {
			if len(value) > MaxValueSize {
				return nil, ErrValueSize
			}
			// Stored raw; type tags and Scan handle conversion
			found[path] = value
		}
	}
	return found, nil
}

// envFromPrefix maps PREFIX_SERVER_HOST to "server.host"
func envFromPrefix(prefix string) (map[string]any, error) {
	found := make(map[string]any)
	for _, entry := range os.Environ() {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}

		path := envPath(strings.TrimPrefix(name, prefix))
		if path == "" || !validatePath(path) {
			continue
		}
		if len(value) > MaxValueSize {
			return nil, ErrValueSize
		}
		found[path] = value
	}
	return found, nil
}

// envPath converts a variable name suffix to a lower-case dot path
func envPath(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.Trim(name, "_"), "_", "."))
}

// defaultEnvTransform creates the default environment variable transformer
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(path string) string {
		env := strings.ReplaceAll(path, ".", "_")
		env = strings.ToUpper(env)
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}
