// FILE: lixenwraith/resolver/source/doc.go

// Package source assembles resolution contexts and reads and writes template documents.
//
// A Context layers values from defaults, a document file (TOML, YAML or JSON), environment
// variables and command-line arguments. Data returns the merged nested map, with
// precedence taken from LoadOptions.Sources (CLI > Env > File > Default by default).
//
//	ctx := source.New()
//	ctx.SetDefault("server.port", 8080)
//	opts := source.DefaultLoadOptions()
//	opts.EnvPrefix = "APP_"
//	err := ctx.LoadWithOptions("context.yaml", os.Args[1:], opts)
//	data := ctx.Data()
//
// Discover locates a context document when no path is given. Watcher polls files and
// notifies subscribers so callers can re-resolve on change.
package source
