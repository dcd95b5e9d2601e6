// FILE: lixenwraith/resolver/cmd/resolve/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/resolver"
	"github.com/lixenwraith/resolver/source"
)

var (
	templatePath     string
	dataPath         string
	envPrefix        string
	assignments      []string
	ignoreUndefined  bool
	replaceUndefined string
	formulas         bool
	outputFormat     string
	outPath          string
	watch            bool
	verbose          bool
)

var rootCmd = cobra.Command{
	Use:   "resolve",
	Short: "Resolve {{placeholder}} templates against layered data",
	Long: `Resolve reads a JSON, YAML or TOML template and replaces every {{path}} placeholder
with values from a context assembled from a data file, environment variables and --set
assignments (highest precedence first: --set, env, file).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		if !source.ValidFormat(outputFormat) {
			return fmt.Errorf("%w: %q", source.ErrFormat, outputFormat)
		}

		if dataPath == "" {
			if path, ok := source.Discover(source.DefaultDiscoveryOptions("resolve")); ok {
				slog.Debug("context document discovered", "path", path)
				dataPath = path
			}
		}

		opts := []resolver.CallOption{}
		b := resolver.NewBuilder().
			WithIgnoreUndefined(ignoreUndefined).
			WithLogger(slog.Default())
		if cmd.Flags().Changed("replace-undefined") {
			b = b.WithReplaceUndefined(replaceUndefined)
		}
		r, err := b.Build()
		if err != nil {
			return err
		}

		if !watch {
			return render(r, opts)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchAndRender(ctx, r, opts)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&templatePath, "template", "t", "", "Template document (json, yaml or toml)")
	rootCmd.Flags().StringVarP(&dataPath, "data", "d", "", "Context data document (default: discovered resolve.{json,yaml,yml,toml} or $RESOLVE_DATA)")
	rootCmd.Flags().StringVar(&envPrefix, "env-prefix", "", "Read environment variables under PREFIX into the context (APP_SERVER_HOST -> server.host)")
	rootCmd.Flags().StringArrayVar(&assignments, "set", []string{}, "Set a context value as PATH=VALUE (repeatable)")
	rootCmd.Flags().BoolVar(&ignoreUndefined, "ignore-undefined", false, "Keep unresolved placeholders for a later pass")
	rootCmd.Flags().StringVar(&replaceUndefined, "replace-undefined", "", "Substitute VALUE for unresolved placeholders")
	rootCmd.Flags().BoolVar(&formulas, "formulas", false, "Evaluate [[expression]] markers with Starlark after resolution")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", source.FormatAuto, "Output format: json, yaml, toml or auto")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the result atomically to FILE instead of stdout")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-resolve whenever the template or data file changes")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	_ = rootCmd.MarkFlagRequired("template")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadContext assembles the data context from the data file, env and --set values
func loadContext() (map[string]any, error) {
	ctx := source.New()
	opts := source.DefaultLoadOptions()
	opts.EnvPrefix = envPrefix

	args := make([]string, 0, len(assignments))
	for _, a := range assignments {
		args = append(args, "--"+a)
	}

	if err := ctx.LoadWithOptions(dataPath, args, opts); err != nil {
		return nil, fmt.Errorf("failed to load context: %w", err)
	}
	slog.Debug("context loaded", "sources", ctx.Sources())
	return ctx.Data(), nil
}

// render performs one full load, resolve and write cycle
func render(r *resolver.Resolver, opts []resolver.CallOption) error {
	template, err := source.ReadDocument(templatePath)
	if err != nil {
		return err
	}
	data, err := loadContext()
	if err != nil {
		return err
	}

	if formulas {
		mapper, err := newFormulaMapper(data)
		if err != nil {
			return err
		}
		opts = append(opts, resolver.WithCallMappers(mapper))
	}

	result, err := r.Resolve(template, data, opts...)
	if err != nil {
		return fmt.Errorf("failed to resolve '%s': %w", templatePath, err)
	}
	if remaining := r.Placeholders(result); len(remaining) > 0 {
		slog.Debug("placeholders left unresolved", "placeholders", remaining)
	}

	if outPath != "" {
		if err := source.WriteDocument(outPath, result, outputFormat); err != nil {
			return err
		}
		slog.Info("resolved document written", "path", outPath)
		return nil
	}

	format := outputFormat
	if format == source.FormatAuto {
		format = source.FormatJSON
	}
	encoded, err := source.Encode(result, format)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(encoded)
	return err
}

// watchAndRender renders once, then again on every change until ctx is done.
// Render failures while watching are logged and do not stop the loop.
func watchAndRender(ctx context.Context, r *resolver.Resolver, opts []resolver.CallOption) error {
	if err := render(r, opts); err != nil {
		if !errors.Is(err, source.ErrNotFound) {
			return err
		}
		slog.Warn("initial render failed", "error", err)
	}

	w := source.NewWatcher(source.DefaultWatchOptions(), templatePath, dataPath)
	changes := w.Subscribe()
	w.Start(ctx)
	defer w.Stop()

	slog.Info("watching for changes", "template", templatePath, "data", dataPath)
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return nil
		case event, ok := <-changes:
			if !ok {
				return nil
			}
			switch event {
			case source.EventPermissionsChanged:
				slog.Warn("watched file permissions changed, skipping render")
				continue
			case source.EventDeleted:
				slog.Warn("watched file was deleted")
				continue
			}
			slog.Debug("change detected", "path", event)
			if err := render(r, opts); err != nil {
				slog.Error("render failed", "error", err)
			}
		}
	}
}
