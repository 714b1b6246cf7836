package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/clad/config"
	"github.com/teranos/clad/emitter/cpp"
	"github.com/teranos/clad/errors"
	"github.com/teranos/clad/internal/watch"
)

// WatchCmd regenerates whenever a schema or one of its includes changes
var WatchCmd = &cobra.Command{
	Use:   "watch <schema.clad>...",
	Short: "Regenerate C++ whenever a schema changes",
	Long: `Generate once, then watch each schema, everything it includes and the
project config. Changes are debounced and schemas are compiled one after
another. A failed compile is logged and leaves the previous output in place.

Stop with Ctrl-C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, schemas []string) error {
	if cfg.ToStdout() {
		return errors.WithHint(
			errors.Mark(errors.New("watch cannot write to stdout"), errors.ErrInvalidConfig),
			"pass -o with an output directory")
	}

	var extra []string
	if path, err := configPath(); err == nil && path != "" {
		extra = append(extra, path)
	}

	w, err := watch.New(func(ctx context.Context) ([]string, error) {
		return compileAll(schemas)
	}, watch.DefaultDebounce, extra...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}

// compileAll compiles each schema and returns every file the outputs depend
// on. Schemas that fail are still reported so that fixing them is noticed.
func compileAll(schemas []string) ([]string, error) {
	var files []string
	var errs []error
	for _, schema := range schemas {
		unit, err := cpp.Compile(cfg, schema, os.Args, nil)
		if err != nil {
			files = append(files, schema)
			errs = append(errs, err)
			continue
		}
		files = append(files, unit.Inputs...)
	}
	return files, errors.Combine(errs)
}

// configPath returns the project file in effect, if any
func configPath() (string, error) {
	v, err := config.New(configFile)
	if err != nil {
		return "", err
	}
	return v.ConfigFileUsed(), nil
}
