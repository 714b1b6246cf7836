package commands

import (
	"fmt"
	"io"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/clad/config"
	"github.com/teranos/clad/errors"
	"github.com/teranos/clad/logger"
)

const skipConfig = "skip-config"

var (
	configFile string
	verbosity  int

	// cfg is the effective configuration, loaded by Setup
	cfg *config.Config
)

// flagKeys binds command-line flags onto configuration keys
var flagKeys = map[string]string{
	"input-directory":                  "input.directory",
	"include-directory":                "input.include_directories",
	"output-directory":                 "output.directory",
	"header-output-directory":          "output.header_directory",
	"header-output-extension":          "output.header_extension",
	"source-output-extension":          "output.source_extension",
	"output-union-helper-constructors": "emit.union_helper_constructors",
	"output-properties":                "emit.properties",
	"output-json":                      "emit.json",
	"max-message-size":                 "constraints.max_message_size",
	"json-log":                         "log.json",
}

// AddPersistentFlags registers the flags shared by every command
func AddPersistentFlags(fs *pflag.FlagSet) {
	fs.StringVar(&configFile, "config", "", "Project config file (default: cladcpp.toml, searched upward)")
	fs.CountVarP(&verbosity, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	fs.StringP("input-directory", "C", ".", "Directory that output paths are made relative to")
	fs.StringSliceP("include-directory", "I", nil, "Directory to search for included schemas (repeatable)")
	fs.StringP("output-directory", "o", ".", `Directory for generated files ("-" for stdout)`)
	fs.StringP("header-output-directory", "r", "", "Directory for generated headers (default: output directory)")
	fs.String("header-output-extension", config.DefaultHeaderExtension, "Extension for generated headers")
	fs.String("source-output-extension", config.DefaultSourceExtension, "Extension for generated sources")
	fs.Bool("output-union-helper-constructors", false, "Emit a constructor per union member where unambiguous")
	fs.Bool("output-properties", false, "Emit getters and setters on structures")
	fs.Bool("output-json", false, "Emit jsoncpp round-trip code on structures and unions")
	fs.Int("max-message-size", 0, "Largest serialized size any message or union may have (0: unlimited)")
	fs.Bool("json-log", false, "Write logs as JSON")
}

// ArgsWithEnv appends the shell-quoted flags held in env to args
func ArgsWithEnv(args []string, env string) ([]string, error) {
	if env == "" {
		return args, nil
	}
	extra, err := shellquote.Split(env)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to split %s_FLAGS", config.EnvPrefix)
	}
	return append(append([]string{}, args...), extra...), nil
}

// Setup loads the configuration and initializes logging before any command runs
func Setup(cmd *cobra.Command, args []string) error {
	// Console logging until the configuration says otherwise
	if err := logger.Initialize(false, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	loaded, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg = loaded

	logger.SetTheme(cfg.GetLogTheme())
	if err := logger.Initialize(cfg.Log.JSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	if logger.ShouldOutput(verbosity, logger.OutputConfig) {
		logger.Debugw("Loaded configuration",
			"config", cfg.String(),
			"verbosity", logger.LevelName(verbosity),
			"shows", logger.VerbosityDescription(verbosity))
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.New(configFile)
	if err != nil {
		return nil, err
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "bind --%s", name)
			}
		}
	}

	if path := v.ConfigFileUsed(); path != "" {
		unknown, err := config.UnknownKeys(path)
		if err != nil {
			return nil, err
		}
		for _, key := range unknown {
			logger.Warnw("Unknown configuration key", logger.FieldFile, path, "key", key)
		}
	}

	loaded, err := config.Load(v)
	if err != nil {
		return nil, errors.WithHint(err, "check cladcpp.toml, CLADCPP_* variables and command-line flags")
	}
	return loaded, nil
}

// Report prints err and any hints attached to it
func Report(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}
