// Package commands implements the CLI commands for rulebook.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulebook/cmd"
	"github.com/thoreinstein/rulebook/internal/config"
	"github.com/thoreinstein/rulebook/internal/errors"
	"github.com/thoreinstein/rulebook/internal/logging"
	"github.com/thoreinstein/rulebook/pkg/rules"
	"github.com/thoreinstein/rulebook/pkg/rules/std"
)

// debugEnv raises the log level when no -v flag is given: 1 or true for
// debug, 2 for trace.
const debugEnv = config.EnvPrefix + "_DEBUG"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configPath holds the value of the --config flag.
var configPath string

var (
	// cfg is the loaded configuration; nil when loading failed.
	cfg *config.Config
	// configLoadErr holds any error that occurred during config loading.
	configLoadErr error
	// logSink is the open --log-file, closed by Execute.
	logSink io.Closer
)

// stdLib is the rule provider every schema is compiled against.
var stdLib = std.New()

// registry caches the built rule tables for the process.
var registry = rules.NewRegistry()

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write logs to file in JSON format, including debug records")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default: ./config.yaml, then the user config directory)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("rulebook version {{.Version}}\n")

	// Errors are printed by PrintError so exit codes and hints stay consistent.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.NewUserError(err, "run: "+cmd.CommandPath()+" --help")
	})
}

// usageArgs reports argument validation failures as user errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return errors.NewUserError(err, "run: "+cmd.CommandPath()+" --help")
		}
		return nil
	}
}

func initConfig() {
	config.Init()
	cfg, configLoadErr = config.Load(configPath)
}

var rootCmd = &cobra.Command{
	Use:   "rulebook",
	Short: "Declarative field validation for structured records",
	Long: `rulebook validates records against declarative schemas.

A schema file (YAML, TOML, JSON or Markdown frontmatter) declares models,
their fields, and the rule kinds each field must satisfy. Rule kinds are
dispatched to a library of rule functions chosen by the field's value type.

Records are JSON, YAML or TOML objects. Every declared field is checked
independently and every failure is reported.`,
	Example: `  # Validate a record
  rulebook validate contact.yaml ada.json

  # Pick a model from a multi-model schema
  rulebook validate contact.yaml ada.json --model Contact

  # Show the rule definition of a model
  rulebook describe contact.yaml --model Contact

  # Check system health
  rulebook doctor

  See Also: rulebook kinds, rulebook doctor`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "pick one of -q or -v")
	}

	format, ok := logging.ParseFormat(logFormat)
	if !ok {
		return errors.NewUserError(errors.Newf("unknown log format %q", logFormat), "use --log-format text or --log-format json")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			switch os.Getenv(debugEnv) {
			case "1", "true":
				v = 2
			case "2":
				v = 3
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	colorMode := logging.ColorModeFromSetting(cfg == nil || cfg.Color)
	if colorMode == logging.ColorNever {
		color.NoColor = true
	}

	logCfg := logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
		Color:  colorMode,
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(errors.Wrapf(err, "opening log file %s", logFile), "check --log-file")
		}
		closeLogSink()
		logSink = f
		logCfg.File = f
		logCfg.FileLevel = min(level, slog.LevelDebug)
	}

	logger := logging.New(logCfg)
	slog.SetDefault(logger)
	registry = rules.NewRegistry(rules.WithLogger(logger))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces config load errors, except for commands that must run
// with a broken configuration.
func checkConfig(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "help", "version", "doctor":
		return nil
	}
	if cmd == configCmd || (cmd.HasParent() && cmd.Parent() == configCmd) {
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// settings returns the loaded configuration, or the defaults when none loaded.
func settings() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

func closeLogSink() {
	if logSink != nil {
		_ = logSink.Close()
		logSink = nil
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer closeLogSink()
	return rootCmd.ExecuteContext(ctx)
}

// PrintError writes err and its suggestion to w. Errors without a message,
// used to carry an exit code after a report was printed, are not written.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err == nil {
			return
		}
		fmt.Fprintf(w, "%s %s\n", color.RedString("Error:"), exitErr.Err)
		if exitErr.Suggestion != "" {
			fmt.Fprintf(w, "%s %s\n", color.YellowString("Hint:"), exitErr.Suggestion)
		}
		return
	}

	fmt.Fprintf(w, "%s %s\n", color.RedString("Error:"), err)
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("Hint:"), hint)
	}
}
