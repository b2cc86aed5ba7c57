package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/rulebook/internal/config"
	"github.com/thoreinstein/rulebook/internal/editor"
	"github.com/thoreinstein/rulebook/internal/errors"
	"github.com/thoreinstein/rulebook/internal/paths"
	"github.com/thoreinstein/rulebook/pkg/fileutil"
)

// configKeys are the settable keys, in listing order.
var configKeys = []string{"version", "schema_dirs", "output_format", "parallelism", "color"}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rulebook configuration",
	Long: `Manage rulebook configuration stored in the user config directory
(~/.config/rulebook/config.yaml by default, or the file given with --config).

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  rulebook config

  # Get a specific value
  rulebook config get schema_dirs

  # Set a value
  rulebook config set schema_dirs .,~/schemas

See Also: rulebook doctor`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

List values are printed one per line.`,
	Example: `  rulebook config get output_format

See Also: rulebook config set, rulebook config list`,
	Args:      usageArgs(cobra.ExactArgs(1)),
	ValidArgs: configKeys,
	RunE:      runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write the config file.

For schema_dirs, use comma-separated values. The resulting configuration is
validated before it is written.`,
	Example: `  # Emit JSON by default
  rulebook config set output_format json

  # Limit concurrent field checks
  rulebook config set parallelism 4

See Also: rulebook config get, rulebook config list`,
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format.`,
	Example: `  rulebook config list

See Also: rulebook config get, rulebook config set`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runConfigList,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your editor and validate it afterwards.

Uses $EDITOR, then $VISUAL, falling back to nano or vi. A missing file is
created with the current values first.`,
	Example: `  # Open config in default editor
  rulebook config edit

  # Open with a specific editor
  EDITOR="code --wait" rulebook config edit

See Also: rulebook config list, rulebook doctor`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runConfigEdit,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !slices.Contains(configKeys, key) {
		return unknownKeyError(key)
	}
	w := cmd.OutOrStdout()

	switch v := viper.Get(key).(type) {
	case []any:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	case []string:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	default:
		fmt.Fprintln(w, viper.GetString(key))
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	value, err := parseConfigValue(key, raw)
	if err != nil {
		return err
	}
	viper.Set(key, value)

	var next config.Config
	if err := viper.Unmarshal(&next); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "unmarshaling config"), "")
	}
	if errs := config.Validate(&next); len(errs) > 0 {
		return errors.NewUserError(errs[0], errors.FlattenHints(errs[0]))
	}

	path := configFilePath()
	if err := writeConfig(path, &next); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v in %s\n", key, value, path)
	}
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(currentConfig())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := configFilePath()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(path, settings()); err != nil {
			return err
		}
	}

	ed := editor.New()
	ed.Stdin = cmd.InOrStdin()
	ed.Stdout = cmd.OutOrStdout()
	ed.Stderr = cmd.ErrOrStderr()
	if err := ed.Open(cmd.Context(), path); err != nil {
		return errors.NewUserError(err, errors.FlattenHints(err))
	}

	config.Init()
	if _, err := config.Load(path); err != nil {
		return errors.NewConfigError(err)
	}
	return nil
}

// parseConfigValue converts raw to the type stored under key.
func parseConfigValue(key, raw string) (any, error) {
	switch key {
	case "schema_dirs":
		dirs := splitList(raw)
		if len(dirs) == 0 {
			return nil, errors.NewUserError(errors.New("no schema directories specified"), "pass a comma-separated list of directories")
		}
		return dirs, nil
	case "version", "parallelism":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.NewUserError(errors.Newf("%s must be an integer, got %q", key, raw), "")
		}
		return n, nil
	case "color":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.NewUserError(errors.Newf("color must be true or false, got %q", raw), "")
		}
		return b, nil
	case "output_format":
		return strings.ToLower(raw), nil
	default:
		return nil, unknownKeyError(key)
	}
}

func unknownKeyError(key string) error {
	return errors.NewUserError(
		errors.Newf("unknown config key %q", key),
		"valid keys: "+strings.Join(configKeys, ", "))
}

// splitList splits a comma-separated string, dropping empty items.
func splitList(s string) []string {
	var items []string
	for item := range strings.SplitSeq(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// currentConfig returns the effective values of every key.
func currentConfig() map[string]any {
	return map[string]any{
		"version":       viper.GetInt("version"),
		"schema_dirs":   viper.GetStringSlice("schema_dirs"),
		"output_format": viper.GetString("output_format"),
		"parallelism":   viper.GetInt("parallelism"),
		"color":         viper.GetBool("color"),
	}
}

// configFilePath is the file config set writes: --config, else the file in
// use, else the user config directory.
func configFilePath() string {
	if configPath != "" {
		return configPath
	}
	if used := config.Used(); used != "" {
		return used
	}
	return filepath.Join(paths.ConfigDir(), "config.yaml")
}

// writeConfig writes cfg to path atomically.
func writeConfig(path string, cfg *config.Config) error {
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.NewSystemError(err, "")
	}

	if err := fileutil.AtomicWriteYAML(path, cfg); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "writing config file"), "check that "+path+" is writable")
	}

	return nil
}
