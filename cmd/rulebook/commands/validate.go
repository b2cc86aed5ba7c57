package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulebook/internal/cli/prompt"
	"github.com/thoreinstein/rulebook/internal/errors"
	"github.com/thoreinstein/rulebook/internal/logging"
	"github.com/thoreinstein/rulebook/internal/paths"
	"github.com/thoreinstein/rulebook/internal/record"
	"github.com/thoreinstein/rulebook/internal/schema"
	"github.com/thoreinstein/rulebook/internal/validator"
	"github.com/thoreinstein/rulebook/pkg/rules"
)

var (
	validateModel    string
	validateJSON     bool
	validateFailFast bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateModel, "model", "m", "",
		"model to validate against (required when the schema defines several)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false,
		"output results as JSON")
	validateCmd.Flags().BoolVar(&validateFailFast, "fail-fast", false,
		"stop checking a field after its first failed rule")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <schema> <record>",
	Short: "Validate a record against a schema",
	Long: `Validate a record file against a model of a schema file.

The schema argument is a path, or a name looked up in the configured
schema_dirs with each supported extension. The record is a JSON, YAML or
TOML object whose keys are field names.

Exit codes:
  0 - The record is valid
  1 - The record failed one or more rules
  3 - The schema or rule configuration is broken`,
	Example: `  # Validate a JSON record
  rulebook validate contact.yaml ada.json

  # Machine-readable output
  rulebook validate contact --model Contact ada.toml --json

See Also: rulebook describe, rulebook kinds`,
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	conf := settings()

	model, err := loadModel(args[0], validateModel)
	if err != nil {
		return err
	}

	rec, err := record.Load(args[1])
	if err != nil {
		return errors.NewUserError(err, "the record must be a JSON, YAML or TOML object")
	}
	logger.Debug("loaded record", "path", args[1], "fields", rec.Fields())

	result, err := validator.Check(ctx, registry, model, rec, validator.Options{
		Parallelism: conf.Workers(),
		FailFast:    validateFailFast,
		Logger:      logger,
	})
	if err != nil {
		if rules.IsConfigurationError(err) {
			return errors.NewConfigError(err)
		}
		return errors.NewSystemError(err, "")
	}

	format := validator.Format(conf.OutputFormat)
	if validateJSON {
		format = validator.FormatJSON
	}
	reporter := validator.NewReporter(cmd.OutOrStdout(), format).Verbose(verbosity > 0)
	if !quiet || format == validator.FormatJSON {
		if err := reporter.Report(result); err != nil {
			return errors.NewSystemError(err, "")
		}
	}

	if result.HasErrors() {
		return errors.NewExitError(errors.ErrValidationFailed, errors.ExitUser)
	}
	return nil
}

// loadSet resolves the schema argument and compiles it against the standard
// library.
func loadSet(name string) (*schema.Set, error) {
	path, err := paths.ResolveSchema(name, settings().SchemaDirs)
	if err != nil {
		return nil, errors.NewUserError(errors.Mark(err, errors.ErrNotFound), errors.FlattenHints(err))
	}

	set, err := schema.Load(path, stdLib)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	return set, nil
}

// modelSelector returns the prompt used to pick a model when several exist
// and none was named, or nil when not attached to a terminal.
var modelSelector = func() *prompt.Selector {
	if quiet || !logging.IsTTY(os.Stdin) || !logging.IsTTY(os.Stderr) {
		return nil
	}
	return prompt.NewSelector(os.Stdin, os.Stderr)
}

// loadModel loads the schema and selects the model.
func loadModel(name, model string) (*rules.Schema, error) {
	set, err := loadSet(name)
	if err != nil {
		return nil, err
	}

	if names := set.Models(); model == "" && len(names) > 1 {
		if sel := modelSelector(); sel != nil {
			model, err = sel.Select("Models in "+set.Path(), names)
			if err != nil {
				return nil, errors.NewUserError(err, "pass --model")
			}
		}
	}

	s, err := set.Select(model)
	if err != nil {
		return nil, errors.NewUserError(errors.Mark(err, errors.ErrUnknownModel), errors.FlattenHints(err))
	}
	return s, nil
}
