package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulebook/internal/errors"
	"github.com/thoreinstein/rulebook/pkg/fileutil"
	"github.com/thoreinstein/rulebook/pkg/rules"
)

var (
	describeModel  string
	describeOutput string
)

func init() {
	describeCmd.Flags().StringVarP(&describeModel, "model", "m", "",
		"model to describe (default: every model)")
	describeCmd.Flags().StringVarP(&describeOutput, "output", "o", "",
		"write to file instead of stdout; the extension picks JSON, YAML or TOML")
	rootCmd.AddCommand(describeCmd)
}

var describeCmd = &cobra.Command{
	Use:   "describe <schema>",
	Short: "Print the rule definition of a schema",
	Long: `Print the rule definition of a model: a map of field names to the rule
kinds declared on them, including inherited fields. Clients can use it to
mirror validation without running rulebook.

With --model, the definition of that model is printed. Without it, a schema
with one model prints that model's definition and a schema with several
prints an object keyed by model name.`,
	Example: `  # Print the definition as JSON
  rulebook describe contact.yaml --model Contact

  # Write it atomically as YAML
  rulebook describe contact.yaml -m Contact -o contact.rules.yaml

See Also: rulebook validate`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	out, err := describeSchema(args[0], describeModel)
	if err != nil {
		return err
	}

	if describeOutput != "" {
		if err := fileutil.AtomicWriteEncoded(describeOutput, out); err != nil {
			return errors.NewSystemError(err, "check that the output directory exists and is writable")
		}
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", describeOutput)
		}
		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(out), "encoding definition")
}

// describeSchema returns a rules.Definition, or a map of them keyed by model
// when the schema has several models and none was chosen.
func describeSchema(name, model string) (any, error) {
	set, err := loadSet(name)
	if err != nil {
		return nil, err
	}

	names := set.Models()
	if model != "" || len(names) <= 1 {
		s, err := set.Select(model)
		if err != nil {
			return nil, errors.NewUserError(errors.Mark(err, errors.ErrUnknownModel), errors.FlattenHints(err))
		}
		return rules.Describe(s), nil
	}

	all := make(map[string]rules.Definition, len(names))
	for _, n := range names {
		s, err := set.Model(n)
		if err != nil {
			return nil, errors.NewSystemError(err, "")
		}
		all[n] = rules.Describe(s)
	}
	return all, nil
}
