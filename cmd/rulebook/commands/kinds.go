package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulebook/internal/errors"
	"github.com/thoreinstein/rulebook/pkg/rules"
)

var (
	kindsJSON        bool
	kindsInteractive bool
)

func init() {
	kindsCmd.Flags().BoolVar(&kindsJSON, "json", false,
		"output the table as JSON")
	kindsCmd.Flags().BoolVarP(&kindsInteractive, "interactive", "i", false,
		"browse rule functions with a fuzzy finder")
	rootCmd.AddCommand(kindsCmd)
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the rule kinds and functions of the standard library",
	Long: `List every rule kind of the standard library with the functions
registered for it, in dispatch order, and the parameters each one binds.`,
	Example: `  # List kinds
  rulebook kinds

  # Browse interactively
  rulebook kinds -i

See Also: rulebook describe`,
	Args:    usageArgs(cobra.NoArgs),
	PreRunE: validateKindsFlags,
	RunE:    runKinds,
}

// kindFunc is one rule function of a kind.
type kindFunc struct {
	Kind      rules.Kind `json:"-"`
	Name      string     `json:"name"`
	Signature string     `json:"signature"`
	Params    []string   `json:"params"`
}

// kindEntry groups the functions of one kind.
type kindEntry struct {
	Kind  rules.Kind `json:"kind"`
	Funcs []kindFunc `json:"funcs"`
}

func validateKindsFlags(_ *cobra.Command, _ []string) error {
	if kindsJSON && kindsInteractive {
		return errors.NewUserError(errors.New("flags --json and --interactive are mutually exclusive"), "")
	}
	return nil
}

func runKinds(cmd *cobra.Command, _ []string) error {
	table, err := registry.Build(stdLib)
	if err != nil {
		return errors.NewConfigError(err)
	}
	entries := kindTable(table)
	w := cmd.OutOrStdout()

	switch {
	case kindsJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(entries), "encoding kinds")
	case kindsInteractive:
		return runInteractiveKinds(w, entries)
	default:
		printKinds(w, table.Provider(), entries)
		return nil
	}
}

func kindTable(table *rules.Table) []kindEntry {
	entries := make([]kindEntry, 0, len(table.Kinds()))
	for _, k := range table.Kinds() {
		entry := kindEntry{Kind: k}
		for _, fn := range table.Funcs(k) {
			params := make([]string, len(fn.Params))
			for i, r := range fn.Params {
				params[i] = r.String()
			}
			entry.Funcs = append(entry.Funcs, kindFunc{
				Kind:      k,
				Name:      fn.Name,
				Signature: fn.Signature(),
				Params:    params,
			})
		}
		entries = append(entries, entry)
	}
	return entries
}

func printKinds(w io.Writer, provider string, entries []kindEntry) {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "Provider %s: %d kind(s)\n\n", bold(provider), len(entries))
	for _, e := range entries {
		fmt.Fprintln(w, color.CyanString(e.Kind.String()))
		for _, fn := range e.Funcs {
			fmt.Fprintf(w, "  %s%s\n", fn.Name, dim(fn.Signature))
		}
	}
}

func runInteractiveKinds(w io.Writer, entries []kindEntry) error {
	var funcs []kindFunc
	for _, e := range entries {
		funcs = append(funcs, e.Funcs...)
	}
	if len(funcs) == 0 {
		fmt.Fprintln(w, "No rule functions registered.")
		return nil
	}

	idx, err := fuzzyfinder.Find(
		funcs,
		func(i int) string {
			return fmt.Sprintf("%s: %s", funcs[i].Kind, funcs[i].Name)
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return describeFunc(funcs[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive kinds failed")
	}

	fmt.Fprint(w, describeFunc(funcs[idx]))
	return nil
}

func describeFunc(fn kindFunc) string {
	return fmt.Sprintf("Kind: %s\nFunc: %s%s\n\nParameters:\n  %s\n",
		fn.Kind, fn.Name, fn.Signature, strings.Join(fn.Params, "\n  "))
}
