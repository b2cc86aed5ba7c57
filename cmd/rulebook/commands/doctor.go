package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulebook/internal/config"
	"github.com/thoreinstein/rulebook/internal/doctor"
	"github.com/thoreinstein/rulebook/internal/errors"
	"github.com/thoreinstein/rulebook/internal/logging"
	"github.com/thoreinstein/rulebook/internal/paths"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"remove group and world write permission from schema files and directories")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor [schema...]",
	Short: "Diagnose configuration and schema issues",
	Long: `Run diagnostic checks on the rulebook configuration, the rule library and
schema files.

Every schema is compiled and each declared kind is checked for a rule
function that can handle the field's type, so broken schemas are found
before a record is validated. Without arguments, the schemas in the
configured schema_dirs are checked.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Check everything in schema_dirs
  rulebook doctor

  # Check one schema, with details
  rulebook doctor contact.yaml --verbose

  # Repair permissions
  rulebook doctor --fix

See Also: rulebook validate, rulebook kinds`,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	for _, set := range []bool{doctorJSON, doctorQuiet, doctorVerbose} {
		if set {
			count++
		}
	}

	if count > 1 {
		return errors.NewUserError(errors.New("flags --json, --quiet, and --verbose are mutually exclusive"), "")
	}

	return nil
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	w := cmd.OutOrStdout()

	conf := cfg
	var loadErr error
	if conf == nil {
		// Read without validation so the config check can list every problem.
		conf, loadErr = config.Read(configPath)
	}
	dirs := config.Default().SchemaDirs
	if conf != nil {
		dirs = conf.SchemaDirs
	}

	files, err := doctorSchemas(args, dirs)
	if err != nil {
		return errors.NewSystemError(err, "")
	}
	logger.Debug("doctor schemas", "count", len(files), "dirs", dirs)

	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewConfigCheck(conf, config.Used()).WithLoadError(loadErr))
	runner.AddCheck(doctor.NewProviderCheck(registry, stdLib))
	runner.AddCheck(doctor.NewSchemaCheck(registry, stdLib, files...))
	runner.AddCheck(doctor.NewPathPermissionCheck(dirs...))

	report := runner.Run(ctx)

	if doctorFix {
		fixes := runner.Fix(ctx)
		if !doctorQuiet && !doctorJSON {
			printFixes(w, fixes)
		}
		if len(fixes) > 0 {
			report = runner.Run(ctx)
		}
	}

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	// The report is the output; the returned errors only carry the exit code.
	if report.HasErrors() {
		return errors.NewExitError(nil, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

// doctorSchemas resolves the schema arguments, or lists the schema files of
// dirs when there are none. The config file itself is not a schema.
func doctorSchemas(args, dirs []string) ([]string, error) {
	if len(args) > 0 {
		files := make([]string, 0, len(args))
		for _, arg := range args {
			path, err := paths.ResolveSchema(arg, dirs)
			if err != nil {
				// Unresolved names are reported by the schema check.
				path = arg
			}
			files = append(files, path)
		}
		return files, nil
	}

	skip := ""
	if used := config.Used(); used != "" {
		skip, _ = filepath.Abs(used)
	}

	var files []string
	seen := make(map[string]bool)
	for _, dir := range dirs {
		found, err := paths.SchemaFiles(dir)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			abs, err := filepath.Abs(f)
			if err != nil {
				abs = f
			}
			if abs == skip || seen[abs] {
				continue
			}
			seen[abs] = true
			files = append(files, f)
		}
	}
	return files, nil
}

func outputDoctorReport(w io.Writer, report *doctor.DoctorReport) error {
	if doctorQuiet {
		return nil
	}

	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(report), "encoding JSON")
	}

	outputDoctorText(w, report)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport) {
	// In normal mode only errors and warnings are shown.
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status.Problem()
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		printDetails(w, result)
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput || showAll {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

// printDetails lists the per-item problems some checks attach.
func printDetails(w io.Writer, result *doctor.CheckResult) {
	if problems, ok := result.Details["problems"].([]string); ok {
		for _, p := range problems {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
	if issues, ok := result.Details["issues"].([]map[string]any); ok {
		for _, issue := range issues {
			fmt.Fprintf(w, "  - %v: %v\n", issue["path"], issue["problem"])
		}
	}
	files, ok := result.Details["files"].([]doctor.SchemaFileResult)
	if !ok {
		return
	}
	for _, f := range files {
		if f.Status == doctor.SeverityPass && !doctorVerbose {
			continue
		}
		line := f.Path
		if f.Message != "" {
			line += ": " + f.Message
		}
		fmt.Fprintf(w, "  - %s\n", line)
		for _, p := range f.Problems {
			fmt.Fprintf(w, "      %s\n", p)
		}
	}
}

func printFixes(w io.Writer, fixes []doctor.FixResult) {
	if len(fixes) == 0 {
		fmt.Fprintln(w, "Nothing to fix.")
		return
	}
	for _, fr := range fixes {
		if fr.Fixed {
			fmt.Fprintf(w, "%s fixed %s: %s\n", color.GreenString("✓"), fr.Path, fr.Description)
			continue
		}
		fmt.Fprintf(w, "%s could not fix %s: %v\n", color.RedString("✗"), fr.Path, fr.Error)
	}
	fmt.Fprintln(w)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
