package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/thoreinstein/rulebook/pkg/rules"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// maxValueWidth truncates echoed values in text reports.
const maxValueWidth = 50

// Reporter formats and writes validation results.
type Reporter struct {
	out     io.Writer
	format  Format
	verbose bool
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Verbose makes text reports include info issues.
func (r *Reporter) Verbose(v bool) *Reporter {
	r.verbose = v
	return r
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(result)
	default:
		return r.reportText(result)
	}
}

type jsonReport struct {
	*Result
	Valid  bool                `json:"valid"`
	Fields map[string][]string `json:"errors,omitempty"`
}

func (r *Reporter) reportJSON(result *Result) error {
	report := jsonReport{
		Result: result,
		Valid:  result.Valid(),
		Fields: result.FieldErrors(),
	}
	if report.Issues == nil {
		report.Issues = []Issue{}
	}
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(report), "encoding JSON report")
}

func (r *Reporter) reportText(result *Result) error {
	errs := result.Errors()
	warnings := result.Warnings()
	var infos []Issue
	if r.verbose {
		infos = result.Infos()
	}

	subject := "Validation"
	if result.Model != "" {
		subject = result.Model
	}

	if len(errs) == 0 {
		if len(warnings) == 0 {
			fmt.Fprintf(r.out, "%s %s passed (%d field(s) checked)\n", color.GreenString("✓"), subject, result.Checked)
		} else {
			fmt.Fprintf(r.out, "%s %s passed with %s\n\n", color.GreenString("✓"), subject,
				color.YellowString("%d warning(s)", len(warnings)))
		}
	} else {
		summary := []string{color.RedString("%d error(s)", len(errs))}
		if len(warnings) > 0 {
			summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
		}
		fmt.Fprintf(r.out, "%s failed: %s\n\n", subject, strings.Join(summary, ", "))
	}

	r.printSection("Errors:", errs, color.FgRed)
	r.printSection("Warnings:", warnings, color.FgYellow)
	r.printSection("Info:", infos, color.FgBlue)

	return nil
}

func (r *Reporter) printSection(title string, issues []Issue, c color.Attribute) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(r.out, title)
	for _, i := range issues {
		r.printIssue(i, c)
	}
	fmt.Fprintln(r.out)
}

func (r *Reporter) printIssue(i Issue, c color.Attribute) {
	printer := color.New(c).SprintFunc()
	dim := color.New(color.FgHiBlack)

	// Format:  • field: message (context) [value]
	var sb strings.Builder
	sb.WriteString("  • ")

	if i.Field != "" {
		sb.WriteString(printer(i.Field))
		sb.WriteString(": ")
	}

	sb.WriteString(i.Message)

	ctx := make(map[string]string, len(i.Context)+1)
	for k, v := range i.Context {
		ctx[k] = v
	}
	if i.Kind != rules.NoKind {
		ctx["kind"] = i.Kind.String()
	}
	if len(ctx) > 0 {
		parts := make([]string, 0, len(ctx))
		for k, v := range ctx {
			parts = append(parts, fmt.Sprintf("%s=%s", k, v))
		}
		// Sort for deterministic output
		sort.Strings(parts)

		sb.WriteString(" ")
		sb.WriteString(dim.Sprintf("(%s)", strings.Join(parts, ", ")))
	}

	if i.Value != nil {
		valStr := fmt.Sprintf("%v", i.Value)
		if len(valStr) > maxValueWidth {
			valStr = valStr[:maxValueWidth-3] + "..."
		}
		sb.WriteString(dim.Sprintf(" [%s]", valStr))
	}

	fmt.Fprintln(r.out, sb.String())
}
