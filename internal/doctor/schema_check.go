package doctor

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/rulebook/internal/schema"
	"github.com/thoreinstein/rulebook/pkg/fileutil"
	"github.com/thoreinstein/rulebook/pkg/frontmatter"
	"github.com/thoreinstein/rulebook/pkg/rules"
)

// SchemaCheck loads schema files and verifies that every declared kind has a
// rule function accepting the field's declared type.
type SchemaCheck struct {
	registry *rules.Registry
	provider rules.Provider
	files    []string
}

var _ Check = (*SchemaCheck)(nil)

// NewSchemaCheck creates a check of the given schema files, resolving kinds
// against p and building tables through reg.
func NewSchemaCheck(reg *rules.Registry, p rules.Provider, files ...string) *SchemaCheck {
	return &SchemaCheck{registry: reg, provider: p, files: files}
}

// Name returns the unique identifier for this check.
func (c *SchemaCheck) Name() string {
	return "schemas"
}

// Category returns the grouping for this check.
func (c *SchemaCheck) Category() string {
	return "rules"
}

// SchemaFileResult is the outcome for a single schema file, listed under
// the "files" detail of the schema check.
type SchemaFileResult struct {
	Path     string   `json:"path"`
	Status   Severity `json:"status"`
	Message  string   `json:"message,omitempty"`
	Models   []string `json:"models,omitempty"`
	Problems []string `json:"problems,omitempty"`
}

// Run loads and cross-checks every schema file.
func (c *SchemaCheck) Run() *CheckResult {
	result := newResult(c)

	if len(c.files) == 0 {
		return result.set(SeverityInfo, "no schema files found")
	}

	var fileResults []SchemaFileResult
	var counts Summary
	var hints []string

	for _, path := range c.files {
		fr, hint := c.checkFile(path)
		fileResults = append(fileResults, fr)
		counts.add(fr.Status)
		if hint != "" {
			hints = append(hints, hint)
		}
	}

	result.Details["files"] = fileResults
	result.Details["checked"] = len(fileResults)
	result.Details["passed"] = counts.Passed
	result.Details["errors"] = counts.Errors

	switch {
	case counts.Errors > 0:
		result.set(SeverityError, "%d schema file(s) have errors", counts.Errors)
	case counts.Warnings > 0:
		result.set(SeverityWarning, "%d schema file(s) have warnings", counts.Warnings)
	case counts.Passed > 0:
		result.set(SeverityPass, "%d schema file(s) validated successfully", counts.Passed)
	default:
		result.set(SeverityInfo, "no schema files found")
	}
	if len(hints) > 0 {
		result.FixHint = strings.Join(hints, "; ")
	}

	return result
}

// checkFile returns the file's result and a remediation hint, if any.
func (c *SchemaCheck) checkFile(path string) (SchemaFileResult, string) {
	fr := SchemaFileResult{Path: path}

	set, err := schema.Load(path, c.provider)
	switch {
	case errors.Is(err, frontmatter.ErrNoFrontmatter):
		fr.Status = SeverityInfo
		fr.Message = "not a schema (no frontmatter)"
		return fr, ""
	case err != nil:
		fr.Status = SeverityError
		fr.Message = formatLoadError(path, err)
		return fr, errors.FlattenHints(err)
	}

	fr.Models = set.Models()
	problems, warnings, hint := c.checkCandidates(set)
	fr.Problems = append(problems, warnings...)

	switch {
	case len(problems) > 0:
		fr.Status = SeverityError
		fr.Message = fmt.Sprintf("%d declaration(s) cannot be dispatched", len(problems))
	case len(warnings) > 0:
		fr.Status = SeverityWarning
		fr.Message = fmt.Sprintf("%d declaration(s) depend on the record's value type", len(warnings))
	default:
		fr.Status = SeverityPass
		fr.Message = fmt.Sprintf("%d model(s)", len(fr.Models))
	}
	return fr, hint
}

// checkCandidates resolves every declaration of every model against its
// provider's table. Fields declared as "any" only produce warnings, since the
// record value decides which functions match.
func (c *SchemaCheck) checkCandidates(set *schema.Set) (problems, warnings []string, hint string) {
	seen := make(map[string]bool)

	for _, name := range set.Models() {
		model, err := set.Model(name)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}

		for _, f := range model.Fields() {
			for _, d := range f.Declarations {
				key := fmt.Sprintf("%s\x00%s\x00%v", f.Name, d.Kind, f.Type)
				if seen[key] {
					continue
				}
				seen[key] = true

				table, err := c.registry.Build(d.Provider)
				if err == nil {
					_, err = table.Candidates(d.Kind, f.Type, nil)
				}
				if err == nil {
					continue
				}

				msg := fmt.Sprintf("%s.%s: %v", name, f.Name, err)
				if f.Type != nil && f.Type.Kind() == reflect.Interface {
					warnings = append(warnings, msg)
					continue
				}
				problems = append(problems, msg)
				if hint == "" {
					hint = rules.Hint(err)
				}
			}
		}
	}
	return problems, warnings, hint
}

// formatLoadError adds line and column information to decode errors.
func formatLoadError(path string, err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var decodeErr *toml.DecodeError

	switch {
	case errors.As(err, &syntaxErr):
		line, col := lineColAt(path, syntaxErr.Offset)
		return fmt.Sprintf("JSON syntax error at line %d, column %d: %s", line, col, syntaxErr.Error())
	case errors.As(err, &typeErr):
		line, col := lineColAt(path, typeErr.Offset)
		return fmt.Sprintf("JSON type error at line %d, column %d: %s", line, col, typeErr.Error())
	case errors.As(err, &decodeErr):
		row, col := decodeErr.Position()
		return fmt.Sprintf("TOML syntax error at line %d, column %d: %s", row, col, decodeErr.Error())
	}

	// yaml.v3 already reports lines; drop the path prefix added while loading.
	return strings.TrimPrefix(err.Error(), path+": ")
}

func lineColAt(path string, offset int64) (line, col int) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return 0, 0
	}
	return offsetToLineCol(data, int(offset))
}

// offsetToLineCol converts a byte offset to 1-indexed line and column numbers.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = max(0, min(offset, len(data)))

	line = 1
	lineStart := 0
	for i := range offset {
		if data[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	return line, offset - lineStart + 1
}
