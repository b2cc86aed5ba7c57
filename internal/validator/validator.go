package validator

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/rulebook/pkg/rules"
)

// Severity represents the impact of a validation issue.
type Severity int

const (
	// SeverityError indicates a failed rule or an unusable value.
	SeverityError Severity = iota
	// SeverityWarning indicates a non-blocking problem, such as an undeclared field.
	SeverityWarning
	// SeverityInfo indicates an informational note.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return errors.Newf("unknown severity %q", text)
	}
	return nil
}

// Issue represents a single validation problem.
type Issue struct {
	// Severity indicates the impact of the issue.
	Severity Severity `json:"severity"`
	// Field identifies the field with the issue (optional).
	Field string `json:"field,omitempty"`
	// Kind is the rule kind that produced the issue, if any.
	Kind rules.Kind `json:"kind,omitempty"`
	// Message is a human-readable description of the problem.
	Message string `json:"message"`
	// Value is the actual value that failed validation (optional).
	Value any `json:"value,omitempty"`
	// Context is additional detail, such as the schema file.
	Context map[string]string `json:"context,omitempty"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if i.Field != "" {
		sb.WriteString("field \"")
		sb.WriteString(i.Field)
		sb.WriteString("\": ")
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", i.Value)
	}
	return sb.String()
}

// FromOutcome converts a failed rule outcome into an error issue.
func FromOutcome(o rules.Outcome, kind rules.Kind, value any) Issue {
	return Issue{
		Severity: SeverityError,
		Field:    o.Field,
		Kind:     kind,
		Message:  o.Message,
		Value:    value,
	}
}

// Result aggregates validation issues for one record.
type Result struct {
	// Model is the name of the validated model.
	Model string `json:"model,omitempty"`
	// Checked is the number of fields that carried rules.
	Checked int `json:"checked"`
	// Issues are ordered by field, then by declaration.
	Issues []Issue `json:"issues"`
}

// Valid reports whether the result holds no errors.
func (r *Result) Valid() bool {
	return !r.HasErrors()
}

// HasErrors returns true if any issue has SeverityError.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any issue has SeverityWarning.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// AddError adds an error issue to the result.
func (r *Result) AddError(field, message string, value any) {
	r.add(SeverityError, field, message, value)
}

// AddWarning adds a warning issue to the result.
func (r *Result) AddWarning(field, message string, value any) {
	r.add(SeverityWarning, field, message, value)
}

// AddInfo adds an info issue to the result.
func (r *Result) AddInfo(field, message string, value any) {
	r.add(SeverityInfo, field, message, value)
}

func (r *Result) add(s Severity, field, message string, value any) {
	r.Issues = append(r.Issues, Issue{
		Severity: s,
		Field:    field,
		Message:  message,
		Value:    value,
	})
}

// Errors returns a slice of all issues with SeverityError.
func (r *Result) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns a slice of all issues with SeverityWarning.
func (r *Result) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

// Infos returns a slice of all issues with SeverityInfo.
func (r *Result) Infos() []Issue {
	return r.filter(SeverityInfo)
}

func (r *Result) filter(s Severity) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			res = append(res, i)
		}
	}
	return res
}

// FieldErrors groups error messages by field, in issue order.
func (r *Result) FieldErrors() map[string][]string {
	out := make(map[string][]string)
	for _, i := range r.Errors() {
		out[i.Field] = append(out[i.Field], i.Message)
	}
	return out
}
