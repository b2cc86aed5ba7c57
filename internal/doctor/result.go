package doctor

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Severity grades a check result. Higher values are worse.
type Severity int

const (
	SeverityPass Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{"pass", "info", "warning", "error"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name as written by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	for i, name := range severityNames {
		if name == string(text) {
			*s = Severity(i)
			return nil
		}
	}
	return errors.Newf("unknown severity %q", text)
}

// Problem reports whether s is a warning or an error.
func (s Severity) Problem() bool {
	return s >= SeverityWarning
}

// CheckResult is the outcome of one check. Details carry check-specific data
// and are part of the JSON report.
type CheckResult struct {
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Status   Severity       `json:"status"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
	// Fixable is set when doctor --fix can repair the problem.
	Fixable bool   `json:"fixable,omitempty"`
	FixHint string `json:"fix_hint,omitempty"`
}

// newResult starts the result of c with empty details.
func newResult(c Check) *CheckResult {
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  make(map[string]any),
	}
}

// set records the status and a formatted message.
func (r *CheckResult) set(status Severity, format string, args ...any) *CheckResult {
	r.Status = status
	r.Message = fmt.Sprintf(format, args...)
	return r
}

// Summary counts check results by severity.
type Summary struct {
	Passed   int `json:"passed"`
	Info     int `json:"info"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

func (s *Summary) add(status Severity) {
	switch status {
	case SeverityPass:
		s.Passed++
	case SeverityInfo:
		s.Info++
	case SeverityWarning:
		s.Warnings++
	case SeverityError:
		s.Errors++
	}
}

// Total returns the number of counted results.
func (s Summary) Total() int {
	return s.Passed + s.Info + s.Warnings + s.Errors
}
