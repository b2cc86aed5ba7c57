package doctor

import (
	"context"
	"time"

	"github.com/thoreinstein/rulebook/internal/logging"
)

// Check is the interface that diagnostic checks must implement.
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Category returns the grouping for this check (e.g., "rules", "config").
	Category() string

	// Run executes the diagnostic check and returns its result.
	Run() *CheckResult
}

// Runner executes diagnostic checks and aggregates their results.
type Runner struct {
	checks []Check
}

// NewRunner creates a new diagnostic runner.
func NewRunner() *Runner {
	return &Runner{
		checks: make([]Check, 0),
	}
}

// AddCheck registers a diagnostic check with the runner.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes all registered checks in order and returns a report.
func (r *Runner) Run(ctx context.Context) *DoctorReport {
	logger := logging.FromContext(ctx)

	report := &DoctorReport{
		Timestamp: time.Now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, check := range r.checks {
		result := check.Run()
		report.Results = append(report.Results, result)
		logger.Debug("ran check", "check", check.Name(), "status", result.Status.String())
		report.Summary.add(result.Status)
	}

	return report
}

// Fix applies every fixable check's remediation. Call it after Run.
func (r *Runner) Fix(ctx context.Context) []FixResult {
	logger := logging.FromContext(ctx)

	var results []FixResult
	for _, check := range r.checks {
		fixer, ok := check.(Fixer)
		if !ok || !fixer.CanFix() {
			continue
		}
		for _, fr := range fixer.Fix() {
			logger.Info("applied fix", "check", check.Name(), "path", fr.Path, "fixed", fr.Fixed)
			results = append(results, fr)
		}
	}
	return results
}

// DoctorReport aggregates all check results with timing and summary.
type DoctorReport struct {
	// Timestamp is when the diagnostic run started.
	Timestamp time.Time `json:"timestamp"`

	// Results contains the outcome of each check.
	Results []*CheckResult `json:"results"`

	// Summary contains counts by severity level.
	Summary Summary `json:"summary"`
}

// HasErrors returns true if any check has SeverityError.
func (r *DoctorReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings returns true if any check has SeverityWarning.
func (r *DoctorReport) HasWarnings() bool {
	return r.Summary.Warnings > 0
}
