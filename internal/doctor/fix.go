package doctor

import (
	"fmt"
	"os"

	"github.com/thoreinstein/rulebook/internal/errors"
)

// Fixer is implemented by checks that can repair what their last Run found.
// The runner calls Fix only when CanFix reports true.
type Fixer interface {
	CanFix() bool
	Fix() []FixResult
}

// FixResult is the outcome of one repair. Error is set when Fixed is false.
type FixResult struct {
	Path        string
	Fixed       bool
	Description string
	Error       error
}

// writeByOthers are the permission bits Fix removes.
const writeByOthers os.FileMode = 0o022

// PermissionFixer strips group and world write access from the paths
// PathPermissionCheck flagged.
type PermissionFixer struct {
	issues []pathIssue
}

func (f *PermissionFixer) CanFix() bool {
	return f.CountFixable() > 0
}

// Fix repairs every fixable issue and reports each attempt.
func (f *PermissionFixer) Fix() []FixResult {
	results := make([]FixResult, 0, f.CountFixable())
	for _, issue := range f.issues {
		if !issue.Fixable {
			continue
		}

		results = append(results, f.fixIssue(issue))
	}

	return results
}

// fixIssue removes group and world write access from the issue's path,
// keeping every other permission bit.
func (f *PermissionFixer) fixIssue(issue pathIssue) FixResult {
	result := FixResult{
		Path: issue.Path,
	}

	if issue.Type != "file" && issue.Type != "directory" {
		result.Description = "unknown type: " + issue.Type
		result.Error = errors.Newf("cannot fix unknown type: %s", issue.Type)
		return result
	}

	info, err := os.Stat(issue.Path)
	if err != nil {
		result.Description = fmt.Sprintf("cannot stat: %v", err)
		result.Error = errors.Wrapf(err, "stat %s", issue.Path)
		return result
	}

	target := info.Mode().Perm() &^ writeByOthers
	if err := os.Chmod(issue.Path, target); err != nil {
		result.Description = fmt.Sprintf("failed to chmod %04o: %v", target, err)
		result.Error = errors.Wrapf(err, "chmod %04o %s", target, issue.Path)
		return result
	}

	result.Fixed = true
	result.Description = fmt.Sprintf("chmod %04o", target)
	return result
}

// setIssues stores the issues found by the last Run.
func (f *PermissionFixer) setIssues(issues []pathIssue) {
	f.issues = issues
}

// CountFixable returns the number of fixable issues.
func (f *PermissionFixer) CountFixable() int {
	count := 0
	for _, issue := range f.issues {
		if issue.Fixable {
			count++
		}
	}
	return count
}
