package doctor

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/thoreinstein/rulebook/internal/paths"
)

// maxSchemaFilePerm is the most permissive mode accepted for schema files (-rw-r--r--).
const maxSchemaFilePerm os.FileMode = 0644

// PathPermissionCheck validates schema directories and the permissions of the
// schema files inside them.
type PathPermissionCheck struct {
	PermissionFixer

	dirs []string
}

var (
	_ Check = (*PathPermissionCheck)(nil)
	_ Fixer = (*PathPermissionCheck)(nil)
)

// NewPathPermissionCheck creates a path permission check over dirs.
func NewPathPermissionCheck(dirs ...string) *PathPermissionCheck {
	return &PathPermissionCheck{dirs: dirs}
}

// Name returns the unique identifier for this check.
func (c *PathPermissionCheck) Name() string {
	return "path-permissions"
}

// Category returns the grouping for this check.
func (c *PathPermissionCheck) Category() string {
	return "filesystem"
}

// Run executes the path and permission diagnostic check.
func (c *PathPermissionCheck) Run() *CheckResult {
	var issues []pathIssue
	var checked, missing int

	for _, dir := range c.dirs {
		if dir == "" {
			continue
		}
		exists, dirIssues := c.checkDirectory(dir)
		issues = append(issues, dirIssues...)
		if !exists {
			if len(dirIssues) == 0 {
				missing++
			}
			continue
		}
		checked++

		files, err := paths.SchemaFiles(dir)
		if err != nil {
			issues = append(issues, pathIssue{
				Path:     dir,
				Dir:      dir,
				Type:     "directory",
				Problem:  "directory is not readable",
				Severity: SeverityError,
				FixHint:  "chmod u+rx " + dir,
			})
			continue
		}
		for _, f := range files {
			issues = append(issues, c.checkFile(f, dir)...)
			checked++
		}
	}

	c.setIssues(issues)
	return c.buildResult(issues, checked, missing)
}

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	Path        string
	Dir         string
	Type        string // "file" or "directory"
	Problem     string
	Severity    Severity
	Permissions string
	Fixable     bool
	FixHint     string
}

// checkFile validates a schema file's permissions.
func (c *PathPermissionCheck) checkFile(path, dir string) []pathIssue {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return []pathIssue{{
			Path:     path,
			Dir:      dir,
			Type:     "file",
			Problem:  fmt.Sprintf("cannot stat file: %v", err),
			Severity: SeverityError,
		}}
	}

	f, err := os.Open(path)
	if err != nil {
		return []pathIssue{{
			Path:        path,
			Dir:         dir,
			Type:        "file",
			Problem:     "file is not readable",
			Severity:    SeverityError,
			Permissions: formatPermissions(info.Mode()),
			FixHint:     "chmod 644 " + path,
		}}
	}
	f.Close()

	// Unix permissions don't apply on Windows
	if runtime.GOOS == "windows" {
		return nil
	}
	return c.checkFilePermissions(path, dir, info.Mode())
}

// checkDirectory validates a schema directory. A missing directory is not an
// issue; exists reports whether it was found.
func (c *PathPermissionCheck) checkDirectory(path string) (exists bool, issues []pathIssue) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, []pathIssue{{
			Path:     path,
			Dir:      path,
			Type:     "directory",
			Problem:  fmt.Sprintf("cannot stat directory: %v", err),
			Severity: SeverityError,
		}}
	}

	if !info.IsDir() {
		return false, []pathIssue{{
			Path:     path,
			Dir:      path,
			Type:     "directory",
			Problem:  "expected directory but found file",
			Severity: SeverityError,
			FixHint:  "remove " + path + " from schema_dirs",
		}}
	}

	if runtime.GOOS != "windows" {
		issues = c.checkDirectoryPermissions(path, info.Mode())
	}
	return true, issues
}

// checkFilePermissions flags schema files others could rewrite.
func (c *PathPermissionCheck) checkFilePermissions(path, dir string, mode os.FileMode) []pathIssue {
	perm := mode.Perm()

	switch {
	case perm&0002 != 0:
		return []pathIssue{{
			Path:        path,
			Dir:         dir,
			Type:        "file",
			Problem:     "file is world-writable (anyone can change its rules)",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(mode),
			Fixable:     true,
			FixHint:     "chmod 644 " + path,
		}}
	case perm&0020 != 0:
		return []pathIssue{{
			Path:     path,
			Dir:      dir,
			Type:     "file",
			Problem: fmt.Sprintf("file is group-writable (mode %s, expected %s or less)",
				formatPermissions(mode), formatPermissions(maxSchemaFilePerm)),
			Severity:    SeverityWarning,
			Permissions: formatPermissions(mode),
			Fixable:     true,
			FixHint:     "chmod 644 " + path,
		}}
	}
	return nil
}

// checkDirectoryPermissions flags world-writable schema directories.
func (c *PathPermissionCheck) checkDirectoryPermissions(path string, mode os.FileMode) []pathIssue {
	if mode.Perm()&0002 == 0 {
		return nil
	}
	return []pathIssue{{
		Path:        path,
		Dir:         path,
		Type:        "directory",
		Problem:     "directory is world-writable (anyone can add schemas)",
		Severity:    SeverityWarning,
		Permissions: formatPermissions(mode),
		Fixable:     true,
		FixHint:     "chmod 755 " + path,
	}}
}

// buildResult constructs the final CheckResult from accumulated issues.
func (c *PathPermissionCheck) buildResult(issues []pathIssue, checked, missing int) *CheckResult {
	details := map[string]any{
		"checked_paths": checked,
		"missing_dirs":  missing,
	}

	if len(issues) == 0 {
		msg := fmt.Sprintf("all %d paths have valid permissions", checked)
		status := SeverityPass
		if checked == 0 {
			msg = "no schema directories found"
			status = SeverityInfo
		}
		result := newResult(c).set(status, "%s", msg)
		result.Details = details
		return result
	}

	status := SeverityWarning
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			status = SeverityError
			break
		}
	}

	issueDetails := make([]map[string]any, 0, len(issues))
	var fixable bool
	var fixHints []string
	for _, issue := range issues {
		issueMap := map[string]any{
			"path":     issue.Path,
			"dir":      issue.Dir,
			"type":     issue.Type,
			"problem":  issue.Problem,
			"severity": issue.Severity.String(),
		}
		if issue.Permissions != "" {
			issueMap["permissions"] = issue.Permissions
		}
		if issue.FixHint != "" {
			issueMap["fix_hint"] = issue.FixHint
			fixHints = append(fixHints, issue.FixHint)
		}
		issueDetails = append(issueDetails, issueMap)
		fixable = fixable || issue.Fixable
	}
	details["issue_count"] = len(issues)
	details["issues"] = issueDetails

	result := newResult(c).set(status, "found %d permission issue(s) across %d paths", len(issues), checked)
	result.Details = details
	result.Fixable = fixable
	result.FixHint = strings.Join(fixHints, "; ")
	return result
}

// formatPermissions returns the octal permission string, e.g. "0644".
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}
