package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a validation failure or invalid user input.
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions, etc.).
	ExitSystem = 2

	// ExitConfig indicates a defect in rule registration or rule declarations.
	ExitConfig = 3
)

// Sentinel errors for common failure conditions.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownModel indicates a schema does not define the requested model.
	ErrUnknownModel = errors.New("unknown model")

	// ErrValidationFailed indicates a record failed one or more rules.
	ErrValidationFailed = errors.New("validation failed")
)

// Re-exported constructors and inspectors from github.com/cockroachdb/errors.
var (
	New          = errors.New
	Newf         = errors.Newf
	Wrap         = errors.Wrap
	Wrapf        = errors.Wrapf
	Mark         = errors.Mark
	WithHint     = errors.WithHint
	WithHintf    = errors.WithHintf
	Is           = errors.Is
	As           = errors.As
	GetAllHints  = errors.GetAllHints
	FlattenHints = errors.FlattenHints
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewExitErrorWithSuggestion creates an ExitError with a suggestion.
func NewExitErrorWithSuggestion(err error, code int, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       code,
		Suggestion: suggestion,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitConfig code. The error is
// marked with ErrInvalidConfig and the suggestion is taken from its hints,
// falling back to running the doctor.
func NewConfigError(err error) *ExitError {
	suggestion := errors.FlattenHints(err)
	if suggestion == "" {
		suggestion = "Run: rulebook doctor"
	}
	if err != nil {
		err = errors.Mark(err, ErrInvalidConfig)
	}
	return &ExitError{
		Err:        err,
		Code:       ExitConfig,
		Suggestion: suggestion,
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code carried by err: ExitSuccess for nil, the
// code of the first ExitError in the chain, or ExitSystem otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitSystem
}
