// Package errors provides error handling conventions for the rulebook CLI.
//
// It re-exports the github.com/cockroachdb/errors constructors used across the
// module so callers need a single import, defines sentinel errors for common
// failure conditions, and an ExitError type for CLI exit code handling.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, rberrors.ErrNotFound) {
//	    // handle not found case
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): Validation failed or the input was invalid
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//   - ExitConfig (3): Rule configuration error in a provider or schema
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional suggestion:
//
//	err := rberrors.NewUserError(rberrors.ErrInvalidConfig, "Check your config file")
//	var exitErr *rberrors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Println("Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
