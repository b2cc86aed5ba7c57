package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates the version field is not supported.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidOutputFormat indicates an unrecognized output format.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidParallelism indicates a negative parallelism.
	ErrInvalidParallelism = errors.New("parallelism must be >= 0")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// CurrentVersion is the only config version understood by this build.
const CurrentVersion = 1

// OutputFormats lists the accepted output_format values.
var OutputFormats = []string{"text", "json"}

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != CurrentVersion {
		errs = append(errs, &FieldError{
			Field: "version",
			Value: fmt.Sprint(cfg.Version),
			Err:   ErrUnsupportedVersion,
		})
	}

	if !validFormat(cfg.OutputFormat) {
		errs = append(errs, &FieldError{
			Field: "output_format",
			Value: cfg.OutputFormat,
			Err:   ErrInvalidOutputFormat,
		})
	}

	if cfg.Parallelism < 0 {
		errs = append(errs, &FieldError{
			Field: "parallelism",
			Value: fmt.Sprint(cfg.Parallelism),
			Err:   ErrInvalidParallelism,
		})
	}

	for _, dir := range cfg.SchemaDirs {
		if err := validatePath(dir); err != nil {
			errs = append(errs, &PathError{
				Field: "schema_dirs",
				Path:  dir,
				Err:   err,
			})
		}
	}

	return errs
}

func validFormat(format string) bool {
	for _, f := range OutputFormats {
		if strings.EqualFold(format, f) {
			return true
		}
	}
	return false
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if path == "" {
		return ErrInvalidPath
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	if filepath.Clean(path) == "" {
		return ErrInvalidPath
	}

	return nil
}

// FieldError represents an invalid value for a config key.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Err.Error() + ": " + e.Field + "=" + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
