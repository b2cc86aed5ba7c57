package errors

import (
	"fmt"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(ErrNotFound, ExitUser),
			want: "resource not found",
		},
		{
			name: "with wrapped error",
			err:  NewExitError(Wrap(ErrInvalidConfig, "loading config"), ExitUser),
			want: "loading config: invalid configuration",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitConfig),
			want: "exit code 3",
		},
		{
			name: "success code with error",
			err:  NewExitError(New("unexpected"), ExitSuccess),
			want: "unexpected",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ExitError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	tests := []struct {
		name       string
		err        *ExitError
		wantTarget error
		wantIs     bool
	}{
		{
			name:       "unwrap to sentinel error",
			err:        NewExitError(ErrNotFound, ExitUser),
			wantTarget: ErrNotFound,
			wantIs:     true,
		},
		{
			name:       "unwrap through wrapped error",
			err:        NewExitError(Wrapf(ErrUnknownModel, "schema %s", "people.yaml"), ExitUser),
			wantTarget: ErrUnknownModel,
			wantIs:     true,
		},
		{
			name:       "no match for different sentinel",
			err:        NewExitError(ErrNotFound, ExitUser),
			wantTarget: ErrInvalidConfig,
			wantIs:     false,
		},
		{
			name:       "nil underlying error",
			err:        NewExitError(nil, ExitUser),
			wantTarget: ErrNotFound,
			wantIs:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.wantTarget); got != tt.wantIs {
				t.Errorf("Is() = %v, want %v", got, tt.wantIs)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", New("boom"), ExitSystem},
		{"direct ExitError", NewExitError(ErrValidationFailed, ExitUser), ExitUser},
		{"wrapped ExitError", fmt.Errorf("command failed: %w", NewConfigError(ErrInvalidConfig)), ExitConfig},
		{"cockroach wrapped", Wrap(NewSystemError(ErrNotFound, ""), "reading"), ExitSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"ErrNotFound", ErrNotFound, "resource not found"},
		{"ErrInvalidConfig", ErrInvalidConfig, "invalid configuration"},
		{"ErrUnknownModel", ErrUnknownModel, "unknown model"},
		{"ErrValidationFailed", ErrValidationFailed, "validation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("%s.Error() = %q, want %q", tt.name, got, tt.wantMsg)
			}
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"ExitSuccess", ExitSuccess, 0},
		{"ExitUser", ExitUser, 1},
		{"ExitSystem", ExitSystem, 2},
		{"ExitConfig", ExitConfig, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.want {
				t.Errorf("%s = %d, want %d", tt.name, tt.code, tt.want)
			}
		})
	}
}

func TestErrorWrappingChain(t *testing.T) {
	baseErr := ErrInvalidConfig
	wrappedOnce := Wrap(baseErr, "parsing schema file")
	wrappedTwice := Wrapf(wrappedOnce, "loading model %q", "Contact")
	exitErr := NewExitError(wrappedTwice, ExitUser)

	if !Is(exitErr, ErrInvalidConfig) {
		t.Error("Is() should find ErrInvalidConfig through wrapping chain")
	}

	var target *ExitError
	if !As(exitErr, &target) {
		t.Fatal("As() should find ExitError")
	}
	if target.Code != ExitUser {
		t.Errorf("ExitError.Code = %d, want %d", target.Code, ExitUser)
	}

	want := `loading model "Contact": parsing schema file: invalid configuration`
	if got := exitErr.Error(); got != want {
		t.Errorf("ExitError.Error() = %q, want %q", got, want)
	}
}

func TestNewConstructors(t *testing.T) {
	t.Run("NewExitErrorWithSuggestion", func(t *testing.T) {
		err := New("oops")
		e := NewExitErrorWithSuggestion(err, 123, "try this")
		if e.Err != err {
			t.Errorf("Err = %v, want %v", e.Err, err)
		}
		if e.Code != 123 {
			t.Errorf("Code = %d, want 123", e.Code)
		}
		if e.Suggestion != "try this" {
			t.Errorf("Suggestion = %q, want 'try this'", e.Suggestion)
		}
	})

	t.Run("NewUserError", func(t *testing.T) {
		e := NewUserError(New("user error"), "check input")
		if e.Code != ExitUser {
			t.Errorf("Code = %d, want %d", e.Code, ExitUser)
		}
		if e.Suggestion != "check input" {
			t.Errorf("Suggestion = %q, want 'check input'", e.Suggestion)
		}
	})

	t.Run("NewSystemError", func(t *testing.T) {
		e := NewSystemError(New("system error"), "check logs")
		if e.Code != ExitSystem {
			t.Errorf("Code = %d, want %d", e.Code, ExitSystem)
		}
		if e.Suggestion != "check logs" {
			t.Errorf("Suggestion = %q, want 'check logs'", e.Suggestion)
		}
	})

	t.Run("NewConfigError default suggestion", func(t *testing.T) {
		e := NewConfigError(New("config error"))
		if e.Code != ExitConfig {
			t.Errorf("Code = %d, want %d", e.Code, ExitConfig)
		}
		if e.Suggestion != "Run: rulebook doctor" {
			t.Errorf("Suggestion = %q, want 'Run: rulebook doctor'", e.Suggestion)
		}
		if !Is(e, ErrInvalidConfig) {
			t.Error("NewConfigError should mark the error with ErrInvalidConfig")
		}
		if e.Error() != "config error" {
			t.Errorf("Error() = %q, want unchanged message", e.Error())
		}
	})

	t.Run("NewConfigError uses hints", func(t *testing.T) {
		err := WithHint(New("kind not registered"), "declare the kind in the provider domain")
		e := NewConfigError(err)
		if e.Suggestion != "declare the kind in the provider domain" {
			t.Errorf("Suggestion = %q", e.Suggestion)
		}
	})
}
