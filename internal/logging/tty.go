package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ColorMode controls whether terminal output is colorized.
type ColorMode int

const (
	// ColorAuto colorizes only when the writer supports it.
	ColorAuto ColorMode = iota
	// ColorNever disables color regardless of the writer.
	ColorNever
)

// ColorModeFromSetting maps the boolean color setting to a ColorMode.
func ColorModeFromSetting(enabled bool) ColorMode {
	if enabled {
		return ColorAuto
	}
	return ColorNever
}

// IsTTY returns true if the given writer is a terminal.
// It supports os.File and any wrapper that provides an Fd() method.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SupportsColor returns true if the given writer supports ANSI color codes.
// It returns false if:
//   - The writer is not a TTY
//   - The NO_COLOR environment variable is set
//   - The TERM environment variable is set to "dumb"
func SupportsColor(w io.Writer) bool {
	return supportsColor(IsTTY(w))
}

// UseColor combines the writer's capabilities with mode.
func UseColor(w io.Writer, mode ColorMode) bool {
	return mode != ColorNever && SupportsColor(w)
}

func supportsColor(isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
