// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNoEditor is returned when the editor command is blank.
var ErrNoEditor = errors.New("no editor configured")

// Editor runs an editor command on a file, attached to the given streams.
type Editor struct {
	// Command is the editor invocation. It may carry arguments, as in
	// "code --wait".
	Command string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Editor for the detected command attached to the process's
// standard streams.
func New() *Editor {
	return &Editor{
		Command: Detect(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Open edits path and waits for the editor to exit.
func (e *Editor) Open(ctx context.Context, path string) error {
	argv := strings.Fields(e.Command)
	if len(argv) == 0 {
		return errors.WithHint(ErrNoEditor, "set $EDITOR")
	}

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return errors.WithHintf(errors.Wrapf(err, "running editor %q", argv[0]),
			"check $EDITOR (currently %q)", e.Command)
	}
	return nil
}

// Detect returns the editor command from $EDITOR, then $VISUAL, falling
// back to nano when installed and vi otherwise.
func Detect() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
