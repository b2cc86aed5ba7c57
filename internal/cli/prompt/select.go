// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/thoreinstein/rulebook/internal/errors"
)

// Sentinel errors for option selection.
var (
	ErrNoOptions          = errors.New("no options to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector asks the user to pick one of several options.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

// NewSelector creates a Selector reading answers from r and writing the
// prompt to w.
func NewSelector(r io.Reader, w io.Writer) *Selector {
	return &Selector{reader: r, writer: w}
}

// Select prompts for one of options and returns it. The first option is the
// default. A single option is returned without prompting.
//
// Returns ErrNoOptions for an empty list, ErrInvalidSelection for input that
// is not an option number and ErrSelectionCancelled on EOF (Ctrl+D).
func (s *Selector) Select(label string, options []string) (string, error) {
	if len(options) == 0 {
		return "", ErrNoOptions
	}
	if len(options) == 1 {
		return options[0], nil
	}

	fmt.Fprintf(s.writer, "%s:\n", label)
	for i, opt := range options {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, opt)
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := bufio.NewReader(s.reader).ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && input == "":
		return "", ErrSelectionCancelled
	case err != nil && !errors.Is(err, io.EOF):
		return "", errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return options[0], nil
	}

	n, err := strconv.Atoi(input)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if n < 1 || n > len(options) {
		return "", errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", n, len(options))
	}

	return options[n-1], nil
}
