package frontmatter

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/rulebook/pkg/fileutil"
)

// Sentinel errors.
var (
	// ErrNoFrontmatter indicates the content does not start with a "---" line.
	ErrNoFrontmatter = errors.New("no frontmatter found")

	// ErrUnclosed indicates an opening delimiter without a closing one.
	ErrUnclosed = errors.New("missing closing frontmatter delimiter")

	// ErrInvalidYAML indicates the frontmatter is not valid YAML.
	ErrInvalidYAML = errors.New("invalid YAML in frontmatter")
)

// Parse reads r and decodes its YAML frontmatter into T. The body is the
// content after the line holding the closing delimiter.
func Parse[T any](r io.Reader) (T, []byte, error) {
	var meta T

	content, err := io.ReadAll(r)
	if err != nil {
		return meta, nil, errors.Wrap(err, "reading frontmatter")
	}

	header, body, err := Split(content)
	if err != nil {
		return meta, nil, err
	}

	if err := yaml.Unmarshal(header, &meta); err != nil {
		return meta, nil, errors.Mark(errors.Wrap(err, "invalid YAML in frontmatter"), ErrInvalidYAML)
	}

	return meta, body, nil
}

// ParseFile is Parse over the file at path, bounded by fileutil.MaxFileSize.
func ParseFile[T any](path string) (T, []byte, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		var zero T
		return zero, nil, err
	}
	meta, body, err := Parse[T](bytes.NewReader(data))
	return meta, body, errors.Wrapf(err, "%s", path)
}

// Split separates content into its frontmatter and body. Both LF and CRLF
// line endings are accepted.
func Split(content []byte) (header, body []byte, err error) {
	first, rest, _ := cutLine(content)
	if !isDelimiter(first) {
		return nil, nil, ErrNoFrontmatter
	}

	for remaining := rest; len(remaining) > 0; {
		line, next, _ := cutLine(remaining)
		if isDelimiter(line) {
			return rest[:len(rest)-len(remaining)], next, nil
		}
		remaining = next
	}

	return nil, nil, ErrUnclosed
}

// cutLine returns the first line of b without its terminator, the remainder
// after the terminator, and whether a terminator was found.
func cutLine(b []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t")) == "---"
}
