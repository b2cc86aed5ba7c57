// Package frontmatter parses YAML frontmatter from Markdown files. rulebook
// uses it for schema files written as documentation pages, where the model
// declarations sit in the frontmatter and the body describes them.
//
// Frontmatter is delimited by lines containing only "---" at the start and end.
// The content between delimiters is parsed as YAML and unmarshaled into the
// type parameter T. The remaining content after the closing delimiter is
// returned as the body.
//
// # Basic Usage
//
//	type SchemaDoc struct {
//		Models []Model `yaml:"models"`
//	}
//
//	doc, body, err := frontmatter.ParseFile[SchemaDoc]("contact.md")
//	if err != nil {
//		return err
//	}
//
// # Error Handling
//
//   - [ErrNoFrontmatter]: content doesn't start with a "---" delimiter
//   - [ErrUnclosed]: the closing "---" delimiter is missing
//   - [ErrInvalidYAML]: frontmatter exists but contains invalid YAML
//
// These can be checked using errors.Is.
//
// Both Unix (LF) and Windows (CRLF) line endings are handled.
package frontmatter
