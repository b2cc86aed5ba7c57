// Package record decodes the field values of one model instance from a JSON,
// YAML or TOML file.
package record

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/rulebook/pkg/fileutil"
)

// ErrNotObject indicates a record file whose top-level value is not an object.
var ErrNotObject = errors.New("record must be an object")

// ErrUnsupportedFormat indicates an unrecognized record file extension.
var ErrUnsupportedFormat = errors.New("unsupported record format")

// Record maps field names to decoded values. Absent fields are missing from
// the map; explicit nulls are present with a nil value.
type Record map[string]any

// Get returns the value of field and whether the record sets it.
func (r Record) Get(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

// Fields returns the number of fields set.
func (r Record) Fields() int {
	return len(r)
}

// Load reads the record file at path. The format follows the extension:
// .json, .yaml, .yml or .toml. "-" is not special; callers read stdin
// themselves and use Decode.
func Load(path string) (Record, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading record")
	}
	rec, err := Decode(bytes.NewReader(data), filepath.Ext(path))
	return rec, errors.Wrapf(err, "%s", path)
}

// Decode reads one record in the format named by ext. JSON numbers are kept
// as json.Number so integers survive without float rounding.
func Decode(r io.Reader, ext string) (Record, error) {
	var raw any
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(err, "decoding JSON record")
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "decoding YAML record")
		}
	case ".toml":
		var m map[string]any
		if err := toml.NewDecoder(r).Decode(&m); err != nil {
			return nil, errors.Wrap(err, "decoding TOML record")
		}
		raw = m
	default:
		return nil, errors.WithHint(
			errors.Wrapf(ErrUnsupportedFormat, "%q", ext),
			"use .json, .yaml, .yml or .toml")
	}

	switch v := raw.(type) {
	case nil:
		return Record{}, nil
	case map[string]any:
		return Record(v), nil
	default:
		return nil, errors.Wrapf(ErrNotObject, "got %T", v)
	}
}
