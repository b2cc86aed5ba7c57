package schema

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/rulebook/pkg/fileutil"
	"github.com/thoreinstein/rulebook/pkg/frontmatter"
	"github.com/thoreinstein/rulebook/pkg/rules"
)

// Sentinel errors for schema loading.
var (
	// ErrInvalidSchema indicates a structurally invalid schema file.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrUnknownType indicates a field type that is not recognized.
	ErrUnknownType = errors.New("unknown field type")

	// ErrUnknownParent indicates an extends clause naming a missing model.
	ErrUnknownParent = errors.New("unknown parent model")

	// ErrCycle indicates models that extend each other.
	ErrCycle = errors.New("inheritance cycle")

	// ErrUnknownModel indicates a lookup of a model the file does not define.
	ErrUnknownModel = errors.New("unknown model")

	// ErrUnsupportedFormat indicates an unrecognized file extension.
	ErrUnsupportedFormat = errors.New("unsupported schema format")
)

// File is the decoded form of a schema file.
type File struct {
	Models []ModelSpec `yaml:"models" json:"models" toml:"models"`
}

// ModelSpec declares one model.
type ModelSpec struct {
	Name    string      `yaml:"name" json:"name" toml:"name"`
	Extends string      `yaml:"extends,omitempty" json:"extends,omitempty" toml:"extends,omitempty"`
	Fields  []FieldSpec `yaml:"fields" json:"fields" toml:"fields"`
}

// FieldSpec declares one field of a model.
type FieldSpec struct {
	Name    string     `yaml:"name" json:"name" toml:"name"`
	Type    string     `yaml:"type,omitempty" json:"type,omitempty" toml:"type,omitempty"`
	Display string     `yaml:"display,omitempty" json:"display,omitempty" toml:"display,omitempty"`
	Rules   []RuleSpec `yaml:"rules,omitempty" json:"rules,omitempty" toml:"rules,omitempty"`
}

// RuleSpec declares one rule on a field.
type RuleSpec struct {
	Kind     string `yaml:"kind" json:"kind" toml:"kind"`
	Optional bool   `yaml:"optional,omitempty" json:"optional,omitempty" toml:"optional,omitempty"`
}

// Set is a compiled schema file. It is read-only and safe for concurrent use.
type Set struct {
	path   string
	order  []string
	models map[string]*rules.Schema
}

// Path returns the file the set was loaded from, if any.
func (s *Set) Path() string {
	return s.path
}

// Models returns the model names in file order.
func (s *Set) Models() []string {
	return slices.Clone(s.order)
}

// Model returns the compiled schema of the named model.
func (s *Set) Model(name string) (*rules.Schema, error) {
	if m, ok := s.models[name]; ok {
		return m, nil
	}
	return nil, errors.WithHintf(
		errors.Wrapf(ErrUnknownModel, "%q", name),
		"models in %s: %s", s.display(), strings.Join(s.order, ", "))
}

// Select returns the named model, or the only model when name is empty.
func (s *Set) Select(name string) (*rules.Schema, error) {
	if name != "" {
		return s.Model(name)
	}
	switch len(s.order) {
	case 0:
		return nil, errors.Wrapf(ErrInvalidSchema, "%s defines no models", s.display())
	case 1:
		return s.models[s.order[0]], nil
	default:
		return nil, errors.WithHintf(
			errors.Newf("%s defines %d models", s.display(), len(s.order)),
			"choose one with --model: %s", strings.Join(s.order, ", "))
	}
}

func (s *Set) display() string {
	if s.path == "" {
		return "schema"
	}
	return filepath.Base(s.path)
}

// Load reads and compiles the schema file at path, resolving kinds against p.
func Load(path string, p rules.Provider) (*Set, error) {
	f, err := Read(path)
	if err != nil {
		return nil, err
	}
	set, err := Compile(f, p)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	set.path = path
	return set, nil
}

// Read decodes the schema file at path without compiling it.
func Read(path string) (*File, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".md" {
		f, _, err := frontmatter.ParseFile[File](path)
		if err != nil {
			return nil, errors.Wrap(err, "reading schema")
		}
		return &f, nil
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading schema")
	}

	f, err := Decode(data, ext)
	return f, errors.Wrapf(err, "%s", path)
}

// Decode parses schema content in the format named by ext (".yaml", ".yml",
// ".toml" or ".json").
func Decode(data []byte, ext string) (*File, error) {
	var f File
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&f); errors.Is(err, io.EOF) {
			err = nil
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	default:
		return nil, errors.WithHint(
			errors.Wrapf(ErrUnsupportedFormat, "%q", ext),
			"use .yaml, .yml, .toml, .json or .md")
	}
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decoding schema"), ErrInvalidSchema)
	}
	return &f, nil
}

// Compile checks f and builds one rules.Schema per model. Every declaration
// is bound to p.
func Compile(f *File, p rules.Provider) (*Set, error) {
	if f == nil {
		return nil, errors.Wrap(ErrInvalidSchema, "nil schema file")
	}

	kinds := newKindIndex(p)
	set := &Set{models: make(map[string]*rules.Schema, len(f.Models))}
	parents := make(map[string]string, len(f.Models))

	for i, m := range f.Models {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, errors.Wrapf(ErrInvalidSchema, "model #%d has no name", i+1)
		}
		if _, dup := set.models[name]; dup {
			return nil, errors.Wrapf(ErrInvalidSchema, "model %q defined twice", name)
		}

		s, err := compileModel(name, m.Fields, kinds, p)
		if err != nil {
			return nil, err
		}
		set.models[name] = s
		set.order = append(set.order, name)
		parents[name] = strings.TrimSpace(m.Extends)
	}

	for _, name := range set.order {
		parent := parents[name]
		if parent == "" {
			continue
		}
		ps, ok := set.models[parent]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownParent, "model %q extends %q", name, parent)
		}
		if chain, cyclic := findCycle(name, parents); cyclic {
			return nil, errors.Wrapf(ErrCycle, "%s", strings.Join(chain, " -> "))
		}
		set.models[name].Extends(ps)
	}

	return set, nil
}

func compileModel(name string, fields []FieldSpec, kinds kindIndex, p rules.Provider) (*rules.Schema, error) {
	s := rules.NewSchema(name)
	seen := make(map[string]bool, len(fields))

	for j, fs := range fields {
		fname := strings.TrimSpace(fs.Name)
		if fname == "" {
			return nil, errors.Wrapf(ErrInvalidSchema, "model %q: field #%d has no name", name, j+1)
		}
		if seen[fname] {
			return nil, errors.Wrapf(ErrInvalidSchema, "model %q: field %q defined twice", name, fname)
		}
		seen[fname] = true

		_, rt, err := ParseType(fs.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "model %q field %q", name, fname)
		}

		decls := make([]rules.Declaration, 0, len(fs.Rules))
		for _, r := range fs.Rules {
			kind := kinds.resolve(r.Kind)
			if !kind.Valid() {
				return nil, errors.Wrapf(ErrInvalidSchema, "model %q field %q: rule without kind", name, fname)
			}
			decls = append(decls, rules.Declaration{Kind: kind, Optional: r.Optional, Provider: p})
		}

		s.Add(rules.FieldSchema{
			Name:         fname,
			DisplayName:  strings.TrimSpace(fs.Display),
			Type:         rt,
			Declarations: decls,
		})
	}

	return s, nil
}

// findCycle follows extends links from name and reports the chain if it
// returns to a model already visited.
func findCycle(name string, parents map[string]string) ([]string, bool) {
	chain := []string{name}
	visited := map[string]bool{name: true}
	for cur := parents[name]; cur != ""; cur = parents[cur] {
		chain = append(chain, cur)
		if visited[cur] {
			return chain, true
		}
		visited[cur] = true
	}
	return nil, false
}

// kindIndex maps case-folded kind names to the provider's spelling.
type kindIndex map[string]rules.Kind

func newKindIndex(p rules.Provider) kindIndex {
	idx := make(kindIndex)
	if p == nil {
		return idx
	}

	var known []rules.Kind
	if d, ok := p.(rules.Domain); ok {
		known = d.Kinds()
	}
	if len(known) == 0 {
		for _, fn := range p.Funcs() {
			known = append(known, fn.Kinds...)
		}
	}

	fold := cases.Fold()
	for _, k := range known {
		key := fold.String(string(k))
		if _, ok := idx[key]; !ok {
			idx[key] = k
		}
	}
	return idx
}

func (idx kindIndex) resolve(name string) rules.Kind {
	name = strings.TrimSpace(name)
	if k, ok := idx[cases.Fold().String(name)]; ok {
		return k
	}
	return rules.Kind(name)
}
