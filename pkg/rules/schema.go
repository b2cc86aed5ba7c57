package rules

import (
	"reflect"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// TagName is the struct tag read by SchemaOf.
const TagName = "rules"

// Declaration attaches one rule kind to a field.
type Declaration struct {
	Kind     Kind
	Optional bool
	Provider Provider
}

// Require declares kind k from provider p; empty values are validated.
func Require(p Provider, k Kind) Declaration {
	return Declaration{Kind: k, Provider: p}
}

// Optional declares kind k from provider p; empty values skip validation.
func Optional(p Provider, k Kind) Declaration {
	return Declaration{Kind: k, Optional: true, Provider: p}
}

// FieldSchema is the declared metadata of one model field.
type FieldSchema struct {
	Name         string
	DisplayName  string
	Type         reflect.Type
	Declarations []Declaration
}

// Context returns the *Field handed to rule functions when validating this
// field of model.
func (f FieldSchema) Context(model any) *Field {
	return &Field{
		Name:         f.Name,
		DisplayName:  f.DisplayName,
		DeclaredType: f.Type,
		Model:        model,
	}
}

// Schema is the declarative rule metadata of one model type.
// Build it once at startup; it is read-only afterwards.
type Schema struct {
	name   string
	parent *Schema
	fields []*FieldSchema
	index  map[string]int
}

// NewSchema creates an empty schema for the named model.
func NewSchema(name string) *Schema {
	return &Schema{
		name:  name,
		index: make(map[string]int),
	}
}

// Name returns the model name.
func (s *Schema) Name() string {
	return s.name
}

// Extends makes s inherit every field declaration of parent.
// It panics if parent already inherits from s.
func (s *Schema) Extends(parent *Schema) *Schema {
	for p := parent; p != nil; p = p.parent {
		if p == s {
			panic("rules: schema " + s.name + " inherits from itself")
		}
	}
	s.parent = parent
	return s
}

// Parent returns the schema s inherits from, or nil.
func (s *Schema) Parent() *Schema {
	return s.parent
}

// Field declares a field of type typ with the given rules. Declaring the same
// field again appends to its declarations.
func (s *Schema) Field(name string, typ reflect.Type, decls ...Declaration) *Schema {
	return s.Add(FieldSchema{Name: name, Type: typ, Declarations: decls})
}

// Add declares a field from a FieldSchema. Declaring the same field again
// appends to its declarations; an empty DisplayName or nil Type keeps the
// earlier value.
func (s *Schema) Add(f FieldSchema) *Schema {
	if i, ok := s.index[f.Name]; ok {
		existing := s.fields[i]
		existing.Declarations = append(existing.Declarations, f.Declarations...)
		if f.DisplayName != "" {
			existing.DisplayName = f.DisplayName
		}
		if f.Type != nil {
			existing.Type = f.Type
		}
		return s
	}

	f.Declarations = slices.Clone(f.Declarations)
	s.index[f.Name] = len(s.fields)
	s.fields = append(s.fields, &f)
	return s
}

// Fields returns the schema's own fields followed by inherited ones. A field
// declared both here and in an ancestor appears once, at its first position,
// with the nearer declarations first.
func (s *Schema) Fields() []FieldSchema {
	var out []FieldSchema
	pos := make(map[string]int)

	for c := s; c != nil; c = c.parent {
		for _, f := range c.fields {
			if i, ok := pos[f.Name]; ok {
				merged := &out[i]
				merged.Declarations = append(merged.Declarations, f.Declarations...)
				if merged.Type == nil {
					merged.Type = f.Type
				}
				if merged.DisplayName == "" {
					merged.DisplayName = f.DisplayName
				}
				continue
			}
			pos[f.Name] = len(out)
			cp := *f
			cp.Declarations = slices.Clone(f.Declarations)
			out = append(out, cp)
		}
	}

	return out
}

// Lookup returns the merged schema of the named field.
func (s *Schema) Lookup(name string) (FieldSchema, bool) {
	for _, f := range s.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSchema{}, false
}

// SchemaOf builds a schema from the struct tags of t, resolving every kind
// against provider p. Fields of embedded structs are treated as inherited and
// follow the struct's own fields.
//
// The tag holds semicolon-separated declarations, each a kind optionally
// followed by ",optional":
//
//	Phone string `rules:"required;phone_number" display:"Phone number"`
//	Fax   string `rules:"phone_number,optional"`
func SchemaOf(t reflect.Type, p Provider) (*Schema, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.Newf("rules: %s is not a struct type", typeName(t))
	}

	s := NewSchema(t.Name())
	if err := collectFields(s, t, p, map[reflect.Type]bool{}); err != nil {
		return nil, err
	}
	return s, nil
}

func collectFields(s *Schema, t reflect.Type, p Provider, visiting map[reflect.Type]bool) error {
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	var embedded []reflect.Type
	for i := range t.NumField() {
		sf := t.Field(i)

		if sf.Anonymous {
			et := sf.Type
			if et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				embedded = append(embedded, et)
				continue
			}
		}

		tag, ok := sf.Tag.Lookup(TagName)
		if !ok || !sf.IsExported() {
			continue
		}

		decls, err := parseTag(tag, p)
		if err != nil {
			return errors.Wrapf(err, "field %s.%s", t.Name(), sf.Name)
		}
		s.Add(FieldSchema{
			Name:         sf.Name,
			DisplayName:  sf.Tag.Get("display"),
			Type:         sf.Type,
			Declarations: decls,
		})
	}

	for _, et := range embedded {
		if err := collectFields(s, et, p, visiting); err != nil {
			return err
		}
	}
	return nil
}

func parseTag(tag string, p Provider) ([]Declaration, error) {
	var decls []Declaration
	for part := range strings.SplitSeq(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, flags, _ := strings.Cut(part, ",")
		kind := Kind(strings.TrimSpace(name))
		if !kind.Valid() {
			return nil, errors.Wrapf(ErrInvalidKind, "empty kind in tag %q", tag)
		}

		d := Declaration{Kind: kind, Provider: p}
		for flag := range strings.SplitSeq(flags, ",") {
			switch strings.TrimSpace(flag) {
			case "":
			case "optional":
				d.Optional = true
			default:
				return nil, errors.Newf("unknown rule flag %q in tag %q", strings.TrimSpace(flag), tag)
			}
		}
		decls = append(decls, d)
	}
	return decls, nil
}
