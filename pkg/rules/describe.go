package rules

import "sort"

// FieldRule is one declared rule in a Definition.
type FieldRule struct {
	Kind     Kind `json:"type" yaml:"type" toml:"type"`
	Optional bool `json:"optional" yaml:"optional" toml:"optional"`
}

// Definition maps field names to their declared rules. It is meant to be
// serialized for clients that mirror server-side validation.
type Definition map[string][]FieldRule

// Describe returns the rule definition of s, including inherited fields.
// Within a field each kind appears once, at its first declaration; fields
// without declarations are omitted. Describe only reads s.
func Describe(s *Schema) Definition {
	def := make(Definition)
	if s == nil {
		return def
	}

	for _, f := range s.Fields() {
		seen := make(map[Kind]bool, len(f.Declarations))
		var list []FieldRule
		for _, d := range f.Declarations {
			if !d.Kind.Valid() || seen[d.Kind] {
				continue
			}
			seen[d.Kind] = true
			list = append(list, FieldRule{Kind: d.Kind, Optional: d.Optional})
		}
		if len(list) > 0 {
			def[f.Name] = list
		}
	}

	return def
}

// Fields returns the described field names in lexical order.
func (d Definition) Fields() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kinds returns the kinds declared on field, in declaration order.
func (d Definition) Kinds(field string) []Kind {
	list := d[field]
	kinds := make([]Kind, len(list))
	for i, r := range list {
		kinds[i] = r.Kind
	}
	return kinds
}
