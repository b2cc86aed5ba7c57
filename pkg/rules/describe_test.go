package rules_test

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/rulebook/pkg/rules"
)

func personSchemas(p rules.Provider) (*rules.Schema, *rules.Schema) {
	str := reflect.TypeFor[string]()

	person := rules.NewSchema("Person").
		Field("Name", str, rules.Require(p, kindRequired)).
		Field("Phone", str, rules.Optional(p, kindPhone))

	contact := rules.NewSchema("Contact").Extends(person).
		Field("Phone", str, rules.Require(p, kindRequired), rules.Require(p, kindPhone)).
		Field("Email", str, rules.Require(p, kindRequired), rules.Require(p, kindRequired)).
		Field("Notes", str)

	return person, contact
}

func TestDescribe(t *testing.T) {
	lib := rules.NewLibrary("app")
	_, contact := personSchemas(lib)

	def := rules.Describe(contact)

	want := rules.Definition{
		"Phone": {
			{Kind: kindRequired},
			{Kind: kindPhone},
		},
		"Email": {
			{Kind: kindRequired},
		},
		"Name": {
			{Kind: kindRequired},
		},
	}
	assert.Equal(t, want, def)
	assert.Equal(t, []string{"Email", "Name", "Phone"}, def.Fields())
	assert.Equal(t, []rules.Kind{kindRequired, kindPhone}, def.Kinds("Phone"))
}

func TestDescribe_FirstDeclarationWins(t *testing.T) {
	lib := rules.NewLibrary("app")
	s := rules.NewSchema("M").
		Field("Code", reflect.TypeFor[string](),
			rules.Optional(lib, kindCustom),
			rules.Require(lib, kindRequired),
			rules.Require(lib, kindCustom),
			rules.Declaration{Provider: lib})

	def := rules.Describe(s)
	assert.Equal(t, []rules.FieldRule{
		{Kind: kindCustom, Optional: true},
		{Kind: kindRequired},
	}, def["Code"])
}

func TestDescribe_Pure(t *testing.T) {
	lib := rules.NewLibrary("app")
	_, contact := personSchemas(lib)

	first := rules.Describe(contact)
	second := rules.Describe(contact)
	assert.Equal(t, first, second)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, first, rules.Describe(contact))
		}()
	}
	wg.Wait()
}

func TestDescribe_NilSchema(t *testing.T) {
	assert.Empty(t, rules.Describe(nil))
}

func TestDefinition_JSON(t *testing.T) {
	def := rules.Definition{
		"Phone": {{Kind: kindPhone, Optional: true}},
	}

	data, err := json.Marshal(def)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Phone":[{"type":"phone_number","optional":true}]}`, string(data))
}

func TestSchema_FieldsMergeInheritance(t *testing.T) {
	lib := rules.NewLibrary("app")
	_, contact := personSchemas(lib)

	fields := contact.Fields()
	require.Len(t, fields, 4)
	assert.Equal(t, "Phone", fields[0].Name)
	assert.Equal(t, "Email", fields[1].Name)
	assert.Equal(t, "Notes", fields[2].Name)
	assert.Equal(t, "Name", fields[3].Name)

	// own declarations first, then inherited ones
	require.Len(t, fields[0].Declarations, 3)
	assert.Equal(t, kindRequired, fields[0].Declarations[0].Kind)
	assert.Equal(t, kindPhone, fields[0].Declarations[2].Kind)
	assert.True(t, fields[0].Declarations[2].Optional)

	name, ok := contact.Lookup("Name")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[string](), name.Type)

	_, ok = contact.Lookup("Missing")
	assert.False(t, ok)
}

func TestSchema_FieldsReturnsCopies(t *testing.T) {
	lib := rules.NewLibrary("app")
	person, _ := personSchemas(lib)

	fields := person.Fields()
	fields[0].Declarations[0].Kind = kindCustom

	assert.Equal(t, kindRequired, person.Fields()[0].Declarations[0].Kind)
}

func TestSchema_ExtendsCyclePanics(t *testing.T) {
	a := rules.NewSchema("A")
	b := rules.NewSchema("B").Extends(a)

	assert.Panics(t, func() { a.Extends(b) })
	assert.Panics(t, func() { a.Extends(a) })
}

func TestFieldSchema_Context(t *testing.T) {
	f := rules.FieldSchema{Name: "Phone", DisplayName: "Phone number", Type: reflect.TypeFor[string]()}
	model := struct{}{}

	ctx := f.Context(model)
	assert.Equal(t, "Phone", ctx.Name)
	assert.Equal(t, "Phone number", ctx.Label())
	assert.Equal(t, reflect.TypeFor[string](), ctx.DeclaredType)
	assert.Equal(t, model, ctx.Model)
}

type auditFields struct {
	CreatedBy string `rules:"required"`
}

type taggedContact struct {
	auditFields
	Name     string    `rules:"required"`
	Phone    string    `rules:"required;phone_number" display:"Phone number"`
	Fax      string    `rules:"phone_number,optional"`
	Birthday time.Time `rules:"required"`
	Untagged string
	hidden   string `rules:"required"` //nolint:unused
}

func TestSchemaOf(t *testing.T) {
	lib := rules.NewLibrary("app")

	s, err := rules.SchemaOf(reflect.TypeFor[*taggedContact](), lib)
	require.NoError(t, err)
	assert.Equal(t, "taggedContact", s.Name())

	fields := s.Fields()
	got := make([]string, len(fields))
	for i, f := range fields {
		got[i] = f.Name
	}
	assert.Equal(t, []string{"Name", "Phone", "Fax", "Birthday", "CreatedBy"}, got)

	phone, ok := s.Lookup("Phone")
	require.True(t, ok)
	assert.Equal(t, "Phone number", phone.DisplayName)
	assert.Equal(t, reflect.TypeFor[string](), phone.Type)

	def := rules.Describe(s)
	assert.Equal(t, []rules.FieldRule{{Kind: kindPhone, Optional: true}}, def["Fax"])
	assert.Equal(t, []rules.Kind{kindRequired, kindPhone}, def.Kinds("Phone"))
	assert.Equal(t, []rules.Kind{kindRequired}, def.Kinds("CreatedBy"))
	assert.Same(t, lib, phone.Declarations[0].Provider)
}

func TestSchemaOf_Errors(t *testing.T) {
	lib := rules.NewLibrary("app")

	type badFlag struct {
		Name string `rules:"required,sometimes"`
	}
	type emptyKind struct {
		Name string `rules:",optional"`
	}

	tests := []struct {
		name string
		typ  reflect.Type
	}{
		{"not a struct", reflect.TypeFor[string]()},
		{"nil type", nil},
		{"unknown flag", reflect.TypeFor[badFlag]()},
		{"empty kind", reflect.TypeFor[emptyKind]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rules.SchemaOf(tt.typ, lib)
			assert.Error(t, err)
		})
	}
}
