// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gqlschema

import (
	"context"
	"errors"
	"testing"

	"github.com/ebay/graphschema/naming"
	"github.com/ebay/graphschema/rdf/parser"
	"github.com/ebay/graphschema/resolve"
	"github.com/ebay/graphschema/source/memstore"
	"github.com/ebay/graphschema/summarize"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ex = "http://example.org/"

func resolveTurtle(t *testing.T, turtle string) *resolve.Result {
	doc, err := parser.ParseTurtle("@prefix ex: <http://example.org/> .\n" + turtle)
	require.NoError(t, err)
	s := memstore.New("test")
	require.NoError(t, s.Add(doc.Statements...))
	types, err := summarize.Summarize(context.Background(), s, naming.NewAllocator(), summarize.Options{})
	require.NoError(t, err)
	res, err := resolve.Resolve(types, resolve.Options{})
	require.NoError(t, err)
	return res
}

func buildTurtle(t *testing.T, turtle string, opts Options) (*ast.Document, string) {
	doc, err := Build(resolveTurtle(t, turtle), opts)
	require.NoError(t, err)
	return doc, Print(doc)
}

func Test_BuildMultiTargetUnion(t *testing.T) {
	doc, text := buildTurtle(t, `
ex:a a ex:TypeA ; ex:p ex:x1, ex:y1 .
ex:x1 a ex:TypeX .
ex:y1 a ex:TypeY .
`, Options{})
	assert.Equal(t, `type Query {
  typeA: [TypeA!]!
  typeX: [TypeX!]!
  typeY: [TypeY!]!
}

type TypeA {
  id: ID!
  p: [TypeX_union_TypeY!]
}

type TypeX {
  id: ID!
}

type TypeY {
  id: ID!
}

union TypeX_union_TypeY = TypeX | TypeY
`, text)
	assert.NoError(t, CheckReferences(doc))
	assert.NoError(t, CheckRoundTrip(doc))
}

func Test_BuildWithoutQueryRoot(t *testing.T) {
	_, text := buildTurtle(t, `
ex:a a ex:TypeA ; ex:name "A" ; ex:size 12 .
`, Options{DisableQueryRoot: true})
	assert.Equal(t, `type TypeA {
  id: ID!
  name: String
  size: Int
}
`, text)
}

func Test_BuildLiteralAndObjectValues(t *testing.T) {
	doc, text := buildTurtle(t, `
ex:a a ex:Thing ; ex:rel ex:b .
ex:c a ex:Thing ; ex:rel "just text" .
ex:b a ex:Other .
`, Options{DisableQueryRoot: true})
	assert.Equal(t, `type Other {
  id: ID!
}

type Thing {
  id: ID!
  rel: Other
  rel_literal: String
}
`, text)
	assert.NoError(t, CheckRoundTrip(doc))
}

func Test_BuildDerivedDescriptions(t *testing.T) {
	doc, text := buildTurtle(t, `
ex:a a ex:A ; ex:p ex:x .
ex:b a ex:B ; ex:p ex:y .
ex:x a ex:X .
ex:y a ex:Y .
`, Options{})
	assert.Contains(t, text, "\"\"\"Derived from http://example.org/A\"\"\"\ntype A_without_p {")
	assert.Contains(t, text, "\"\"\"Derived from http://example.org/A, http://example.org/B; extends ")
	assert.Contains(t, text, "type A_and_B {\n  id: ID!\n  p: X_union_Y\n}")
	assert.Contains(t, text, "  aAndB: [A_and_B!]!\n")
	assert.Contains(t, text, "union X_union_Y = X | Y")
	assert.NoError(t, CheckReferences(doc))
	assert.NoError(t, CheckRoundTrip(doc))
}

func Test_BuildNameClashes(t *testing.T) {
	person := naming.Name{Prefix: "foaf", Namespace: "http://xmlns.com/foaf/0.1/", Local: "Person"}
	res := &resolve.Result{
		Types: []*resolve.Type{
			{ID: 0, Label: "Person", Name: person, Fields: []resolve.Field{
				{Property: ex + "id", Name: naming.Name{Prefix: "example", Namespace: ex, Local: "id"}, Scalar: summarize.ID},
				{Property: ex + "knows", Name: naming.Name{Prefix: "example", Namespace: ex, Local: "knows"},
					Object: resolve.Ref{Kind: resolve.TypeRef, Type: 1}, Scalar: summarize.String, Multi: true},
				{Property: ex + "name", Name: naming.Name{Prefix: "example", Namespace: ex, Local: "name"}, Scalar: summarize.String},
				{Property: "http://xmlns.com/foaf/0.1/name", Name: naming.Name{Prefix: "foaf", Local: "name"}, Scalar: summarize.String},
			}},
			{ID: 1, Label: "Person", Name: naming.Name{Prefix: "example", Namespace: ex, Local: "Person"}},
			{ID: 2, Label: "Query", Name: naming.Name{Prefix: "example", Namespace: ex, Local: "Query"}},
			{ID: 3, Label: "String"},
		},
	}
	doc, err := Build(res, Options{})
	require.NoError(t, err)
	assert.Equal(t, `type Query {
  person: [Person!]!
  examplePerson: [example_Person!]!
  exampleQuery: [example_Query!]!
  string2: [String_2!]!
}

type Person {
  id: ID!
  example_id: ID
  knows: [example_Person!]
  knows_literal: [String!]
  name: String
  foaf_name: String
}

type example_Person {
  id: ID!
}

type example_Query {
  id: ID!
}

type String_2 {
  id: ID!
}
`, Print(doc))
	assert.NoError(t, CheckReferences(doc))
	assert.NoError(t, CheckRoundTrip(doc))
}

func Test_BuildUnknownReference(t *testing.T) {
	res := &resolve.Result{
		Types: []*resolve.Type{
			{ID: 0, Label: "A", Fields: []resolve.Field{
				{Property: ex + "p", Name: naming.Name{Local: "p"}, Object: resolve.Ref{Kind: resolve.UnionRef, Union: 4}},
			}},
		},
	}
	_, err := Build(res, Options{})
	assert.EqualError(t, err, "field p of type A refers to unknown union 4")
}

func Test_BuildEmpty(t *testing.T) {
	doc, err := Build(&resolve.Result{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, doc.Definitions)
	assert.NoError(t, CheckReferences(doc))
	assert.NoError(t, CheckRoundTrip(doc))
}

func Test_DescriptionSafe(t *testing.T) {
	assert.Equal(t, "say 'hi' now", descriptionSafe("say \"hi\"\nnow"))
	assert.Equal(t, "a'b c", descriptionSafe("a\\b\tc"))
}

func Test_NameSet(t *testing.T) {
	s := newNameSet()
	s.reserve("id")
	assert.Equal(t, "name", s.claim("name", "ex_name"))
	assert.Equal(t, "ex_name", s.claim("name", "ex_name"))
	assert.Equal(t, "ex_name_2", s.claim("name", "ex_name"))
	assert.Equal(t, "id_2", s.claim("id", ""))
	assert.Equal(t, "n_9lives", s.claim("9lives", ""))
	assert.Equal(t, "n___x", s.claim("__x", ""))
}

func Test_ValidName(t *testing.T) {
	tests := []struct {
		in  string
		exp bool
	}{
		{"a", true},
		{"_a1", true},
		{"A_b_C", true},
		{"", false},
		{"1a", false},
		{"__typename", false},
		{"a-b", false},
		{"é", false},
	}
	for _, test := range tests {
		assert.Equal(t, test.exp, validName(test.in), "validName(%q)", test.in)
	}
}

func Test_CheckReferences(t *testing.T) {
	doc, err := Parse(`
type A {
  id: ID!
  b: [B!]
}
`)
	require.NoError(t, err)
	err = CheckReferences(doc)
	var dangling *DanglingReferenceError
	require.True(t, errors.As(err, &dangling))
	assert.Equal(t, "field A.b refers to undefined type B", err.Error())

	doc, err = Parse("type A {\n  id: ID!\n}\n\nunion U = A | C\n")
	require.NoError(t, err)
	assert.EqualError(t, CheckReferences(doc), "union U refers to undefined type C")

	doc, err = Parse("type A {\n  id: ID!\n}\n\ntype A {\n  id: ID!\n}\n")
	require.NoError(t, err)
	assert.EqualError(t, CheckReferences(doc), "type A is defined more than once")
}

func Test_CheckRoundTripParseError(t *testing.T) {
	doc := ast.NewDocument(&ast.Document{Definitions: []ast.Node{
		ast.NewObjectDefinition(&ast.ObjectDefinition{
			Name:   ast.NewName(&ast.Name{Value: "A"}),
			Fields: []*ast.FieldDefinition{field("bad name", named("ID"))},
		}),
	}})
	err := CheckRoundTrip(doc)
	var rt *RoundTripError
	require.True(t, errors.As(err, &rt))
	assert.Error(t, rt.ParseErr)
}
