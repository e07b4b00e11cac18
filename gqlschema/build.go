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

// Package gqlschema renders resolved types as a GraphQL schema document.
//
// Every object type gets an 'id: ID!' field followed by one field per
// property. Multi valued properties become lists. Properties that hold both
// resources and literals get a second field with a "_literal" suffix for the
// literal values. Unions are emitted as union definitions, and a Query root
// lists every object type.
package gqlschema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ebay/graphschema/resolve"
	"github.com/ebay/graphschema/summarize"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/iancoleman/strcase"
)

// QueryTypeName is the name of the root query type.
const QueryTypeName = "Query"

// IDFieldName is the identifier field every object type starts with.
const IDFieldName = "id"

// LiteralSuffix is appended to a field name for the literal side of a
// property that also has object values.
const LiteralSuffix = "_literal"

// builtinScalars can't be used as type names.
var builtinScalars = []string{"ID", "String", "Int", "Float", "Boolean"}

// Options controls Build.
type Options struct {
	// DisableQueryRoot omits the Query type.
	DisableQueryRoot bool
}

// Build creates the schema document for 'res'. Definitions appear in a
// fixed order: the Query root, object types in the order of res.Types,
// then unions in the order of res.Unions. The Query root is left out when
// there are no object types, since GraphQL doesn't allow an empty type.
func Build(res *resolve.Result, opts Options) (*ast.Document, error) {
	b := builder{
		res:        res,
		typeNames:  make(map[resolve.TypeID]string, len(res.Types)),
		unionNames: make(map[resolve.UnionID]string, len(res.Unions)),
		used:       newNameSet(),
	}
	b.used.reserve(QueryTypeName)
	for _, s := range builtinScalars {
		b.used.reserve(s)
	}
	for _, t := range res.Types {
		alt := ""
		if t.Name.Prefix != "" {
			alt = t.Name.Prefix + "_" + t.Label
		}
		b.typeNames[t.ID] = b.used.claim(t.Label, alt)
	}
	for _, u := range res.Unions {
		b.unionNames[u.ID] = b.used.claim(u.Label, "")
	}

	var defs []ast.Node
	if !opts.DisableQueryRoot && len(res.Types) > 0 {
		defs = append(defs, b.queryRoot())
	}
	for _, t := range res.Types {
		def, err := b.object(t)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	for _, u := range res.Unions {
		def, err := b.union(u)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return ast.NewDocument(&ast.Document{Definitions: defs}), nil
}

type builder struct {
	res        *resolve.Result
	typeNames  map[resolve.TypeID]string
	unionNames map[resolve.UnionID]string
	used       *nameSet
}

func (b *builder) object(t *resolve.Type) (*ast.ObjectDefinition, error) {
	fieldNames := newNameSet()
	fieldNames.reserve(IDFieldName)
	fields := []*ast.FieldDefinition{
		field(IDFieldName, nonNull(named("ID"))),
	}
	for _, f := range t.Fields {
		alt := ""
		if f.Name.Prefix != "" {
			alt = f.Name.Prefix + "_" + f.Name.Local
		}
		name := fieldNames.claim(f.Name.Local, alt)
		var objType string
		switch f.Object.Kind {
		case resolve.TypeRef:
			n, ok := b.typeNames[f.Object.Type]
			if !ok {
				return nil, fmt.Errorf("field %s of type %s refers to unknown type %d",
					f.Name.Short(), t.Label, f.Object.Type)
			}
			objType = n
		case resolve.UnionRef:
			n, ok := b.unionNames[f.Object.Union]
			if !ok {
				return nil, fmt.Errorf("field %s of type %s refers to unknown union %d",
					f.Name.Short(), t.Label, f.Object.Union)
			}
			objType = n
		}
		switch {
		case objType != "" && f.Scalar != summarize.NoScalar:
			fields = append(fields, field(name, wrap(named(objType), f.Multi)))
			literal := fieldNames.claim(name+LiteralSuffix, "")
			fields = append(fields, field(literal, wrap(named(f.Scalar.String()), f.Multi)))
		case objType != "":
			fields = append(fields, field(name, wrap(named(objType), f.Multi)))
		case f.Scalar != summarize.NoScalar:
			fields = append(fields, field(name, wrap(named(f.Scalar.String()), f.Multi)))
		default:
			fields = append(fields, field(name, wrap(named(summarize.String.String()), f.Multi)))
		}
	}
	return ast.NewObjectDefinition(&ast.ObjectDefinition{
		Name:        ast.NewName(&ast.Name{Value: b.typeNames[t.ID]}),
		Description: b.describe(t),
		Fields:      fields,
	}), nil
}

// describe returns a single line description of where a derived type came
// from, or nil for types observed directly.
func (b *builder) describe(t *resolve.Type) *ast.StringValue {
	if !t.Derived {
		return nil
	}
	origins := make([]string, len(t.Origins))
	for i, o := range t.Origins {
		origins[i] = string(o)
	}
	text := "Derived from " + strings.Join(origins, ", ")
	if len(t.Extends) > 0 {
		ext := make([]string, len(t.Extends))
		for i, e := range t.Extends {
			ext[i] = b.typeNames[e]
		}
		text += "; extends " + strings.Join(ext, ", ")
	}
	return ast.NewStringValue(&ast.StringValue{Value: descriptionSafe(text)})
}

// descriptionSafe keeps a description on one line and free of quotes, so
// that it survives printing as a block string and parsing back.
func descriptionSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\':
			return '\''
		case '\n', '\r', '\t':
			return ' '
		}
		return r
	}, s)
}

func (b *builder) union(u *resolve.Union) (*ast.UnionDefinition, error) {
	members := make([]*ast.Named, len(u.Members))
	for i, m := range u.Members {
		n, ok := b.typeNames[m]
		if !ok {
			return nil, fmt.Errorf("union %s has unknown member %d", u.Label, m)
		}
		members[i] = named(n)
	}
	return ast.NewUnionDefinition(&ast.UnionDefinition{
		Name:  ast.NewName(&ast.Name{Value: b.unionNames[u.ID]}),
		Types: members,
	}), nil
}

// queryRoot lists every object type as a field of the Query type.
func (b *builder) queryRoot() *ast.ObjectDefinition {
	names := newNameSet()
	fields := make([]*ast.FieldDefinition, 0, len(b.res.Types))
	for _, t := range b.res.Types {
		typeName := b.typeNames[t.ID]
		name := strcase.ToLowerCamel(typeName)
		if !validName(name) {
			name = "all_" + typeName
		}
		name = names.claim(name, "")
		fields = append(fields, field(name, nonNull(ast.NewList(&ast.List{Type: nonNull(named(typeName))}))))
	}
	return ast.NewObjectDefinition(&ast.ObjectDefinition{
		Name:   ast.NewName(&ast.Name{Value: QueryTypeName}),
		Fields: fields,
	})
}

func field(name string, t ast.Type) *ast.FieldDefinition {
	return ast.NewFieldDefinition(&ast.FieldDefinition{
		Name: ast.NewName(&ast.Name{Value: name}),
		Type: t,
	})
}

func named(name string) *ast.Named {
	return ast.NewNamed(&ast.Named{Name: ast.NewName(&ast.Name{Value: name})})
}

func nonNull(t ast.Type) *ast.NonNull {
	return ast.NewNonNull(&ast.NonNull{Type: t})
}

// wrap returns [T!] for multi valued fields and T otherwise.
func wrap(t *ast.Named, multi bool) ast.Type {
	if multi {
		return ast.NewList(&ast.List{Type: nonNull(t)})
	}
	return t
}

// nameSet hands out unique names.
type nameSet struct {
	taken map[string]bool
}

func newNameSet() *nameSet {
	return &nameSet{taken: make(map[string]bool)}
}

func (s *nameSet) reserve(name string) {
	s.taken[name] = true
}

// claim returns 'name' if it's free and valid. Otherwise it tries 'alt',
// then 'name' (or 'alt' if set) with _2, _3, ... appended.
func (s *nameSet) claim(name, alt string) string {
	if !validName(name) {
		name = "n_" + strings.Map(func(r rune) rune {
			if isNameRune(r) {
				return r
			}
			return '_'
		}, name)
	}
	if !s.taken[name] {
		s.taken[name] = true
		return name
	}
	base := name
	if alt != "" && validName(alt) {
		if !s.taken[alt] {
			s.taken[alt] = true
			return alt
		}
		base = alt
	}
	for i := 2; ; i++ {
		candidate := base + "_" + strconv.Itoa(i)
		if !s.taken[candidate] {
			s.taken[candidate] = true
			return candidate
		}
	}
}

// validName returns true if 's' matches GraphQL's /[_A-Za-z][_0-9A-Za-z]*/
// and does not start with the reserved "__".
func validName(s string) bool {
	if s == "" || strings.HasPrefix(s, "__") {
		return false
	}
	for i, r := range s {
		if !isNameRune(r) || (i == 0 && r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func isNameRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
