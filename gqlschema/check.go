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
	"fmt"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/graphql/language/printer"
)

// Print renders a document as GraphQL SDL text.
func Print(doc *ast.Document) string {
	s, _ := printer.Print(doc).(string)
	return s
}

// Parse parses GraphQL SDL text.
func Parse(text string) (*ast.Document, error) {
	return parser.Parse(parser.ParseParams{
		Source:  text,
		Options: parser.ParseOptions{NoSource: true},
	})
}

// RoundTripError is returned by CheckRoundTrip when printing a document,
// parsing it back and printing it again changes the text.
type RoundTripError struct {
	Printed   string
	Reprinted string
	// ParseErr is set when the printed text did not parse.
	ParseErr error
}

func (e *RoundTripError) Error() string {
	if e.ParseErr != nil {
		return fmt.Sprintf("printed schema does not parse: %v", e.ParseErr)
	}
	return "printed schema changes when parsed and printed again"
}

// Unwrap returns the parse error, if any.
func (e *RoundTripError) Unwrap() error {
	return e.ParseErr
}

// CheckRoundTrip verifies that print(parse(print(doc))) == print(doc). A
// document without definitions trivially passes.
func CheckRoundTrip(doc *ast.Document) error {
	if len(doc.Definitions) == 0 {
		return nil
	}
	printed := Print(doc)
	parsed, err := Parse(printed)
	if err != nil {
		return &RoundTripError{Printed: printed, ParseErr: err}
	}
	reprinted := Print(parsed)
	if reprinted != printed {
		return &RoundTripError{Printed: printed, Reprinted: reprinted}
	}
	return nil
}

// DanglingReferenceError is returned by CheckReferences for a type name
// used but never defined.
type DanglingReferenceError struct {
	// Definition is the type or union containing the reference.
	Definition string
	// Field is empty for union members.
	Field string
	Ref   string
}

func (e *DanglingReferenceError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("union %s refers to undefined type %s", e.Definition, e.Ref)
	}
	return fmt.Sprintf("field %s.%s refers to undefined type %s", e.Definition, e.Field, e.Ref)
}

// CheckReferences verifies that every named type used in the document is a
// built in scalar or is defined in the document, and that no name is
// defined twice.
func CheckReferences(doc *ast.Document) error {
	defined := make(map[string]bool)
	for _, s := range builtinScalars {
		defined[s] = true
	}
	for _, def := range doc.Definitions {
		name := definitionName(def)
		if name == "" {
			continue
		}
		if defined[name] {
			return fmt.Errorf("type %s is defined more than once", name)
		}
		defined[name] = true
	}
	for _, def := range doc.Definitions {
		switch d := def.(type) {
		case *ast.ObjectDefinition:
			for _, f := range d.Fields {
				ref := namedType(f.Type)
				if !defined[ref] {
					return &DanglingReferenceError{Definition: d.Name.Value, Field: f.Name.Value, Ref: ref}
				}
			}
		case *ast.UnionDefinition:
			for _, m := range d.Types {
				if !defined[m.Name.Value] {
					return &DanglingReferenceError{Definition: d.Name.Value, Ref: m.Name.Value}
				}
			}
		}
	}
	return nil
}

func definitionName(def ast.Node) string {
	switch d := def.(type) {
	case *ast.ObjectDefinition:
		return d.Name.Value
	case *ast.UnionDefinition:
		return d.Name.Value
	case *ast.ScalarDefinition:
		return d.Name.Value
	case *ast.EnumDefinition:
		return d.Name.Value
	case *ast.InterfaceDefinition:
		return d.Name.Value
	case *ast.InputObjectDefinition:
		return d.Name.Value
	}
	return ""
}

// namedType strips list and non-null wrappers.
func namedType(t ast.Type) string {
	for {
		switch v := t.(type) {
		case *ast.NonNull:
			t = v.Type
		case *ast.List:
			t = v.Type
		case *ast.Named:
			return v.Name.Value
		default:
			return ""
		}
	}
}
