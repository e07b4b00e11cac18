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

// Package rdf defines the terms and statements that make up a graph of
// subject-predicate-object facts.
package rdf

import (
	"fmt"
	"strconv"
	"strings"
)

// Term is a node in the graph: an IRI, a blank node, or a literal.
type Term interface {
	// String returns the term in an N-Triples like syntax.
	String() string
	isTerm()
}

// IRI identifies a resource, class, or property.
type IRI string

// BlankNode is a node without a global identifier. The label is only
// meaningful within a single source.
type BlankNode string

// Literal is a lexical value with an optional datatype or language tag. A
// Literal with a Language always has the datatype rdf:langString.
type Literal struct {
	Lexical  string
	Datatype IRI
	Language string
}

func (IRI) isTerm()       {}
func (BlankNode) isTerm() {}
func (Literal) isTerm()   {}

func (i IRI) String() string {
	return "<" + string(i) + ">"
}

func (b BlankNode) String() string {
	return "_:" + string(b)
}

func (l Literal) String() string {
	s := strconv.Quote(l.Lexical)
	switch {
	case l.Language != "":
		return s + "@" + l.Language
	case l.Datatype != "" && l.Datatype != XSDString:
		return s + "^^" + l.Datatype.String()
	}
	return s
}

// NewString returns a plain xsd:string literal.
func NewString(s string) Literal {
	return Literal{Lexical: s, Datatype: XSDString}
}

// NewLangString returns a language tagged string literal.
func NewLangString(s, lang string) Literal {
	return Literal{Lexical: s, Datatype: RDFLangString, Language: strings.ToLower(lang)}
}

// NewTyped returns a literal with the given datatype. An empty datatype
// means xsd:string.
func NewTyped(s string, datatype IRI) Literal {
	if datatype == "" {
		datatype = XSDString
	}
	return Literal{Lexical: s, Datatype: datatype}
}

// IsResource returns true if the term can be the subject of a statement,
// that is, an IRI or a blank node.
func IsResource(t Term) bool {
	switch t.(type) {
	case IRI, BlankNode:
		return true
	}
	return false
}

// Statement is a single fact. Subject is an IRI or BlankNode; Object may be
// any Term.
type Statement struct {
	Subject   Term
	Predicate IRI
	Object    Term
}

func (s Statement) String() string {
	return fmt.Sprintf("%v %v %v .", s.Subject, s.Predicate, s.Object)
}

// Validate returns an error if the statement has a missing or misplaced
// term.
func (s Statement) Validate() error {
	if s.Subject == nil || !IsResource(s.Subject) {
		return fmt.Errorf("statement subject must be an IRI or blank node, got %v", s.Subject)
	}
	if s.Predicate == "" {
		return fmt.Errorf("statement predicate must not be empty: %v", s)
	}
	if s.Object == nil {
		return fmt.Errorf("statement object must not be nil: %v", s)
	}
	return nil
}
