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

package parser

import (
	"github.com/ebay/graphschema/rdf"
	"github.com/ebay/graphschema/util/unicode"
	p "github.com/vektah/goparsify"
)

var (
	// statement is the parser for a single directive or triples block,
	// including its terminating '.'.
	statement p.Parser
	// directive parses only prefix declarations. The TSV format uses it for
	// lines that declare prefixes.
	directive p.Parser
	// term parses a single subject, predicate or object.
	term p.Parser
)

func init() {
	// If you need to debug what the parser is doing, build with -tags debug
	// to enable goparsify's debug output.

	a := keyword("a").Map(func(n *p.Result) {
		n.Result = rdf.RDFType
	})
	boolean := p.Any(keyword("true"), keyword("false")).Map(func(n *p.Result) {
		n.Result = &rawLiteral{lexical: n.Token, datatype: rdf.XSDBoolean}
	})
	lang := p.Seq("@", p.Chars("A-Za-z0-9\\-", 1)).Map(func(n *p.Result) {
		n.Result = langTag(n.Child[1].Token)
	})
	datatype := p.Seq("^^", p.Any(iriRef(), prefixedName())).Map(func(n *p.Result) {
		n.Result = n.Child[1].Result
	})
	str := p.Seq(p.StringLit(`"'`), p.Maybe(p.Any(lang, datatype))).Map(func(n *p.Result) {
		lit := &rawLiteral{lexical: unicode.Normalize(n.Child[0].Token)}
		switch t := n.Child[1].Result.(type) {
		case langTag:
			lit.language = string(t)
		case nil:
		default:
			lit.datatype = t
		}
		n.Result = lit
	})
	resource := p.Any(blankNode(), iriRef(), prefixedName())
	object := p.Any(str, numberLit(), boolean, resource)
	objectList := p.Many(object, ",").Map(func(n *p.Result) {
		objects := make([]interface{}, len(n.Child))
		for i := range n.Child {
			objects[i] = n.Child[i].Result
		}
		n.Result = objects
	})
	verb := p.Any(a, iriRef(), prefixedName())
	predicateObject := p.Seq(verb, objectList).Map(func(n *p.Result) {
		n.Result = &predicateObjects{
			predicate: n.Child[0].Result,
			objects:   n.Child[1].Result.([]interface{}),
		}
	})
	predicateObjectList := p.Seq(p.Many(predicateObject, ";"), p.Maybe(";")).Map(func(n *p.Result) {
		list := make([]*predicateObjects, len(n.Child[0].Child))
		for i := range n.Child[0].Child {
			list[i] = n.Child[0].Child[i].Result.(*predicateObjects)
		}
		n.Result = list
	})
	triples := p.Seq(resource, p.Cut(), predicateObjectList, ".").Map(func(n *p.Result) {
		n.Result = &triplesBlock{
			subject: n.Child[0].Result,
			pairs:   n.Child[2].Result.([]*predicateObjects),
		}
	})

	turtlePrefix := p.Seq(keyword("@prefix"), p.Cut(), prefixLabel(), iriRef(), ".").Map(prefixDecl(2, 3))
	sparqlPrefix := p.Seq(keyword("PREFIX"), p.Cut(), prefixLabel(), iriRef()).Map(prefixDecl(2, 3))
	directive = p.Any(turtlePrefix, sparqlPrefix)
	statement = p.Any(directive, triples)
	term = p.Any(a, str, numberLit(), boolean, resource)
}

// prefixDecl returns a callback that builds a prefix declaration from the
// label and IRI found at the given child positions.
func prefixDecl(labelIdx, iriIdx int) func(*p.Result) {
	return func(n *p.Result) {
		n.Result = &prefixDirective{
			prefix:    n.Child[labelIdx].Token,
			namespace: string(n.Child[iriIdx].Result.(rdf.IRI)),
		}
	}
}

// langTag is the result of parsing a language tag after a string.
type langTag string

// rawLiteral is a literal whose datatype may still be an unresolved
// prefixed name.
type rawLiteral struct {
	lexical  string
	language string
	// datatype is nil, rdf.IRI or *pname.
	datatype interface{}
}

// pname is a prefixed name that has not been expanded yet.
type pname struct {
	prefix string
	local  string
}

type prefixDirective struct {
	prefix    string
	namespace string
}

type predicateObjects struct {
	predicate interface{}
	objects   []interface{}
}

type triplesBlock struct {
	subject interface{}
	pairs   []*predicateObjects
}
