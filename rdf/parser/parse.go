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

// Package parser reads fact files into RDF statements. Two formats are
// supported: a subset of Turtle, and a tab separated format with one
// statement per line.
//
// The Turtle subset covers @prefix and PREFIX directives, IRIs, prefixed
// names, blank node labels, 'a', string literals with a language tag or
// datatype, numbers, booleans, and predicate (;) and object (,) lists.
// Collections, nested blank nodes and @base are not supported.
package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ebay/graphschema/rdf"
	"github.com/vektah/goparsify"
)

// Format identifies the syntax of a fact file.
type Format int

// Supported Formats.
const (
	Turtle Format = 1 + iota
	TSV
)

// ParseFormatName returns the Format with the given name: "turtle", "ttl"
// or "tsv".
func ParseFormatName(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "turtle", "ttl", "":
		return Turtle, nil
	case "tsv":
		return TSV, nil
	}
	return 0, fmt.Errorf("unknown fact file format: %q", name)
}

func (f Format) String() string {
	switch f {
	case Turtle:
		return "turtle"
	case TSV:
		return "tsv"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Document is the result of parsing a fact file.
type Document struct {
	// Prefixes declared in the file, keyed by prefix label.
	Prefixes map[string]string
	// Statements in the order they appear in the file.
	Statements []rdf.Statement
}

// PrefixLabels returns the declared prefix labels in sorted order.
func (d *Document) PrefixLabels() []string {
	labels := make([]string, 0, len(d.Prefixes))
	for l := range d.Prefixes {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// ParseError describes a syntax error in a fact file.
type ParseError struct {
	// Line is 1-based.
	Line    int
	Details string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Details)
}

// Parse parses 'input' in the given format.
func Parse(format Format, input string) (*Document, error) {
	switch format {
	case Turtle:
		return ParseTurtle(input)
	case TSV:
		return ParseTSV(input)
	}
	return nil, fmt.Errorf("unsupported format: %v", format)
}

// ParseTurtle parses a document in the supported subset of Turtle. The well
// known prefixes in rdf.DefaultPrefixes are available without being
// declared.
func ParseTurtle(input string) (*Document, error) {
	doc := newDocument()
	ps := goparsify.NewState(input)
	ps.WS = turtleWS
	for {
		ps.WS(ps)
		if ps.Pos >= len(ps.Input) {
			return doc, nil
		}
		start := ps.Pos
		res := goparsify.Result{}
		statement(ps, &res)
		if ps.Errored() {
			return nil, &ParseError{
				Line:    lineOf(input, start),
				Details: ps.Error.Error(),
			}
		}
		if err := doc.add(res.Result); err != nil {
			return nil, &ParseError{Line: lineOf(input, start), Details: err.Error()}
		}
	}
}

// ParseTSV parses a document with one statement per line: subject,
// predicate and object separated by tabs, optionally followed by a '.'
// column. Blank lines and lines starting with '#' are skipped; lines
// starting with @prefix or PREFIX declare prefixes.
func ParseTSV(input string) (*Document, error) {
	doc := newDocument()
	for i, line := range strings.Split(input, "\n") {
		lineNum := i + 1
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "@prefix") || strings.HasPrefix(lower, "prefix") {
			res, err := goparsify.Run(directive, trimmed, turtleWS)
			if err != nil {
				return nil, &ParseError{Line: lineNum, Details: err.Error()}
			}
			if err := doc.add(res); err != nil {
				return nil, &ParseError{Line: lineNum, Details: err.Error()}
			}
			continue
		}
		cells := strings.Split(line, "\t")
		if len(cells) == 4 && strings.TrimSpace(cells[3]) == "." {
			cells = cells[:3]
		}
		if len(cells) != 3 {
			return nil, &ParseError{
				Line:    lineNum,
				Details: fmt.Sprintf("expected 3 tab separated terms, got %d", len(cells)),
			}
		}
		raw := make([]interface{}, 3)
		for c, cell := range cells {
			t, err := goparsify.Run(term, strings.TrimSpace(cell), turtleWS)
			if err != nil {
				return nil, &ParseError{
					Line:    lineNum,
					Details: fmt.Sprintf("term %d (%q): %v", c+1, cell, err),
				}
			}
			raw[c] = t
		}
		block := &triplesBlock{
			subject: raw[0],
			pairs:   []*predicateObjects{{predicate: raw[1], objects: raw[2:]}},
		}
		if err := doc.add(block); err != nil {
			return nil, &ParseError{Line: lineNum, Details: err.Error()}
		}
	}
	return doc, nil
}

// ParseTerm parses a single term, expanding prefixed names with
// rdf.DefaultPrefixes.
func ParseTerm(input string) (rdf.Term, error) {
	raw, err := goparsify.Run(term, input, turtleWS)
	if err != nil {
		return nil, err
	}
	return newDocument().resolveTerm(raw)
}

func newDocument() *Document {
	return &Document{Prefixes: make(map[string]string)}
}

// add folds a parsed directive or triples block into the document.
func (d *Document) add(parsed interface{}) error {
	switch v := parsed.(type) {
	case *prefixDirective:
		d.Prefixes[v.prefix] = v.namespace
		return nil
	case *triplesBlock:
		subject, err := d.resolveTerm(v.subject)
		if err != nil {
			return err
		}
		if !rdf.IsResource(subject) {
			return fmt.Errorf("subject must be an IRI or blank node, got %v", subject)
		}
		for _, pair := range v.pairs {
			predTerm, err := d.resolveTerm(pair.predicate)
			if err != nil {
				return err
			}
			pred, ok := predTerm.(rdf.IRI)
			if !ok {
				return fmt.Errorf("predicate must be an IRI, got %v", predTerm)
			}
			for _, o := range pair.objects {
				obj, err := d.resolveTerm(o)
				if err != nil {
					return err
				}
				d.Statements = append(d.Statements, rdf.Statement{
					Subject:   subject,
					Predicate: pred,
					Object:    obj,
				})
			}
		}
		return nil
	}
	return fmt.Errorf("unexpected parse result %T", parsed)
}

func (d *Document) resolveTerm(raw interface{}) (rdf.Term, error) {
	switch t := raw.(type) {
	case rdf.IRI:
		return t, nil
	case rdf.BlankNode:
		return t, nil
	case *pname:
		return d.expand(t)
	case *rawLiteral:
		if t.language != "" {
			return rdf.NewLangString(t.lexical, t.language), nil
		}
		switch dt := t.datatype.(type) {
		case nil:
			return rdf.NewString(t.lexical), nil
		case rdf.IRI:
			return rdf.NewTyped(t.lexical, dt), nil
		case *pname:
			iri, err := d.expand(dt)
			if err != nil {
				return nil, err
			}
			return rdf.NewTyped(t.lexical, iri), nil
		}
	}
	return nil, fmt.Errorf("unexpected term %T", raw)
}

func (d *Document) expand(n *pname) (rdf.IRI, error) {
	ns, ok := d.Prefixes[n.prefix]
	if !ok {
		ns, ok = rdf.DefaultPrefixes[n.prefix]
	}
	if !ok {
		return "", fmt.Errorf("undeclared prefix '%s:'", n.prefix)
	}
	return rdf.IRI(ns + n.local), nil
}

// lineOf returns the 1-based line number containing byte offset 'pos'.
func lineOf(input string, pos int) int {
	if pos > len(input) {
		pos = len(input)
	}
	return strings.Count(input[:pos], "\n") + 1
}
