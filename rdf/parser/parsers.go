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
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ebay/graphschema/rdf"
	"github.com/vektah/goparsify"
)

// turtleWS is a goparsify Whitespace parser. Whitespace chars are ' ' \t \r
// \n only. # starts a comment which runs to the end of the line.
func turtleWS(s *goparsify.State) {
	for s.Pos < len(s.Input) {
		switch s.Input[s.Pos] {
		case ' ', '\t', '\r', '\n':
			s.Pos++
		case '#':
			s.Pos++
			for s.Pos < len(s.Input) {
				c := s.Input[s.Pos]
				s.Pos++
				if c == '\n' || c == '\r' {
					break
				}
			}
		default:
			return
		}
	}
}

// keyword returns a parser that matches the supplied string ignoring case,
// as long as it is not immediately followed by a name character. This stops
// 'a' from matching the start of 'abc:x'.
func keyword(match string) goparsify.Parser {
	lenMatch := len(match)
	return goparsify.NewParser(match, func(s *goparsify.State, r *goparsify.Result) {
		s.WS(s)
		in := s.Get()
		if len(in) < lenMatch || !strings.EqualFold(match, in[:lenMatch]) {
			s.ErrorHere(match)
			return
		}
		if len(in) > lenMatch {
			next, _ := utf8.DecodeRuneInString(in[lenMatch:])
			if isNameChar(next) || next == ':' {
				s.ErrorHere(match)
				return
			}
		}
		s.Advance(lenMatch)
		r.Token = in[:lenMatch]
	})
}

// iriRef parses an IRI enclosed in angle brackets. The result is an rdf.IRI.
func iriRef() goparsify.Parser {
	return goparsify.NewParser("IRI", func(s *goparsify.State, r *goparsify.Result) {
		s.WS(s)
		in := s.Get()
		if len(in) == 0 || in[0] != '<' {
			s.ErrorHere("<")
			return
		}
		end := strings.IndexAny(in, "> \t\r\n\"{}|^`")
		if end < 0 || in[end] != '>' {
			s.ErrorHere("IRI terminated by >")
			return
		}
		r.Token = in[:end+1]
		r.Result = rdf.IRI(in[1:end])
		s.Advance(end + 1)
	})
}

// prefixLabel parses the 'ex:' part of a prefix declaration. The resulting
// token excludes the ':'.
func prefixLabel() goparsify.Parser {
	return goparsify.NewParser("prefix label", func(s *goparsify.State, r *goparsify.Result) {
		s.WS(s)
		in := s.Get()
		end := scanName(in)
		if end >= len(in) || in[end] != ':' {
			s.ErrorHere("prefix label ending in :")
			return
		}
		r.Token = in[:end]
		s.Advance(end + 1)
	})
}

// prefixedName parses 'prefix:local'. Local names may contain ':' and '.',
// but not a trailing '.', which ends the statement instead. The result is a
// *pname.
func prefixedName() goparsify.Parser {
	return goparsify.NewParser("prefixed name", func(s *goparsify.State, r *goparsify.Result) {
		s.WS(s)
		in := s.Get()
		end := scanName(in)
		if end >= len(in) || in[end] != ':' {
			s.ErrorHere("prefixed name")
			return
		}
		local := scanLocal(in[end+1:])
		r.Token = in[:end+1+len(local)]
		r.Result = &pname{prefix: in[:end], local: local}
		s.Advance(len(r.Token))
	})
}

// blankNode parses '_:label'. The result is an rdf.BlankNode.
func blankNode() goparsify.Parser {
	return goparsify.NewParser("blank node", func(s *goparsify.State, r *goparsify.Result) {
		s.WS(s)
		in := s.Get()
		if !strings.HasPrefix(in, "_:") {
			s.ErrorHere("_:")
			return
		}
		label := scanLocal(in[2:])
		if label == "" {
			s.ErrorHere("blank node label")
			return
		}
		r.Token = in[:2+len(label)]
		r.Result = rdf.BlankNode(label)
		s.Advance(len(r.Token))
	})
}

// numberLit parses an integer, decimal or double. Unlike goparsify's
// NumberLit it keeps the lexical form and picks the xsd datatype from the
// syntax. The result is a *rawLiteral.
func numberLit() goparsify.Parser {
	return goparsify.NewParser("number", func(s *goparsify.State, r *goparsify.Result) {
		s.WS(s)
		in := s.Get()
		pos := 0
		if pos < len(in) && (in[pos] == '-' || in[pos] == '+') {
			pos++
		}
		digits := func() int {
			start := pos
			for pos < len(in) && in[pos] >= '0' && in[pos] <= '9' {
				pos++
			}
			return pos - start
		}
		datatype := rdf.XSDInteger
		n := digits()
		// a '.' only belongs to the number if digits follow it, otherwise
		// it terminates the statement.
		if pos+1 < len(in) && in[pos] == '.' && in[pos+1] >= '0' && in[pos+1] <= '9' {
			pos++
			n += digits()
			datatype = rdf.XSDDecimal
		}
		if n == 0 {
			s.ErrorHere("number")
			return
		}
		if pos < len(in) && (in[pos] == 'e' || in[pos] == 'E') {
			mark := pos
			pos++
			if pos < len(in) && (in[pos] == '-' || in[pos] == '+') {
				pos++
			}
			if digits() == 0 {
				pos = mark
			} else {
				datatype = rdf.XSDDouble
			}
		}
		if pos < len(in) {
			next, _ := utf8.DecodeRuneInString(in[pos:])
			if isNameChar(next) || next == ':' {
				s.ErrorHere("number")
				return
			}
		}
		r.Token = in[:pos]
		r.Result = &rawLiteral{lexical: in[:pos], datatype: datatype}
		s.Advance(pos)
	})
}

// scanName returns the length of the leading run of name characters.
func scanName(in string) int {
	for i, r := range in {
		if !isNameChar(r) {
			return i
		}
	}
	return len(in)
}

// scanLocal returns the local part of a prefixed name or blank node label.
func scanLocal(in string) string {
	end := len(in)
	for i, r := range in {
		if !(isNameChar(r) || r == ':' || r == '.' || r == '%') {
			end = i
			break
		}
	}
	return strings.TrimRight(in[:end], ".")
}

func isNameChar(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
