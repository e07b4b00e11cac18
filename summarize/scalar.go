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

package summarize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ebay/graphschema/rdf"
)

// ScalarKind is the GraphQL scalar used for a non-object value.
type ScalarKind int

// Supported ScalarKinds, in GraphQL's built in scalar names. The order is
// used to sort kinds.
const (
	NoScalar ScalarKind = iota
	// ID is used for IRI and blank node values whose class is unknown.
	ID
	Boolean
	Int
	Float
	String
)

func (k ScalarKind) String() string {
	switch k {
	case NoScalar:
		return "None"
	case ID:
		return "ID"
	case Boolean:
		return "Boolean"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	}
	return fmt.Sprintf("ScalarKind(%d)", int(k))
}

// KindOf returns the scalar kind for a literal, based on its datatype.
// Datatypes without a closer match are String.
//
// GraphQL's Int is a signed 32-bit value. Datatypes that always fit use Int.
// The unbounded and 64-bit integer datatypes use Int only for values that
// fit in 32 bits and String otherwise, so large values keep every digit.
func KindOf(lit rdf.Literal) ScalarKind {
	switch lit.Datatype {
	case rdf.XSDBoolean:
		return Boolean
	case rdf.XSDInt, rdf.XSDShort, rdf.XSDByte, rdf.XSDUnsignedShort, rdf.XSDUnsignedByte:
		return Int
	case rdf.XSDInteger, rdf.XSDLong, rdf.XSDUnsignedInt, rdf.XSDUnsignedLong,
		rdf.XSDNonNegativeInteger, rdf.XSDPositiveInteger,
		rdf.XSDNegativeInteger, rdf.XSDNonPositiveInteger:
		if fitsInt32(lit.Lexical) {
			return Int
		}
		return String
	case rdf.XSDDecimal, rdf.XSDFloat, rdf.XSDDouble:
		return Float
	}
	return String
}

func fitsInt32(lexical string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(lexical), 10, 32)
	return err == nil
}

// Widen returns the single kind that can represent every value of the
// given kinds: the kind itself if there's only one, Float for a mix of Int
// and Float, and String for any other mix. NoScalar entries are ignored.
func Widen(kinds []ScalarKind) ScalarKind {
	res := NoScalar
	for _, k := range kinds {
		switch {
		case k == NoScalar || k == res:
		case res == NoScalar:
			res = k
		case isNumeric(res) && isNumeric(k):
			res = Float
		default:
			return String
		}
	}
	return res
}

func isNumeric(k ScalarKind) bool {
	return k == Int || k == Float
}
