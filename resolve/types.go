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

package resolve

import (
	"fmt"

	"github.com/ebay/graphschema/naming"
	"github.com/ebay/graphschema/rdf"
	"github.com/ebay/graphschema/summarize"
)

// TypeID identifies a type within one Result.
type TypeID int

// UnionID identifies a union within one Result. It is the union's index in
// Result.Unions.
type UnionID int

// RefKind says what a Ref points to.
type RefKind int

// Supported RefKinds.
const (
	NoRef RefKind = iota
	TypeRef
	UnionRef
)

// Ref is the object side of a Field: nothing, a single type, or a union.
type Ref struct {
	Kind  RefKind
	Type  TypeID
	Union UnionID
}

func (r Ref) String() string {
	switch r.Kind {
	case TypeRef:
		return fmt.Sprintf("type %d", r.Type)
	case UnionRef:
		return fmt.Sprintf("union %d", r.Union)
	}
	return "none"
}

// Field is a resolved property of a Type. A property whose values include
// both resources and literals has both Object and Scalar set.
type Field struct {
	Property rdf.IRI
	Name     naming.Name
	// Multi is true if some instance had more than one value.
	Multi  bool
	Object Ref
	Scalar summarize.ScalarKind
}

// Type is a resolved object type.
type Type struct {
	ID    TypeID
	Label string
	// Name is the class name for a type observed in the data, and the zero
	// value for derived types.
	Name naming.Name
	// Origins are the classes this type was derived from, sorted.
	Origins []rdf.IRI
	// Extends lists the remainder types a composite was split from.
	Extends []TypeID
	// Fields sorted by short name.
	Fields    []Field
	Derived   bool
	Instances int
}

// Field returns the field for 'property', if the type has one.
func (t *Type) Field(property rdf.IRI) (*Field, bool) {
	for i := range t.Fields {
		if t.Fields[i].Property == property {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

// Union is a synthesized type over two or more member types.
type Union struct {
	ID    UnionID
	Label string
	// Members are ordered by their identity key.
	Members []TypeID
	// Hash is the xxhash of the canonical member list.
	Hash uint64
	// canonical is the member identity keys joined with '|'.
	canonical string
}

// Stats counts the work done by Resolve.
type Stats struct {
	Iterations int
	Splits     int
	Merges     int
	Unions     int
	// Cycles is the number of groups of types that can reach themselves
	// through fields and unions.
	Cycles int
}

// Result is the output of Resolve. It is read only.
type Result struct {
	// Types sorted by label.
	Types  []*Type
	Unions []*Union
	Stats  Stats
	byID   map[TypeID]*Type
}

// Type returns the type with the given ID, or nil.
func (r *Result) Type(id TypeID) *Type {
	return r.byID[id]
}

// Union returns the union with the given ID, or nil.
func (r *Result) Union(id UnionID) *Union {
	if int(id) < 0 || int(id) >= len(r.Unions) {
		return nil
	}
	return r.Unions[id]
}

// TypeByLabel returns the first type with the given label, or nil. It's
// intended for tests and debugging.
func (r *Result) TypeByLabel(label string) *Type {
	for _, t := range r.Types {
		if t.Label == label {
			return t
		}
	}
	return nil
}

// InvariantViolationError is returned when resolution does not reach a
// fixed point within the iteration ceiling.
type InvariantViolationError struct {
	Iterations int
	// Pending is the number of properties still queued.
	Pending int
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("type resolution did not converge after %d iterations (%d properties pending)",
		e.Iterations, e.Pending)
}
