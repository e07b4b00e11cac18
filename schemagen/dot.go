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

package schemagen

import (
	"fmt"
	"io"

	"github.com/ebay/graphschema/resolve"
	"github.com/ebay/graphschema/util/graphviz"
)

// WriteDot writes the resolved types as a Graphviz digraph. Types are
// boxes (dashed when derived), unions are ellipses. Object fields are solid
// edges labeled with the field name, union membership is dotted, and a
// composite points to the remainders it extends with a hollow arrowhead.
// Scalar fields are not drawn. Errors from 'w' are ignored.
func WriteDot(w io.Writer, res *resolve.Result) {
	fmt.Fprintln(w, "digraph schema {")
	fmt.Fprintln(w, "\trankdir=LR;")
	fmt.Fprintln(w, "\tnode [shape=box];")
	for _, t := range res.Types {
		style := ""
		if t.Derived {
			style = ", style=dashed"
		}
		fmt.Fprintf(w, "\tt%d [label=%q%s];\n", t.ID, t.Label, style)
	}
	for _, u := range res.Unions {
		fmt.Fprintf(w, "\tu%d [label=%q, shape=ellipse];\n", u.ID, u.Label)
	}
	for _, t := range res.Types {
		for _, f := range t.Fields {
			switch f.Object.Kind {
			case resolve.TypeRef:
				fmt.Fprintf(w, "\tt%d -> t%d [label=%q];\n", t.ID, f.Object.Type, f.Name.Local)
			case resolve.UnionRef:
				fmt.Fprintf(w, "\tt%d -> u%d [label=%q];\n", t.ID, f.Object.Union, f.Name.Local)
			}
		}
		for _, e := range t.Extends {
			fmt.Fprintf(w, "\tt%d -> t%d [arrowhead=empty, style=dashed];\n", t.ID, e)
		}
	}
	for _, u := range res.Unions {
		for _, m := range u.Members {
			fmt.Fprintf(w, "\tu%d -> t%d [style=dotted];\n", u.ID, m)
		}
	}
	fmt.Fprintln(w, "}")
}

// CreateGraph writes the resolved types to 'filename' as a Graphviz file or,
// depending on the extension, an image rendered by the "dot" program.
func CreateGraph(filename string, res *resolve.Result) error {
	return graphviz.Create(filename, func(w io.Writer) {
		WriteDot(w, res)
	}, graphviz.Options{})
}
