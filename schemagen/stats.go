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
	"bufio"
	"io"
	"strings"

	"github.com/ebay/graphschema/rdf"
	"github.com/ebay/graphschema/util/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var fmtr = message.NewPrinter(language.English)

// WriteStats writes a summary of the run followed by a table of the
// resolved types.
func WriteStats(w io.Writer, res *Result) error {
	bw := bufio.NewWriter(w)
	count := func(c int) string {
		return fmtr.Sprintf("%d", c)
	}
	stats := res.Resolved.Stats
	t := [][]string{
		{"Statements", count(res.Statements)},
		{"Subjects", count(res.Subjects)},
		{"Classes", count(len(res.Summary))},
		{"Types", count(len(res.Resolved.Types))},
		{"Unions", count(len(res.Resolved.Unions))},
		{"Iterations", count(stats.Iterations)},
		{"Splits", count(stats.Splits)},
		{"Merges", count(stats.Merges)},
		{"Cycles", count(stats.Cycles)},
	}
	table.PrettyPrint(bw, t, table.NumericRight)
	bw.WriteRune('\n')

	t = [][]string{{"Type", "Instances", "Fields", "Derived From"}}
	for _, typ := range res.Resolved.Types {
		origins := ""
		if typ.Derived {
			parts := make([]string, len(typ.Origins))
			for i, o := range typ.Origins {
				if name, ok := res.Names.Lookup(o); ok {
					parts[i] = name.Short()
				} else {
					parts[i] = "<" + string(o) + ">"
				}
			}
			origins = strings.Join(parts, "\n")
		}
		t = append(t, []string{typ.Label, count(typ.Instances), count(len(typ.Fields)), origins})
	}
	table.PrettyPrint(bw, t, table.HeaderRow|table.SkipEmpty|table.NumericRight)
	return bw.Flush()
}

// WriteSummary writes one row per class and property as observed in the
// source, before any types were split.
func WriteSummary(w io.Writer, res *Result) error {
	bw := bufio.NewWriter(w)
	short := func(iri rdf.IRI) string {
		if name, ok := res.Names.Lookup(iri); ok {
			return name.Short()
		}
		return "<" + string(iri) + ">"
	}
	t := [][]string{{"Class", "Instances", "Property", "Uses", "Targets", "Scalars", "Multi"}}
	for _, info := range res.Summary {
		class := info.Name.Short()
		instances := fmtr.Sprintf("%d", info.Instances)
		if info.Empty() {
			t = append(t, []string{class, instances, "", "", "", "", ""})
			continue
		}
		for _, p := range info.Properties {
			targets := make([]string, len(p.Targets))
			for i, target := range p.Targets {
				targets[i] = short(target)
			}
			scalars := make([]string, len(p.Scalars))
			for i, s := range p.Scalars {
				scalars[i] = s.String()
			}
			multi := ""
			if p.Multi {
				multi = "yes"
			}
			t = append(t, []string{class, instances, p.Name.Short(), fmtr.Sprintf("%d", p.Count),
				strings.Join(targets, "\n"), strings.Join(scalars, ", "), multi})
			class, instances = "", ""
		}
	}
	table.PrettyPrint(bw, t, table.HeaderRow|table.SkipEmpty)
	return bw.Flush()
}
