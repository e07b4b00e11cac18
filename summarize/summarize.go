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

// Package summarize scans a dataset once and describes each class observed
// in it: how many instances it has, which properties those instances use,
// and what kinds of values the properties hold.
package summarize

import (
	"context"
	"fmt"
	"sort"

	"github.com/ebay/graphschema/naming"
	"github.com/ebay/graphschema/rdf"
	"github.com/ebay/graphschema/source"
	"github.com/ebay/graphschema/util/parallel"
	log "github.com/sirupsen/logrus"
)

// TypeInfo describes one class observed in the dataset.
type TypeInfo struct {
	Class     rdf.IRI
	Name      naming.Name
	Instances int
	// Properties used by instances, sorted by short name.
	Properties []PropertyUsage
}

// Empty returns true if instances of the class have no properties. Empty
// classes are still types.
func (t *TypeInfo) Empty() bool {
	return len(t.Properties) == 0
}

// Property returns the usage of property 'p', if instances use it.
func (t *TypeInfo) Property(p rdf.IRI) (*PropertyUsage, bool) {
	for i := range t.Properties {
		if t.Properties[i].Property == p {
			return &t.Properties[i], true
		}
	}
	return nil, false
}

// PropertyUsage describes the values of a property across all instances of
// one class.
type PropertyUsage struct {
	Property rdf.IRI
	Name     naming.Name
	// Classes of the resource values, sorted.
	Targets []rdf.IRI
	// Kinds of the other values, sorted. ID appears when some resource
	// value has no class.
	Scalars []ScalarKind
	// Multi is true if some instance has more than one value.
	Multi bool
	// Count is the number of statements using the property.
	Count int
}

// Options controls Summarize.
type Options struct {
	// Predicates that declare class membership; the default is rdf:type.
	ClassPredicates []rdf.IRI
}

func (o Options) classPredicates() map[rdf.IRI]bool {
	res := make(map[rdf.IRI]bool)
	for _, p := range o.ClassPredicates {
		res[p] = true
	}
	if len(res) == 0 {
		res[rdf.RDFType] = true
	}
	return res
}

// Summarize reads every statement from 'src' and describes each class,
// allocating names for classes and properties from 'names'. The results
// are sorted by class short name.
func Summarize(ctx context.Context, src source.Source, names *naming.Allocator, opts Options) ([]*TypeInfo, error) {
	g, err := Scan(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	return g.Types(names)
}

// Graph is the raw material for the summary: class memberships and the
// outgoing edges of every subject.
type Graph struct {
	// Statements is the number of statements read.
	Statements int
	// subject key -> classes
	classes map[string]map[rdf.IRI]struct{}
	// subject key -> edges, excluding class membership
	edges map[string][]edge
	// class -> subject keys, in the order first seen
	instances map[rdf.IRI][]string
}

type edge struct {
	predicate rdf.IRI
	object    rdf.Term
}

// Subjects returns the number of distinct subjects.
func (g *Graph) Subjects() int {
	seen := make(map[string]struct{}, len(g.edges)+len(g.classes))
	for s := range g.edges {
		seen[s] = struct{}{}
	}
	for s := range g.classes {
		seen[s] = struct{}{}
	}
	return len(seen)
}

// Classes returns the number of distinct classes.
func (g *Graph) Classes() int {
	return len(g.instances)
}

// Scan reads 'src' once and collects class memberships and edges. The
// source is read by the caller's goroutine while a single consumer
// goroutine owns the Graph.
func Scan(ctx context.Context, src source.Source, opts Options) (*Graph, error) {
	classPreds := opts.classPredicates()
	g := &Graph{
		classes:   make(map[string]map[rdf.IRI]struct{}),
		edges:     make(map[string][]edge),
		instances: make(map[rdf.IRI][]string),
	}
	resCh := make(chan source.Chunk, 4)
	wait := parallel.Go(func() {
		for chunk := range resCh {
			for _, st := range chunk.Statements {
				g.add(st, classPreds)
			}
		}
	})
	err := src.Scan(ctx, resCh)
	wait()
	if err != nil {
		if _, ok := err.(*source.DataAccessError); ok {
			return nil, err
		}
		return nil, &source.DataAccessError{Source: src.Name(), Err: err}
	}
	log.WithFields(log.Fields{
		"source":     src.Name(),
		"statements": g.Statements,
		"classes":    g.Classes(),
	}).Info("Scanned source")
	return g, nil
}

func (g *Graph) add(st rdf.Statement, classPreds map[rdf.IRI]bool) {
	g.Statements++
	subject := st.Subject.String()
	if class, isIRI := st.Object.(rdf.IRI); isIRI && classPreds[st.Predicate] {
		set := g.classes[subject]
		if set == nil {
			set = make(map[rdf.IRI]struct{})
			g.classes[subject] = set
		}
		if _, exists := set[class]; !exists {
			set[class] = struct{}{}
			g.instances[class] = append(g.instances[class], subject)
		}
		return
	}
	g.edges[subject] = append(g.edges[subject], edge{predicate: st.Predicate, object: st.Object})
}

// Types builds the summary of every class, allocating names from 'names'.
// Names are allocated in IRI order, so the result doesn't depend on the
// order the source returned statements in.
func (g *Graph) Types(names *naming.Allocator) ([]*TypeInfo, error) {
	type accum struct {
		usage   PropertyUsage
		targets map[rdf.IRI]struct{}
		scalars map[ScalarKind]struct{}
	}
	var res []*TypeInfo
	for class, subjects := range g.instances {
		props := make(map[rdf.IRI]*accum)
		for _, subject := range subjects {
			perSubject := make(map[rdf.IRI]int)
			for _, e := range g.edges[subject] {
				a := props[e.predicate]
				if a == nil {
					a = &accum{
						usage:   PropertyUsage{Property: e.predicate},
						targets: make(map[rdf.IRI]struct{}),
						scalars: make(map[ScalarKind]struct{}),
					}
					props[e.predicate] = a
				}
				a.usage.Count++
				perSubject[e.predicate]++
				if perSubject[e.predicate] > 1 {
					a.usage.Multi = true
				}
				switch o := e.object.(type) {
				case rdf.Literal:
					a.scalars[KindOf(o)] = struct{}{}
				default:
					classes := g.classes[o.String()]
					if len(classes) == 0 {
						a.scalars[ID] = struct{}{}
					}
					for c := range classes {
						a.targets[c] = struct{}{}
					}
				}
			}
		}
		info := &TypeInfo{Class: class, Instances: len(subjects)}
		for _, a := range props {
			u := a.usage
			for t := range a.targets {
				u.Targets = append(u.Targets, t)
			}
			sort.Slice(u.Targets, func(i, j int) bool { return u.Targets[i] < u.Targets[j] })
			for k := range a.scalars {
				u.Scalars = append(u.Scalars, k)
			}
			sort.Slice(u.Scalars, func(i, j int) bool { return u.Scalars[i] < u.Scalars[j] })
			info.Properties = append(info.Properties, u)
		}
		res = append(res, info)
	}

	if err := allocateNames(res, names); err != nil {
		return nil, err
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Name.Short() < res[j].Name.Short()
	})
	props := 0
	for _, info := range res {
		sort.Slice(info.Properties, func(i, j int) bool {
			return info.Properties[i].Name.Short() < info.Properties[j].Name.Short()
		})
		props += len(info.Properties)
	}
	log.WithFields(log.Fields{
		"types":      len(res),
		"properties": props,
	}).Info("Summarized graph")
	return res, nil
}

// allocateNames assigns names to every class and property in sorted IRI
// order. Target classes are always classes with instances, so they are
// covered too.
func allocateNames(types []*TypeInfo, names *naming.Allocator) error {
	iris := make(map[rdf.IRI]struct{})
	for _, t := range types {
		iris[t.Class] = struct{}{}
		for _, p := range t.Properties {
			iris[p.Property] = struct{}{}
		}
	}
	sorted := make([]rdf.IRI, 0, len(iris))
	for iri := range iris {
		sorted = append(sorted, iri)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, iri := range sorted {
		if _, err := names.Allocate(iri); err != nil {
			return fmt.Errorf("summarize: %w", err)
		}
	}
	for _, t := range types {
		t.Name, _ = names.Lookup(t.Class)
		for i := range t.Properties {
			t.Properties[i].Name, _ = names.Lookup(t.Properties[i].Property)
		}
	}
	return nil
}
