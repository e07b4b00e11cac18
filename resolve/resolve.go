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

// Package resolve turns a summary of observed classes into a set of types in
// which every property has one unambiguous range.
//
// When classes that share a property disagree on its range, each of them is
// split into a remainder type without the property, and a single composite
// type carries the property with the combined range. Splits can cascade:
// types that pointed at a split class now point at both its remainder and
// the composite, which may expose new disagreements. The process runs to a fixed point. Properties
// whose range spans several types are then given a union type; unions are
// interned, so the same member set always yields the same union.
package resolve

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/ebay/graphschema/naming"
	"github.com/ebay/graphschema/rdf"
	"github.com/ebay/graphschema/summarize"
	"github.com/ebay/graphschema/util/cmp"
	"github.com/google/btree"
	log "github.com/sirupsen/logrus"
)

// Options controls Resolve.
type Options struct {
	// MaxIterations bounds the fixed point loop. If zero, a ceiling derived
	// from the number of types and properties is used.
	MaxIterations int
}

// Resolve computes the resolved types for 'types'.
func Resolve(types []*summarize.TypeInfo, opts Options) (*Result, error) {
	r := newResolver()
	r.load(types)
	limit := opts.MaxIterations
	if limit <= 0 {
		limit = defaultCeiling(len(r.propNames), len(types))
	}
	for r.worklist.Len() > 0 {
		if r.stats.Iterations >= limit {
			return nil, &InvariantViolationError{
				Iterations: r.stats.Iterations,
				Pending:    r.worklist.Len(),
			}
		}
		r.stats.Iterations++
		item := r.worklist.DeleteMin().(propItem)
		delete(r.queued, item.property)
		r.process(item.property)
	}
	res := r.finish()
	log.WithFields(log.Fields{
		"types":      len(res.Types),
		"unions":     res.Stats.Unions,
		"iterations": res.Stats.Iterations,
		"splits":     res.Stats.Splits,
		"merges":     res.Stats.Merges,
		"cycles":     res.Stats.Cycles,
	}).Info("Resolved types")
	return res, nil
}

// defaultCeiling allows every property to be revisited once per change to
// every other property or type, with headroom.
func defaultCeiling(props, types int) int {
	return 8 * (props + 1) * (props + types + 1)
}

// record is an entry in the resolver's arena. Retired records forward to
// their replacement. A record retired by a split also stands for the
// composite listed in 'also'.
type record struct {
	id        TypeID
	label     string
	name      naming.Name
	origins   []rdf.IRI
	extends   []TypeID
	props     map[rdf.IRI]*prop
	derived   bool
	instances int
	forward   TypeID
	also      []TypeID
}

func (rec *record) live() bool {
	return rec.forward == rec.id
}

// Key implements cmp.Key. Records are identified by their sorted origins
// and sorted property IRIs.
func (rec *record) Key(b *strings.Builder) {
	for i, o := range rec.origins {
		if i > 0 {
			b.WriteByte('+')
		}
		b.WriteString(string(o))
	}
	b.WriteByte('{')
	for i, p := range sortedProps(rec.props) {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(p))
	}
	b.WriteByte('}')
}

type prop struct {
	name    naming.Name
	targets map[TypeID]struct{}
	scalars map[summarize.ScalarKind]struct{}
	multi   bool
}

func newProp(name naming.Name) *prop {
	return &prop{
		name:    name,
		targets: make(map[TypeID]struct{}),
		scalars: make(map[summarize.ScalarKind]struct{}),
	}
}

func (p *prop) clone() *prop {
	c := newProp(p.name)
	c.mergeFrom(p)
	return c
}

func (p *prop) mergeFrom(other *prop) {
	for t := range other.targets {
		p.targets[t] = struct{}{}
	}
	for s := range other.scalars {
		p.scalars[s] = struct{}{}
	}
	p.multi = p.multi || other.multi
}

// propItem is an item in the worklist BTree.
type propItem struct {
	short    string
	property rdf.IRI
}

// Less on propItem orders properties by short name.
func (item propItem) Less(other btree.Item) bool {
	return item.short < other.(propItem).short
}

type resolver struct {
	arena []*record
	// identity key -> live record
	live map[string]TypeID
	// property -> live records declaring it
	owners map[rdf.IRI]map[TypeID]struct{}
	// type -> properties whose targets include it
	referencedBy map[TypeID]map[rdf.IRI]struct{}
	worklist     *btree.BTree
	queued       map[rdf.IRI]bool
	propNames    map[rdf.IRI]naming.Name
	stats        Stats
	// union hash -> unions with that hash
	unions map[uint64][]*Union
	result *Result
}

func newResolver() *resolver {
	return &resolver{
		live:         make(map[string]TypeID),
		owners:       make(map[rdf.IRI]map[TypeID]struct{}),
		referencedBy: make(map[TypeID]map[rdf.IRI]struct{}),
		worklist:     btree.New(16),
		queued:       make(map[rdf.IRI]bool),
		propNames:    make(map[rdf.IRI]naming.Name),
		unions:       make(map[uint64][]*Union),
	}
}

// load creates a record per class. Targets that aren't among 'types' are
// treated as untyped resources.
func (r *resolver) load(types []*summarize.TypeInfo) {
	byClass := make(map[rdf.IRI]TypeID, len(types))
	recs := make([]*record, len(types))
	for i, info := range types {
		rec := r.alloc(&record{
			label:     info.Name.Local,
			name:      info.Name,
			origins:   []rdf.IRI{info.Class},
			props:     make(map[rdf.IRI]*prop, len(info.Properties)),
			instances: info.Instances,
		})
		recs[i] = rec
		if _, dup := byClass[info.Class]; !dup {
			byClass[info.Class] = rec.id
		}
	}
	for i, info := range types {
		rec := recs[i]
		for _, usage := range info.Properties {
			r.propNames[usage.Property] = usage.Name
			p := newProp(usage.Name)
			p.multi = usage.Multi
			for _, s := range usage.Scalars {
				p.scalars[s] = struct{}{}
			}
			for _, target := range usage.Targets {
				id, ok := byClass[target]
				if !ok {
					log.WithFields(log.Fields{
						"class":    info.Name.Short(),
						"property": usage.Name.Short(),
						"target":   target,
					}).Warn("Property targets a class with no summary; treating it as ID")
					p.scalars[summarize.ID] = struct{}{}
					continue
				}
				p.targets[id] = struct{}{}
			}
			rec.props[usage.Property] = p
		}
	}
	for _, rec := range recs {
		r.insert(rec)
	}
}

// alloc adds 'rec' to the arena, assigning its ID. The record is not yet
// indexed; see insert.
func (r *resolver) alloc(rec *record) *record {
	rec.id = TypeID(len(r.arena))
	rec.forward = rec.id
	r.arena = append(r.arena, rec)
	return rec
}

// insert indexes an allocated record and queues its properties. If a live
// record with the same identity key exists, 'rec' is merged into it and
// forwarded there instead. It returns the ID of the record now holding the
// data.
func (r *resolver) insert(rec *record) TypeID {
	key := cmp.GetKey(rec)
	if existingID, exists := r.live[key]; exists {
		existing := r.arena[existingID]
		for iri, p := range rec.props {
			existing.props[iri].mergeFrom(p)
			r.index(existingID, iri, p)
			r.enqueue(iri)
		}
		existing.extends = append(existing.extends, rec.extends...)
		existing.instances += rec.instances
		rec.forward = existingID
		r.stats.Merges++
		log.WithFields(log.Fields{
			"label": rec.label,
			"into":  existing.label,
		}).Debug("Merged identical type")
		return existingID
	}
	r.live[key] = rec.id
	for iri, p := range rec.props {
		r.index(rec.id, iri, p)
		r.enqueue(iri)
	}
	return rec.id
}

func (r *resolver) index(id TypeID, iri rdf.IRI, p *prop) {
	owners := r.owners[iri]
	if owners == nil {
		owners = make(map[TypeID]struct{})
		r.owners[iri] = owners
	}
	owners[id] = struct{}{}
	for t := range p.targets {
		refs := r.referencedBy[t]
		if refs == nil {
			refs = make(map[rdf.IRI]struct{})
			r.referencedBy[t] = refs
		}
		refs[iri] = struct{}{}
	}
}

// retire forwards 'rec' to 'to' and queues every property that referred to
// it.
func (r *resolver) retire(rec *record, to TypeID) {
	delete(r.live, cmp.GetKey(rec))
	for iri := range rec.props {
		delete(r.owners[iri], rec.id)
	}
	rec.forward = to
	r.redirect(rec, to)
}

// redirect queues every property that referred to 'rec' and registers them
// as referring to 'to' as well.
func (r *resolver) redirect(rec *record, to TypeID) {
	for iri := range r.referencedBy[rec.id] {
		r.enqueue(iri)
		// targets still name the retired record and expand follows it, so
		// a later retirement of 'to' must requeue them too.
		refs := r.referencedBy[to]
		if refs == nil {
			refs = make(map[rdf.IRI]struct{})
			r.referencedBy[to] = refs
		}
		refs[iri] = struct{}{}
	}
}

func (r *resolver) enqueue(iri rdf.IRI) {
	if r.queued[iri] {
		return
	}
	r.queued[iri] = true
	r.worklist.ReplaceOrInsert(propItem{short: r.propNames[iri].Short(), property: iri})
}

// find returns the live record that 'id' forwards to.
func (r *resolver) find(id TypeID) TypeID {
	for r.arena[id].forward != id {
		id = r.arena[id].forward
	}
	return id
}

// expand appends the live records that 'id' stands for to 'out': the record
// itself if it's live, otherwise everything its forward and its 'also'
// entries stand for. The forwarding graph is acyclic as records only ever
// forward to records that were live when they were retired.
func (r *resolver) expand(id TypeID, seen map[TypeID]bool, out []TypeID) []TypeID {
	if seen[id] {
		return out
	}
	seen[id] = true
	rec := r.arena[id]
	if rec.live() {
		return append(out, id)
	}
	out = r.expand(rec.forward, seen, out)
	for _, a := range rec.also {
		out = r.expand(a, seen, out)
	}
	return out
}

// ownersOf returns the live records declaring 'iri', ordered by identity
// key.
func (r *resolver) ownersOf(iri rdf.IRI) []*record {
	res := make([]*record, 0, len(r.owners[iri]))
	for id := range r.owners[iri] {
		res = append(res, r.arena[id])
	}
	sortByKey(res)
	return res
}

// rangeKey describes the resolved range of a property, for comparison
// between owners.
func (r *resolver) rangeKey(p *prop) string {
	var b strings.Builder
	for i, id := range r.resolvedTargets(p) {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(cmp.GetKey(r.arena[id]))
	}
	b.WriteByte('|')
	for _, s := range sortedScalars(p) {
		b.WriteString(s.String())
		b.WriteByte(',')
	}
	return b.String()
}

// resolvedTargets returns the live targets of 'p', ordered by identity key.
func (r *resolver) resolvedTargets(p *prop) []TypeID {
	seen := make(map[TypeID]bool, len(p.targets))
	var ids []TypeID
	for t := range p.targets {
		ids = r.expand(t, seen, ids)
	}
	recs := make([]*record, len(ids))
	for i, id := range ids {
		recs[i] = r.arena[id]
	}
	sortByKey(recs)
	res := make([]TypeID, len(recs))
	for i, rec := range recs {
		res[i] = rec.id
	}
	return res
}

// process checks the owners of one property and splits them if they
// disagree on its range.
func (r *resolver) process(iri rdf.IRI) {
	owners := r.ownersOf(iri)
	if len(owners) < 2 {
		return
	}
	first := r.rangeKey(owners[0].props[iri])
	for _, o := range owners[1:] {
		if r.rangeKey(o.props[iri]) != first {
			r.split(iri, owners)
			return
		}
	}
}

// split replaces each owner with a remainder lacking 'iri', and adds one
// composite carrying 'iri' with the combined range. Properties that referred
// to an owner now refer to its remainder and the composite.
func (r *resolver) split(iri rdf.IRI, owners []*record) {
	name := r.propNames[iri]
	labels := make([]string, len(owners))
	for i, o := range owners {
		labels[i] = o.label
	}
	log.WithFields(log.Fields{
		"property": name.Short(),
		"owners":   labels,
	}).Debug("Splitting types that disagree on a property's range")

	combined := newProp(name)
	origins := make(map[rdf.IRI]struct{})
	instances := 0
	extends := make([]TypeID, 0, len(owners))
	for _, o := range owners {
		combined.mergeFrom(o.props[iri])
		for _, origin := range o.origins {
			origins[origin] = struct{}{}
		}
		instances += o.instances
		remainder := r.alloc(&record{
			label:     o.label + "_without_" + name.Local,
			origins:   o.origins,
			extends:   append([]TypeID(nil), o.extends...),
			props:     make(map[rdf.IRI]*prop, len(o.props)),
			derived:   true,
			instances: o.instances,
		})
		for other, p := range o.props {
			if other != iri {
				remainder.props[other] = p.clone()
			}
		}
		to := r.insert(remainder)
		r.retire(o, to)
		extends = append(extends, to)
		r.stats.Splits++
	}
	composite := r.alloc(&record{
		label:     strings.Join(labels, "_and_"),
		origins:   sortedIRIs(origins),
		extends:   extends,
		props:     map[rdf.IRI]*prop{iri: combined},
		derived:   true,
		instances: instances,
	})
	compID := r.insert(composite)
	for _, o := range owners {
		o.also = append(o.also, compID)
		r.redirect(o, compID)
	}
}

// finish converts the live records into the Result, synthesizing unions for
// multi-target properties.
func (r *resolver) finish() *Result {
	res := &Result{byID: make(map[TypeID]*Type)}
	r.result = res
	var live []*record
	for _, rec := range r.arena {
		if rec.live() {
			live = append(live, rec)
		}
	}
	sortByKey(live)
	sort.SliceStable(live, func(i, j int) bool {
		return live[i].label < live[j].label
	})
	for _, rec := range live {
		t := &Type{
			ID:        rec.id,
			Label:     rec.label,
			Name:      rec.name,
			Origins:   rec.origins,
			Derived:   rec.derived,
			Instances: rec.instances,
		}
		seen := map[TypeID]bool{rec.id: true}
		for _, e := range rec.extends {
			e = r.find(e)
			if !seen[e] {
				seen[e] = true
				t.Extends = append(t.Extends, e)
			}
		}
		sort.Slice(t.Extends, func(i, j int) bool { return t.Extends[i] < t.Extends[j] })
		for _, iri := range sortedProps(rec.props) {
			p := rec.props[iri]
			f := Field{
				Property: iri,
				Name:     p.name,
				Multi:    p.multi,
				Scalar:   summarize.Widen(sortedScalars(p)),
			}
			switch targets := r.resolvedTargets(p); len(targets) {
			case 0:
			case 1:
				f.Object = Ref{Kind: TypeRef, Type: targets[0]}
			default:
				f.Object = Ref{Kind: UnionRef, Union: r.intern(targets)}
			}
			t.Fields = append(t.Fields, f)
		}
		sort.SliceStable(t.Fields, func(i, j int) bool {
			return t.Fields[i].Name.Short() < t.Fields[j].Name.Short()
		})
		res.Types = append(res.Types, t)
		res.byID[t.ID] = t
	}
	r.stats.Unions = len(res.Unions)
	r.stats.Cycles = countCycles(res)
	res.Stats = r.stats
	return res
}

// intern returns the union over 'members', which must be ordered by
// identity key, creating it on first use.
func (r *resolver) intern(members []TypeID) UnionID {
	keys := make([]string, len(members))
	labels := make([]string, len(members))
	for i, m := range members {
		keys[i] = cmp.GetKey(r.arena[m])
		labels[i] = r.arena[m].label
	}
	canonical := strings.Join(keys, "|")
	hash := xxhash.Sum64String(canonical)
	for _, u := range r.unions[hash] {
		if u.canonical == canonical {
			return u.ID
		}
	}
	u := &Union{
		ID:        UnionID(len(r.result.Unions)),
		Label:     strings.Join(labels, "_union_"),
		Members:   append([]TypeID(nil), members...),
		Hash:      hash,
		canonical: canonical,
	}
	r.unions[hash] = append(r.unions[hash], u)
	r.result.Unions = append(r.result.Unions, u)
	return u.ID
}

func sortByKey(recs []*record) {
	keys := make(map[TypeID]string, len(recs))
	for _, rec := range recs {
		keys[rec.id] = cmp.GetKey(rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		return keys[recs[i].id] < keys[recs[j].id]
	})
}

func sortedProps(props map[rdf.IRI]*prop) []rdf.IRI {
	res := make([]rdf.IRI, 0, len(props))
	for iri := range props {
		res = append(res, iri)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func sortedIRIs(set map[rdf.IRI]struct{}) []rdf.IRI {
	res := make([]rdf.IRI, 0, len(set))
	for iri := range set {
		res = append(res, iri)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func sortedScalars(p *prop) []summarize.ScalarKind {
	res := make([]summarize.ScalarKind, 0, len(p.scalars))
	for s := range p.scalars {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
