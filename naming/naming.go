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

// Package naming maps IRIs to short, human readable names that are valid
// GraphQL identifiers.
//
// A Name is a prefix standing for a namespace, plus a local name. Within one
// Allocator the mapping is a bijection: two different IRIs never receive the
// same Name, even when their local parts sanitize to the same text. The
// Allocator is stateful and not safe for concurrent use; create one per
// schema generation run.
package naming

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ebay/graphschema/rdf"
)

// Name is the short form of an IRI.
type Name struct {
	// Prefix is a short label for Namespace. It matches [a-z][a-z0-9_]*.
	Prefix string
	// Namespace is the leading part of the IRI.
	Namespace string
	// Local is the sanitized and disambiguated remainder of the IRI. It
	// matches [_A-Za-z][_A-Za-z0-9]* and never starts with "__".
	Local string
}

// Short returns the name in prefix:local form, or just the local name when
// there is no prefix.
func (n Name) Short() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

// String returns Short().
func (n Name) String() string {
	return n.Short()
}

// NamingError is returned when no name can be derived for an identifier.
type NamingError struct {
	Identifier string
	Reason     string
}

func (e *NamingError) Error() string {
	return fmt.Sprintf("unable to name %q: %s", e.Identifier, e.Reason)
}

// Allocator assigns Names to IRIs. Allocations are idempotent and are never
// released, except by Reset.
type Allocator struct {
	// prefix -> namespace, for every prefix in use.
	namespaces map[string]string
	// namespace -> prefix, for every namespace in use.
	prefixes map[string]string
	// Namespaces added with AddNamespace, longest first. These are matched
	// by prefix when splitting an IRI; derived namespaces are not.
	declared []string

	byID    map[rdf.IRI]Name
	byShort map[string]rdf.IRI
	// namespace -> local -> IRI
	locals map[string]map[string]rdf.IRI
}

// NewAllocator returns an Allocator that knows the prefixes in
// rdf.DefaultPrefixes.
func NewAllocator() *Allocator {
	a := new(Allocator)
	a.Reset()
	return a
}

// Reset forgets every allocation and every added namespace, returning the
// allocator to the state NewAllocator returns.
func (a *Allocator) Reset() {
	a.namespaces = make(map[string]string)
	a.prefixes = make(map[string]string)
	a.declared = nil
	a.byID = make(map[rdf.IRI]Name)
	a.byShort = make(map[string]rdf.IRI)
	a.locals = make(map[string]map[string]rdf.IRI)
	labels := make([]string, 0, len(rdf.DefaultPrefixes))
	for p := range rdf.DefaultPrefixes {
		labels = append(labels, p)
	}
	sort.Strings(labels)
	for _, p := range labels {
		a.AddNamespace(p, rdf.DefaultPrefixes[p])
	}
}

// AddNamespace declares that IRIs starting with 'namespace' should be split
// there and use 'prefix'. If the namespace is already known, its existing
// prefix is kept. If the prefix is taken by a different namespace, or is
// not a valid prefix, a unique one is derived instead. It returns the prefix
// in use for the namespace.
//
// Names allocated before the call are not affected.
func (a *Allocator) AddNamespace(prefix, namespace string) string {
	if namespace == "" {
		return ""
	}
	if existing, ok := a.prefixes[namespace]; ok {
		if !a.isDeclared(namespace) {
			a.declare(namespace)
		}
		return existing
	}
	prefix = sanitizePrefix(prefix)
	if prefix == "" {
		prefix = derivePrefix(namespace)
	}
	prefix = a.bind(prefix, namespace)
	a.declare(namespace)
	return prefix
}

func (a *Allocator) isDeclared(namespace string) bool {
	for _, ns := range a.declared {
		if ns == namespace {
			return true
		}
	}
	return false
}

func (a *Allocator) declare(namespace string) {
	a.declared = append(a.declared, namespace)
	sort.Slice(a.declared, func(i, j int) bool {
		x, y := a.declared[i], a.declared[j]
		if len(x) != len(y) {
			return len(x) > len(y)
		}
		return x < y
	})
}

// bind associates a unique variant of 'prefix' with 'namespace'.
func (a *Allocator) bind(prefix, namespace string) string {
	candidate := prefix
	for i := 2; ; i++ {
		if _, taken := a.namespaces[candidate]; !taken {
			break
		}
		candidate = prefix + strconv.Itoa(i)
	}
	a.namespaces[candidate] = namespace
	a.prefixes[namespace] = candidate
	return candidate
}

// Namespaces returns a copy of the prefix to namespace mappings in use,
// including those derived during allocation.
func (a *Allocator) Namespaces() map[string]string {
	res := make(map[string]string, len(a.namespaces))
	for p, ns := range a.namespaces {
		res[p] = ns
	}
	return res
}

// Allocate returns the Name for 'id', creating it on first use.
func (a *Allocator) Allocate(id rdf.IRI) (Name, error) {
	if name, ok := a.byID[id]; ok {
		return name, nil
	}
	namespace, rawLocal := a.split(string(id))
	local, err := SafeName(rawLocal)
	if err != nil {
		return Name{}, &NamingError{Identifier: string(id), Reason: err.Error()}
	}
	prefix, ok := a.prefixes[namespace]
	if !ok {
		prefix = a.bind(derivePrefix(namespace), namespace)
	}
	used := a.locals[namespace]
	if used == nil {
		used = make(map[string]rdf.IRI)
		a.locals[namespace] = used
	}
	candidate := local
	for i := 2; ; i++ {
		if _, taken := used[candidate]; !taken {
			break
		}
		candidate = local + "_" + strconv.Itoa(i)
	}
	name := Name{Prefix: prefix, Namespace: namespace, Local: candidate}
	used[candidate] = id
	a.byID[id] = name
	a.byShort[name.Short()] = id
	return name, nil
}

// MustAllocate is like Allocate but panics on error. It's intended for
// IRIs known to have a valid local part.
func (a *Allocator) MustAllocate(id rdf.IRI) Name {
	name, err := a.Allocate(id)
	if err != nil {
		panic(err)
	}
	return name
}

// Lookup returns the Name previously allocated for 'id'.
func (a *Allocator) Lookup(id rdf.IRI) (Name, bool) {
	name, ok := a.byID[id]
	return name, ok
}

// Identifier returns the IRI whose Name has the given prefix:local form.
func (a *Allocator) Identifier(short string) (rdf.IRI, bool) {
	id, ok := a.byShort[short]
	return id, ok
}

// Names returns every allocated Name, sorted by short form.
func (a *Allocator) Names() []Name {
	res := make([]Name, 0, len(a.byID))
	for _, n := range a.byID {
		res = append(res, n)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Short() < res[j].Short()
	})
	return res
}

// Len returns the number of allocated names.
func (a *Allocator) Len() int {
	return len(a.byID)
}

// split divides an IRI into namespace and local parts. The longest declared
// namespace wins; otherwise the IRI is split after its last '#', else its
// last '/', else its last ':'. Trailing separators stay with the local part
// and are ignored when picking the split point.
func (a *Allocator) split(id string) (namespace, local string) {
	for _, ns := range a.declared {
		if len(id) > len(ns) && strings.HasPrefix(id, ns) {
			return ns, id[len(ns):]
		}
	}
	base := strings.TrimRight(id, "#/:")
	idx := strings.LastIndexByte(base, '#')
	if idx < 0 {
		idx = strings.LastIndexByte(base, '/')
	}
	if idx < 0 {
		idx = strings.LastIndexByte(base, ':')
	}
	return id[:idx+1], id[idx+1:]
}
