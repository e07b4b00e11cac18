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

// Package memstore is an in-memory Source. Statements are kept in a btree
// ordered by subject, predicate and object, so scans are deterministic and
// duplicates collapse.
package memstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ebay/graphschema/rdf"
	"github.com/ebay/graphschema/rdf/parser"
	"github.com/ebay/graphschema/source"
	"github.com/google/btree"
	log "github.com/sirupsen/logrus"
)

// Store is a set of statements. It is safe for concurrent use.
type Store struct {
	name string

	lock sync.RWMutex
	// statements ordered by key [protected by lock]
	facts *btree.BTree
	// prefix declarations [protected by lock]
	prefixes map[string]string
}

// New returns an empty Store. 'name' identifies the store in logs and
// errors.
func New(name string) *Store {
	return &Store{
		name:     name,
		facts:    btree.New(16),
		prefixes: make(map[string]string),
	}
}

// Load reads a whole fact document from 'r' into a new Store, keeping its
// prefix declarations. It's used for facts that can only be read once, like
// standard input, or that are given inline in the configuration.
func Load(name string, r io.Reader, format parser.Format) (*Store, error) {
	contents, err := io.ReadAll(r)
	if err != nil {
		return nil, &source.DataAccessError{Source: name, Err: err}
	}
	doc, err := parser.Parse(format, string(contents))
	if err != nil {
		return nil, &source.DataAccessError{
			Source: name,
			Err:    fmt.Errorf("invalid %v: %w", format, err),
		}
	}
	s := New(name)
	if err := s.Add(doc.Statements...); err != nil {
		return nil, &source.DataAccessError{Source: name, Err: err}
	}
	for prefix, ns := range doc.Prefixes {
		s.AddPrefix(prefix, ns)
	}
	log.WithFields(log.Fields{
		"name":       name,
		"format":     format,
		"statements": s.Len(),
	}).Info("Loaded facts into memory")
	return s, nil
}

// factItem is an item in the Store.facts BTree.
type factItem struct {
	key string
	st  rdf.Statement
}

// Less on factItem compares the keys lexicographically.
func (f factItem) Less(other btree.Item) bool {
	return f.key < other.(factItem).key
}

// statementKey orders statements by subject, then predicate, then object.
// The separator sorts below every printable character, so all statements
// for a subject are contiguous.
func statementKey(st rdf.Statement) string {
	var b strings.Builder
	b.WriteString(st.Subject.String())
	b.WriteByte(0)
	b.WriteString(string(st.Predicate))
	b.WriteByte(0)
	b.WriteString(st.Object.String())
	return b.String()
}

// Add inserts statements into the store. Statements already present are
// ignored. If any statement is invalid, none are added.
func (s *Store) Add(statements ...rdf.Statement) error {
	for _, st := range statements {
		if err := st.Validate(); err != nil {
			return err
		}
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, st := range statements {
		s.facts.ReplaceOrInsert(factItem{key: statementKey(st), st: st})
	}
	return nil
}

// AddPrefix records a prefix declaration that Namespaces will report.
func (s *Store) AddPrefix(prefix, namespace string) {
	s.lock.Lock()
	s.prefixes[prefix] = namespace
	s.lock.Unlock()
}

// Len returns the number of distinct statements in the store.
func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.facts.Len()
}

// Subject returns every statement with the given subject, in order.
func (s *Store) Subject(subject rdf.Term) []rdf.Statement {
	start := subject.String() + "\x00"
	var res []rdf.Statement
	s.lock.RLock()
	defer s.lock.RUnlock()
	s.facts.AscendGreaterOrEqual(factItem{key: start}, func(i btree.Item) bool {
		item := i.(factItem)
		if !strings.HasPrefix(item.key, start) {
			return false
		}
		res = append(res, item.st)
		return true
	})
	return res
}

// Name implements source.Source.
func (s *Store) Name() string {
	return s.name
}

// Scan implements source.Source. It takes a snapshot of the store first, so
// concurrent writers don't block on a slow consumer.
func (s *Store) Scan(ctx context.Context, resCh chan<- source.Chunk) error {
	defer close(resCh)
	s.lock.RLock()
	snapshot := make([]rdf.Statement, 0, s.facts.Len())
	s.facts.Ascend(func(i btree.Item) bool {
		snapshot = append(snapshot, i.(factItem).st)
		return true
	})
	s.lock.RUnlock()
	return source.Send(ctx, snapshot, resCh)
}

// Namespaces implements source.Namespacer.
func (s *Store) Namespaces(ctx context.Context) (map[string]string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	res := make(map[string]string, len(s.prefixes))
	for k, v := range s.prefixes {
		res[k] = v
	}
	return res, nil
}
