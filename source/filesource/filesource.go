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

// Package filesource reads statements from a Turtle or TSV fact file.
package filesource

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/ebay/graphschema/rdf/parser"
	"github.com/ebay/graphschema/source"
	log "github.com/sirupsen/logrus"
)

// File is a Source backed by a fact file on disk. The file is read on every
// Scan, so edits show up in the next run. It's only parsed again when its
// contents changed.
type File struct {
	path   string
	format parser.Format

	lock   sync.Mutex
	locked struct {
		// hash of the contents 'doc' was parsed from.
		hash uint64
		doc  *parser.Document
	}
}

// New returns a File source for 'path'. The file is not opened until it is
// scanned.
func New(path string, format parser.Format) *File {
	return &File{path: path, format: format}
}

// Name implements source.Source.
func (f *File) Name() string {
	return f.path
}

// load returns the parsed file. Failures are not remembered: a missing or
// invalid file may be fixed before the next call.
func (f *File) load() (*parser.Document, error) {
	contents, err := os.ReadFile(f.path)
	if err != nil {
		return nil, &source.DataAccessError{Source: f.path, Err: err}
	}
	hash := xxhash.Sum64(contents)
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.locked.doc != nil && f.locked.hash == hash {
		return f.locked.doc, nil
	}
	doc, err := parser.Parse(f.format, string(contents))
	if err != nil {
		return nil, &source.DataAccessError{
			Source: f.path,
			Err:    fmt.Errorf("invalid %v: %w", f.format, err),
		}
	}
	log.WithFields(log.Fields{
		"path":       f.path,
		"format":     f.format,
		"statements": len(doc.Statements),
		"prefixes":   len(doc.Prefixes),
	}).Info("Loaded fact file")
	f.locked.hash = hash
	f.locked.doc = doc
	return doc, nil
}

// Scan implements source.Source.
func (f *File) Scan(ctx context.Context, resCh chan<- source.Chunk) error {
	defer close(resCh)
	doc, err := f.load()
	if err != nil {
		return err
	}
	return source.Send(ctx, doc.Statements, resCh)
}

// Namespaces implements source.Namespacer, returning the prefixes declared
// in the file.
func (f *File) Namespaces(ctx context.Context) (map[string]string, error) {
	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	return doc.Prefixes, nil
}
