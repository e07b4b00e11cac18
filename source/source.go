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

// Package source defines the interface between the schema generator and the
// datasets it reads facts from.
package source

import (
	"context"
	"fmt"

	"github.com/ebay/graphschema/rdf"
	"github.com/ebay/graphschema/util/parallel"
)

// Chunk is a batch of statements sent from a Source to its consumer.
type Chunk struct {
	Statements []rdf.Statement
}

// Source is a dataset that can be read in full.
type Source interface {
	// Scan sends every statement in the dataset to 'resCh', in chunks. Scan
	// closes resCh before returning, even on error. The statements in a
	// chunk must not be modified after it is sent.
	Scan(ctx context.Context, resCh chan<- Chunk) error
	// Name describes the source in logs and errors.
	Name() string
}

// Namespacer is implemented by sources that carry their own prefix
// declarations, such as Turtle files.
type Namespacer interface {
	// Namespaces returns prefix label to namespace IRI mappings.
	Namespaces(ctx context.Context) (map[string]string, error)
}

// DataAccessError is returned when a source cannot be read.
type DataAccessError struct {
	// The Name of the failing Source.
	Source string
	Err    error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("unable to read source %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// ChunkSize is the number of statements sources put in each Chunk unless
// they have a more natural batching of their own.
const ChunkSize = 256

// Collect reads every statement from 'src' into a slice. It is intended for
// small datasets and tests.
func Collect(ctx context.Context, src Source) ([]rdf.Statement, error) {
	resCh := make(chan Chunk, 4)
	wait := parallel.GoCaptureError(func() error {
		return src.Scan(ctx, resCh)
	})
	var all []rdf.Statement
	for chunk := range resCh {
		all = append(all, chunk.Statements...)
	}
	return all, wait()
}

// Send splits 'statements' into chunks of at most ChunkSize and sends them
// to 'resCh'. It returns early with the context's error if 'ctx' is done.
// It does not close resCh.
func Send(ctx context.Context, statements []rdf.Statement, resCh chan<- Chunk) error {
	for start := 0; start < len(statements); start += ChunkSize {
		end := start + ChunkSize
		if end > len(statements) {
			end = len(statements)
		}
		select {
		case resCh <- Chunk{Statements: statements[start:end]}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
