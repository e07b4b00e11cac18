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

// Package mocksource provides a scripted Source implementation for unit
// tests.
package mocksource

import (
	"context"

	"github.com/ebay/graphschema/source"
)

// Mock is a Source that sends a fixed list of chunks and then returns
// ReplyErr. It may be scanned any number of times.
type Mock struct {
	// Replies are sent on the channel, in order.
	Replies []source.Chunk
	// If set, this will be returned by Scan after the replies are sent.
	ReplyErr error
	// If set, returned from Namespaces.
	Prefixes map[string]string
	// Scans counts calls to Scan.
	Scans int
}

// OK returns a Mock that sends the given replies.
func OK(replies ...source.Chunk) *Mock {
	return &Mock{Replies: replies}
}

// Err returns a Mock that sends the given replies and then fails with
// 'replyErr'.
func Err(replyErr error, replies ...source.Chunk) *Mock {
	return &Mock{Replies: replies, ReplyErr: replyErr}
}

// Name implements source.Source.
func (m *Mock) Name() string {
	return "mock"
}

// Scan implements source.Source.
func (m *Mock) Scan(ctx context.Context, resCh chan<- source.Chunk) error {
	defer close(resCh)
	m.Scans++
	for _, c := range m.Replies {
		select {
		case resCh <- c:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return m.ReplyErr
}

// Namespaces implements source.Namespacer.
func (m *Mock) Namespaces(ctx context.Context) (map[string]string, error) {
	return m.Prefixes, nil
}
