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

// Package schemagen runs the whole pipeline: it reads facts from a source,
// summarizes them per class, resolves the summary into consistent types,
// and renders a GraphQL schema.
package schemagen

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ebay/graphschema/config"
	"github.com/ebay/graphschema/gqlschema"
	"github.com/ebay/graphschema/naming"
	"github.com/ebay/graphschema/resolve"
	"github.com/ebay/graphschema/source"
	"github.com/ebay/graphschema/summarize"
	"github.com/graphql-go/graphql/language/ast"
	opentracing "github.com/opentracing/opentracing-go"
	log "github.com/sirupsen/logrus"
)

// Result is everything Generate produced.
type Result struct {
	// Document is the schema.
	Document *ast.Document
	// Text is the printed schema.
	Text string
	// Statements is the number of statements read from the source.
	Statements int
	// Subjects is the number of distinct subjects.
	Subjects int
	// Summary describes each class seen in the source.
	Summary []*summarize.TypeInfo
	// Resolved holds the types the schema was built from.
	Resolved *resolve.Result
	// Names is the allocator used for this run.
	Names   *naming.Allocator
	Elapsed time.Duration
}

// Generate builds a schema from the facts in 'src'. Each call uses a fresh
// name allocator, seeded with the well-known prefixes, then the prefixes in
// 'cfg', then any the source declares. A nil 'cfg' is the same as an empty
// one.
func Generate(ctx context.Context, src source.Source, cfg *config.Schemagen) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "schemagen generate")
	defer span.Finish()
	metrics.runs.Inc()
	start := time.Now()
	res, err := generate(ctx, src, cfg)
	if err != nil {
		metrics.runFailures.Inc()
		span.SetTag("error", true)
		log.WithFields(log.Fields{
			"source": src.Name(),
			"error":  err,
		}).Warn("Schema generation failed")
		return nil, err
	}
	res.Elapsed = time.Since(start)
	metrics.runSeconds.Observe(res.Elapsed.Seconds())
	metrics.statements.Add(float64(res.Statements))
	metrics.splits.Add(float64(res.Resolved.Stats.Splits))
	metrics.unions.Add(float64(len(res.Resolved.Unions)))
	log.WithFields(log.Fields{
		"source":     src.Name(),
		"statements": res.Statements,
		"types":      len(res.Resolved.Types),
		"unions":     len(res.Resolved.Unions),
		"elapsed":    res.Elapsed,
	}).Info("Generated schema")
	return res, nil
}

func generate(ctx context.Context, src source.Source, cfg *config.Schemagen) (*Result, error) {
	if cfg == nil {
		cfg = new(config.Schemagen)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	classPredicates, err := cfg.ClassPredicateIRIs()
	if err != nil {
		return nil, err
	}
	names, err := seedNames(ctx, src, cfg.Prefixes)
	if err != nil {
		return nil, err
	}

	span, phaseCtx := opentracing.StartSpanFromContext(ctx, "summarize")
	graph, err := summarize.Scan(phaseCtx, src, summarize.Options{ClassPredicates: classPredicates})
	if err != nil {
		span.Finish()
		return nil, err
	}
	summary, err := graph.Types(names)
	span.Finish()
	if err != nil {
		return nil, err
	}

	span, _ = opentracing.StartSpanFromContext(ctx, "resolve")
	resolved, err := resolve.Resolve(summary, resolve.Options{MaxIterations: cfg.MaxIterations})
	span.Finish()
	if err != nil {
		return nil, err
	}

	span, _ = opentracing.StartSpanFromContext(ctx, "build")
	defer span.Finish()
	doc, err := gqlschema.Build(resolved, gqlschema.Options{DisableQueryRoot: cfg.DisableQueryRoot})
	if err != nil {
		return nil, fmt.Errorf("unable to build schema: %w", err)
	}
	if err := gqlschema.CheckReferences(doc); err != nil {
		return nil, err
	}
	if !cfg.SkipRoundTrip {
		if err := gqlschema.CheckRoundTrip(doc); err != nil {
			return nil, err
		}
	}
	log.WithFields(log.Fields{
		"definitions": len(doc.Definitions),
	}).Debug("Built schema document")
	return &Result{
		Document:   doc,
		Text:       gqlschema.Print(doc),
		Statements: graph.Statements,
		Subjects:   graph.Subjects(),
		Summary:    summary,
		Resolved:   resolved,
		Names:      names,
	}, nil
}

// seedNames returns a new allocator with the configured prefixes and the
// source's own declarations. Each group is added in prefix order so that
// the outcome of clashes doesn't depend on map iteration.
func seedNames(ctx context.Context, src source.Source, configured map[string]string) (*naming.Allocator, error) {
	names := naming.NewAllocator()
	addSorted(names, configured)
	if ns, ok := src.(source.Namespacer); ok {
		declared, err := ns.Namespaces(ctx)
		if err != nil {
			return nil, err
		}
		addSorted(names, declared)
	}
	return names, nil
}

func addSorted(names *naming.Allocator, prefixes map[string]string) {
	labels := make([]string, 0, len(prefixes))
	for label := range prefixes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		names.AddNamespace(label, prefixes[label])
	}
}
