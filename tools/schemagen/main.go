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

// Command schemagen infers a GraphQL schema from RDF facts.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	docopt "github.com/docopt/docopt-go"
	"github.com/ebay/graphschema/config"
	"github.com/ebay/graphschema/rdf/parser"
	"github.com/ebay/graphschema/schemagen"
	"github.com/ebay/graphschema/server"
	"github.com/ebay/graphschema/source"
	"github.com/ebay/graphschema/source/filesource"
	"github.com/ebay/graphschema/source/memstore"
	"github.com/ebay/graphschema/source/neo4jsource"
	"github.com/ebay/graphschema/util/debuglog"
	"github.com/ebay/graphschema/util/errors"
	opentracing "github.com/opentracing/opentracing-go"
	log "github.com/sirupsen/logrus"
)

const usage = `schemagen infers a GraphQL schema from RDF facts.

It reads facts from a Turtle or TSV file, standard input when SOURCE is -, or
from the source named in the configuration file, groups subjects by class, and emits one GraphQL object
type per class. Classes whose properties point at different types are split
until every field has a single type or union.

Usage:
  schemagen [-v -c=FILE -f=FORMAT] generate [-o=FILE --dot=FILE] [SOURCE]
  schemagen [-v -c=FILE -f=FORMAT] summary [SOURCE]
  schemagen [-v -c=FILE -f=FORMAT] serve [--listen=ADDR] [SOURCE]
  schemagen writeconfig FILE

Options:
  -c=FILE, --config=FILE      Load settings from this JSON file.
  -f=FORMAT, --format=FORMAT  Format of SOURCE: turtle or tsv [default: turtle]
  -o=FILE, --out=FILE         Write the schema to this file rather than standard output.
  --dot=FILE                  Also write the resolved types as a graph (.dot, .svg, .png, or .pdf).
  --listen=ADDR               Address to serve HTTP requests on [default: localhost:9980]
  -v, --verbose               Enable debug logging, including each class split.

Examples:
  # Print the schema for a Turtle file.
  schemagen generate people.ttl

  # Show what was observed for each class and property.
  schemagen summary people.ttl

  # Read tab separated facts from standard input.
  cat people.tsv | schemagen -f tsv generate -

  # Read from the Neo4j database named in the config and serve the schema
  # at http://localhost:9980/schema.graphql.
  schemagen -c neo4j.json serve

  # Write a starter configuration file.
  schemagen writeconfig schemagen.json
`

type options struct {
	ConfigFile string `docopt:"--config"`
	Format     string `docopt:"--format"`
	Verbose    bool   `docopt:"--verbose"`
	Source     string `docopt:"SOURCE"`

	// Generate
	Generate bool   `docopt:"generate"`
	Out      string `docopt:"--out"`
	Dot      string `docopt:"--dot"`

	// Summary
	Summary bool `docopt:"summary"`

	// Serve
	Serve  bool   `docopt:"serve"`
	Listen string `docopt:"--listen"`

	// WriteConfig
	WriteConfig bool   `docopt:"writeconfig"`
	File        string `docopt:"FILE"`
}

func parseArgs() *options {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		log.Fatalf("Error parsing command-line arguments: %v", err)
	}
	var options options
	err = opts.Bind(&options)
	if err != nil {
		log.Fatalf("Error binding command-line arguments: %v\nfrom: %+v", err, opts)
	}
	return &options
}

func main() {
	options := parseArgs()
	debuglog.Configure(debuglog.Options{Verbose: options.Verbose})
	ctx := context.Background()

	if options.WriteConfig {
		if err := config.Write(starterConfig(), options.File); err != nil {
			log.Fatalf("Unable to write configuration: %v", err)
		}
		return
	}

	cfg := new(config.Schemagen)
	if options.ConfigFile != "" {
		var err error
		cfg, err = config.Load(options.ConfigFile)
		if err != nil {
			log.Fatalf("Unable to load configuration: %v", err)
		}
	}
	src, closer, err := openSource(ctx, options, cfg)
	if err != nil {
		log.Fatalf("Unable to open source: %v", err)
	}
	defer closer()

	switch {
	case options.Generate:
		err = generate(ctx, src, cfg, options)
	case options.Summary:
		err = summary(ctx, src, cfg)
	case options.Serve:
		err = server.New(src, cfg).ListenAndServe(options.Listen)
	}
	if err != nil {
		closer()
		log.Fatalf("%v", err)
	}
}

// stdin is where a SOURCE of "-" is read from.
var stdin io.Reader = os.Stdin

// openSource returns the SOURCE file if given, otherwise the source from
// the configuration file. Standard input and inline facts can only be read
// once, so they're loaded into memory up front.
func openSource(ctx context.Context, options *options, cfg *config.Schemagen) (source.Source, func(), error) {
	noop := func() {}
	if options.Source != "" {
		format, err := parser.ParseFormatName(options.Format)
		if err != nil {
			return nil, noop, err
		}
		if options.Source == "-" {
			store, err := memstore.Load("stdin", stdin, format)
			if err != nil {
				return nil, noop, err
			}
			return store, noop, nil
		}
		return filesource.New(options.Source, format), noop, nil
	}
	if cfg.Source == nil {
		return nil, noop, fmt.Errorf("no SOURCE given and no source in the configuration")
	}
	switch cfg.Source.Type {
	case config.FileSource:
		format, err := parser.ParseFormatName(cfg.Source.Format)
		if err != nil {
			return nil, noop, err
		}
		return filesource.New(cfg.Source.Path, format), noop, nil
	case config.InlineSource:
		format, err := parser.ParseFormatName(cfg.Source.Format)
		if err != nil {
			return nil, noop, err
		}
		store, err := memstore.Load("inline", strings.NewReader(cfg.Source.Facts), format)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case config.Neo4jSource:
		graph, err := neo4jsource.Open(ctx, neo4jsource.Config{
			URI:       cfg.Source.URI,
			Username:  cfg.Source.Username,
			Password:  cfg.Source.Password(),
			Database:  cfg.Source.Database,
			Namespace: cfg.Source.Namespace,
		})
		if err != nil {
			return nil, noop, err
		}
		return graph, func() {
			if err := graph.Close(ctx); err != nil {
				log.WithError(err).Warn("Error closing Neo4j driver")
			}
		}, nil
	}
	return nil, noop, fmt.Errorf("unknown source type %q", cfg.Source.Type)
}

func generate(ctx context.Context, src source.Source, cfg *config.Schemagen, options *options) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "schemagen generate command")
	defer span.Finish()
	res, err := schemagen.Generate(ctx, src, cfg)
	if err != nil {
		return err
	}
	if options.Dot != "" {
		if err := schemagen.CreateGraph(options.Dot, res.Resolved); err != nil {
			return fmt.Errorf("unable to write graph: %v", err)
		}
	}
	if options.Out == "" {
		_, err = io.WriteString(os.Stdout, res.Text)
		return err
	}
	f, err := os.Create(options.Out)
	if err != nil {
		return err
	}
	_, err = io.WriteString(f, res.Text)
	return errors.Any(err, f.Close())
}

func summary(ctx context.Context, src source.Source, cfg *config.Schemagen) error {
	res, err := schemagen.Generate(ctx, src, cfg)
	if err != nil {
		return err
	}
	err = schemagen.WriteSummary(os.Stdout, res)
	if err != nil {
		return err
	}
	fmt.Println()
	return schemagen.WriteStats(os.Stdout, res)
}

func starterConfig() *config.Schemagen {
	return &config.Schemagen{
		Prefixes: map[string]string{
			"ex": "http://example.org/",
		},
		ClassPredicates: []string{"rdf:type"},
		Source: &config.Source{
			Type:   config.FileSource,
			Path:   "facts.ttl",
			Format: "turtle",
		},
	}
}
