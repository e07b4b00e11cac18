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

// Package config defines the JSON configuration file for schema generation.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ebay/graphschema/rdf"
	"github.com/ebay/graphschema/rdf/parser"
)

// Schemagen is the root of the configuration file.
type Schemagen struct {
	// Prefixes maps prefix labels to namespaces. These are declared before
	// any namespaces the source reports and so take precedence.
	Prefixes map[string]string `json:"prefixes,omitempty"`
	// ClassPredicates lists the predicates that assign a class to a subject,
	// as full IRIs or prefixed names. If empty, rdf:type is used.
	ClassPredicates []string `json:"classPredicates,omitempty"`
	// MaxIterations bounds type resolution. Zero selects a ceiling based on
	// the number of types and properties.
	MaxIterations int `json:"maxIterations,omitempty"`
	// DisableQueryRoot omits the Query type from the schema.
	DisableQueryRoot bool `json:"disableQueryRoot,omitempty"`
	// SkipRoundTrip disables the check that the printed schema parses back
	// to the same text.
	SkipRoundTrip bool `json:"skipRoundTrip,omitempty"`
	// Source describes where the facts come from.
	Source *Source `json:"source,omitempty"`
}

// Source types.
const (
	FileSource   = "file"
	InlineSource = "inline"
	Neo4jSource  = "neo4j"
)

// Source describes a fact source.
type Source struct {
	// Type is FileSource, InlineSource, or Neo4jSource.
	Type string `json:"type"`

	// Path to the fact file (FileSource).
	Path string `json:"path,omitempty"`
	// Format of the fact file or the inline facts: "turtle" or "tsv". Empty
	// selects turtle.
	Format string `json:"format,omitempty"`
	// Facts holds the document itself (InlineSource).
	Facts string `json:"facts,omitempty"`

	// URI of the database, like "neo4j://localhost:7687" (Neo4jSource).
	URI      string `json:"uri,omitempty"`
	Username string `json:"username,omitempty"`
	// PasswordEnv names the environment variable that holds the password.
	PasswordEnv string `json:"passwordEnv,omitempty"`
	Database    string `json:"database,omitempty"`
	// Namespace for the IRIs generated from the graph.
	Namespace string `json:"namespace,omitempty"`
}

// Password returns the value of the PasswordEnv environment variable.
func (s *Source) Password() string {
	if s.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(s.PasswordEnv)
}

// Validate checks the configuration for errors that would only surface
// later, like an unknown source type.
func (cfg *Schemagen) Validate() error {
	if cfg.MaxIterations < 0 {
		return fmt.Errorf("maxIterations must not be negative, got %d", cfg.MaxIterations)
	}
	for prefix, ns := range cfg.Prefixes {
		if prefix == "" || strings.ContainsAny(prefix, ": \t") {
			return fmt.Errorf("invalid prefix label %q", prefix)
		}
		if ns == "" {
			return fmt.Errorf("prefix %q has an empty namespace", prefix)
		}
	}
	if _, err := cfg.ClassPredicateIRIs(); err != nil {
		return err
	}
	if cfg.Source == nil {
		return nil
	}
	switch cfg.Source.Type {
	case FileSource:
		if cfg.Source.Path == "" {
			return fmt.Errorf("source of type %q requires a path", FileSource)
		}
		if _, err := parser.ParseFormatName(cfg.Source.Format); err != nil {
			return err
		}
	case InlineSource:
		format, err := parser.ParseFormatName(cfg.Source.Format)
		if err != nil {
			return err
		}
		if strings.TrimSpace(cfg.Source.Facts) == "" {
			return fmt.Errorf("source of type %q requires facts", InlineSource)
		}
		if _, err := parser.Parse(format, cfg.Source.Facts); err != nil {
			return fmt.Errorf("invalid inline facts: %w", err)
		}
	case Neo4jSource:
		if cfg.Source.URI == "" {
			return fmt.Errorf("source of type %q requires a uri", Neo4jSource)
		}
	default:
		return fmt.Errorf("unknown source type %q (expected %q, %q, or %q)",
			cfg.Source.Type, FileSource, InlineSource, Neo4jSource)
	}
	return nil
}

// ClassPredicateIRIs expands ClassPredicates into IRIs. Prefixed names are
// resolved against Prefixes and then the well-known prefixes.
func (cfg *Schemagen) ClassPredicateIRIs() ([]rdf.IRI, error) {
	res := make([]rdf.IRI, 0, len(cfg.ClassPredicates))
	for _, p := range cfg.ClassPredicates {
		iri, err := cfg.expand(p)
		if err != nil {
			return nil, err
		}
		res = append(res, iri)
	}
	return res, nil
}

func (cfg *Schemagen) expand(name string) (rdf.IRI, error) {
	if strings.HasPrefix(name, "<") && strings.HasSuffix(name, ">") {
		return rdf.IRI(name[1 : len(name)-1]), nil
	}
	if strings.Contains(name, "://") || strings.HasPrefix(name, "urn:") {
		return rdf.IRI(name), nil
	}
	idx := strings.IndexByte(name, ':')
	if idx < 0 {
		return "", fmt.Errorf("class predicate %q is neither an IRI nor a prefixed name", name)
	}
	prefix, local := name[:idx], name[idx+1:]
	if ns, ok := cfg.Prefixes[prefix]; ok {
		return rdf.IRI(ns + local), nil
	}
	if ns, ok := rdf.DefaultPrefixes[prefix]; ok {
		return rdf.IRI(ns + local), nil
	}
	return "", fmt.Errorf("class predicate %q uses undeclared prefix '%s:'", name, prefix)
}
