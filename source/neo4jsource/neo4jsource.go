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

// Package neo4jsource reads a Neo4j property graph as RDF statements.
//
// Each node becomes a resource with one rdf:type statement per label. Node
// properties become literal statements, one per value for list properties.
// Relationships become statements between the two node resources. Labels,
// property keys and relationship types are turned into IRIs under a
// configurable namespace.
package neo4jsource

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/ebay/graphschema/rdf"
	"github.com/ebay/graphschema/source"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	log "github.com/sirupsen/logrus"
)

// DefaultNamespace is used when Config.Namespace is empty.
const DefaultNamespace = "urn:neo4j:"

// Prefix is the prefix label reported for the namespace.
const Prefix = "neo4j"

const (
	nodesQuery = `MATCH (n) RETURN elementId(n) AS id, labels(n) AS labels, properties(n) AS props`
	relsQuery  = `MATCH (a)-[r]->(b) RETURN elementId(a) AS src, type(r) AS type, elementId(b) AS dst`
)

// Config describes how to reach the database.
type Config struct {
	URI      string
	Username string
	Password string
	// Database name; empty selects the server default.
	Database string
	// Namespace for generated IRIs; defaults to DefaultNamespace.
	Namespace string
}

// Graph is a Source backed by a Neo4j database.
type Graph struct {
	cfg    Config
	driver neo4j.DriverWithContext
}

// Open connects to the database and verifies connectivity.
func Open(ctx context.Context, cfg Config) (*Graph, error) {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, &source.DataAccessError{Source: cfg.URI, Err: err}
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, &source.DataAccessError{Source: cfg.URI, Err: err}
	}
	return &Graph{cfg: cfg, driver: driver}, nil
}

// Close releases the driver's connections.
func (g *Graph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

// Name implements source.Source.
func (g *Graph) Name() string {
	if g.cfg.Database != "" {
		return g.cfg.URI + "/" + g.cfg.Database
	}
	return g.cfg.URI
}

// Namespaces implements source.Namespacer.
func (g *Graph) Namespaces(ctx context.Context) (map[string]string, error) {
	return map[string]string{Prefix: g.cfg.Namespace}, nil
}

// Scan implements source.Source. Nodes are sent before relationships.
func (g *Graph) Scan(ctx context.Context, resCh chan<- source.Chunk) error {
	defer close(resCh)
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: g.cfg.Database,
	})
	defer session.Close(ctx)

	m := Mapper{Namespace: g.cfg.Namespace}
	nodes, err := g.run(ctx, session, nodesQuery, resCh, func(record *neo4j.Record) []rdf.Statement {
		id, _ := record.Get("id")
		labels, _ := record.Get("labels")
		props, _ := record.Get("props")
		return m.Node(fmt.Sprint(id), toStrings(labels), toMap(props))
	})
	if err != nil {
		return err
	}
	rels, err := g.run(ctx, session, relsQuery, resCh, func(record *neo4j.Record) []rdf.Statement {
		src, _ := record.Get("src")
		relType, _ := record.Get("type")
		dst, _ := record.Get("dst")
		return []rdf.Statement{m.Relationship(fmt.Sprint(src), fmt.Sprint(relType), fmt.Sprint(dst))}
	})
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"source":        g.Name(),
		"nodes":         nodes,
		"relationships": rels,
	}).Info("Scanned Neo4j graph")
	return nil
}

// run executes 'query' and sends the statements produced by 'convert' for
// every record. It returns the number of records read.
func (g *Graph) run(ctx context.Context, session neo4j.SessionWithContext, query string,
	resCh chan<- source.Chunk, convert func(*neo4j.Record) []rdf.Statement) (int, error) {

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return 0, &source.DataAccessError{Source: g.Name(), Err: err}
	}
	count := 0
	batch := make([]rdf.Statement, 0, source.ChunkSize)
	for result.Next(ctx) {
		count++
		batch = append(batch, convert(result.Record())...)
		if len(batch) >= source.ChunkSize {
			if err := source.Send(ctx, batch, resCh); err != nil {
				return count, err
			}
			batch = make([]rdf.Statement, 0, source.ChunkSize)
		}
	}
	if err := result.Err(); err != nil {
		return count, &source.DataAccessError{Source: g.Name(), Err: err}
	}
	return count, source.Send(ctx, batch, resCh)
}

// Mapper converts property graph elements to statements.
type Mapper struct {
	Namespace string
}

// Resource returns the IRI for the node with the given element ID.
func (m Mapper) Resource(elementID string) rdf.IRI {
	return rdf.IRI(m.Namespace + "node/" + url.PathEscape(elementID))
}

// Term returns the IRI for a label, property key or relationship type.
func (m Mapper) Term(name string) rdf.IRI {
	return rdf.IRI(m.Namespace + url.PathEscape(name))
}

// Node returns the statements describing a single node. Properties are
// emitted in key order.
func (m Mapper) Node(elementID string, labels []string, props map[string]interface{}) []rdf.Statement {
	subject := m.Resource(elementID)
	var res []rdf.Statement
	for _, label := range labels {
		res = append(res, rdf.Statement{Subject: subject, Predicate: rdf.RDFType, Object: m.Term(label)})
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, lit := range Literals(props[k]) {
			res = append(res, rdf.Statement{Subject: subject, Predicate: m.Term(k), Object: lit})
		}
	}
	return res
}

// Relationship returns the statement for a relationship between two nodes.
func (m Mapper) Relationship(srcID, relType, dstID string) rdf.Statement {
	return rdf.Statement{
		Subject:   m.Resource(srcID),
		Predicate: m.Term(relType),
		Object:    m.Resource(dstID),
	}
}

// Literals converts a property value to literals. Lists produce one literal
// per element; nil produces none.
func Literals(value interface{}) []rdf.Literal {
	switch v := value.(type) {
	case nil:
		return nil
	case []interface{}:
		var res []rdf.Literal
		for _, e := range v {
			res = append(res, Literals(e)...)
		}
		return res
	case string:
		return []rdf.Literal{rdf.NewString(v)}
	case bool:
		return []rdf.Literal{rdf.NewTyped(strconv.FormatBool(v), rdf.XSDBoolean)}
	case int64:
		return []rdf.Literal{rdf.NewTyped(strconv.FormatInt(v, 10), rdf.XSDInteger)}
	case int:
		return []rdf.Literal{rdf.NewTyped(strconv.Itoa(v), rdf.XSDInteger)}
	case float64:
		return []rdf.Literal{rdf.NewTyped(strconv.FormatFloat(v, 'g', -1, 64), rdf.XSDDouble)}
	case time.Time:
		return []rdf.Literal{rdf.NewTyped(v.Format(time.RFC3339Nano), rdf.XSDDateTime)}
	}
	return []rdf.Literal{rdf.NewString(fmt.Sprint(value))}
}

func toStrings(v interface{}) []string {
	list, _ := v.([]interface{})
	res := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := e.(string); ok {
			res = append(res, s)
		}
	}
	return res
}

func toMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}
