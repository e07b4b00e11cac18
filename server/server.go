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

// Package server exposes schema generation over HTTP.
package server

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/ebay/graphschema/config"
	"github.com/ebay/graphschema/schemagen"
	"github.com/ebay/graphschema/source"
	"github.com/ebay/graphschema/util/web"
	"github.com/julienschmidt/httprouter"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Server generates a schema from its source on each request, so changes to
// the source are picked up without a restart.
type Server struct {
	src source.Source
	cfg *config.Schemagen
	// Serializes runs against the source.
	lock sync.Mutex
}

// New returns a Server for the given source and configuration.
func New(src source.Source, cfg *config.Schemagen) *Server {
	return &Server{src: src, cfg: cfg}
}

// Handler returns the routes:
//   GET /schema.graphql  the schema in GraphQL SDL
//   GET /stats.txt       run statistics and the resolved types
//   GET /types.dot       the resolved types as a Graphviz digraph
//   GET /metrics         Prometheus metrics
func (s *Server) Handler() http.Handler {
	m := httprouter.New()
	m.GET("/schema.graphql", s.schema)
	m.GET("/stats.txt", s.stats)
	m.GET("/types.dot", s.dot)
	m.Handler("GET", "/metrics", promhttp.Handler())
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("[HTTP] %v %v", r.Method, r.URL)
		m.ServeHTTP(w, r)
	})
}

// ListenAndServe serves Handler on 'address' until it fails.
func (s *Server) ListenAndServe(address string) error {
	log.WithField("address", address).Info("Serving schema")
	return http.ListenAndServe(address, s.Handler())
}

func (s *Server) generate(ctx context.Context) (*schemagen.Result, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return schemagen.Generate(ctx, s.src, s.cfg)
}

// respond runs the generator and writes the result with 'write'.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, op, contentType string,
	write func(io.Writer, *schemagen.Result) error) {

	span, ctx := opentracing.StartSpanFromContext(r.Context(), op)
	defer span.Finish()
	res, err := s.generate(ctx)
	if err != nil {
		web.WriteError(w, http.StatusInternalServerError, "%v", err)
		return
	}
	web.WriteText(w, contentType, func(out io.Writer) error {
		return write(out, res)
	})
}

func (s *Server) schema(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.respond(w, r, "schema", "application/graphql; charset=utf-8",
		func(out io.Writer, res *schemagen.Result) error {
			_, err := io.WriteString(out, res.Text)
			return err
		})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.respond(w, r, "stats", "text/plain; charset=utf-8", schemagen.WriteStats)
}

func (s *Server) dot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.respond(w, r, "dot", "text/vnd.graphviz; charset=utf-8",
		func(out io.Writer, res *schemagen.Result) error {
			schemagen.WriteDot(out, res.Resolved)
			return nil
		})
}
