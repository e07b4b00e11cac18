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

package schemagen

import (
	metricsutil "github.com/ebay/graphschema/util/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type generatorMetrics struct {
	runs        prometheus.Counter
	runFailures prometheus.Counter
	runSeconds  prometheus.Histogram
	statements  prometheus.Counter
	splits      prometheus.Counter
	unions      prometheus.Counter
}

var metrics generatorMetrics

func init() {
	mr := metricsutil.Registry{R: prometheus.DefaultRegisterer}
	metrics = generatorMetrics{
		runs: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "graphschema",
			Subsystem: "schemagen",
			Name:      "runs_total",
			Help:      "The number of times Generate was called.",
		}),
		runFailures: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "graphschema",
			Subsystem: "schemagen",
			Name:      "run_failures_total",
			Help:      "The number of calls to Generate that returned an error.",
		}),
		runSeconds: mr.NewHistogram(prometheus.HistogramOpts{
			Namespace: "graphschema",
			Subsystem: "schemagen",
			Name:      "run_seconds",
			Help: `The time it takes Generate to produce a schema.

This includes reading the source, so it's dominated by I/O for large
inputs.
`,
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		statements: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "graphschema",
			Subsystem: "schemagen",
			Name:      "statements_total",
			Help:      "The number of statements read from sources across all successful runs.",
		}),
		splits: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "graphschema",
			Subsystem: "schemagen",
			Name:      "splits_total",
			Help:      "The number of types split during type resolution across all successful runs.",
		}),
		unions: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "graphschema",
			Subsystem: "schemagen",
			Name:      "unions_total",
			Help:      "The number of union types emitted across all successful runs.",
		}),
	}
}
