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

package main

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/ebay/graphschema/config"
	"github.com/ebay/graphschema/source"
	"github.com/ebay/graphschema/source/filesource"
	"github.com/ebay/graphschema/source/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_openSource(t *testing.T) {
	ctx := context.Background()
	src, closer, err := openSource(ctx, &options{Source: "facts.tsv", Format: "tsv"}, new(config.Schemagen))
	require.NoError(t, err)
	defer closer()
	assert.IsType(t, &filesource.File{}, src)

	_, _, err = openSource(ctx, &options{Source: "facts.csv", Format: "csv"}, new(config.Schemagen))
	assert.EqualError(t, err, `unknown fact file format: "csv"`)

	_, _, err = openSource(ctx, &options{}, new(config.Schemagen))
	assert.EqualError(t, err, "no SOURCE given and no source in the configuration")

	src, _, err = openSource(ctx, &options{}, starterConfig())
	require.NoError(t, err)
	assert.IsType(t, &filesource.File{}, src)
}

func Test_openSourceStdin(t *testing.T) {
	defer func(orig io.Reader) { stdin = orig }(stdin)
	ctx := context.Background()
	stdin = strings.NewReader("<http://example.org/a>\t<http://example.org/p>\t\"x\"\n")
	src, closer, err := openSource(ctx, &options{Source: "-", Format: "tsv"}, new(config.Schemagen))
	require.NoError(t, err)
	defer closer()
	require.IsType(t, &memstore.Store{}, src)
	assert.Equal(t, "stdin", src.Name())
	assert.Equal(t, 1, src.(*memstore.Store).Len())

	stdin = strings.NewReader("<a> <b>")
	src, _, err = openSource(ctx, &options{Source: "-", Format: "turtle"}, new(config.Schemagen))
	assert.Nil(t, src)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "unable to read source stdin: invalid turtle: line 1")
	}
}

func Test_openSourceInline(t *testing.T) {
	cfg := &config.Schemagen{Source: &config.Source{
		Type:  config.InlineSource,
		Facts: "@prefix ex: <http://example.org/> .\nex:a a ex:Thing ; ex:name \"A\" .\n",
	}}
	require.NoError(t, cfg.Validate())
	src, closer, err := openSource(context.Background(), &options{}, cfg)
	require.NoError(t, err)
	defer closer()
	assert.Equal(t, "inline", src.Name())
	facts, err := source.Collect(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, facts, 2)
	ns, err := src.(source.Namespacer).Namespaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/", ns["ex"])
}

func Test_starterConfig(t *testing.T) {
	assert.NoError(t, starterConfig().Validate())
}
