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

package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ebay/graphschema/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load(t *testing.T) {
	dir := t.TempDir()
	write := func(name, contents string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
		return path
	}

	t.Run("file not found", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "404.json"))
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "404.json")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Load(write("garbage.json", "koala"))
		if assert.Error(t, err) {
			assert.Regexp(t, `^invalid configuration in .*/garbage\.json: `, err.Error())
		}
	})

	t.Run("null", func(t *testing.T) {
		_, err := Load(write("null.json", "null"))
		assert.True(t, errors.Is(err, errNull))
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Load(write("unknown.json", `{"roflcopter": true}`))
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "roflcopter")
		}
	})

	t.Run("trailing data", func(t *testing.T) {
		_, err := Load(write("more.json", "{}{}"))
		assert.True(t, errors.Is(err, errTrailing))
	})

	t.Run("invalid source", func(t *testing.T) {
		_, err := Load(write("source.json", `{"source": {"type": "ftp"}}`))
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), `unknown source type "ftp"`)
		}
	})

	t.Run("ok", func(t *testing.T) {
		cfg, err := Load(write("ok.json", `{
			"prefixes": {"ex": "http://example.org/"},
			"classPredicates": ["ex:kind"],
			"maxIterations": 50,
			"source": {"type": "file", "path": "facts.ttl"}
		}`))
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.MaxIterations)
		assert.Equal(t, "facts.ttl", cfg.Source.Path)
		assert.Equal(t, map[string]string{"ex": "http://example.org/"}, cfg.Prefixes)
	})
}

func Test_Write(t *testing.T) {
	dir := t.TempDir()
	cfg := &Schemagen{
		Prefixes:         map[string]string{"ex": "http://example.org/"},
		DisableQueryRoot: true,
		Source:           &Source{Type: Neo4jSource, URI: "neo4j://localhost:7687", PasswordEnv: "NEO4J_PASSWORD"},
	}
	path := filepath.Join(dir, "out.json")
	require.NoError(t, Write(cfg, path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Contains(t, generic, "disableQueryRoot")
	assert.NotContains(t, generic, "skipRoundTrip")
	assert.True(t, strings.HasSuffix(string(raw), "}\n"))

	err = Write(cfg, filepath.Join(dir, "missing", "out.json"))
	assert.Error(t, err)
}

func Test_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Schemagen
		err  string
	}{
		{"empty", Schemagen{}, ""},
		{"negative iterations", Schemagen{MaxIterations: -1}, "maxIterations must not be negative, got -1"},
		{"bad prefix", Schemagen{Prefixes: map[string]string{"a:b": "x"}}, `invalid prefix label "a:b"`},
		{"empty namespace", Schemagen{Prefixes: map[string]string{"a": ""}}, `prefix "a" has an empty namespace`},
		{"file without path", Schemagen{Source: &Source{Type: FileSource}}, `source of type "file" requires a path`},
		{"bad format", Schemagen{Source: &Source{Type: FileSource, Path: "x", Format: "csv"}}, `unknown fact file format: "csv"`},
		{"neo4j without uri", Schemagen{Source: &Source{Type: Neo4jSource}}, `source of type "neo4j" requires a uri`},
		{"tsv", Schemagen{Source: &Source{Type: FileSource, Path: "x", Format: "tsv"}}, ""},
		{"inline without facts", Schemagen{Source: &Source{Type: InlineSource, Facts: " \n"}}, `source of type "inline" requires facts`},
		{"inline bad format", Schemagen{Source: &Source{Type: InlineSource, Facts: "x", Format: "csv"}}, `unknown fact file format: "csv"`},
		{"inline", Schemagen{Source: &Source{Type: InlineSource, Facts: "<a> <b> <c> ."}}, ""},
		{"undeclared class predicate", Schemagen{ClassPredicates: []string{"zz:kind"}},
			`class predicate "zz:kind" uses undeclared prefix 'zz:'`},
		{"bare class predicate", Schemagen{ClassPredicates: []string{"kind"}},
			`class predicate "kind" is neither an IRI nor a prefixed name`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if test.err == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, test.err)
			}
		})
	}
}

func Test_ValidateInlineFacts(t *testing.T) {
	cfg := Schemagen{Source: &Source{Type: InlineSource, Facts: "<a> <b>"}}
	err := cfg.Validate()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "invalid inline facts: line 1")
	}
	cfg.Source.Format = "tsv"
	cfg.Source.Facts = "<a>\t<b>\t<c>\n"
	assert.NoError(t, cfg.Validate())
}

func Test_ClassPredicateIRIs(t *testing.T) {
	cfg := Schemagen{
		Prefixes: map[string]string{"ex": "http://example.org/"},
		ClassPredicates: []string{
			"ex:kind",
			"rdf:type",
			"<http://example.org/category>",
			"http://example.org/is",
			"urn:x:class",
		},
	}
	iris, err := cfg.ClassPredicateIRIs()
	require.NoError(t, err)
	assert.Equal(t, []rdf.IRI{
		"http://example.org/kind",
		rdf.RDFType,
		"http://example.org/category",
		"http://example.org/is",
		"urn:x:class",
	}, iris)
}

func Test_Password(t *testing.T) {
	t.Setenv("GRAPHSCHEMA_TEST_PASSWORD", "hunter2")
	assert.Equal(t, "hunter2", (&Source{PasswordEnv: "GRAPHSCHEMA_TEST_PASSWORD"}).Password())
	assert.Equal(t, "", (&Source{}).Password())
}
