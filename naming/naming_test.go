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

package naming

import (
	"fmt"
	"testing"

	"github.com/ebay/graphschema/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AllocateDistinguishesSanitizedCollisions(t *testing.T) {
	a := NewAllocator()
	colon, err := a.Allocate("https://www.openstreetmap.org/wiki/Key:old:uic_ref")
	require.NoError(t, err)
	underscore, err := a.Allocate("https://www.openstreetmap.org/wiki/Key:old_uic_ref")
	require.NoError(t, err)

	assert.NotEqual(t, colon.Short(), underscore.Short())
	assert.NotEqual(t, colon.Local, underscore.Local)
	assert.Equal(t, colon.Prefix, underscore.Prefix)
	assert.Equal(t, colon.Namespace, underscore.Namespace)

	assert.Equal(t, Name{"wiki", "https://www.openstreetmap.org/wiki/", "Key_old_uic_ref"}, colon)
	assert.Equal(t, "wiki:Key_old_uic_ref_2", underscore.Short())
}

func Test_AllocateIsIdempotent(t *testing.T) {
	a := NewAllocator()
	first := a.MustAllocate("http://example.org/Person")
	a.MustAllocate("http://example.org/Other")
	again := a.MustAllocate("http://example.org/Person")
	assert.Equal(t, first, again)
	assert.Equal(t, 2, a.Len())
}

func Test_AllocateSplits(t *testing.T) {
	tests := []struct {
		id     rdf.IRI
		expect string
		ns     string
	}{
		{rdf.RDFType, "rdf:type", rdf.RDFNamespace},
		{"http://schema.org/Person", "schema:Person", rdf.SchemaNamespace},
		{"http://example.org/onto#Thing", "onto:Thing", "http://example.org/onto#"},
		{"http://example.org/people/", "example:people_", "http://example.org/"},
		{"urn:isbn:0451450523", "isbn:_0451450523", "urn:isbn:"},
		{"plain", "ns:plain", ""},
		{"http://example.org/a/b/c", "b:c", "http://example.org/a/b/"},
		{"http://example.org/x/__typename", "x:n__typename", "http://example.org/x/"},
		{"http://example.org/x/Beyoncé", "x:Beyonce", "http://example.org/x/"},
	}
	a := NewAllocator()
	for _, test := range tests {
		t.Run(string(test.id), func(t *testing.T) {
			name, err := a.Allocate(test.id)
			require.NoError(t, err)
			assert.Equal(t, test.expect, name.Short())
			assert.Equal(t, test.ns, name.Namespace)
		})
	}
}

func Test_AllocateErrors(t *testing.T) {
	a := NewAllocator()
	_, err := a.Allocate("http://example.org/%%%")
	require.Error(t, err)
	nerr, ok := err.(*NamingError)
	require.True(t, ok)
	assert.Equal(t, "http://example.org/%%%", nerr.Identifier)
	assert.EqualError(t, err, `unable to name "http://example.org/%%%": local name has no letters or digits`)
	assert.Panics(t, func() { a.MustAllocate("http://example.org/___") })
	assert.Equal(t, 0, a.Len())
}

func Test_AddNamespace(t *testing.T) {
	a := NewAllocator()
	assert.Equal(t, "ex", a.AddNamespace("ex", "http://example.org/"))
	// longer declared namespace wins
	assert.Equal(t, "exv", a.AddNamespace("exv", "http://example.org/vocab/"))
	assert.Equal(t, "exv:Item", a.MustAllocate("http://example.org/vocab/Item").Short())
	assert.Equal(t, "ex:Item", a.MustAllocate("http://example.org/Item").Short())
	// local names may contain path separators after a declared namespace
	assert.Equal(t, "ex:a_b", a.MustAllocate("http://example.org/a/b").Short())

	// already known namespace keeps its prefix
	assert.Equal(t, "ex", a.AddNamespace("other", "http://example.org/"))
	// clashing prefix gets a counter
	assert.Equal(t, "ex2", a.AddNamespace("ex", "http://example.com/"))
	// invalid prefix is derived from the namespace
	assert.Equal(t, "things", a.AddNamespace("1bad", "http://example.net/things#"))
	assert.Equal(t, "", a.AddNamespace("empty", ""))

	ns := a.Namespaces()
	assert.Equal(t, "http://example.com/", ns["ex2"])
	assert.Equal(t, rdf.RDFNamespace, ns["rdf"])
}

func Test_DerivedPrefixesAreUnique(t *testing.T) {
	a := NewAllocator()
	n1 := a.MustAllocate("http://one.org/data/X")
	n2 := a.MustAllocate("http://two.org/data/X")
	assert.Equal(t, "data:X", n1.Short())
	assert.Equal(t, "data2:X", n2.Short())
	id, ok := a.Identifier("data2:X")
	assert.True(t, ok)
	assert.Equal(t, rdf.IRI("http://two.org/data/X"), id)
}

func Test_CaseSensitive(t *testing.T) {
	a := NewAllocator()
	assert.Equal(t, "example:Foo", a.MustAllocate("http://example.org/Foo").Short())
	assert.Equal(t, "example:foo", a.MustAllocate("http://example.org/foo").Short())
}

func Test_LookupNamesReset(t *testing.T) {
	a := NewAllocator()
	for i := 3; i > 0; i-- {
		a.MustAllocate(rdf.IRI(fmt.Sprintf("http://example.org/n%d", i)))
	}
	name, ok := a.Lookup("http://example.org/n2")
	assert.True(t, ok)
	assert.Equal(t, "example:n2", name.Short())
	_, ok = a.Lookup("http://example.org/n4")
	assert.False(t, ok)

	var shorts []string
	for _, n := range a.Names() {
		shorts = append(shorts, n.String())
	}
	assert.Equal(t, []string{"example:n1", "example:n2", "example:n3"}, shorts)

	a.AddNamespace("zz", "http://zz.org/")
	a.Reset()
	assert.Equal(t, 0, a.Len())
	_, ok = a.Identifier("example:n1")
	assert.False(t, ok)
	_, ok = a.Namespaces()["zz"]
	assert.False(t, ok)
	_, ok = a.Namespaces()["rdf"]
	assert.True(t, ok)
}

func Test_Deterministic(t *testing.T) {
	ids := []rdf.IRI{
		"http://example.org/a:b",
		"http://example.org/a_b",
		"http://example.org/a-b",
		"http://other.org/x/a_b",
	}
	run := func() []Name {
		a := NewAllocator()
		var res []Name
		for _, id := range ids {
			res = append(res, a.MustAllocate(id))
		}
		return res
	}
	first := run()
	assert.Equal(t, first, run())
	assert.Equal(t, "example:a_b", first[0].Short())
	assert.Equal(t, "example:a_b_2", first[1].Short())
	assert.Equal(t, "example:a_b_3", first[2].Short())
	assert.Equal(t, "x:a_b", first[3].Short())
}

func Test_SafeName(t *testing.T) {
	tests := []struct {
		in     string
		expect string
	}{
		{"Person", "Person"},
		{"first name", "first_name"},
		{"Key:old:uic_ref", "Key_old_uic_ref"},
		{"9lives", "_9lives"},
		{"__schema", "n__schema"},
		{"_private", "_private"},
		{"café", "cafe"},
		{"über-cool", "uber_cool"},
		{"日本1", "n__1"},
		{"日本", "u65e5_672c"},
		{"東京", "u6771_4eac"},
		{"Ωμέγα", "u3a9_3bc_3b5_3b3_3b1"},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			actual, err := SafeName(test.in)
			assert.NoError(t, err)
			assert.Equal(t, test.expect, actual)
		})
	}
	for _, bad := range []string{"", "___", "%%", "→"} {
		_, err := SafeName(bad)
		assert.Error(t, err, "%q", bad)
	}
}

func Test_derivePrefix(t *testing.T) {
	tests := []struct {
		ns     string
		expect string
	}{
		{"https://www.openstreetmap.org/wiki/", "wiki"},
		{"http://example.org/", "example"},
		{"http://www.example.org/1.0/", "example"},
		{"urn:neo4j:", "neo4j"},
		{"", "ns"},
		{"http://127.0.0.1/", "ns"},
	}
	for _, test := range tests {
		assert.Equal(t, test.expect, derivePrefix(test.ns), test.ns)
	}
}

func Test_NameShort(t *testing.T) {
	assert.Equal(t, "ex:p", Name{Prefix: "ex", Local: "p"}.Short())
	assert.Equal(t, "p", Name{Local: "p"}.Short())
	assert.Equal(t, "p", Name{Local: "p"}.String())
}

func Test_AllocateNonLatin(t *testing.T) {
	a := NewAllocator()
	a.AddNamespace("ex", "http://ex.org/")
	tokyo, err := a.Allocate("http://ex.org/東京")
	require.NoError(t, err)
	assert.Equal(t, "ex:u6771_4eac", tokyo.Short())
	other, err := a.Allocate("http://ex.org/東京!")
	require.NoError(t, err)
	assert.Equal(t, "ex:u6771_4eac_2", other.Short())
}
